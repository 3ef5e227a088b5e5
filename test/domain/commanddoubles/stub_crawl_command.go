//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// StubCrawlCommand is a stub implementation of commands.Crawl.
type StubCrawlCommand struct {
	Bundle   *entities.Bundle
	CrawlErr error

	CallCount int
	LastRoot  *entities.SuiteNode
}

var _ commands.Crawl = (*StubCrawlCommand)(nil)

func (s *StubCrawlCommand) Execute(_ context.Context, root *entities.SuiteNode) (*entities.Bundle, error) {
	s.CallCount++
	s.LastRoot = root
	return s.Bundle, s.CrawlErr
}
