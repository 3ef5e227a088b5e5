//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// StubSuiteRepository implements repositories.SuiteRepository.
type StubSuiteRepository struct {
	Tree     *entities.SuiteNode
	BuildErr error

	LastInputDirs  []string
	LastExtensions []string
}

var _ repositories.SuiteRepository = (*StubSuiteRepository)(nil)

func (s *StubSuiteRepository) BuildTree(
	_ context.Context,
	inputDirs []string,
	extensions []string,
) (*entities.SuiteNode, error) {
	s.LastInputDirs = inputDirs
	s.LastExtensions = extensions
	return s.Tree, s.BuildErr
}
