//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"io"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// StubRunCommand is a stub implementation of commands.Run.
type StubRunCommand struct {
	Report     *commands.RunReport
	Console    string
	ExecuteErr error

	ExecuteCallCount int
	LastSettings     *entities.ClientSettings
	LastOpts         commands.RunOptions
}

var _ commands.Run = (*StubRunCommand)(nil)

func (s *StubRunCommand) Execute(
	_ context.Context,
	settings *entities.ClientSettings,
	opts commands.RunOptions,
	out io.Writer,
) (*commands.RunReport, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	_, _ = io.WriteString(out, s.Console)
	return s.Report, s.ExecuteErr
}
