//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// StubRunnerRepository implements repositories.RunnerRepository.
type StubRunnerRepository struct {
	// --- TestConnection ---
	ConnectionReply string
	ConnectionErr   error

	// --- Execute ---
	Result     *entities.ExecutionResult
	ExecuteErr error

	TestConnectionCalls int
	ExecuteCalls        int
	LastBundle          *entities.Bundle
	LastDebug           bool
}

var _ repositories.RunnerRepository = (*StubRunnerRepository)(nil)

func (s *StubRunnerRepository) TestConnection(_ context.Context) (string, error) {
	s.TestConnectionCalls++
	return s.ConnectionReply, s.ConnectionErr
}

func (s *StubRunnerRepository) Execute(
	_ context.Context,
	bundle *entities.Bundle,
	debug bool,
) (*entities.ExecutionResult, error) {
	s.ExecuteCalls++
	s.LastBundle = bundle
	s.LastDebug = debug
	return s.Result, s.ExecuteErr
}

// Factory returns a RunnerFactory that always hands out this stub.
func (s *StubRunnerRepository) Factory() repositories.RunnerFactory {
	return func(_ *entities.ClientSettings) (repositories.RunnerRepository, error) {
		return s, nil
	}
}
