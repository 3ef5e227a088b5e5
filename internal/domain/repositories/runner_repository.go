package repositories

import (
	"context"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// RunnerRepository is the client side of the remote worker.
// Implementations make exactly one network call per method invocation and never retry.
type RunnerRepository interface {
	TestConnection(ctx context.Context) (string, error)
	Execute(ctx context.Context, bundle *entities.Bundle, debug bool) (*entities.ExecutionResult, error)
}

// RunnerFactory builds a RunnerRepository for one set of connection settings.
type RunnerFactory func(settings *entities.ClientSettings) (RunnerRepository, error)
