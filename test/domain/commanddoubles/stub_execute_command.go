//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"
	"time"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// StubExecuteCommand is a stub implementation of commands.Execute.
type StubExecuteCommand struct {
	Result     *entities.ExecutionResult
	ExecuteErr error
	Panic      any
	Delay      time.Duration

	mu         sync.Mutex
	CallCount  int
	LastBundle *entities.Bundle
	LastDebug  bool
	CtxErrs    []error // ctx.Err() observed when each call finished
}

var _ commands.Execute = (*StubExecuteCommand)(nil)

func (s *StubExecuteCommand) Execute(
	ctx context.Context,
	_ *entities.ServerSettings,
	bundle *entities.Bundle,
	debug bool,
) (*entities.ExecutionResult, error) {
	if s.Panic != nil {
		panic(s.Panic)
	}
	time.Sleep(s.Delay)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.CallCount++
	s.LastBundle = bundle
	s.LastDebug = debug
	s.CtxErrs = append(s.CtxErrs, ctx.Err())
	return s.Result, s.ExecuteErr
}

// Calls returns the number of Execute calls.
func (s *StubExecuteCommand) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.CallCount
}
