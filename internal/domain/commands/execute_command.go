package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// Execute is the interface for the server side of a remote run.
type Execute interface {
	Execute(
		ctx context.Context,
		settings *entities.ServerSettings,
		bundle *entities.Bundle,
		debug bool,
	) (*entities.ExecutionResult, error)
}

// ExecuteCommand runs one bundle: reconcile packages -> materialize -> run the engine -> collect artifacts.
type ExecuteCommand struct {
	reconciler   Reconcile
	materializer *WorkspaceMaterializer
	collector    *ArtifactCollector
	engine       repositories.EngineRepository
}

// NewExecuteCommand creates a new ExecuteCommand.
func NewExecuteCommand(
	reconciler Reconcile,
	materializer *WorkspaceMaterializer,
	collector *ArtifactCollector,
	engine repositories.EngineRepository,
) *ExecuteCommand {
	return &ExecuteCommand{
		reconciler:   reconciler,
		materializer: materializer,
		collector:    collector,
		engine:       engine,
	}
}

// Execute runs the bundle in its own workspace. The workspace is removed afterwards unless
// the server or the request asked for diagnostics mode.
func (it *ExecuteCommand) Execute(
	ctx context.Context,
	settings *entities.ServerSettings,
	bundle *entities.Bundle,
	debug bool,
) (*entities.ExecutionResult, error) {
	diagnostics := settings.Debug || debug
	log := newRunLogger(diagnostics).WithField("run_id", uuid.NewString())
	log.Infof("Starting run with %d suites and %d dependencies", len(bundle.Suites), len(bundle.Dependencies))

	if err := bundle.Validate(); err != nil {
		log.Errorf("Rejected bundle: %v", err)
		return nil, fmt.Errorf("%w: %w", entities.ErrInvalidBundle, err)
	}

	if _, err := it.reconciler.Execute(ctx, ReconcileRequest{
		Packages:       bundle.Packages,
		Policy:         settings.UpgradePolicy,
		EnforceUpgrade: bundle.EnforceUpgrade,
	}, log); err != nil {
		log.Errorf("[packages] %v", err)
		return nil, err
	}

	root, err := it.materializer.Materialize(settings.WorkspaceDir, bundle)
	if err != nil {
		log.Errorf("[workspace] %v", err)
		return nil, fmt.Errorf("%w: %w", entities.ErrExecutionFailed, err)
	}
	defer it.materializer.Teardown(root, diagnostics, log)
	log.Debugf("[workspace] Materialized %s", root)

	var console bytes.Buffer
	retCode, runErr := it.engine.Run(ctx, repositories.EngineRun{
		Dir:     root,
		Options: bundle.Options,
		Output:  &console,
	})
	if runErr != nil {
		log.WithField("output", console.String()).Errorf("[engine] %v", runErr)
		return nil, fmt.Errorf("%w: %w", entities.ErrExecutionFailed, runErr)
	}
	log.Infof("[engine] Finished with return code %d", retCode)

	artifacts, collectErr := it.collector.Collect(root)
	if collectErr != nil {
		log.Errorf("[workspace] %v", collectErr)
		return nil, fmt.Errorf("%w: %w", entities.ErrExecutionFailed, collectErr)
	}

	return entities.NewExecutionResult(console.Bytes(), artifacts, retCode), nil
}

// newRunLogger returns a logger for one run. Diagnostics mode raises its level without
// touching the process-wide logger.
func newRunLogger(diagnostics bool) *logger.Logger {
	standard := logger.StandardLogger()

	log := logger.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(standard.Formatter)
	log.SetLevel(standard.GetLevel())
	if diagnostics {
		log.SetLevel(logger.DebugLevel)
	}
	return log
}
