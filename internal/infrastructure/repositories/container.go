package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/git"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/python"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/robot"
	"github.com/rios0rios0/robotremote/internal/infrastructure/transport"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	for _, constructor := range []interface{}{
		python.NewInterpreter,
		python.NewPipPackageRepository,
		filesystem.NewFileRepository,
		robot.NewSuiteRepository,
		robot.NewEngineRepository,
		git.NewRevisionRepository,
		transport.NewRunnerFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}
