package commands

import (
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// WorkspaceMaterializer expands a bundle into an ephemeral directory tree and removes it afterwards.
type WorkspaceMaterializer struct {
	files repositories.FileRepository
}

// NewWorkspaceMaterializer creates a new WorkspaceMaterializer.
func NewWorkspaceMaterializer(files repositories.FileRepository) *WorkspaceMaterializer {
	return &WorkspaceMaterializer{files: files}
}

// Materialize writes every suite under its relative directory and every dependency flat at the root.
// The workspace is created under baseDir, or the OS temp dir when baseDir is empty.
// On error nothing is left on disk.
func (it *WorkspaceMaterializer) Materialize(baseDir string, bundle *entities.Bundle) (string, error) {
	if err := bundle.Validate(); err != nil {
		return "", err
	}

	root, err := it.files.CreateWorkspace(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}

	if writeErr := it.write(root, bundle); writeErr != nil {
		if removeErr := it.files.RemoveAll(root); removeErr != nil {
			logger.Warnf("[workspace] Failed to remove %s: %v", root, removeErr)
		}
		return "", writeErr
	}

	return root, nil
}

func (it *WorkspaceMaterializer) write(root string, bundle *entities.Bundle) error {
	for _, name := range bundle.DependencyNames() {
		if err := it.files.WriteText(filepath.Join(root, name), bundle.Dependencies[name]); err != nil {
			return fmt.Errorf("failed to write dependency %q: %w", name, err)
		}
	}

	for _, name := range bundle.SuiteNames() {
		suite := bundle.Suites[name]
		target := filepath.Join(root, filepath.FromSlash(suite.RelativeDirPath), name)
		if err := it.files.WriteText(target, suite.RewrittenText); err != nil {
			return fmt.Errorf("failed to write suite %q: %w", name, err)
		}
	}

	return nil
}

// Teardown deletes the workspace unless keep is set.
func (it *WorkspaceMaterializer) Teardown(root string, keep bool, log *logger.Entry) {
	if keep {
		log.Infof("[workspace] Keeping %s for inspection", root)
		return
	}
	if err := it.files.RemoveAll(root); err != nil {
		log.Warnf("[workspace] Failed to remove %s: %v", root, err)
		return
	}
	log.Debugf("[workspace] Removed %s", root)
}
