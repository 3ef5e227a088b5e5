package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

const (
	dirFileMode       = 0o755
	textFileMode      = 0o644
	workspaceFileMode = 0o700
	workspacePrefix   = "robotremote-"
)

// FileRepository is the local disk implementation of repositories.FileRepository.
type FileRepository struct{}

// NewFileRepository creates a new FileRepository.
func NewFileRepository() repositories.FileRepository {
	return &FileRepository{}
}

func (it *FileRepository) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (it *FileRepository) WriteText(path string, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirFileMode); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(content), textFileMode)
}

func (it *FileRepository) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (it *FileRepository) ResolveOutputPath(filename string, outputDir string) (string, error) {
	if filepath.IsAbs(filename) {
		return filepath.Clean(filename), nil
	}
	resolved, err := filepath.Abs(filepath.Join(outputDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path %q: %w", filename, err)
	}
	return resolved, nil
}

// CreateWorkspace creates <baseDir>/robotremote-<uuid>, accessible to the current user only.
func (it *FileRepository) CreateWorkspace(baseDir string) (string, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := os.MkdirAll(baseDir, dirFileMode); err != nil {
		return "", err
	}

	root := filepath.Join(baseDir, workspacePrefix+uuid.NewString())
	if err := os.Mkdir(root, workspaceFileMode); err != nil {
		return "", err
	}
	return filepath.Abs(root)
}

func (it *FileRepository) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
