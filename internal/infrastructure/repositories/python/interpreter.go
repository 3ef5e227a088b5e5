package python

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	logger "github.com/sirupsen/logrus"
)

// Interpreter locates the Python binary shared by the engine and the package installer.
type Interpreter struct {
	mu         sync.Mutex
	configured string
	resolved   string
}

// NewInterpreter creates an Interpreter that auto-detects the binary on first use.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Use pins the binary to path. An empty path restores auto-detection.
func (it *Interpreter) Use(path string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.configured = path
	it.resolved = ""
}

// Path returns the binary to run.
func (it *Interpreter) Path() (string, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.resolved != "" {
		return it.resolved, nil
	}

	if it.configured != "" {
		path, err := exec.LookPath(it.configured)
		if err != nil {
			return "", fmt.Errorf("configured python %q is not executable: %w", it.configured, err)
		}
		it.resolved = path
		return path, nil
	}

	path, err := findPythonBinary()
	if err != nil {
		return "", err
	}
	logger.Debugf("[python] Using %s", path)
	it.resolved = path
	return path, nil
}

func findPythonBinary() (string, error) {
	// Try python3 first, then python
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/bin/python3",
		"/usr/local/bin/python3",
		"/usr/bin/python",
		"/usr/local/bin/python",
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		commonPaths = append(commonPaths,
			filepath.Join(home, ".pyenv", "shims", "python3"),
			filepath.Join(home, ".pyenv", "shims", "python"),
		)
	}

	for _, p := range commonPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return p, nil
		}
	}

	return "", errors.New("python binary not found in PATH or common locations")
}
