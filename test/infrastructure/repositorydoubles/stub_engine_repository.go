//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// StubEngineRepository implements repositories.EngineRepository. It writes the configured
// artifacts into the run directory and records what it saw there.
type StubEngineRepository struct {
	// --- Run ---
	Artifacts map[string]string // file name -> content written into the workspace
	Console   string
	RetCode   int
	RunErr    error
	Panic     any

	mu      sync.Mutex
	Runs    []repositories.EngineRun
	Entries [][]string // workspace listing, relative slash paths, per run
}

var _ repositories.EngineRepository = (*StubEngineRepository)(nil)

func (s *StubEngineRepository) Run(_ context.Context, run repositories.EngineRun) (int, error) {
	if s.Panic != nil {
		panic(s.Panic)
	}

	var entries []string
	_ = filepath.WalkDir(run.Dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			rel, _ := filepath.Rel(run.Dir, path)
			entries = append(entries, filepath.ToSlash(rel))
		}
		return nil
	})

	s.mu.Lock()
	s.Runs = append(s.Runs, run)
	s.Entries = append(s.Entries, entries)
	s.mu.Unlock()

	if run.Output != nil {
		_, _ = run.Output.Write([]byte(s.Console))
	}
	if s.RunErr != nil {
		return 0, s.RunErr
	}
	for name, content := range s.Artifacts {
		if err := os.WriteFile(filepath.Join(run.Dir, name), []byte(content), 0o600); err != nil {
			return 0, err
		}
	}
	return s.RetCode, nil
}

// RunCount returns the number of Run calls.
func (s *StubEngineRepository) RunCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Runs)
}
