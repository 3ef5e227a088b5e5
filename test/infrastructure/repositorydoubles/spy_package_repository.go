//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// SpyPackageRepository implements repositories.PackageRepository as a configurable spy.
type SpyPackageRepository struct {
	// --- Installed ---
	InstalledPackages map[string]string
	InstalledErr      error

	// --- Install ---
	InstallErr   error
	InstallDelay time.Duration

	mu             sync.Mutex
	InstalledCalls int
	InstallCalls   []InstallCall

	active        atomic.Int32
	MaxConcurrent atomic.Int32
}

// InstallCall records a single invocation of Install.
type InstallCall struct {
	Specs   []string
	Upgrade bool
}

var _ repositories.PackageRepository = (*SpyPackageRepository)(nil)

func (s *SpyPackageRepository) Installed(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InstalledCalls++
	result := map[string]string{}
	for name, version := range s.InstalledPackages {
		result[name] = version
	}
	return result, s.InstalledErr
}

func (s *SpyPackageRepository) Install(_ context.Context, specs []string, upgrade bool) error {
	current := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		peak := s.MaxConcurrent.Load()
		if current <= peak || s.MaxConcurrent.CompareAndSwap(peak, current) {
			break
		}
	}

	time.Sleep(s.InstallDelay)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.InstallCalls = append(s.InstallCalls, InstallCall{Specs: append([]string(nil), specs...), Upgrade: upgrade})
	return s.InstallErr
}

// InstallCount returns the number of Install calls.
func (s *SpyPackageRepository) InstallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.InstallCalls)
}
