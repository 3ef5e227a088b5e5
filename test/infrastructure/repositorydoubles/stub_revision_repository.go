//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

// StubRevisionRepository implements repositories.RevisionRepository.
type StubRevisionRepository struct {
	Revision  entities.Revision
	Versioned bool
	Err       error

	DescribedDirs []string
}

var _ repositories.RevisionRepository = (*StubRevisionRepository)(nil)

func (s *StubRevisionRepository) Describe(dir string) (entities.Revision, bool, error) {
	s.DescribedDirs = append(s.DescribedDirs, dir)
	return s.Revision, s.Versioned, s.Err
}
