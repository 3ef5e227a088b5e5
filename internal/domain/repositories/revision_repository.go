package repositories

import "github.com/rios0rios0/robotremote/internal/domain/entities"

// RevisionRepository describes the version-control state of a directory.
type RevisionRepository interface {
	// Describe returns the revision of the repository containing dir, or false when dir is not versioned.
	Describe(dir string) (entities.Revision, bool, error)
}
