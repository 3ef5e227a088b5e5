package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

const shortHashLength = 12

// RevisionRepository reads the HEAD of the git repository that contains a directory.
type RevisionRepository struct{}

// NewRevisionRepository creates a new RevisionRepository.
func NewRevisionRepository() repositories.RevisionRepository {
	return &RevisionRepository{}
}

func (it *RevisionRepository) Describe(dir string) (entities.Revision, bool, error) {
	//nolint:exhaustruct // only parent discovery is needed
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return entities.Revision{}, false, nil
	}
	if err != nil {
		return entities.Revision{}, false, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	head, err := repo.Head()
	if err != nil {
		return entities.Revision{}, false, fmt.Errorf("failed to read HEAD: %w", err)
	}

	hash := head.Hash().String()
	if len(hash) > shortHashLength {
		hash = hash[:shortHashLength]
	}

	//nolint:exhaustruct // branch and dirty flag are filled below
	revision := entities.Revision{Hash: hash}
	if head.Name().IsBranch() {
		revision.Branch = head.Name().Short()
	}

	if worktree, worktreeErr := repo.Worktree(); worktreeErr == nil {
		if status, statusErr := worktree.Status(); statusErr == nil {
			revision.Dirty = !status.IsClean()
		}
	}

	return revision, true, nil
}
