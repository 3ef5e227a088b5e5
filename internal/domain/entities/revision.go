package entities

import "fmt"

// Revision identifies the version-control state of the client's suite sources.
type Revision struct {
	Hash   string
	Branch string // empty for a detached HEAD
	Dirty  bool
}

// String renders the revision as run metadata.
func (it Revision) String() string {
	text := it.Hash
	if it.Branch != "" {
		text = fmt.Sprintf("%s (%s)", it.Hash, it.Branch)
	}
	if it.Dirty {
		text += " +local changes"
	}
	return text
}
