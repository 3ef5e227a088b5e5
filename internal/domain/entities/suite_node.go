package entities

import "strings"

// SuiteNode is one node of the suite hierarchy: a directory or a suite file.
type SuiteNode struct {
	Name     string // directory or file name, without any path
	Source   string // absolute path on the client, empty for a virtual root
	IsFile   bool
	HasTests bool // the file directly contains at least one test case
	Parent   *SuiteNode
	Children []*SuiteNode
}

// AddChild links child under the node and returns it.
func (it *SuiteNode) AddChild(child *SuiteNode) *SuiteNode {
	child.Parent = it
	it.Children = append(it.Children, child)
	return child
}

// RelativeDirPath joins the names of the ancestors below the root with "/".
// Suites directly under the root get an empty path.
func (it *SuiteNode) RelativeDirPath() string {
	var family []string
	for current := it.Parent; current != nil && current.Parent != nil; current = current.Parent {
		family = append(family, current.Name)
	}
	for i, j := 0, len(family)-1; i < j; i, j = i+1, j-1 {
		family[i], family[j] = family[j], family[i]
	}
	return strings.Join(family, "/")
}

// Walk visits the node and its descendants depth-first, parents before children.
func (it *SuiteNode) Walk(visit func(node *SuiteNode) error) error {
	if err := visit(it); err != nil {
		return err
	}
	for _, child := range it.Children {
		if err := child.Walk(visit); err != nil {
			return err
		}
	}
	return nil
}
