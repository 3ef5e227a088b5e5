//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// SuiteNodeBuilder helps create suite hierarchies with a fluent interface.
type SuiteNodeBuilder struct {
	*testkit.BaseBuilder
	name     string
	source   string
	isFile   bool
	hasTests bool
	children []*SuiteNodeBuilder
}

// NewSuiteNodeBuilder creates a directory node builder.
func NewSuiteNodeBuilder() *SuiteNodeBuilder {
	return &SuiteNodeBuilder{BaseBuilder: testkit.NewBaseBuilder(), name: "suites"}
}

// WithName sets the node name.
func (b *SuiteNodeBuilder) WithName(name string) *SuiteNodeBuilder {
	b.name = name
	return b
}

// WithSource sets the node source path.
func (b *SuiteNodeBuilder) WithSource(source string) *SuiteNodeBuilder {
	b.source = source
	return b
}

// AsSuite marks the node as a suite file, with or without test cases.
func (b *SuiteNodeBuilder) AsSuite(hasTests bool) *SuiteNodeBuilder {
	b.isFile = true
	b.hasTests = hasTests
	return b
}

// WithChild appends a child node.
func (b *SuiteNodeBuilder) WithChild(child *SuiteNodeBuilder) *SuiteNodeBuilder {
	b.children = append(b.children, child)
	return b
}

// Build creates the node (satisfies testkit.Builder interface).
func (b *SuiteNodeBuilder) Build() interface{} {
	return b.BuildNode()
}

// BuildNode creates the node and its children, linked to each other.
func (b *SuiteNodeBuilder) BuildNode() *entities.SuiteNode {
	//nolint:exhaustruct // parent and children are linked below
	node := &entities.SuiteNode{
		Name:     b.name,
		Source:   b.source,
		IsFile:   b.isFile,
		HasTests: b.hasTests,
	}
	for _, child := range b.children {
		node.AddChild(child.BuildNode())
	}
	return node
}

// Reset clears the builder state, allowing it to be reused.
func (b *SuiteNodeBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "suites"
	b.source = ""
	b.isFile = false
	b.hasTests = false
	b.children = nil
	return b
}

// Clone creates a deep copy of the SuiteNodeBuilder.
func (b *SuiteNodeBuilder) Clone() testkit.Builder {
	clone := &SuiteNodeBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		source:      b.source,
		isFile:      b.isFile,
		hasTests:    b.hasTests,
	}
	for _, child := range b.children {
		clone.children = append(clone.children, child.Clone().(*SuiteNodeBuilder))
	}
	return clone
}
