//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

// BundleBuilder helps create test bundles with a fluent interface.
type BundleBuilder struct {
	*testkit.BaseBuilder
	suites         map[string]entities.SuiteFile
	dependencies   map[string]string
	packages       map[string]string
	enforceUpgrade bool
	options        map[string]any
}

// NewBundleBuilder creates a new bundle builder with a single root suite.
func NewBundleBuilder() *BundleBuilder {
	b := &BundleBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.defaults()
	return b
}

func (b *BundleBuilder) defaults() {
	b.suites = map[string]entities.SuiteFile{
		"a.robot": {RelativeDirPath: "", RewrittenText: "*** Test Cases ***\nExample\n    No Operation\n"},
	}
	b.dependencies = map[string]string{}
	b.packages = map[string]string{}
	b.enforceUpgrade = false
	b.options = map[string]any{}
}

// WithoutSuites removes every suite.
func (b *BundleBuilder) WithoutSuites() *BundleBuilder {
	b.suites = map[string]entities.SuiteFile{}
	return b
}

// WithSuite adds a suite under the given relative directory.
func (b *BundleBuilder) WithSuite(name, relativeDir, text string) *BundleBuilder {
	b.suites[name] = entities.SuiteFile{RelativeDirPath: relativeDir, RewrittenText: text}
	return b
}

// WithDependency adds a dependency file.
func (b *BundleBuilder) WithDependency(name, content string) *BundleBuilder {
	b.dependencies[name] = content
	return b
}

// WithPackage adds an external package requirement.
func (b *BundleBuilder) WithPackage(reference, spec string) *BundleBuilder {
	b.packages[reference] = spec
	return b
}

// WithEnforceUpgrade sets the client enforce flag.
func (b *BundleBuilder) WithEnforceUpgrade(enforce bool) *BundleBuilder {
	b.enforceUpgrade = enforce
	return b
}

// WithOption sets an engine run option.
func (b *BundleBuilder) WithOption(key string, value any) *BundleBuilder {
	b.options[key] = value
	return b
}

// Build creates the bundle (satisfies testkit.Builder interface).
func (b *BundleBuilder) Build() interface{} {
	return b.BuildBundle()
}

// BuildBundle creates the bundle with a concrete return type.
func (b *BundleBuilder) BuildBundle() *entities.Bundle {
	bundle := entities.NewBundle()
	for name, suite := range b.suites {
		bundle.Suites[name] = suite
	}
	for name, content := range b.dependencies {
		bundle.Dependencies[name] = content
	}
	for reference, spec := range b.packages {
		bundle.Packages[reference] = spec
	}
	for key, value := range b.options {
		bundle.Options[key] = value
	}
	bundle.EnforceUpgrade = b.enforceUpgrade
	return bundle
}

// Reset clears the builder state, allowing it to be reused.
func (b *BundleBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.defaults()
	return b
}

// Clone creates a deep copy of the BundleBuilder.
func (b *BundleBuilder) Clone() testkit.Builder {
	clone := &BundleBuilder{
		BaseBuilder:    b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		suites:         map[string]entities.SuiteFile{},
		dependencies:   map[string]string{},
		packages:       map[string]string{},
		enforceUpgrade: b.enforceUpgrade,
		options:        map[string]any{},
	}
	for name, suite := range b.suites {
		clone.suites[name] = suite
	}
	for name, content := range b.dependencies {
		clone.dependencies[name] = content
	}
	for reference, spec := range b.packages {
		clone.packages[reference] = spec
	}
	for key, value := range b.options {
		clone.options[key] = value
	}
	return clone
}
