package entities

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// SuiteFile is one test suite in a bundle. The filename is the map key in Bundle.Suites.
type SuiteFile struct {
	RelativeDirPath string `json:"path"`       // "/" separated, empty for the bundle root
	RewrittenText   string `json:"suite_data"` // suite content after import rewriting
}

// Bundle is the self-contained package the client sends for a single run.
type Bundle struct {
	Suites         map[string]SuiteFile `json:"suites"`          // suite filename -> suite
	Dependencies   map[string]string    `json:"dependencies"`    // dependency filename -> content
	Packages       map[string]string    `json:"packages"`        // import reference -> package spec
	EnforceUpgrade bool                 `json:"enforce_upgrade"` // client asks for installation of every package
	Options        map[string]any       `json:"options"`         // engine run options
}

// NewBundle creates an empty bundle with all maps initialised.
func NewBundle() *Bundle {
	return &Bundle{
		Suites:       map[string]SuiteFile{},
		Dependencies: map[string]string{},
		Packages:     map[string]string{},
		Options:      map[string]any{},
	}
}

// SuiteNames returns the suite filenames in lexical order.
func (it *Bundle) SuiteNames() []string {
	return sortedKeys(it.Suites)
}

// DependencyNames returns the dependency filenames in lexical order.
func (it *Bundle) DependencyNames() []string {
	return sortedKeys(it.Dependencies)
}

// Validate checks that every entry stays inside the workspace once materialized.
func (it *Bundle) Validate() error {
	for name, suite := range it.Suites {
		if err := ValidateFilename(name); err != nil {
			return fmt.Errorf("suite %q: %w", name, err)
		}
		if err := ValidateRelativeDir(suite.RelativeDirPath); err != nil {
			return fmt.Errorf("suite %q: %w", name, err)
		}
	}
	for name := range it.Dependencies {
		if err := ValidateFilename(name); err != nil {
			return fmt.Errorf("dependency %q: %w", name, err)
		}
		if suite, exists := it.Suites[name]; exists && suite.RelativeDirPath == "" {
			return fmt.Errorf("%w: suite %q collides with a dependency of the same name", ErrDuplicateSuite, name)
		}
	}
	return nil
}

// ValidateFilename accepts a bare file name only.
func ValidateFilename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q is not a bare filename", ErrUnsafePath, name)
	}
	return nil
}

// ValidateRelativeDir accepts a forward-slash relative directory that does not leave the root.
func ValidateRelativeDir(dir string) error {
	if dir == "" {
		return nil
	}
	if strings.ContainsRune(dir, '\\') || strings.ContainsRune(dir, 0) || path.IsAbs(dir) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, dir)
	}
	for _, segment := range strings.Split(dir, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafePath, dir)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
