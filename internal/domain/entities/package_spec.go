package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Comparator is the version operator of a package spec.
type Comparator string

const (
	ComparatorNone           Comparator = ""
	ComparatorLessOrEqual    Comparator = "<="
	ComparatorLess           Comparator = "<"
	ComparatorGreaterOrEqual Comparator = ">="
	ComparatorGreater        Comparator = ">"
)

// PipMarker introduces a package spec inside an import line comment.
const PipMarker = "@pip:"

// PackageSpec names a third-party package, optionally pinned with a comparator and version.
type PackageSpec struct {
	Name       string
	Extras     string // e.g. "[security]", kept verbatim for the installer
	Comparator Comparator
	Version    string
}

// The alternation order matters: two-character operators must win over their prefixes.
var packageSpecPattern = regexp.MustCompile(
	`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)(\[[A-Za-z0-9,._ -]*\])?(?:(<=|>=|<|>)[ \t]*([A-Za-z0-9][A-Za-z0-9.+!*_-]*))?`,
)

var nameSeparatorPattern = regexp.MustCompile(`[-_.]+`)

// ParsePackageSpec parses "name[extras]<op>version". Text after the spec is ignored.
func ParsePackageSpec(raw string) (PackageSpec, error) {
	text := strings.TrimSpace(raw)
	match := packageSpecPattern.FindStringSubmatch(text)
	if match == nil {
		return PackageSpec{}, fmt.Errorf("%w: %q", ErrInvalidPackageSpec, raw)
	}

	rest := text[len(match[0]):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return PackageSpec{}, fmt.Errorf("%w: %q", ErrInvalidPackageSpec, raw)
	}
	if next := strings.TrimSpace(rest); next != "" && strings.ContainsAny(next[:1], "<>=!~") {
		return PackageSpec{}, fmt.Errorf("%w: %q (no whitespace allowed before the operator)", ErrInvalidPackageSpec, raw)
	}

	return PackageSpec{
		Name:       match[1],
		Extras:     match[2],
		Comparator: Comparator(match[3]),
		Version:    match[4],
	}, nil
}

// String renders the spec in the form the installer accepts.
func (it PackageSpec) String() string {
	return it.Name + it.Extras + string(it.Comparator) + it.Version
}

// NormalizedName is the PEP 503 form of the package name.
func (it PackageSpec) NormalizedName() string {
	return NormalizePackageName(it.Name)
}

// SatisfiedBy reports whether an installed version meets the spec. The second value is false
// when the check is inconclusive, e.g. a version that is not comparable.
func (it PackageSpec) SatisfiedBy(installed string) (bool, bool) {
	if it.Comparator == ComparatorNone {
		return true, true
	}

	current, currentOK := parseVersion(installed)
	wanted, wantedOK := parseVersion(it.Version)
	if !currentOK || !wantedOK {
		return false, false
	}

	cmp := current.compare(wanted)
	switch it.Comparator {
	case ComparatorLessOrEqual:
		return cmp <= 0, true
	case ComparatorLess:
		return cmp < 0, true
	case ComparatorGreaterOrEqual:
		return cmp >= 0, true
	case ComparatorGreater:
		return cmp > 0, true
	default:
		return false, false
	}
}

// NormalizePackageName lowercases a name and collapses "-", "_" and "." runs into "-".
func NormalizePackageName(name string) string {
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	return nameSeparatorPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// pythonVersionPattern covers the PEP 440 forms pip reports: a release of up to three parts,
// an optional a/b/rc pre-release and an optional post-release. Dev releases, epochs and local
// labels have no semver equivalent and stay inconclusive.
var pythonVersionPattern = regexp.MustCompile(
	`^v?(\d+(?:\.\d+){0,2})(?:[._-]?(a|alpha|b|beta|c|rc|pre|preview)[._-]?(\d*))?(?:[._-]?(post|rev|r)[._-]?(\d*))?$`,
)

var preReleaseLabels = map[string]string{
	"a": "alpha", "alpha": "alpha",
	"b": "beta", "beta": "beta",
	"c": "rc", "rc": "rc", "pre": "rc", "preview": "rc",
}

type version struct {
	semver string
	post   int // -1 without a post-release
}

func (it version) compare(other version) int {
	if cmp := semver.Compare(it.semver, other.semver); cmp != 0 {
		return cmp
	}
	switch {
	case it.post < other.post:
		return -1
	case it.post > other.post:
		return 1
	default:
		return 0
	}
}

// parseVersion maps a Python version onto semver, falling back to plain semver syntax.
func parseVersion(raw string) (version, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if match := pythonVersionPattern.FindStringSubmatch(text); match != nil {
		release := strings.Split(match[1], ".")
		for len(release) < 3 {
			release = append(release, "0")
		}
		canonical := "v" + strings.Join(release, ".")
		if match[2] != "" {
			canonical += "-" + preReleaseLabels[match[2]] + "." + numberOrZero(match[3])
		}
		parsed := version{semver: canonical, post: -1}
		if match[4] != "" {
			parsed.post, _ = strconv.Atoi(numberOrZero(match[5]))
		}
		return parsed, semver.IsValid(canonical)
	}

	canonical := normalizeVersion(text)
	return version{semver: canonical, post: -1}, semver.IsValid(canonical)
}

func numberOrZero(digits string) string {
	if digits == "" {
		return "0"
	}
	return digits
}

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(raw string) string {
	if raw == "" {
		return ""
	}
	return "v" + strings.TrimPrefix(raw, "v")
}
