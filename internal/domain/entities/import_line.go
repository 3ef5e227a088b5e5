package entities

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ImportKind is the setting keyword of an import line.
type ImportKind string

const (
	ImportLibrary   ImportKind = "Library"
	ImportResource  ImportKind = "Resource"
	ImportVariables ImportKind = "Variables"
)

// ImportLine is the typed form of a suite or resource line that imports another file.
type ImportLine struct {
	Kind        ImportKind
	RawPath     string       // path token as written
	Arguments   []string     // cells between the path and the comment
	Comment     string       // from '#' to the end of the line, empty when absent
	Requirement *PackageSpec // set when the comment carries a "@pip:" annotation

	prefix string // keyword and separator, verbatim
	suffix string // everything after the path, including the line ending
}

var (
	importKeywordPattern = regexp.MustCompile(`(?i)^(library|resource|variables)(?:\t|  )[ \t]*`)
	cellSeparatorPattern = regexp.MustCompile(`\t+|  +`)
)

// SectionHeader returns the lowercased name of a "*** Name ***" section header line.
func SectionHeader(line string) (string, bool) {
	body, _ := splitLineEnding(line)
	if !strings.HasPrefix(body, "*") {
		return "", false
	}
	name := strings.Trim(body, "* \t")
	return strings.ToLower(strings.Join(strings.Fields(name), " ")), true
}

// IsSettingsSection reports whether a section may declare imports.
func IsSettingsSection(name string) bool {
	return name == "settings" || name == "setting"
}

// ClassifyLine returns the import declared by line, or nil when the line is not an import.
// The keyword must be followed by a cell separator: a tab or at least two spaces.
// The line may carry its line ending, which is preserved by Rewrite.
func ClassifyLine(line string) (*ImportLine, error) {
	body, eol := splitLineEnding(line)

	loc := importKeywordPattern.FindStringSubmatchIndex(body)
	if loc == nil {
		return nil, nil //nolint:nilnil // not an import line
	}

	start := loc[1]
	end := pathCellEnd(body, start)
	if end == start {
		return nil, nil //nolint:nilnil // keyword without a path
	}

	imp := &ImportLine{
		Kind:    importKind(body[loc[2]:loc[3]]),
		RawPath: body[start:end],
		prefix:  body[:start],
		suffix:  body[end:] + eol,
	}

	remainder := body[end:]
	if idx := commentStart(remainder); idx >= 0 {
		imp.Comment = strings.TrimRight(remainder[idx:], " \t")
		remainder = remainder[:idx]
	}
	for _, cell := range cellSeparatorPattern.Split(remainder, -1) {
		if cell = strings.TrimSpace(cell); cell != "" {
			imp.Arguments = append(imp.Arguments, cell)
		}
	}

	if markerIdx := strings.Index(imp.Comment, PipMarker); markerIdx >= 0 {
		specText := strings.TrimSpace(imp.Comment[markerIdx+len(PipMarker):])
		if specText == "" {
			return nil, fmt.Errorf("%w: empty %s annotation in %q", ErrInvalidPackageSpec, PipMarker, body)
		}
		spec, err := ParsePackageSpec(specText)
		if err != nil {
			return nil, err
		}
		imp.Requirement = &spec
	}

	return imp, nil
}

// Rewrite returns the original line with the path token replaced.
func (it *ImportLine) Rewrite(newPath string) string {
	return it.prefix + newPath + it.suffix
}

// BaseName is the last element of the path token, independent of the separator style.
func (it *ImportLine) BaseName() string {
	return path.Base(strings.ReplaceAll(it.RawPath, `\`, "/"))
}

// IsExternal reports whether the import is satisfied by an installed package.
func (it *ImportLine) IsExternal() bool {
	return it.Requirement != nil
}

// pathCellEnd finds where the path cell that begins at start ends. A tab, two spaces,
// a space before '#', or trailing whitespace terminate the cell.
func pathCellEnd(body string, start int) int {
	if start < len(body) && body[start] == '#' {
		return start
	}
	for i := start; i < len(body); i++ {
		switch body[i] {
		case '\t':
			return i
		case ' ':
			if i+1 == len(body) {
				return i
			}
			if next := body[i+1]; next == ' ' || next == '\t' || next == '#' {
				return i
			}
		}
	}
	return len(body)
}

// commentStart returns the index of the first '#' that begins a cell or follows whitespace.
func commentStart(remainder string) int {
	for i := 0; i < len(remainder); i++ {
		if remainder[i] != '#' {
			continue
		}
		if i == 0 || remainder[i-1] == ' ' || remainder[i-1] == '\t' {
			return i
		}
	}
	return -1
}

func splitLineEnding(line string) (string, string) {
	body := strings.TrimRight(line, "\r\n")
	return body, line[len(body):]
}

func importKind(keyword string) ImportKind {
	switch strings.ToLower(keyword) {
	case "resource":
		return ImportResource
	case "variables":
		return ImportVariables
	default:
		return ImportLibrary
	}
}
