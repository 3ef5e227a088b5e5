package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

const curDirVariable = "${CURDIR}"

// builtinLibraries ship with the engine and are never fetched.
//
//nolint:gochecknoglobals // read-only lookup table
var builtinLibraries = map[string]bool{
	"BuiltIn":         true,
	"Collections":     true,
	"DateTime":        true,
	"Dialogs":         true,
	"Easter":          true,
	"OperatingSystem": true,
	"Process":         true,
	"Remote":          true,
	"Reserved":        true,
	"Screenshot":      true,
	"String":          true,
	"Telnet":          true,
	"XML":             true,
}

// Crawl is the interface for the dependency crawler.
type Crawl interface {
	Execute(ctx context.Context, root *entities.SuiteNode) (*entities.Bundle, error)
}

// CrawlCommand walks a suite hierarchy and its local imports and builds a self-contained bundle.
type CrawlCommand struct {
	files repositories.FileRepository
}

// NewCrawlCommand creates a new CrawlCommand.
func NewCrawlCommand(files repositories.FileRepository) *CrawlCommand {
	return &CrawlCommand{files: files}
}

// crawlState is the bookkeeping of one crawl.
type crawlState struct {
	bundle  *entities.Bundle
	visited map[string]bool   // absolute paths already resolved or being resolved
	claimed map[string]string // dependency filename -> absolute path that owns it
}

// Execute builds the bundle for every suite below root that directly contains test cases.
// Nothing is returned on error, so a partial bundle can never be sent.
func (it *CrawlCommand) Execute(ctx context.Context, root *entities.SuiteNode) (*entities.Bundle, error) {
	state := &crawlState{
		bundle:  entities.NewBundle(),
		visited: map[string]bool{},
		claimed: map[string]string{},
	}

	walkErr := root.Walk(func(node *entities.SuiteNode) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !node.IsFile || !node.HasTests {
			return nil
		}
		if _, exists := state.bundle.Suites[node.Name]; exists {
			return fmt.Errorf("%w: %q (%s)", entities.ErrDuplicateSuite, node.Name, node.Source)
		}

		logger.Debugf("[crawler] Processing suite %s", node.Source)
		text, err := it.rewriteFile(state, node.Source)
		if err != nil {
			return err
		}

		state.bundle.Suites[node.Name] = entities.SuiteFile{
			RelativeDirPath: node.RelativeDirPath(),
			RewrittenText:   text,
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if len(state.bundle.Suites) == 0 {
		return nil, entities.ErrNoSuites
	}

	logger.Infof(
		"[crawler] Bundled %d suites, %d dependencies, %d packages",
		len(state.bundle.Suites), len(state.bundle.Dependencies), len(state.bundle.Packages),
	)
	return state.bundle, nil
}

// rewriteFile returns the content of source with every import pointing at a bare filename.
// Only lines of a settings section can declare imports.
func (it *CrawlCommand) rewriteFile(state *crawlState, source string) (string, error) {
	state.visited[source] = true

	content, err := it.files.ReadText(source)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", source, err)
	}

	var sb strings.Builder
	inSettings := false
	for number, line := range strings.SplitAfter(content, "\n") {
		if section, isHeader := entities.SectionHeader(line); isHeader {
			inSettings = entities.IsSettingsSection(section)
		}
		if !inSettings {
			sb.WriteString(line)
			continue
		}

		imp, classifyErr := entities.ClassifyLine(line)
		if classifyErr != nil {
			return "", fmt.Errorf("%s:%d: %w", source, number+1, classifyErr)
		}
		if imp == nil {
			sb.WriteString(line)
			continue
		}

		if resolveErr := it.resolveImport(state, source, imp); resolveErr != nil {
			return "", fmt.Errorf("%s:%d: %w", source, number+1, resolveErr)
		}
		sb.WriteString(imp.Rewrite(imp.BaseName()))
	}

	return sb.String(), nil
}

// resolveImport records what imp needs in the bundle.
func (it *CrawlCommand) resolveImport(state *crawlState, source string, imp *entities.ImportLine) error {
	if imp.IsExternal() {
		state.bundle.Packages[imp.RawPath] = imp.Requirement.String()
		logger.Debugf("[crawler] %s requires package %s", imp.RawPath, imp.Requirement)
		return nil
	}
	if imp.Kind == entities.ImportLibrary && builtinLibraries[imp.RawPath] {
		return nil
	}

	resolved, err := it.locate(source, imp)
	if err != nil {
		return err
	}
	if state.visited[resolved] {
		return nil
	}

	filename := filepath.Base(resolved)
	if owner, taken := state.claimed[filename]; taken {
		logger.Warnf(
			"[crawler] Skipping %s: filename %q is already taken by %s",
			resolved, filename, owner,
		)
		return nil
	}
	state.claimed[filename] = resolved

	if imp.Kind == entities.ImportResource {
		rewritten, rewriteErr := it.rewriteFile(state, resolved)
		if rewriteErr != nil {
			return rewriteErr
		}
		state.bundle.Dependencies[filename] = rewritten
		return nil
	}

	state.visited[resolved] = true
	content, readErr := it.files.ReadText(resolved)
	if readErr != nil {
		return fmt.Errorf("failed to read %s: %w", resolved, readErr)
	}
	state.bundle.Dependencies[filename] = content
	return nil
}

// locate resolves the import path against the directory of the importing file.
func (it *CrawlCommand) locate(source string, imp *entities.ImportLine) (string, error) {
	baseDir := filepath.Dir(source)

	token := strings.ReplaceAll(imp.RawPath, curDirVariable, baseDir)
	token = filepath.FromSlash(strings.ReplaceAll(token, `\`, "/"))
	if !filepath.IsAbs(token) {
		token = filepath.Join(baseDir, token)
	}

	candidates := []string{token}
	if imp.Kind != entities.ImportResource && filepath.Ext(token) == "" {
		candidates = append(candidates, token+".py")
	}

	for _, candidate := range candidates {
		if it.files.IsFile(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", fmt.Errorf("failed to resolve %s: %w", candidate, err)
			}
			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: %s %q (looked for %s)",
		entities.ErrUnresolvedDependency, imp.Kind, imp.RawPath, strings.Join(candidates, ", "))
}
