package robot

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/domain/repositories"
)

var (
	sectionHeaderPattern = regexp.MustCompile(`^\*+`)
	testSectionPattern   = regexp.MustCompile(`(?i)^\*+\s*(test\s*cases?|tasks?)\s*\**\s*$`)
)

// SuiteRepository builds the suite hierarchy from directories on disk.
type SuiteRepository struct{}

// NewSuiteRepository creates a new SuiteRepository.
func NewSuiteRepository() repositories.SuiteRepository {
	return &SuiteRepository{}
}

// BuildTree returns the hierarchy of inputDirs. A single directory becomes the root; several
// directories are placed under a virtual root, so their names become the first path segment.
func (it *SuiteRepository) BuildTree(
	ctx context.Context,
	inputDirs []string,
	extensions []string,
) (*entities.SuiteNode, error) {
	accepted := map[string]bool{}
	for _, ext := range extensions {
		accepted[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	if len(inputDirs) == 1 {
		return it.buildNode(ctx, inputDirs[0], accepted)
	}

	//nolint:exhaustruct // virtual root has no source
	root := &entities.SuiteNode{}
	for _, dir := range inputDirs {
		child, err := it.buildNode(ctx, dir, accepted)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

func (it *SuiteRepository) buildNode(
	ctx context.Context,
	path string,
	accepted map[string]bool,
) (*entities.SuiteNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}

	//nolint:exhaustruct // parent and children are linked below
	node := &entities.SuiteNode{Name: filepath.Base(abs), Source: abs, IsFile: !info.IsDir()}
	if node.IsFile {
		node.HasTests, err = containsTests(abs)
		return node, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", abs, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		if !entry.IsDir() && !accepted[strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))] {
			continue
		}

		child, childErr := it.buildNode(ctx, filepath.Join(abs, name), accepted)
		if childErr != nil {
			return nil, childErr
		}
		node.AddChild(child)
	}

	logger.Debugf("[crawler] %s: %d entries", abs, len(node.Children))
	return node, nil
}

// containsTests reports whether the file has a test case or task section with at least one entry.
func containsTests(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	inTests := false
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		switch {
		case sectionHeaderPattern.MatchString(line):
			inTests = testSectionPattern.MatchString(line)
		case inTests && line != "" && line[0] != ' ' && line[0] != '\t' && line[0] != '#':
			return true, nil
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, scanErr)
	}
	return false, nil
}
