//go:build unit

package commands_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/robotremote/test/domain/entitybuilders"
)

const testCases = "\n*** Test Cases ***\nExample\n    No Operation\n"

func suiteNode(dir, name string) *entitybuilders.SuiteNodeBuilder {
	return entitybuilders.NewSuiteNodeBuilder().
		WithName(name).
		WithSource(filepath.Join(dir, name)).
		AsSuite(true)
}

func TestCrawlCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should bundle a suite with a transitive resource and library", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		helper := "def hello():\n    print('hello')\n"
		writeFiles(t, root, map[string]string{
			"suites/a.robot":       "*** Settings ***\nResource    ../common/util.resource\n" + testCases,
			"common/util.resource": "*** Settings ***\nLibrary    helper.py\n\n*** Keywords ***\nSay Hello\n    hello\n",
			"common/helper.py":     helper,
		})
		suitesDir := filepath.Join(root, "suites")
		tree := entitybuilders.NewSuiteNodeBuilder().WithName("suites").WithSource(suitesDir).
			WithChild(suiteNode(suitesDir, "a.robot")).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]entities.SuiteFile{
			"a.robot": {
				RelativeDirPath: "",
				RewrittenText:   "*** Settings ***\nResource    util.resource\n" + testCases,
			},
		}, bundle.Suites)
		assert.Equal(t, map[string]string{
			"util.resource": "*** Settings ***\nLibrary    helper.py\n\n*** Keywords ***\nSay Hello\n    hello\n",
			"helper.py":     helper,
		}, bundle.Dependencies)
		assert.Empty(t, bundle.Packages)
	})

	t.Run("should rewrite every import to a bare filename", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"suites/web/login.robot": "*** Settings ***\n" +
				"Resource    ${CURDIR}/../../shared/keywords/session.resource\n" +
				"Library    ..\\..\\shared\\libs\\Client.py    http://localhost    WITH NAME    Api\n" +
				"Variables    ../../shared/vars/staging.py\n" +
				"Library    Collections\n" +
				testCases,
			"shared/keywords/session.resource": "*** Settings ***\nResource    ../common/base.resource\nLibrary    ../libs/session\n",
			"shared/common/base.resource":      "*** Variables ***\n${URL}    http://localhost\n",
			"shared/libs/Client.py":            "class Client: pass\n",
			"shared/libs/session.py":           "def open(): pass\n",
			"shared/vars/staging.py":           "URL = 'http://staging'\n",
		})
		suitesDir := filepath.Join(root, "suites")
		webDir := filepath.Join(suitesDir, "web")
		tree := entitybuilders.NewSuiteNodeBuilder().WithName("suites").WithSource(suitesDir).
			WithChild(entitybuilders.NewSuiteNodeBuilder().WithName("web").WithSource(webDir).
				WithChild(suiteNode(webDir, "login.robot"))).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.NoError(t, err)
		assert.Equal(t, "web", bundle.Suites["login.robot"].RelativeDirPath)
		assert.ElementsMatch(t,
			[]string{"session.resource", "base.resource", "Client.py", "session.py", "staging.py"},
			bundle.DependencyNames(),
		)

		texts := []string{bundle.Suites["login.robot"].RewrittenText}
		for _, content := range bundle.Dependencies {
			texts = append(texts, content)
		}
		for _, text := range texts {
			for _, line := range strings.SplitAfter(text, "\n") {
				imp, classifyErr := entities.ClassifyLine(line)
				require.NoError(t, classifyErr)
				if imp != nil {
					assert.NotContains(t, imp.RawPath, "/", line)
					assert.NotContains(t, imp.RawPath, `\`, line)
				}
			}
		}
		assert.Contains(t, bundle.Suites["login.robot"].RewrittenText,
			"Library    Client.py    http://localhost    WITH NAME    Api\n")
		assert.Contains(t, bundle.Dependencies["session.resource"], "Library    session\n")
	})

	t.Run("should keep the first file when two directories share a filename", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"suites/a.robot":    "*** Settings ***\nResource    ../x/common.resource\nResource    ../y/common.resource\n" + testCases,
			"x/common.resource": "# from x\n",
			"y/common.resource": "# from y\n",
		})
		suitesDir := filepath.Join(root, "suites")
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(suitesDir).
			WithChild(suiteNode(suitesDir, "a.robot")).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"common.resource": "# from x\n"}, bundle.Dependencies)
		assert.Equal(t, 2, strings.Count(bundle.Suites["a.robot"].RewrittenText, "Resource    common.resource\n"))
	})

	t.Run("should stop at resources that import each other", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"a.robot":         "*** Settings ***\nResource    first.resource\n" + testCases,
			"first.resource":  "*** Settings ***\nResource    second.resource\n",
			"second.resource": "*** Settings ***\nResource    first.resource\n",
		})
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(root).
			WithChild(suiteNode(root, "a.robot")).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"first.resource", "second.resource"}, bundle.DependencyNames())
	})

	t.Run("should record annotated packages and skip built-in libraries", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"a.robot": "*** Settings ***\n" +
				"Library    SeleniumLibrary    # @pip: robotframework-seleniumlibrary>=6.0\n" +
				"Library    Collections\n" +
				"Library    OperatingSystem\n" +
				testCases,
		})
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(root).
			WithChild(suiteNode(root, "a.robot")).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.NoError(t, err)
		assert.Empty(t, bundle.Dependencies)
		assert.Equal(t, map[string]string{"SeleniumLibrary": "robotframework-seleniumlibrary>=6.0"}, bundle.Packages)
	})

	t.Run("should only resolve imports declared in a settings section", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		suite := "Resource    notes written before any section\n" +
			"*** Settings ***\n" +
			"Resource    util.resource\n" +
			"\n*** Test Cases ***\n" +
			"Resource Cleanup\n" +
			"    Library Loaded\n" +
			"\n*** Keywords ***\n" +
			"Library Loaded\n" +
			"    No Operation\n" +
			"\n*** Comments ***\n" +
			"Resource    handling is described elsewhere\n" +
			"Library    missing.py\n"
		writeFiles(t, root, map[string]string{
			"a.robot":       suite,
			"util.resource": "*** Keywords ***\nVariables Ready\n    No Operation\n",
		})
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(root).
			WithChild(suiteNode(root, "a.robot")).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.NoError(t, err)
		assert.Equal(t, suite, bundle.Suites["a.robot"].RewrittenText)
		assert.Equal(t, []string{"util.resource"}, bundle.DependencyNames())
	})

	t.Run("should fail when an import cannot be resolved", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"a.robot": "*** Settings ***\nResource    missing.resource\n" + testCases,
		})
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(root).
			WithChild(suiteNode(root, "a.robot")).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		bundle, err := cmd.Execute(context.Background(), tree)

		// then
		require.ErrorIs(t, err, entities.ErrUnresolvedDependency)
		assert.Nil(t, bundle)
	})

	t.Run("should skip files without test cases and fail when nothing is left", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"empty.robot": "*** Keywords ***\n"})
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(root).
			WithChild(entitybuilders.NewSuiteNodeBuilder().WithName("empty.robot").
				WithSource(filepath.Join(root, "empty.robot")).AsSuite(false)).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		_, err := cmd.Execute(context.Background(), tree)

		// then
		require.ErrorIs(t, err, entities.ErrNoSuites)
	})

	t.Run("should reject two suites with the same filename", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{
			"one/a.robot": testCases,
			"two/a.robot": testCases,
		})
		one := filepath.Join(root, "one")
		two := filepath.Join(root, "two")
		tree := entitybuilders.NewSuiteNodeBuilder().WithSource(root).
			WithChild(entitybuilders.NewSuiteNodeBuilder().WithName("one").WithSource(one).WithChild(suiteNode(one, "a.robot"))).
			WithChild(entitybuilders.NewSuiteNodeBuilder().WithName("two").WithSource(two).WithChild(suiteNode(two, "a.robot"))).
			BuildNode()
		cmd := commands.NewCrawlCommand(filesystem.NewFileRepository())

		// when
		_, err := cmd.Execute(context.Background(), tree)

		// then
		require.ErrorIs(t, err, entities.ErrDuplicateSuite)
	})
}
