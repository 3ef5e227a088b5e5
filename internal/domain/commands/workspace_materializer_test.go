//go:build unit

package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/robotremote/internal/domain/commands"
	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/filesystem"
	"github.com/rios0rios0/robotremote/test/domain/entitybuilders"
)

func TestWorkspaceMaterializer(t *testing.T) {
	t.Parallel()

	t.Run("should write back exactly what the crawler produced", func(t *testing.T) {
		t.Parallel()
		// given
		base := t.TempDir()
		bundle := entitybuilders.NewBundleBuilder().
			WithSuite("login.robot", "web/auth", "*** Test Cases ***\nLogin\n    Open\r\n").
			WithDependency("util.resource", "*** Keywords ***\nOpen\n    Log    ä€\n").
			WithDependency("helper.py", "x = 1\n").
			BuildBundle()
		materializer := commands.NewWorkspaceMaterializer(filesystem.NewFileRepository())

		// when
		root, err := materializer.Materialize(base, bundle)

		// then
		require.NoError(t, err)
		assert.Equal(t, base, filepath.Dir(root))
		for name, suite := range bundle.Suites {
			content, readErr := os.ReadFile(filepath.Join(root, filepath.FromSlash(suite.RelativeDirPath), name))
			require.NoError(t, readErr)
			assert.Equal(t, suite.RewrittenText, string(content))
		}
		for name, dependency := range bundle.Dependencies {
			content, readErr := os.ReadFile(filepath.Join(root, name))
			require.NoError(t, readErr)
			assert.Equal(t, dependency, string(content))
		}
		assert.ElementsMatch(t,
			[]string{"a.robot", "web/auth/login.robot", "util.resource", "helper.py"},
			listFiles(t, root),
		)
	})

	t.Run("should refuse a bundle that escapes the workspace without creating anything", func(t *testing.T) {
		t.Parallel()
		// given
		base := t.TempDir()
		bundle := entitybuilders.NewBundleBuilder().WithSuite("evil.robot", "../..", "").BuildBundle()
		materializer := commands.NewWorkspaceMaterializer(filesystem.NewFileRepository())

		// when
		root, err := materializer.Materialize(base, bundle)

		// then
		require.ErrorIs(t, err, entities.ErrUnsafePath)
		assert.Empty(t, root)
		entries, readErr := os.ReadDir(base)
		require.NoError(t, readErr)
		assert.Empty(t, entries)
	})

	t.Run("should remove the workspace unless asked to keep it", func(t *testing.T) {
		t.Parallel()
		// given
		base := t.TempDir()
		bundle := entitybuilders.NewBundleBuilder().BuildBundle()
		materializer := commands.NewWorkspaceMaterializer(filesystem.NewFileRepository())
		kept, err := materializer.Materialize(base, bundle)
		require.NoError(t, err)
		removed, err := materializer.Materialize(base, bundle)
		require.NoError(t, err)

		// when
		materializer.Teardown(kept, true, testLog())
		materializer.Teardown(removed, false, testLog())

		// then
		assert.NotEqual(t, kept, removed)
		assert.DirExists(t, kept)
		assert.NoDirExists(t, removed)
	})
}

func TestArtifactCollector(t *testing.T) {
	t.Parallel()

	t.Run("should return empty payloads for artifacts the engine did not produce", func(t *testing.T) {
		t.Parallel()
		// given
		root := t.TempDir()
		writeFiles(t, root, map[string]string{entities.OutputArtifactName: "<robot/>"})
		collector := commands.NewArtifactCollector(filesystem.NewFileRepository())

		// when
		artifacts, err := collector.Collect(root)

		// then
		require.NoError(t, err)
		assert.Equal(t, []byte("<robot/>"), artifacts.OutputXML)
		assert.Equal(t, []byte{}, artifacts.LogHTML)
		assert.Equal(t, []byte{}, artifacts.ReportHTML)
	})
}
