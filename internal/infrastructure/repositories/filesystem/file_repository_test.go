//go:build unit

package filesystem_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/robotremote/internal/infrastructure/repositories/filesystem"
)

func TestFileRepository(t *testing.T) {
	t.Parallel()

	t.Run("should write text creating missing parents and read it back unchanged", func(t *testing.T) {
		t.Parallel()
		// given
		repository := filesystem.NewFileRepository()
		path := filepath.Join(t.TempDir(), "a", "b", "c.resource")
		content := "*** Keywords ***\r\nÜmlaut\n"

		// when
		err := repository.WriteText(path, content)

		// then
		require.NoError(t, err)
		assert.True(t, repository.IsFile(path))
		assert.False(t, repository.IsFile(filepath.Dir(path)))
		read, readErr := repository.ReadText(path)
		require.NoError(t, readErr)
		assert.Equal(t, content, read)
	})

	t.Run("should resolve output paths against the output directory", func(t *testing.T) {
		t.Parallel()
		// given
		repository := filesystem.NewFileRepository()
		outputDir := t.TempDir()
		absolute := filepath.Join(t.TempDir(), "custom.xml")

		// when
		relative, relErr := repository.ResolveOutputPath("results/output.xml", outputDir)
		kept, absErr := repository.ResolveOutputPath(absolute, outputDir)

		// then
		require.NoError(t, relErr)
		require.NoError(t, absErr)
		assert.Equal(t, filepath.Join(outputDir, "results", "output.xml"), relative)
		assert.Equal(t, absolute, kept)
	})

	t.Run("should create distinct private workspaces under the base directory", func(t *testing.T) {
		t.Parallel()
		// given
		repository := filesystem.NewFileRepository()
		base := filepath.Join(t.TempDir(), "work")

		// when
		first, firstErr := repository.CreateWorkspace(base)
		second, secondErr := repository.CreateWorkspace(base)

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.NotEqual(t, first, second)
		assert.Equal(t, base, filepath.Dir(first))
		assert.True(t, strings.HasPrefix(filepath.Base(first), "robotremote-"))
		info, statErr := os.Stat(first)
		require.NoError(t, statErr)
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

		require.NoError(t, repository.RemoveAll(first))
		assert.NoDirExists(t, first)
		assert.DirExists(t, second)
	})
}
