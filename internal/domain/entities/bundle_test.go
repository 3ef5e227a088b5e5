//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
	"github.com/rios0rios0/robotremote/test/domain/entitybuilders"
)

func TestBundleValidate(t *testing.T) {
	t.Parallel()

	t.Run("should accept nested suites and flat dependencies", func(t *testing.T) {
		t.Parallel()
		// given
		bundle := entitybuilders.NewBundleBuilder().
			WithSuite("login.robot", "web/auth", "*** Test Cases ***\n").
			WithDependency("util.resource", "").
			BuildBundle()

		// when
		err := bundle.Validate()

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a.robot", "login.robot"}, bundle.SuiteNames())
		assert.Equal(t, []string{"util.resource"}, bundle.DependencyNames())
	})

	t.Run("should reject entries that escape the workspace", func(t *testing.T) {
		t.Parallel()

		bundles := map[string]*entities.Bundle{
			"dotdot dir":        entitybuilders.NewBundleBuilder().WithSuite("x.robot", "../outside", "").BuildBundle(),
			"absolute dir":      entitybuilders.NewBundleBuilder().WithSuite("x.robot", "/etc", "").BuildBundle(),
			"backslash dir":     entitybuilders.NewBundleBuilder().WithSuite("x.robot", `a\b`, "").BuildBundle(),
			"empty segment":     entitybuilders.NewBundleBuilder().WithSuite("x.robot", "a//b", "").BuildBundle(),
			"suite with slash":  entitybuilders.NewBundleBuilder().WithSuite("a/x.robot", "", "").BuildBundle(),
			"dependency dotdot": entitybuilders.NewBundleBuilder().WithDependency("..", "").BuildBundle(),
			"dependency path":   entitybuilders.NewBundleBuilder().WithDependency("../../x.py", "").BuildBundle(),
		}

		for name, bundle := range bundles {
			// when
			err := bundle.Validate()

			// then
			require.ErrorIs(t, err, entities.ErrUnsafePath, name)
		}
	})

	t.Run("should reject a root suite that shares its filename with a dependency", func(t *testing.T) {
		t.Parallel()
		// given
		bundle := entitybuilders.NewBundleBuilder().
			WithSuite("shared.robot", "", "*** Test Cases ***\n").
			WithDependency("shared.robot", "*** Keywords ***\n").
			BuildBundle()

		// when
		err := bundle.Validate()

		// then
		require.ErrorIs(t, err, entities.ErrDuplicateSuite)
		assert.Contains(t, err.Error(), "shared.robot")
	})

	t.Run("should accept a nested suite named like a dependency", func(t *testing.T) {
		t.Parallel()
		// given
		bundle := entitybuilders.NewBundleBuilder().
			WithSuite("shared.robot", "web", "*** Test Cases ***\n").
			WithDependency("shared.robot", "*** Keywords ***\n").
			BuildBundle()

		// when
		err := bundle.Validate()

		// then
		require.NoError(t, err)
	})
}

func TestNewExecutionResult(t *testing.T) {
	t.Parallel()

	t.Run("should turn missing artifacts into empty payloads", func(t *testing.T) {
		t.Parallel()

		// when
		result := entities.NewExecutionResult(nil, entities.Artifacts{OutputXML: []byte("<robot/>")}, 1)

		// then
		assert.Equal(t, []byte{}, result.StdOutErr)
		assert.Equal(t, []byte("<robot/>"), result.OutputXML)
		assert.Equal(t, []byte{}, result.LogHTML)
		assert.Equal(t, []byte{}, result.ReportHTML)
		assert.Equal(t, 1, result.RetCode)
	})
}
