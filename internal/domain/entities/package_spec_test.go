//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/robotremote/internal/domain/entities"
)

func TestParsePackageSpec(t *testing.T) {
	t.Parallel()

	t.Run("should parse every supported comparator", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			raw        string
			name       string
			comparator entities.Comparator
			version    string
		}{
			{"requests", "requests", entities.ComparatorNone, ""},
			{"requests<=2.0", "requests", entities.ComparatorLessOrEqual, "2.0"},
			{"requests<2.0", "requests", entities.ComparatorLess, "2.0"},
			{"requests>=2.0", "requests", entities.ComparatorGreaterOrEqual, "2.0"},
			{"requests>2.0", "requests", entities.ComparatorGreater, "2.0"},
			{"requests>= 2.0", "requests", entities.ComparatorGreaterOrEqual, "2.0"},
			{"requests>=2.0 for the api client", "requests", entities.ComparatorGreaterOrEqual, "2.0"},
		}

		for _, tt := range tests {
			// when
			spec, err := entities.ParsePackageSpec(tt.raw)

			// then
			require.NoError(t, err, tt.raw)
			assert.Equal(t, tt.name, spec.Name, tt.raw)
			assert.Equal(t, tt.comparator, spec.Comparator, tt.raw)
			assert.Equal(t, tt.version, spec.Version, tt.raw)
		}
	})

	t.Run("should keep extras and render an installer spec", func(t *testing.T) {
		t.Parallel()

		// when
		spec, err := entities.ParsePackageSpec("requests[security]>= 2.31")

		// then
		require.NoError(t, err)
		assert.Equal(t, "[security]", spec.Extras)
		assert.Equal(t, "requests[security]>=2.31", spec.String())
	})

	t.Run("should reject specs the installer would misread", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", ">=1.0", "pkg==1.0", "pkg >=1.0", "pkg~=1.0", "-pkg"} {
			// when
			_, err := entities.ParsePackageSpec(raw)

			// then
			require.ErrorIs(t, err, entities.ErrInvalidPackageSpec, raw)
		}
	})
}

func TestPackageSpecSatisfiedBy(t *testing.T) {
	t.Parallel()

	t.Run("should compare installed versions against the comparator", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			spec      string
			installed string
			satisfied bool
		}{
			{"pkgA>=2.0", "1.0", false},
			{"pkgA>=2.0", "2.0", true},
			{"pkgA>=2.0", "3.0", true},
			{"pkgA>2.0", "2.0", false},
			{"pkgA<=2.0", "2.0.0", true},
			{"pkgA<2.0", "1.9.9", true},
			{"pkgA<2.0", "2.1", false},
		}

		for _, tt := range tests {
			// given
			spec, err := entities.ParsePackageSpec(tt.spec)
			require.NoError(t, err)

			// when
			satisfied, conclusive := spec.SatisfiedBy(tt.installed)

			// then
			assert.True(t, conclusive, tt.spec+" vs "+tt.installed)
			assert.Equal(t, tt.satisfied, satisfied, tt.spec+" vs "+tt.installed)
		}
	})

	t.Run("should accept any installed version when no comparator is given", func(t *testing.T) {
		t.Parallel()
		// given
		spec, err := entities.ParsePackageSpec("pkgA")
		require.NoError(t, err)

		// when
		satisfied, conclusive := spec.SatisfiedBy("0.0.1-weird")

		// then
		assert.True(t, satisfied)
		assert.True(t, conclusive)
	})

	t.Run("should be inconclusive for versions that cannot be compared", func(t *testing.T) {
		t.Parallel()
		// given
		spec, err := entities.ParsePackageSpec("pkgA>=2.0")
		require.NoError(t, err)

		for _, installed := range []string{"2.0b1.dev0", "1!2.0", "2.0+local.7", "1.2.3.4", "latest"} {
			// when
			_, conclusive := spec.SatisfiedBy(installed)

			// then
			assert.False(t, conclusive, installed)
		}
	})

	t.Run("should order python pre-releases and post-releases around the final release", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			spec      string
			installed string
			satisfied bool
		}{
			{"pkgA>=7.0", "7.0rc1", false},
			{"pkgA>=6.0", "7.0rc1", true},
			{"pkgA<7.0", "7.0a2", true},
			{"pkgA>=7.0b1", "7.0rc1", true},
			{"pkgA>=7.0rc2", "7.0rc1", false},
			{"pkgA>=2.0", "2.0.0.post1", true},
			{"pkgA>2.0", "2.0.post1", true},
			{"pkgA<=2.0", "2.0.post1", false},
			{"pkgA<2.0", "2.0rc1.post3", true},
			{"pkgA>=1.0", "1.0.0-beta", false},
		}

		for _, tt := range tests {
			// given
			spec, err := entities.ParsePackageSpec(tt.spec)
			require.NoError(t, err)

			// when
			satisfied, conclusive := spec.SatisfiedBy(tt.installed)

			// then
			assert.True(t, conclusive, tt.spec+" vs "+tt.installed)
			assert.Equal(t, tt.satisfied, satisfied, tt.spec+" vs "+tt.installed)
		}
	})
}

func TestNormalizePackageName(t *testing.T) {
	t.Parallel()

	t.Run("should lowercase, collapse separators and drop extras", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "robotframework-seleniumlibrary", entities.NormalizePackageName("RobotFramework_SeleniumLibrary"))
		assert.Equal(t, "zope-interface", entities.NormalizePackageName("zope.interface"))
		assert.Equal(t, "requests", entities.NormalizePackageName("Requests[security]"))
		assert.Equal(t, "a-b", entities.NormalizePackageName("a-_.b"))
	})
}
