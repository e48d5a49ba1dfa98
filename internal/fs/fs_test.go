package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	t.Parallel()

	t.Run("resolves absolute path", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "src")
		require.NoError(t, os.Mkdir(path, 0o755))

		canonical, err := CanonicalPath(path)
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(canonical))
		assert.Equal(t, "src", filepath.Base(canonical))
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "target")
		require.NoError(t, os.Mkdir(target, 0o755))

		link := filepath.Join(dir, "link")
		require.NoError(t, os.Symlink(target, link))

		canonical, err := CanonicalPath(link)
		require.NoError(t, err)

		expected, _ := filepath.EvalSymlinks(target)
		assert.Equal(t, expected, canonical)
	})

	t.Run("returns error for non-existent path", func(t *testing.T) {
		t.Parallel()
		_, err := CanonicalPath(filepath.Join(t.TempDir(), "non-existent"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestAbs(t *testing.T) {
	t.Parallel()

	abs, err := Abs("relative/path")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))
}

func TestEnvProviders(t *testing.T) {
	t.Parallel()

	t.Run("os provider reads PATH", func(t *testing.T) {
		t.Parallel()
		assert.NotEmpty(t, NewEnvProvider().Get("PATH"))
	})

	t.Run("os provider returns empty for unset variable", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, NewEnvProvider().Get("CPPDEV_UNLIKELY_TO_BE_SET_12345"))
	})

	t.Run("map provider", func(t *testing.T) {
		t.Parallel()
		env := MapEnvProvider{"CPPDEV_CONFIG": "custom.yml"}
		assert.Equal(t, "custom.yml", env.Get("CPPDEV_CONFIG"))
		assert.Empty(t, env.Get("MISSING"))

		var nilEnv MapEnvProvider
		assert.Empty(t, nilEnv.Get("ANY"))
	})
}
