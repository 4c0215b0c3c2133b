// FILE: lixenwraith/envdot/convenience_test.go
package envdot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTestDefault installs a store backed by an in-memory environment as the default
func useTestDefault(t *testing.T) *MapEnvironment {
	t.Helper()
	s, env := newTestStore(t)
	SetDefault(s)
	t.Cleanup(ResetDefault)
	return env
}

// TestDefaultStore tests the package-level store functions
func TestDefaultStore(t *testing.T) {
	t.Run("LazyCreation", func(t *testing.T) {
		ResetDefault()
		t.Cleanup(ResetDefault)
		first := Default()
		require.NotNil(t, first)
		assert.Same(t, first, Default())

		ResetDefault()
		assert.NotSame(t, first, Default())
	})

	t.Run("SetAndGet", func(t *testing.T) {
		env := useTestDefault(t)

		require.NoError(t, Set("PORT", 8080))
		v, ok := Get("PORT")
		assert.True(t, ok)
		assert.Equal(t, int64(8080), v)

		raw, _ := env.Lookup("PORT")
		assert.Equal(t, "8080", raw)

		assert.Equal(t, "x", GetDefault("MISSING", "x"))
		f, err := GetAs("PORT", KindFloat, nil)
		require.NoError(t, err)
		assert.Equal(t, 8080.0, f)
	})

	t.Run("LoadAndSave", func(t *testing.T) {
		useTestDefault(t)
		dir := t.TempDir()
		path := writeTestFile(t, dir, "app.toml", "[server]\nport = 9000\n")

		require.NoError(t, Load(path))
		v, _ := Get("SERVER_PORT")
		assert.Equal(t, int64(9000), v)

		require.NoError(t, LoadWithOptions(writeTestFile(t, dir, "b.env", "SERVER_PORT=8081\n"), LoadOptions{Override: true}))
		v, _ = Get("SERVER_PORT")
		assert.Equal(t, int64(8081), v)

		out := filepath.Join(dir, "out.json")
		require.NoError(t, Save(out, ""))

		s, _ := newTestStore(t)
		require.NoError(t, s.Load(out))
		v, _ = s.Get("SERVER_PORT")
		assert.Equal(t, int64(8081), v)
	})
}

// TestQuick tests one-call store construction
func TestQuick(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "quick.yaml", "host: quickhost\n")

	type QuickDefaults struct {
		Host string `env:"HOST"`
		Port int    `env:"PORT"`
	}

	t.Run("FileAndDefaults", func(t *testing.T) {
		t.Setenv("HOST", "")
		t.Setenv("PORT", "")
		s, err := Quick(QuickDefaults{Host: "localhost", Port: 8080}, path, filepath.Join(dir, "missing.env"))
		require.NoError(t, err)

		v, _ := s.Get("HOST")
		assert.Equal(t, "quickhost", v)
		v, _ = s.Get("PORT")
		assert.Equal(t, int64(8080), v)
	})

	t.Run("DefaultFileInWorkingDir", func(t *testing.T) {
		chdir(t, dir)
		t.Setenv("QUICK_ONLY", "")
		writeTestFile(t, dir, DefaultFile, "QUICK_ONLY=1\n")

		s := MustQuick(nil)
		assert.True(t, s.Has("QUICK_ONLY"))
	})

	t.Run("MustQuickPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustQuick("not a struct", path)
		})
	})
}
