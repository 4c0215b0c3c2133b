// FILE: lixenwraith/envdot/builder_test.go
package envdot

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestBuilder tests the fluent construction path
func TestBuilder(t *testing.T) {
	dir := t.TempDir()
	base := writeTestFile(t, dir, "base.yaml", "server:\n  host: localhost\n  port: 8080\n")
	prod := writeTestFile(t, dir, ".env.production", "SERVER_PORT=443\n")

	type Defaults struct {
		Server struct {
			Host    string        `env:"HOST"`
			Port    int           `env:"PORT"`
			Timeout time.Duration `env:"TIMEOUT"`
		} `env:"SERVER"`
		Debug bool `env:"DEBUG"`
	}

	t.Run("FilesDefaultsAndSets", func(t *testing.T) {
		env := NewMapEnvironment(nil)
		var defaults Defaults
		defaults.Server.Host = "0.0.0.0"
		defaults.Server.Timeout = 30 * time.Second

		s, err := NewBuilder().
			WithEnvironment(env).
			WithDefaults(defaults).
			WithFile(base).
			WithFile(prod).
			WithOverride(true).
			Set("EXTRA", 1.5).
			Build()
		require.NoError(t, err)

		v, _ := s.Get("SERVER_PORT")
		assert.Equal(t, int64(443), v)
		v, _ = s.Get("SERVER_HOST")
		assert.Equal(t, "localhost", v)
		v, _ = s.Get("SERVER_TIMEOUT")
		assert.Equal(t, "30s", v)
		v, _ = s.Get("DEBUG")
		assert.Equal(t, false, v)
		v, _ = s.Get("EXTRA")
		assert.Equal(t, 1.5, v)

		raw, ok := env.Lookup("SERVER_PORT")
		assert.True(t, ok)
		assert.Equal(t, "443", raw)
	})

	t.Run("FirstFileWinsWithoutOverride", func(t *testing.T) {
		s, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithFile(base).
			WithFile(prod).
			Build()
		require.NoError(t, err)
		v, _ := s.Get("SERVER_PORT")
		assert.Equal(t, int64(8080), v)
	})

	t.Run("NoMirror", func(t *testing.T) {
		env := NewMapEnvironment(nil)
		_, err := NewBuilder().
			WithEnvironment(env).
			WithApplyToOS(false).
			WithFile(base).
			Set("K", "v").
			Build()
		require.NoError(t, err)
		assert.Empty(t, env.Keys())
	})

	t.Run("OptionalFile", func(t *testing.T) {
		s, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithOptionalFile(filepath.Join(dir, "absent.env")).
			Set("A", "1").
			Build()
		require.NoError(t, err)
		assert.True(t, s.Has("A"))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithFile(filepath.Join(dir, "absent.env")).
			Build()
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("StickyError", func(t *testing.T) {
		_, err := NewBuilder().Set("", "x").WithFile(base).Build()
		assert.ErrorIs(t, err, ErrEmptyKey)

		assert.Panics(t, func() {
			NewBuilder().WithFile("").MustBuild()
		})
	})

	t.Run("InvalidDefaults", func(t *testing.T) {
		_, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithDefaults(42).
			Build()
		assert.Error(t, err)
	})

	t.Run("Validators", func(t *testing.T) {
		_, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithFile(base).
			WithRequired("SERVER_HOST", "API_KEY").
			Build()
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.Contains(t, err.Error(), "API_KEY")

		sentinel := errors.New("port too low")
		_, err = NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithFile(base).
			WithValidator(func(s *Store) error {
				if port, _ := s.Int64("SERVER_PORT"); port < 1024 {
					return sentinel
				}
				return nil
			}).
			Build()
		assert.NoError(t, err)

		_, err = NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			Set("SERVER_PORT", 80).
			WithValidator(func(s *Store) error {
				if port, _ := s.Int64("SERVER_PORT"); port < 1024 {
					return sentinel
				}
				return nil
			}).
			Build()
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("BuildAndDecode", func(t *testing.T) {
		var cfg Defaults
		s, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithFile(base).
			BuildAndDecode("", &cfg)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
	})

	t.Run("ReplaceGetenvAndLogger", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		env := NewMapEnvironment(nil)
		acc := NewAccessor(env.Lookup)

		NewBuilder().
			WithEnvironment(env).
			WithLogger(zap.New(core)).
			WithAccessor(acc).
			WithFile(base).
			WithReplaceGetenv().
			MustBuild()

		assert.True(t, acc.Installed())
		assert.False(t, GetenvReplaced())
		assert.Equal(t, int64(8080), acc.Getenv("SERVER_PORT"))
		entries := logs.FilterMessage("loaded configuration").All()
		require.Len(t, entries, 1)
		assert.Equal(t, base, entries[0].ContextMap()["source"])
	})

	t.Run("CustomRegistry", func(t *testing.T) {
		_, err := NewBuilder().
			WithEnvironment(NewMapEnvironment(nil)).
			WithRegistry(NewRegistry(EnvAdapter())).
			WithFile(base).
			Build()
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
