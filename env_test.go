// FILE: lixenwraith/envdot/env_test.go
package envdot

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAccessor tests typed getenv installation on an injected lookup
func TestAccessor(t *testing.T) {
	env := NewMapEnvironment(map[string]string{
		"PORT":  "8080",
		"DEBUG": "yes",
		"RATIO": "0.25",
		"NAME":  " demo ",
		"EMPTY": "",
	})

	t.Run("RawByDefault", func(t *testing.T) {
		acc := NewAccessor(env.Lookup)
		assert.False(t, acc.Installed())
		assert.Equal(t, "8080", acc.Getenv("PORT"))
		assert.Equal(t, "", acc.Getenv("MISSING"))
	})

	t.Run("Installed", func(t *testing.T) {
		acc := NewAccessor(env.Lookup)
		acc.Install()
		assert.Equal(t, int64(8080), acc.Getenv("PORT"))
		assert.Equal(t, true, acc.Getenv("DEBUG"))
		assert.Equal(t, 0.25, acc.Getenv("RATIO"))
		assert.Nil(t, acc.Getenv("MISSING"))

		v, ok := acc.Lookup("EMPTY")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("InstallTwiceRestoreOnceScenario", func(t *testing.T) {
		acc := NewAccessor(env.Lookup)
		acc.Install()
		acc.Install()
		acc.Restore()

		assert.False(t, acc.Installed())
		assert.Equal(t, "8080", acc.Getenv("PORT"))
		raw, ok := acc.Raw("PORT")
		assert.True(t, ok)
		assert.Equal(t, "8080", raw)
	})

	t.Run("TypedHelpers", func(t *testing.T) {
		acc := NewAccessor(env.Lookup)
		assert.Equal(t, int64(8080), acc.Int("PORT", 1))
		assert.Equal(t, int64(1), acc.Int("NAME", 1))
		assert.Equal(t, int64(3), acc.Int("MISSING", 3))
		assert.Equal(t, 0.25, acc.Float("RATIO", 0))
		assert.Equal(t, 9.5, acc.Float("MISSING", 9.5))
		assert.True(t, acc.Bool("DEBUG", false))
		assert.True(t, acc.Bool("MISSING", true))
		assert.Equal(t, "demo", acc.String("NAME", ""))
		assert.Equal(t, "x", acc.String("MISSING", "x"))

		v, err := acc.Typed("PORT", KindString, nil)
		require.NoError(t, err)
		assert.Equal(t, "8080", v)

		v, err = acc.Typed("MISSING", KindInt, nil)
		require.NoError(t, err)
		assert.Nil(t, v)

		_, err = acc.Typed("NAME", KindInt, nil)
		assert.ErrorIs(t, err, ErrTypeConversion)
	})
}

// TestPackageGetenv tests the process-wide accessor
func TestPackageGetenv(t *testing.T) {
	t.Setenv("ENVDOT_TEST_PORT", "8080")
	t.Setenv("ENVDOT_TEST_FLAG", "off")
	t.Cleanup(RestoreGetenv)

	assert.Equal(t, "8080", Getenv("ENVDOT_TEST_PORT"))

	ReplaceGetenv()
	ReplaceGetenv()
	assert.True(t, GetenvReplaced())
	assert.Equal(t, int64(8080), Getenv("ENVDOT_TEST_PORT"))
	v, ok := LookupEnv("ENVDOT_TEST_FLAG")
	assert.True(t, ok)
	assert.Equal(t, false, v)

	RestoreGetenv()
	assert.False(t, GetenvReplaced())
	assert.Equal(t, "8080", Getenv("ENVDOT_TEST_PORT"))

	assert.Equal(t, int64(8080), GetenvInt("ENVDOT_TEST_PORT", 0))
	assert.Equal(t, 8080.0, GetenvFloat("ENVDOT_TEST_PORT", 0))
	assert.False(t, GetenvBool("ENVDOT_TEST_FLAG", true))
	assert.Equal(t, "off", GetenvString("ENVDOT_TEST_FLAG", ""))

	v, err := GetenvTyped("ENVDOT_TEST_PORT", KindList, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"8080"}, v)
}

// TestSetenvTyped tests canonical writes into the process environment
func TestSetenvTyped(t *testing.T) {
	t.Setenv("ENVDOT_TEST_SET", "")

	require.NoError(t, SetenvTyped("ENVDOT_TEST_SET", 2.0))
	assert.Equal(t, "2.0", os.Getenv("ENVDOT_TEST_SET"))
	assert.Equal(t, 2.0, GetenvFloat("ENVDOT_TEST_SET", 0))

	assert.ErrorIs(t, SetenvTyped("", 1), ErrEmptyKey)
}

// TestEnvironments tests the Environment implementations
func TestEnvironments(t *testing.T) {
	t.Run("Map", func(t *testing.T) {
		env := NewMapEnvironment(map[string]string{"B": "2"})
		require.NoError(t, env.Set("A", "1"))
		assert.Equal(t, []string{"A", "B"}, env.Keys())
		require.NoError(t, env.Unset("A"))
		_, ok := env.Lookup("A")
		assert.False(t, ok)

		var zero MapEnvironment
		require.NoError(t, zero.Set("X", "y"))
		v, ok := zero.Lookup("X")
		assert.True(t, ok)
		assert.Equal(t, "y", v)
	})

	t.Run("OS", func(t *testing.T) {
		t.Setenv("ENVDOT_TEST_OS", "")
		var env Environment = OSEnvironment{}
		require.NoError(t, env.Set("ENVDOT_TEST_OS", "value"))
		v, ok := env.Lookup("ENVDOT_TEST_OS")
		assert.True(t, ok)
		assert.Equal(t, "value", v)
		require.NoError(t, env.Unset("ENVDOT_TEST_OS"))
		_, ok = env.Lookup("ENVDOT_TEST_OS")
		assert.False(t, ok)
	})

	t.Run("StoreMirrorsIntoOS", func(t *testing.T) {
		t.Setenv("ENVDOT_TEST_MIRROR", "")
		s := New()
		require.NoError(t, s.Set("ENVDOT_TEST_MIRROR", 42))
		assert.Equal(t, "42", os.Getenv("ENVDOT_TEST_MIRROR"))
		require.NoError(t, s.Clear(true))
		_, ok := os.LookupEnv("ENVDOT_TEST_MIRROR")
		assert.False(t, ok)
	})
}
