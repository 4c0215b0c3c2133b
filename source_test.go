// FILE: lixenwraith/envdot/source_test.go
package envdot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDotEnv tests .env parsing rules
func TestParseDotEnv(t *testing.T) {
	t.Run("BasicAndComments", func(t *testing.T) {
		content := `
# comment
export APP_NAME=demo
PORT = 8080
URL=http://x/#frag # trailing comment
EMPTY=
`
		flat, err := ParseDotEnv([]byte(content))
		require.NoError(t, err)
		assert.Equal(t, []string{"APP_NAME", "PORT", "URL", "EMPTY"}, flat.Keys())
		assert.Equal(t, map[string]string{
			"APP_NAME": "demo",
			"PORT":     "8080",
			"URL":      "http://x/",
			"EMPTY":    "",
		}, flat.Map())
	})

	t.Run("Quotes", func(t *testing.T) {
		content := "SINGLE='  keep # this  '\n" +
			`DOUBLE="line1\nline2\t\"q\" \\"` + "\n" +
			`RAW='no \n escapes'` + "\n"
		flat, err := ParseDotEnv([]byte(content))
		require.NoError(t, err)

		v, _ := flat.Get("SINGLE")
		assert.Equal(t, "  keep # this  ", v)
		v, _ = flat.Get("DOUBLE")
		assert.Equal(t, "line1\nline2\t\"q\" \\", v)
		v, _ = flat.Get("RAW")
		assert.Equal(t, `no \n escapes`, v)
	})

	t.Run("DuplicateKeyLastWins", func(t *testing.T) {
		flat, err := ParseDotEnv([]byte("A=1\nB=2\nA=3\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, flat.Keys())
		v, _ := flat.Get("A")
		assert.Equal(t, "3", v)
	})

	errorCases := []struct {
		name    string
		content string
		line    string
	}{
		{"MissingEquals", "A=1\nNOT_A_PAIR\n", "line 2"},
		{"EmptyKey", "=value\n", "line 1"},
		{"UnterminatedDouble", "A=\"open\n", "line 1"},
		{"UnterminatedSingle", "A=1\nB='open\n", "line 2"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDotEnv([]byte(tt.content))
			assert.ErrorIs(t, err, ErrParse)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

// TestSerializeDotEnv tests quoting on output and reparsing
func TestSerializeDotEnv(t *testing.T) {
	flat := FlatMapOf(
		"PLAIN", "value",
		"SPACED", "hello world",
		"HASH", "a#b",
		"QUOTE", `say "hi"`,
		"NEWLINE", "a\nb",
		"EMPTY", "",
	)
	out := string(SerializeDotEnv(flat))
	assert.Contains(t, out, "PLAIN=value\n")
	assert.Contains(t, out, "SPACED=\"hello world\"\n")
	assert.Contains(t, out, "HASH=\"a#b\"\n")
	assert.Contains(t, out, "EMPTY=\n")

	back, err := ParseDotEnv([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, flat.Keys(), back.Keys())
	assert.Equal(t, flat.Map(), back.Map())
}

// TestRegistry tests format dispatch
func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	paths := []struct {
		path   string
		format Format
	}{
		{".env", FormatEnv},
		{"/srv/app/.env", FormatEnv},
		{".env.production", FormatEnv},
		{"prod.env", FormatEnv},
		{"settings", FormatEnv},
		{"config.json", FormatJSON},
		{"config.YAML", FormatYAML},
		{"config.yml", FormatYAML},
		{"config.ini", FormatINI},
		{"config.toml", FormatTOML},
	}
	for _, tt := range paths {
		t.Run(tt.path, func(t *testing.T) {
			a, err := r.ForPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, a.Format)
		})
	}

	t.Run("UnknownExtension", func(t *testing.T) {
		_, err := r.ForPath("config.xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("MissingAdapter", func(t *testing.T) {
		small := NewRegistry(EnvAdapter())
		_, err := small.ForFormat(FormatTOML)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.Equal(t, []Format{FormatEnv}, small.Formats())
	})

	t.Run("ParseFormat", func(t *testing.T) {
		f, err := ParseFormat(".yml")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, f)
		_, err = ParseFormat("xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func parseFlat(t *testing.T, a *Adapter, content string) *FlatMap {
	t.Helper()
	flat, err := decodeWith(a, []byte(content))
	require.NoError(t, err)
	return flat
}

// TestStructuredAdapters tests parsing and flattening of nested formats
func TestStructuredAdapters(t *testing.T) {
	t.Run("JSONKeepsOrder", func(t *testing.T) {
		flat := parseFlat(t, JSONAdapter(), `{"zeta": 1, "alpha": {"b": 2.50, "a": null}, "list": [true, "x"]}`)
		assert.Equal(t, []string{"ZETA", "ALPHA_B", "ALPHA_A", "LIST_0", "LIST_1"}, flat.Keys())
		assert.Equal(t, map[string]string{
			"ZETA": "1", "ALPHA_B": "2.50", "ALPHA_A": "", "LIST_0": "true", "LIST_1": "x",
		}, flat.Map())
	})

	t.Run("JSONInvalid", func(t *testing.T) {
		_, err := decodeWith(JSONAdapter(), []byte(`{"a": `))
		assert.ErrorIs(t, err, ErrParse)
		_, err = decodeWith(JSONAdapter(), []byte(`{} {}`))
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("YAMLKeepsOrder", func(t *testing.T) {
		content := `
server:
  port: 8080
  host: example.com
debug: yes
ratio: 0.75
missing: ~
hosts:
  - a
  - b
`
		flat := parseFlat(t, YAMLAdapter(), content)
		assert.Equal(t, []string{"SERVER_PORT", "SERVER_HOST", "DEBUG", "RATIO", "MISSING", "HOSTS_0", "HOSTS_1"}, flat.Keys())
		v, _ := flat.Get("DEBUG")
		assert.Equal(t, "yes", v)
		v, _ = flat.Get("MISSING")
		assert.Equal(t, "", v)
	})

	t.Run("YAMLAnchors", func(t *testing.T) {
		content := `
base: &base
  timeout: 5
prod:
  <<: *base
  host: prod.local
`
		flat := parseFlat(t, YAMLAdapter(), content)
		v, ok := flat.Get("PROD_TIMEOUT")
		assert.True(t, ok)
		assert.Equal(t, "5", v)
	})

	t.Run("YAMLInvalid", func(t *testing.T) {
		_, err := decodeWith(YAMLAdapter(), []byte("a: [1, 2"))
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("TOML", func(t *testing.T) {
		content := `
title = "demo"
debug = true

[database]
host = "localhost"
port = 5432

[[features]]
name = "auth"

[[features]]
name = "cache"
`
		flat := parseFlat(t, TOMLAdapter(), content)
		assert.Equal(t, []string{"TITLE", "DEBUG", "DATABASE_HOST", "DATABASE_PORT", "FEATURES_0_NAME", "FEATURES_1_NAME"}, flat.Keys())
		v, _ := flat.Get("FEATURES_1_NAME")
		assert.Equal(t, "cache", v)
	})

	t.Run("TOMLInvalid", func(t *testing.T) {
		_, err := decodeWith(TOMLAdapter(), []byte("a = "))
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("INISectionCollidesWithDefaultKey", func(t *testing.T) {
		_, err := decodeWith(INIAdapter(), []byte("database = primary\n[database]\nhost = x\n"))
		assert.ErrorIs(t, err, ErrParse)
		assert.Contains(t, err.Error(), "database")
	})

	t.Run("INIDottedSectionCollidesWithKey", func(t *testing.T) {
		_, err := decodeWith(INIAdapter(), []byte("[a]\nb = keep\n[a.b]\nc = 1\n"))
		assert.ErrorIs(t, err, ErrParse)

		_, err = decodeWith(INIAdapter(), []byte("[a.b]\nc = 1\n[a]\nb = keep\n"))
		assert.ErrorIs(t, err, ErrParse)
	})

	t.Run("INIKeepsPaddingAndQuotes", func(t *testing.T) {
		flat := FlatMapOf("PAD", "  pad  ", "QUOTED", `"q"`, "SINGLE", "'s'", "HASH", " a#b ", "SECTION_PAD", " x ")
		data, err := encodeWith(INIAdapter(), flat)
		require.NoError(t, err)

		back, err := decodeWith(INIAdapter(), data)
		require.NoError(t, err)
		assert.Equal(t, flat.Map(), back.Map(), string(data))
	})

	t.Run("INI", func(t *testing.T) {
		content := `
app_name = demo

[database]
host = localhost
port = 5432

[cache.redis]
url = redis://localhost
`
		flat := parseFlat(t, INIAdapter(), content)
		assert.Equal(t, []string{"APP_NAME", "DATABASE_HOST", "DATABASE_PORT", "CACHE_REDIS_URL"}, flat.Keys())
		v, _ := flat.Get("CACHE_REDIS_URL")
		assert.Equal(t, "redis://localhost", v)
	})
}

// TestStructuredRoundTrip saves through every nested adapter and parses the result again
func TestStructuredRoundTrip(t *testing.T) {
	flat := FlatMapOf(
		"DATABASE_HOST", "localhost",
		"DATABASE_PORT", "5432",
		"DEBUG", "true",
		"RATIO", "2.0",
		"NAME", "hello world",
	)

	for _, a := range []*Adapter{JSONAdapter(), YAMLAdapter(), TOMLAdapter(), INIAdapter()} {
		t.Run(string(a.Format), func(t *testing.T) {
			data, err := encodeWith(a, flat)
			require.NoError(t, err)

			back, err := decodeWith(a, data)
			require.NoError(t, err)
			for _, key := range flat.Keys() {
				want, _ := flat.Get(key)
				got, ok := back.Get(key)
				require.True(t, ok, "%s missing from\n%s", key, data)
				assert.Equal(t, AutoDetect(want), AutoDetect(got), "%s in\n%s", key, data)
			}
		})
	}

	t.Run("JSONTypedLeaves", func(t *testing.T) {
		data, err := encodeWith(JSONAdapter(), flat)
		require.NoError(t, err)
		s := string(data)
		assert.True(t, strings.Contains(s, `"PORT": 5432`), s)
		assert.True(t, strings.Contains(s, `"DEBUG": true`), s)
		assert.True(t, strings.Contains(s, `"RATIO": 2.0`), s)
	})
}
