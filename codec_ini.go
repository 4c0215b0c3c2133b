// FILE: lixenwraith/envdot/codec_ini.go
package envdot

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// INIAdapter handles .ini, .cfg and .conf files. Keys of the default section sit
// at the root; dotted section names nest.
func INIAdapter() *Adapter {
	return &Adapter{
		Format:     FormatINI,
		Extensions: []string{".ini", ".cfg", ".conf"},
		Nested:     true,
		Parse:      parseINI,
		Serialize:  serializeINI,
	}
}

func parseINI(data []byte) (any, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		SpaceBeforeInlineComment:   true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid INI: %v", ErrParse, err)
	}

	root := Object{}
	for _, sec := range cfg.Sections() {
		target := &root
		if name := sec.Name(); name != ini.DefaultSection {
			for _, part := range strings.Split(name, ".") {
				if v, ok := target.Get(part); ok && !isObject(v) {
					return nil, fmt.Errorf("%w: section [%s] collides with key %q", ErrParse, name, part)
				}
				target = target.Child(part)
			}
		}
		for _, key := range sec.Keys() {
			if _, ok := target.Get(key.Name()); ok {
				return nil, fmt.Errorf("%w: key %q in section [%s] collides with a section", ErrParse, key.Name(), sec.Name())
			}
			target.Set(key.Name(), key.String())
		}
	}
	return root, nil
}

func isObject(v any) bool {
	switch v.(type) {
	case Object, *Object:
		return true
	}
	return false
}

// iniValue wraps values that are themselves quoted in the other quote character,
// since the INI reader strips one pair of surrounding quotes. Padding and comment
// characters are quoted by the writer.
func iniValue(v string) string {
	if strings.ContainsAny(v, "#;\n`") {
		return v
	}
	switch {
	case surroundedBy(v, '"') && !strings.Contains(v, "'"):
		return "'" + v + "'"
	case surroundedBy(v, '\'') && !strings.Contains(v, `"`):
		return `"` + v + `"`
	}
	return v
}

func surroundedBy(v string, q byte) bool {
	return len(v) >= 2 && v[0] == q && v[len(v)-1] == q
}

// serializeINI writes root scalars to the default section and every root
// container to its own section. Anything nested deeper is flattened into
// the section's keys.
func serializeINI(data any) ([]byte, error) {
	obj, ok := data.(Object)
	if !ok {
		return nil, fmt.Errorf("INI serializer expects Object, got %T", data)
	}

	cfg := ini.Empty()
	def := cfg.Section(ini.DefaultSection)
	for _, m := range obj {
		switch m.Value.(type) {
		case Object, *Object, []any:
			sec, err := cfg.NewSection(m.Key)
			if err != nil {
				return nil, fmt.Errorf("failed to create section %q: %w", m.Key, err)
			}
			flat, err := Flatten(m.Value, "")
			if err != nil {
				return nil, err
			}
			for _, k := range flat.keys {
				if _, err := sec.NewKey(k, iniValue(flat.values[k])); err != nil {
					return nil, fmt.Errorf("failed to write key %s.%s: %w", m.Key, k, err)
				}
			}
		default:
			if _, err := def.NewKey(m.Key, iniValue(ToString(m.Value))); err != nil {
				return nil, fmt.Errorf("failed to write key %s: %w", m.Key, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to marshal INI: %w", err)
	}
	return buf.Bytes(), nil
}
