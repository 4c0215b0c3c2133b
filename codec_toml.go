// FILE: lixenwraith/envdot/codec_toml.go
package envdot

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// TOMLAdapter handles .toml files. Key order follows the document.
func TOMLAdapter() *Adapter {
	return &Adapter{
		Format:     FormatTOML,
		Extensions: []string{".toml", ".tml"},
		Nested:     true,
		Parse:      parseTOML,
		Serialize:  serializeTOML,
	}
}

func parseTOML(data []byte) (any, error) {
	raw := make(map[string]any)
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid TOML: %v", ErrParse, err)
	}

	order := make(map[string]int)
	for i, k := range md.Keys() {
		path := strings.Join(k, "\x00")
		if _, seen := order[path]; !seen {
			order[path] = i
		}
	}
	return orderedTOMLTable(raw, nil, order), nil
}

// orderedTOMLTable converts a decoded table to an Object ordered by first
// appearance in the document. Array elements share their parent's path.
func orderedTOMLTable(table map[string]any, path []string, order map[string]int) Object {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	pos := func(k string) (int, bool) {
		p, ok := order[strings.Join(append(append([]string{}, path...), k), "\x00")]
		return p, ok
	}
	sort.SliceStable(keys, func(i, j int) bool {
		pi, oki := pos(keys[i])
		pj, okj := pos(keys[j])
		switch {
		case oki && okj:
			return pi < pj
		case oki != okj:
			return oki
		}
		return keys[i] < keys[j]
	})

	obj := make(Object, 0, len(keys))
	for _, k := range keys {
		childPath := append(append([]string{}, path...), k)
		obj = append(obj, Member{Key: k, Value: orderedTOMLValue(table[k], childPath, order)})
	}
	return obj
}

func orderedTOMLValue(v any, path []string, order map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		return orderedTOMLTable(t, path, order)
	case []map[string]any:
		arr := make([]any, len(t))
		for i, m := range t {
			arr[i] = orderedTOMLTable(m, path, order)
		}
		return arr
	case []any:
		arr := make([]any, len(t))
		for i, e := range t {
			arr[i] = orderedTOMLValue(e, path, order)
		}
		return arr
	}
	return v
}

func serializeTOML(data any) ([]byte, error) {
	var table map[string]any
	switch t := data.(type) {
	case Object:
		table = tomlSafe(t.Map()).(map[string]any)
	case map[string]any:
		table = tomlSafe(t).(map[string]any)
	default:
		return nil, fmt.Errorf("TOML serializer expects a table, got %T", data)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(table); err != nil {
		return nil, fmt.Errorf("failed to marshal config data to TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// tomlSafe replaces nil, which TOML cannot represent, with an empty string.
func tomlSafe(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = tomlSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = tomlSafe(e)
		}
		return out
	}
	return v
}
