// FILE: lixenwraith/envdot/decode.go
package envdot

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag read by Decode and Builder.WithDefaults.
const TagName = "env"

// Decode populates target from the entries under prefix. A struct target sees
// the keys nested on "_" ("DATABASE_HOST" fills Database.Host); a map target
// receives the flat keys with the prefix removed. Field names match
// case-insensitively; values are converted from their raw strings.
func (s *Store) Decode(prefix string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	flat := s.section(prefix)

	var input any
	if rv.Elem().Kind() == reflect.Map {
		input = flat.Map()
	} else {
		input = decodeTree(flat)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       getDecodeHook(),
		ZeroFields:       false,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: decode failed for prefix %q: %v", ErrTypeConversion, prefix, err)
	}
	return nil
}

// section returns the entries below prefix with the prefix and its separator removed.
func (s *Store) section(prefix string) *FlatMap {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p := strings.TrimSuffix(prefix, DefaultSeparator)
	if p == "" {
		return s.entries.Clone()
	}

	out := NewFlatMap()
	for _, key := range s.entries.keys {
		if rest, ok := strings.CutPrefix(key, p+DefaultSeparator); ok && rest != "" {
			out.Set(rest, s.entries.values[key])
		}
	}
	return out
}

// decodeTree exposes every way a flat key can be read as a path: "MAX_CONNS"
// is offered both as a field of its own and as MAX -> CONNS, so fields whose
// names contain the separator still match. Groups whose members are exactly
// the indices 0..n-1 become slices.
func decodeTree(flat *FlatMap) map[string]any {
	out := make(map[string]any)
	groups := make(map[string]*FlatMap)
	var groupOrder []string

	for _, key := range flat.keys {
		raw := flat.values[key]
		out[key] = raw

		segments := strings.Split(key, DefaultSeparator)
		for i := 1; i < len(segments); i++ {
			head := strings.Join(segments[:i], DefaultSeparator)
			rest := strings.Join(segments[i:], DefaultSeparator)
			if head == "" || rest == "" {
				continue
			}
			g, ok := groups[head]
			if !ok {
				g = NewFlatMap()
				groups[head] = g
				groupOrder = append(groupOrder, head)
			}
			g.Set(rest, raw)
		}
	}

	for _, head := range groupOrder {
		child := decodeTree(groups[head])
		if seq, ok := indexSequence(child); ok {
			out[head] = seq
		} else {
			out[head] = child
		}
	}
	return out
}

// indexSequence converts a group keyed exactly by 0..n-1 (ignoring compound keys) to a slice.
func indexSequence(m map[string]any) ([]any, bool) {
	var simple []string
	for k := range m {
		if !strings.Contains(k, DefaultSeparator) {
			simple = append(simple, k)
		}
	}
	if len(simple) == 0 {
		return nil, false
	}
	sort.Strings(simple)
	seq := make([]any, len(simple))
	for i := range seq {
		v, ok := m[strconv.Itoa(i)]
		if !ok {
			return nil, false
		}
		seq[i] = v
	}
	return seq, true
}

// getDecodeHook returns the composite decode hook for all type conversions
func getDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),

		// Scalars follow the same coercion rules as GetAs
		stringToKindHookFunc(),
	)
}

// stringToKindHookFunc converts raw strings for bool and numeric targets through Coerce.
func stringToKindHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		raw := data.(string)

		switch t.Kind() {
		case reflect.Bool:
			return Coerce(raw, KindBool, nil)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if t == reflect.TypeOf(time.Duration(0)) {
				return data, nil
			}
			if strings.TrimSpace(raw) == "" {
				return int64(0), nil
			}
			return Coerce(raw, KindInt, nil)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if strings.TrimSpace(raw) == "" {
				return int64(0), nil
			}
			return Coerce(raw, KindInt, nil)
		case reflect.Float32, reflect.Float64:
			if strings.TrimSpace(raw) == "" {
				return float64(0), nil
			}
			return Coerce(raw, KindFloat, nil)
		}
		return data, nil
	}
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}

		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := strings.TrimSpace(data.(string))
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}

		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := strings.TrimSpace(data.(string))
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := strings.TrimSpace(data.(string))
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}

// structEntries flattens a struct of defaults into entries, reading TagName tags.
func structEntries(defaults any) (*FlatMap, error) {
	rv := reflect.ValueOf(defaults)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("defaults must be a struct, got %T", defaults)
	}

	nested := make(map[string]any)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &nested,
		TagName: TagName,
	})
	if err != nil {
		return nil, fmt.Errorf("decoder creation failed: %w", err)
	}
	if err := decoder.Decode(rv.Interface()); err != nil {
		return nil, fmt.Errorf("failed to read defaults: %w", err)
	}
	return Flatten(nested, "")
}
