// FILE: lixenwraith/envdot/detect.go
package envdot

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind selects the target of an explicit cast.
type Kind int

const (
	// KindAuto applies AutoDetect only
	KindAuto Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	// KindTuple follows the same splitting rule as KindList
	KindTuple
)

var kindNames = map[Kind]string{
	KindAuto:   "auto",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindTuple:  "tuple",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind name such as "int" or "bool".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return KindAuto, nil
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer", "int64":
		return KindInt, nil
	case "float", "float64", "number":
		return KindFloat, nil
	case "str", "string":
		return KindString, nil
	case "list", "slice":
		return KindList, nil
	case "tuple":
		return KindTuple, nil
	}
	return KindAuto, fmt.Errorf("unknown kind %q", name)
}

var (
	trueTokens  = map[string]bool{"true": true, "yes": true, "on": true, "1": true}
	falseTokens = map[string]bool{"false": true, "no": true, "off": true, "0": true}

	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?([0-9]+\.?[0-9]*|\.[0-9]+)$`)
	listSplitter = regexp.MustCompile(`[,\s]+`)
)

// AutoDetect maps a raw textual value to nil, bool, int64, float64 or string.
// Branches are tried in order: null tokens, boolean tokens, integer, float, string.
// The boolean branch claims "1" and "0" before the integer branch does.
// Leading and trailing whitespace is always stripped.
func AutoDetect(raw string) any {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)

	if s == "" || lower == "none" || lower == "null" {
		return nil
	}
	if trueTokens[lower] {
		return true
	}
	if falseTokens[lower] {
		return false
	}
	if intPattern.MatchString(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		// Out of int64 range, handled as float below
	}
	if floatPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// ToString renders a typed value in the canonical form used when persisting.
// AutoDetect(ToString(v)) == v for nil, bools, int64, finite float64 and
// strings that do not look like another kind, with the exception of the
// integers 1 and 0 which re-detect as booleans.
func ToString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	case float64:
		return formatFloat(v, 64)
	case float32:
		return formatFloat(float64(v), 32)
	case time.Time:
		return v.Format(time.RFC3339)
	case []string:
		return strings.Join(v, ",")
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = ToString(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Ptr:
		if rv.IsNil() {
			return ""
		}
		return ToString(rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", value)
}

// formatFloat keeps a decimal point on integral values so they detect as floats again.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Coerce detects the raw value and converts it to kind.
// A failed numeric conversion returns def when def is non-nil, otherwise an
// error wrapping ErrTypeConversion.
func Coerce(raw string, kind Kind, def any) (any, error) {
	detected := AutoDetect(raw)

	var (
		result any
		err    error
	)
	switch kind {
	case KindAuto:
		return detected, nil
	case KindBool:
		return toBool(detected), nil
	case KindString:
		return strings.TrimSpace(raw), nil
	case KindList, KindTuple:
		return splitList(raw), nil
	case KindInt:
		result, err = toInt(detected)
	case KindFloat:
		result, err = toFloat(detected)
	default:
		err = fmt.Errorf("unknown target %s", kind)
	}

	if err != nil {
		if def != nil {
			return def, nil
		}
		return nil, fmt.Errorf("%w: cannot convert %q to %s: %v", ErrTypeConversion, raw, kind, err)
	}
	return result, nil
}

// toBool uses the boolean token set for strings and truthiness otherwise.
func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return trueTokens[strings.ToLower(b)]
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return false
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("float %v out of integer range", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("no integer form for %T", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("no float form for %T", v)
}

// splitList splits on commas and/or whitespace and drops empty fragments.
func splitList(raw string) []string {
	parts := listSplitter.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
