// FILE: lixenwraith/envdot/dotenv.go
package envdot

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// EnvAdapter handles KEY=value files.
func EnvAdapter() *Adapter {
	return &Adapter{
		Format:     FormatEnv,
		Extensions: []string{".env"},
		Nested:     false,
		Parse: func(data []byte) (any, error) {
			return ParseDotEnv(data)
		},
		Serialize: func(data any) ([]byte, error) {
			flat, ok := data.(*FlatMap)
			if !ok {
				return nil, fmt.Errorf("env serializer expects *FlatMap, got %T", data)
			}
			return SerializeDotEnv(flat), nil
		},
	}
}

// ParseDotEnv reads KEY=value lines. Blank lines and lines starting with '#' are
// skipped, an "export " prefix is accepted. Quoted values keep whitespace and '#';
// double quotes additionally process \n \t \r \" and \\ escapes.
func ParseDotEnv(data []byte) (*FlatMap, error) {
	out := NewFlatMap()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "export "); ok {
			line = strings.TrimSpace(rest)
		}

		key, rawValue, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%w: line %d: missing '=' in %q", ErrParse, lineNo, line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: line %d: empty key", ErrParse, lineNo)
		}

		value, err := parseDotEnvValue(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, lineNo, err)
		}
		out.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return out, nil
}

func parseDotEnvValue(v string) (string, error) {
	if v == "" {
		return "", nil
	}

	switch quote := v[0]; quote {
	case '\'':
		end := strings.IndexByte(v[1:], '\'')
		if end < 0 {
			return "", fmt.Errorf("unterminated quote in %s", v)
		}
		return v[1 : end+1], nil
	case '"':
		var sb strings.Builder
		for i := 1; i < len(v); i++ {
			c := v[i]
			switch {
			case c == '"':
				return sb.String(), nil
			case c == '\\' && i+1 < len(v):
				i++
				switch v[i] {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				case 'r':
					sb.WriteByte('\r')
				case '"':
					sb.WriteByte('"')
				case '\\':
					sb.WriteByte('\\')
				default:
					sb.WriteByte('\\')
					sb.WriteByte(v[i])
				}
			default:
				sb.WriteByte(c)
			}
		}
		return "", fmt.Errorf("unterminated quote in %s", v)
	}

	// Unquoted: an inline comment starts at '#'
	if idx := strings.IndexByte(v, '#'); idx >= 0 {
		v = v[:idx]
	}
	return strings.TrimSpace(v), nil
}

// SerializeDotEnv writes one KEY=value line per entry in insertion order.
func SerializeDotEnv(flat *FlatMap) []byte {
	var buf bytes.Buffer
	for _, key := range flat.keys {
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(quoteDotEnvValue(flat.values[key]))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func quoteDotEnvValue(v string) string {
	if !strings.ContainsAny(v, " \t\r\n#\"'\\") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)
	return `"` + r.Replace(v) + `"`
}
