// File: lixenwraith/envdot/helper.go
package envdot

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Find returns the entries whose key matches a shell glob such as "DB_*".
func (s *Store) Find(pattern string) ([]Entry, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return s.selectEntries(func(key, _ string) bool {
		ok, _ := path.Match(pattern, key)
		return ok
	}), nil
}

// Filter returns the entries whose key starts with prefix.
func (s *Store) Filter(prefix string) []Entry {
	return s.selectEntries(func(key, _ string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// Search returns the entries whose key or raw value matches the regular expression.
func (s *Store) Search(expr string) ([]Entry, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	return s.selectEntries(func(key, raw string) bool {
		return re.MatchString(key) || re.MatchString(raw)
	}), nil
}

func (s *Store) selectEntries(match func(key, raw string) bool) []Entry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []Entry
	for _, key := range s.entries.keys {
		raw := s.entries.values[key]
		if match(key, raw) {
			out = append(out, Entry{Key: key, Raw: raw, Value: AutoDetect(raw)})
		}
	}
	return out
}

// Validate checks that all required keys are stored with a non-empty value
func (s *Store) Validate(required ...string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var missing []string
	for _, key := range required {
		raw, exists := s.entries.Get(key)
		if !exists {
			missing = append(missing, key)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			missing = append(missing, key+" (empty)")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required configuration: %s", ErrKeyNotFound, strings.Join(missing, ", "))
	}
	return nil
}
