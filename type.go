// FILE: lixenwraith/envdot/type.go
package envdot

import (
	"fmt"
)

// GetAs casts the value for key to kind. An absent key casts the canonical
// form of def instead, so a nil default with KindInt fails with ErrTypeConversion.
func (s *Store) GetAs(key string, kind Kind, def any) (any, error) {
	raw, ok := s.Lookup(key)
	if !ok {
		raw = ToString(def)
	}
	return Coerce(raw, kind, def)
}

// String retrieves the value for key as a trimmed string.
func (s *Store) String(key string) (string, error) {
	raw, ok := s.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	v, err := Coerce(raw, KindString, nil)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Int64 retrieves the value for key as int64.
// Floats truncate and booleans map to 1 and 0.
func (s *Store) Int64(key string) (int64, error) {
	raw, ok := s.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	v, err := Coerce(raw, KindInt, nil)
	if err != nil {
		return 0, fmt.Errorf("cannot convert value for key %s to int64: %w", key, err)
	}
	return v.(int64), nil
}

// Float64 retrieves the value for key as float64.
func (s *Store) Float64(key string) (float64, error) {
	raw, ok := s.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	v, err := Coerce(raw, KindFloat, nil)
	if err != nil {
		return 0, fmt.Errorf("cannot convert value for key %s to float64: %w", key, err)
	}
	return v.(float64), nil
}

// Bool retrieves the value for key as bool.
// Numbers are true when non-zero; strings outside the boolean tokens are false.
func (s *Store) Bool(key string) (bool, error) {
	raw, ok := s.Lookup(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	v, err := Coerce(raw, KindBool, nil)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Strings retrieves the value for key split on commas and whitespace.
func (s *Store) Strings(key string) ([]string, error) {
	raw, ok := s.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	v, err := Coerce(raw, KindList, nil)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
