// FILE: lixenwraith/envdot/errors.go
package envdot

import "errors"

// Error kinds returned by store, codec and coercion operations.
// All returned errors wrap one of these and can be matched with errors.Is.
var (
	// ErrFileNotFound is returned by Load when the source does not exist.
	ErrFileNotFound = errors.New("config source not found")

	// ErrParse is returned for malformed source content and for flatten-time key collisions.
	ErrParse = errors.New("config parse error")

	// ErrTypeConversion is returned when an explicit cast cannot be satisfied and no default is usable.
	ErrTypeConversion = errors.New("type conversion failed")

	// ErrUnsupportedFormat is returned when no adapter is available for a format or extension.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrKeyNotFound is returned by typed accessors for keys that are not stored.
	ErrKeyNotFound = errors.New("key not found")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("key cannot be empty")
)
