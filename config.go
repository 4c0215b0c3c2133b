// FILE: lixenwraith/envdot/config.go
package envdot

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultFile is the load and save target when no source was given.
const DefaultFile = ".env"

// Options configures a Store.
type Options struct {
	// Environment receives mirrored values, OSEnvironment when nil
	Environment Environment

	// Logger for load/save/mirror decisions, no-op when nil
	Logger *zap.Logger

	// Registry of format adapters, DefaultRegistry() when nil
	Registry *Registry

	// Accessor toggled by LoadOptions.ReplaceGetenv, the package accessor when nil
	Accessor *Accessor

	// ApplyToOS is the default for loads and sets that do not say otherwise
	ApplyToOS bool
}

// DefaultOptions returns options that mirror into the real process environment.
func DefaultOptions() Options {
	return Options{
		Environment: OSEnvironment{},
		ApplyToOS:   true,
	}
}

// SetOptions controls a single Set.
type SetOptions struct {
	ApplyToOS bool
}

// Entry is one stored key with its raw and detected values.
type Entry struct {
	Key   string
	Raw   string
	Value any
}

// Store is an ordered, typed key-value view over configuration sources.
type Store struct {
	entries  *FlatMap
	mirrored map[string]bool // keys this store wrote into the environment
	source   string

	env       Environment
	logger    *zap.Logger
	registry  *Registry
	accessor  *Accessor
	applyToOS bool

	mutex sync.RWMutex
}

// New creates a Store with DefaultOptions.
func New() *Store {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a Store, filling unset options with defaults.
func NewWithOptions(opts Options) *Store {
	s := &Store{
		entries:   NewFlatMap(),
		mirrored:  make(map[string]bool),
		env:       opts.Environment,
		logger:    opts.Logger,
		registry:  opts.Registry,
		accessor:  opts.Accessor,
		applyToOS: opts.ApplyToOS,
	}
	if s.env == nil {
		s.env = OSEnvironment{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}
	if s.accessor == nil {
		s.accessor = defaultAccessor
	}
	return s
}

// Get returns the auto-detected value for key.
func (s *Store) Get(key string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	raw, ok := s.entries.Get(key)
	if !ok {
		return nil, false
	}
	return AutoDetect(raw), true
}

// GetDefault returns the detected value for key, or def only when key is absent.
// A present key whose value detects to nil still returns nil.
func (s *Store) GetDefault(key string, def any) any {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// Lookup returns the raw stored string.
func (s *Store) Lookup(key string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.entries.Get(key)
}

// Has reports whether key is stored.
func (s *Store) Has(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.entries.Has(key)
}

// Set stores the canonical string form of value, mirroring per the store default.
func (s *Store) Set(key string, value any) error {
	return s.SetWithOptions(key, value, SetOptions{ApplyToOS: s.applyToOS})
}

// SetWithOptions stores the canonical string form of value.
func (s *Store) SetWithOptions(key string, value any, opts SetOptions) error {
	if key == "" {
		return fmt.Errorf("%w: cannot set value", ErrEmptyKey)
	}
	raw := ToString(value)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries.Set(key, raw)
	s.logger.Debug("set value", zap.String("key", key), zap.Bool("apply_to_os", opts.ApplyToOS))
	if opts.ApplyToOS {
		return s.mirrorLocked(key, raw)
	}
	return nil
}

// mirrorLocked writes one value into the environment. Caller holds the write lock.
func (s *Store) mirrorLocked(key, raw string) error {
	if err := s.env.Set(key, raw); err != nil {
		return fmt.Errorf("failed to set environment variable %s: %w", key, err)
	}
	s.mirrored[key] = true
	return nil
}

// Delete removes key from the store. The environment is left untouched.
func (s *Store) Delete(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	deleted := s.entries.Delete(key)
	if deleted {
		s.logger.Debug("deleted key", zap.String("key", key))
	}
	return deleted
}

// Clear empties the store. With clearOS it also unsets every variable this
// store mirrored; variables it never wrote are left alone.
func (s *Store) Clear(clearOS bool) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var firstErr error
	if clearOS {
		for key := range s.mirrored {
			if err := s.env.Unset(key); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to unset environment variable %s: %w", key, err)
			}
		}
		s.mirrored = make(map[string]bool)
	}
	s.logger.Debug("cleared store", zap.Int("entries", s.entries.Len()), zap.Bool("clear_os", clearOS))
	s.entries = NewFlatMap()
	return firstErr
}

// All returns every entry in insertion order.
func (s *Store) All() []Entry {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]Entry, 0, s.entries.Len())
	for _, key := range s.entries.keys {
		raw := s.entries.values[key]
		out = append(out, Entry{Key: key, Raw: raw, Value: AutoDetect(raw)})
	}
	return out
}

// Map returns every key with its detected value.
func (s *Store) Map() map[string]any {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make(map[string]any, s.entries.Len())
	for key, raw := range s.entries.values {
		out[key] = AutoDetect(raw)
	}
	return out
}

// Keys returns the keys in insertion order.
func (s *Store) Keys() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.entries.Keys()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.entries.Len()
}

// Snapshot returns a copy of the raw entries.
func (s *Store) Snapshot() *FlatMap {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.entries.Clone()
}

// Source returns the path of the most recent file load, "" if none.
func (s *Store) Source() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.source
}

// Mirrored reports whether key was written into the environment by this store.
func (s *Store) Mirrored(key string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.mirrored[key]
}

// Clone returns an independent store sharing options but not state.
func (s *Store) Clone() *Store {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return &Store{
		entries:   s.entries.Clone(),
		mirrored:  make(map[string]bool),
		source:    s.source,
		env:       s.env,
		logger:    s.logger,
		registry:  s.registry,
		accessor:  s.accessor,
		applyToOS: s.applyToOS,
	}
}
