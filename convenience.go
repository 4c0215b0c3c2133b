// File: lixenwraith/envdot/convenience.go
package envdot

import (
	"fmt"
	"sync"
)

var (
	// defaultStore backs the package-level functions, created on first use.
	defaultStore *Store

	// defaultMutex protects access to defaultStore.
	defaultMutex sync.RWMutex
)

// Default returns the process-wide store, creating it with DefaultOptions on first use.
func Default() *Store {
	defaultMutex.RLock()
	s := defaultStore
	defaultMutex.RUnlock()
	if s != nil {
		return s
	}

	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	if defaultStore == nil {
		defaultStore = New()
	}
	return defaultStore
}

// SetDefault replaces the process-wide store.
// This function is primarily intended for testing.
func SetDefault(s *Store) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	defaultStore = s
}

// ResetDefault drops the process-wide store; the next use creates a fresh one.
func ResetDefault() {
	SetDefault(nil)
}

// Load merges source into the default store. An empty source means DefaultFile.
func Load(source string) error { return Default().Load(source) }

// LoadWithOptions merges source into the default store using opts.
func LoadWithOptions(source string, opts LoadOptions) error {
	return Default().LoadWithOptions(source, opts)
}

// Get returns the detected value for key from the default store.
func Get(key string) (any, bool) { return Default().Get(key) }

// GetDefault returns the detected value for key, or def when key is absent.
func GetDefault(key string, def any) any { return Default().GetDefault(key, def) }

// GetAs casts the value for key in the default store to kind.
func GetAs(key string, kind Kind, def any) (any, error) { return Default().GetAs(key, kind, def) }

// Set stores value in the default store and mirrors it into the environment.
func Set(key string, value any) error { return Default().Set(key, value) }

// Save writes the default store to target.
func Save(target string, format Format) error { return Default().Save(target, format) }

// Quick builds a store from the given files, filling missing keys from defaults.
// Missing files are skipped.
func Quick(defaults any, files ...string) (*Store, error) {
	b := NewBuilder()
	if defaults != nil {
		b.WithDefaults(defaults)
	}
	if len(files) == 0 {
		files = []string{DefaultFile}
	}
	for _, f := range files {
		b.WithOptionalFile(f)
	}
	return b.Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(defaults any, files ...string) *Store {
	s, err := Quick(defaults, files...)
	if err != nil {
		panic(fmt.Sprintf("envdot initialization failed: %v", err))
	}
	return s
}
