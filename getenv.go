// FILE: lixenwraith/envdot/getenv.go
package envdot

import (
	"os"
	"sync"
)

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// Accessor switches environment reads between raw strings and auto-detected
// typed values. The lookup function is captured once at construction and every
// typed read goes through it, so installing never wraps an already wrapped reader.
type Accessor struct {
	mu        sync.RWMutex
	pristine  LookupFunc
	installed bool
}

// NewAccessor wraps lookup; nil means os.LookupEnv.
func NewAccessor(lookup LookupFunc) *Accessor {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Accessor{pristine: lookup}
}

// Install routes Getenv through AutoDetect. Installing twice is a no-op.
func (a *Accessor) Install() {
	a.mu.Lock()
	a.installed = true
	a.mu.Unlock()
}

// Restore returns Getenv to raw strings.
func (a *Accessor) Restore() {
	a.mu.Lock()
	a.installed = false
	a.mu.Unlock()
}

// Installed reports whether typed reads are active.
func (a *Accessor) Installed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.installed
}

// Getenv returns the typed value when installed, else the raw string.
// An absent variable yields nil when installed and "" otherwise.
func (a *Accessor) Getenv(key string) any {
	v, _ := a.Lookup(key)
	if v == nil && !a.Installed() {
		return ""
	}
	return v
}

// Lookup is Getenv that also reports presence.
func (a *Accessor) Lookup(key string) (any, bool) {
	raw, ok := a.pristine(key)
	if !ok {
		return nil, false
	}
	if a.Installed() {
		return AutoDetect(raw), true
	}
	return raw, true
}

// Raw reads through the pristine lookup regardless of installation.
func (a *Accessor) Raw(key string) (string, bool) {
	return a.pristine(key)
}

// Typed reads key and casts it to kind. An absent variable returns def as is.
func (a *Accessor) Typed(key string, kind Kind, def any) (any, error) {
	raw, ok := a.pristine(key)
	if !ok {
		return def, nil
	}
	return Coerce(raw, kind, def)
}

// Int reads key as int64, def when absent or not numeric.
func (a *Accessor) Int(key string, def int64) int64 {
	v, err := a.Typed(key, KindInt, def)
	if err != nil {
		return def
	}
	return v.(int64)
}

// Float reads key as float64, def when absent or not numeric.
func (a *Accessor) Float(key string, def float64) float64 {
	v, err := a.Typed(key, KindFloat, def)
	if err != nil {
		return def
	}
	return v.(float64)
}

// Bool reads key as bool, def when absent.
func (a *Accessor) Bool(key string, def bool) bool {
	v, _ := a.Typed(key, KindBool, def)
	b, _ := v.(bool)
	return b
}

// String reads key trimmed, def when absent.
func (a *Accessor) String(key string, def string) string {
	v, _ := a.Typed(key, KindString, def)
	s, _ := v.(string)
	return s
}

var defaultAccessor = NewAccessor(os.LookupEnv)

// Getenv reads a process variable, typed once ReplaceGetenv was called.
func Getenv(key string) any { return defaultAccessor.Getenv(key) }

// LookupEnv is Getenv that also reports presence.
func LookupEnv(key string) (any, bool) { return defaultAccessor.Lookup(key) }

// ReplaceGetenv makes Getenv return auto-detected values.
func ReplaceGetenv() { defaultAccessor.Install() }

// RestoreGetenv makes Getenv return raw strings again.
func RestoreGetenv() { defaultAccessor.Restore() }

// GetenvReplaced reports whether ReplaceGetenv is in effect.
func GetenvReplaced() bool { return defaultAccessor.Installed() }

// GetenvTyped reads a process variable cast to kind, def when absent.
func GetenvTyped(key string, kind Kind, def any) (any, error) {
	return defaultAccessor.Typed(key, kind, def)
}

// GetenvInt reads a process variable as an integer, def when absent or not numeric.
func GetenvInt(key string, def int64) int64 { return defaultAccessor.Int(key, def) }

// GetenvFloat reads a process variable as a float, def when absent or not numeric.
func GetenvFloat(key string, def float64) float64 { return defaultAccessor.Float(key, def) }

// GetenvBool reads a process variable through the boolean token set, def when absent.
func GetenvBool(key string, def bool) bool { return defaultAccessor.Bool(key, def) }

// GetenvString reads a trimmed process variable, def when absent.
func GetenvString(key string, def string) string { return defaultAccessor.String(key, def) }

// SetenvTyped stores the canonical string form of value in the process environment.
func SetenvTyped(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	return os.Setenv(key, ToString(value))
}
