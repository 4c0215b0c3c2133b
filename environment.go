// FILE: lixenwraith/envdot/environment.go
package envdot

import (
	"os"
	"sort"
	"sync"
)

// Environment is the process-environment surface the store mirrors into.
type Environment interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Unset(key string) error
}

// OSEnvironment is the real process environment.
type OSEnvironment struct{}

// Lookup reads a process variable.
func (OSEnvironment) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// Set writes a process variable.
func (OSEnvironment) Set(key, value string) error { return os.Setenv(key, value) }

// Unset removes a process variable.
func (OSEnvironment) Unset(key string) error { return os.Unsetenv(key) }

// MapEnvironment is an in-memory Environment, safe for concurrent use.
type MapEnvironment struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnvironment creates an environment seeded with vars.
func NewMapEnvironment(vars map[string]string) *MapEnvironment {
	m := &MapEnvironment{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *MapEnvironment) Lookup(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MapEnvironment) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.vars == nil {
		m.vars = make(map[string]string)
	}
	m.vars[key] = value
	return nil
}

func (m *MapEnvironment) Unset(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, key)
	return nil
}

// Keys returns the variable names in sorted order.
func (m *MapEnvironment) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.vars))
	for k := range m.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
