// FILE: lixenwraith/envdot/register.go
package envdot

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Format names a configuration file format.
type Format string

const (
	FormatEnv  Format = "env"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
)

// ParseFormat normalizes a format name or extension such as "yml" or ".env".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "env", "dotenv":
		return FormatEnv, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "ini", "cfg", "conf":
		return FormatINI, nil
	case "toml", "tml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Adapter is the parse/serialize pair bound to one format.
type Adapter struct {
	Format Format

	// Extensions handled by this adapter, lower-case with leading dot
	Extensions []string

	// Nested adapters exchange Object structures; flat adapters exchange *FlatMap
	Nested bool

	// Parse returns an Object (nested) or a *FlatMap (flat)
	Parse func(data []byte) (any, error)

	// Serialize receives an Object with typed leaves (nested) or a *FlatMap (flat)
	Serialize func(data any) ([]byte, error)
}

// Registry dispatches formats and file extensions to adapters.
type Registry struct {
	mu       sync.RWMutex
	byFormat map[Format]*Adapter
	byExt    map[string]*Adapter
}

// NewRegistry creates a registry holding the given adapters.
func NewRegistry(adapters ...*Adapter) *Registry {
	r := &Registry{
		byFormat: make(map[Format]*Adapter),
		byExt:    make(map[string]*Adapter),
	}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// DefaultRegistry returns a registry with the env, JSON, YAML, INI and TOML adapters.
func DefaultRegistry() *Registry {
	return NewRegistry(EnvAdapter(), JSONAdapter(), YAMLAdapter(), INIAdapter(), TOMLAdapter())
}

// Register adds or replaces the adapter for its format and extensions.
func (r *Registry) Register(a *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byFormat[a.Format] = a
	for _, ext := range a.Extensions {
		r.byExt[strings.ToLower(ext)] = a
	}
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ForFormat returns the adapter for f, or ErrUnsupportedFormat.
func (r *Registry) ForFormat(f Format) (*Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.byFormat[f]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: no support for %s", ErrUnsupportedFormat, f)
}

// ForExtension returns the adapter registered for ext (".json", "yml", ...).
func (r *Registry) ForExtension(ext string) (*Adapter, error) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.byExt[ext]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
}

// ForPath classifies a file path. Base names ".env" and ".env.*", the ".env"
// extension, and files without an extension use the env adapter.
func (r *Registry) ForPath(path string) (*Adapter, error) {
	if f := detectFileFormat(path); f != "" {
		return r.ForFormat(f)
	}
	return r.ForExtension(filepath.Ext(path))
}

// detectFileFormat recognizes the dotenv family, which extensions alone cannot.
func detectFileFormat(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)
	switch {
	case base == ".env", strings.HasPrefix(base, ".env."), ext == ".env":
		return FormatEnv
	case ext == "":
		return FormatEnv
	}
	return ""
}
