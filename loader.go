// FILE: lixenwraith/envdot/loader.go
package envdot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// LoadOptions controls how a source is merged into the store.
type LoadOptions struct {
	// Override lets incoming values replace existing keys; otherwise existing keys win
	Override bool

	// ApplyToOS mirrors every value written by this load into the environment
	ApplyToOS bool

	// Format forces an adapter instead of detecting it from the path
	Format Format

	// ReplaceGetenv installs the typed getenv after a successful load
	ReplaceGetenv bool
}

// DefaultLoadOptions returns the options used by Load on a default store.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{ApplyToOS: true}
}

// Load merges source into the store without overriding existing keys.
// An empty source means the last loaded file, or DefaultFile.
func (s *Store) Load(source string) error {
	return s.LoadWithOptions(source, LoadOptions{ApplyToOS: s.applyToOS})
}

// LoadWithOptions reads, parses and merges a file.
func (s *Store) LoadWithOptions(source string, opts LoadOptions) error {
	path := s.resolvePath(source)

	adapter, err := s.adapterFor(path, opts.Format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := s.loadData(data, adapter, opts, path); err != nil {
		return fmt.Errorf("failed to load '%s': %w", path, err)
	}
	return nil
}

// LoadBytes merges already read content of the given format.
func (s *Store) LoadBytes(data []byte, format Format, opts LoadOptions) error {
	adapter, err := s.registry.ForFormat(format)
	if err != nil {
		return err
	}
	return s.loadData(data, adapter, opts, "")
}

// LoadReader merges everything read from r.
func (s *Store) LoadReader(r io.Reader, format Format, opts LoadOptions) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s input: %w", format, err)
	}
	return s.LoadBytes(data, format, opts)
}

// resolvePath applies the empty-source fallback chain.
func (s *Store) resolvePath(source string) string {
	if source != "" {
		return source
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.source != "" {
		return s.source
	}
	return DefaultFile
}

func (s *Store) adapterFor(path string, format Format) (*Adapter, error) {
	if format != "" {
		return s.registry.ForFormat(format)
	}
	return s.registry.ForPath(path)
}

// loadData parses and merges. A non-empty path becomes the store source.
func (s *Store) loadData(data []byte, adapter *Adapter, opts LoadOptions, path string) error {
	incoming, err := decodeWith(adapter, data)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	written, kept := 0, 0
	var mirrorErr error
	for _, key := range incoming.keys {
		if s.entries.Has(key) && !opts.Override {
			kept++
			continue
		}
		raw := incoming.values[key]
		s.entries.Set(key, raw)
		written++
		if opts.ApplyToOS {
			if err := s.mirrorLocked(key, raw); err != nil && mirrorErr == nil {
				mirrorErr = err
			}
		}
	}
	if path != "" {
		s.source = path
	}
	s.mutex.Unlock()

	s.logger.Debug("loaded configuration",
		zap.String("source", path),
		zap.String("format", string(adapter.Format)),
		zap.Int("written", written),
		zap.Int("kept", kept),
		zap.Bool("override", opts.Override),
		zap.Bool("apply_to_os", opts.ApplyToOS),
	)

	if mirrorErr != nil {
		return mirrorErr
	}
	if opts.ReplaceGetenv {
		s.accessor.Install()
	}
	return nil
}

// decodeWith runs an adapter's parser and flattens nested results.
func decodeWith(adapter *Adapter, data []byte) (*FlatMap, error) {
	parsed, err := adapter.Parse(data)
	if err != nil {
		if errors.Is(err, ErrParse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if flat, ok := parsed.(*FlatMap); ok {
		return flat, nil
	}
	flat, err := Flatten(parsed, "")
	if err != nil {
		return nil, err
	}
	return flat, nil
}
