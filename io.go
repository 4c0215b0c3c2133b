// FILE: lixenwraith/envdot/io.go
package envdot

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Save writes the store to target atomically. An empty target means the store
// source, or DefaultFile. An empty format is inferred from the target path.
func (s *Store) Save(target string, format Format) error {
	path := s.resolvePath(target)

	adapter, err := s.adapterFor(path, format)
	if err != nil {
		return err
	}

	data, err := encodeWith(adapter, s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode '%s': %w", path, err)
	}

	if err := atomicWriteFile(path, data); err != nil {
		return err
	}
	s.logger.Debug("saved configuration",
		zap.String("target", path),
		zap.String("format", string(adapter.Format)),
		zap.Int("entries", s.Len()),
	)
	return nil
}

// Marshal renders the store in the given format without touching disk.
func (s *Store) Marshal(format Format) ([]byte, error) {
	adapter, err := s.registry.ForFormat(format)
	if err != nil {
		return nil, err
	}
	return encodeWith(adapter, s.Snapshot())
}

// Export renders the store as .env text.
func (s *Store) Export() string {
	return string(SerializeDotEnv(s.Snapshot()))
}

// Environ returns the entries as KEY=value strings, suitable for exec.Cmd.Env.
func (s *Store) Environ() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]string, 0, s.entries.Len())
	for _, key := range s.entries.keys {
		out = append(out, key+"="+s.entries.values[key])
	}
	return out
}

// encodeWith serializes flat entries, rebuilding the nesting with typed leaves
// for structured formats.
func encodeWith(adapter *Adapter, flat *FlatMap) ([]byte, error) {
	if !adapter.Nested {
		return adapter.Serialize(flat)
	}
	return adapter.Serialize(typedLeaves(Unflatten(flat)).(Object))
}

// typedLeaves replaces raw string leaves with their detected values. Leaves that
// detect as strings keep the raw text, padding included.
func typedLeaves(v any) any {
	switch t := v.(type) {
	case Object:
		out := make(Object, len(t))
		for i, m := range t {
			out[i] = Member{Key: m.Key, Value: typedLeaves(m.Value)}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = typedLeaves(e)
		}
		return out
	case string:
		if d := AutoDetect(t); !isString(d) {
			return d
		}
		return t
	}
	return v
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// atomicWriteFile performs atomic file write. An existing file keeps its
// permissions; new files are created 0644.
func atomicWriteFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
