// File: lixenwraith/envdot/builder.go
package envdot

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ValidatorFunc defines the signature for a function that can validate a Store.
// It receives the fully loaded store and should return an error if validation fails.
type ValidatorFunc func(s *Store) error

// Builder provides a fluent interface for building stores
type Builder struct {
	opts       Options
	loadOpts   LoadOptions
	defaults   any
	files      []string
	optional   map[string]bool
	sets       []Entry
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new store builder
func NewBuilder() *Builder {
	return &Builder{
		opts:     DefaultOptions(),
		loadOpts: DefaultLoadOptions(),
		optional: make(map[string]bool),
	}
}

// WithEnvironment sets the environment values are mirrored into
func (b *Builder) WithEnvironment(env Environment) *Builder {
	b.opts.Environment = env
	return b
}

// WithLogger sets the store logger
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithRegistry sets the format adapters
func (b *Builder) WithRegistry(r *Registry) *Builder {
	b.opts.Registry = r
	return b
}

// WithAccessor sets the getenv accessor installed by WithReplaceGetenv
func (b *Builder) WithAccessor(acc *Accessor) *Builder {
	b.opts.Accessor = acc
	return b
}

// WithApplyToOS sets whether loads and sets mirror into the environment
func (b *Builder) WithApplyToOS(apply bool) *Builder {
	b.opts.ApplyToOS = apply
	b.loadOpts.ApplyToOS = apply
	return b
}

// WithDefaults sets a struct whose fields fill keys no file provides
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithFile adds a file to load. Files load in order.
func (b *Builder) WithFile(path string) *Builder {
	if path == "" {
		b.err = errors.Join(b.err, fmt.Errorf("%w: file path", ErrEmptyKey))
		return b
	}
	b.files = append(b.files, path)
	return b
}

// WithOptionalFile adds a file whose absence is not an error
func (b *Builder) WithOptionalFile(path string) *Builder {
	b.WithFile(path)
	b.optional[path] = true
	return b
}

// WithOverride lets later files replace keys set by earlier ones
func (b *Builder) WithOverride(override bool) *Builder {
	b.loadOpts.Override = override
	return b
}

// WithReplaceGetenv installs the typed getenv once the files are loaded
func (b *Builder) WithReplaceGetenv() *Builder {
	b.loadOpts.ReplaceGetenv = true
	return b
}

// Set adds an explicit value applied after files and defaults
func (b *Builder) Set(key string, value any) *Builder {
	if key == "" {
		b.err = errors.Join(b.err, fmt.Errorf("%w: cannot set value", ErrEmptyKey))
		return b
	}
	b.sets = append(b.sets, Entry{Key: key, Value: value})
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// WithRequired fails the build when any of the keys is missing or empty
func (b *Builder) WithRequired(keys ...string) *Builder {
	return b.WithValidator(func(s *Store) error {
		return s.Validate(keys...)
	})
}

// Build creates the Store with all specified options.
// Precedence: explicit Set values, then files, then defaults.
func (b *Builder) Build() (*Store, error) {
	if b.err != nil {
		return nil, b.err
	}

	s := NewWithOptions(b.opts)

	for _, file := range b.files {
		if err := s.LoadWithOptions(file, b.loadOpts); err != nil {
			if errors.Is(err, ErrFileNotFound) && b.optional[file] {
				s.logger.Debug("optional file not found", zap.String("source", file))
				continue
			}
			return nil, err
		}
	}

	if b.defaults != nil {
		defaults, err := structEntries(b.defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
		for _, key := range defaults.keys {
			if s.Has(key) {
				continue
			}
			if err := s.SetWithOptions(key, defaults.values[key], SetOptions{ApplyToOS: b.loadOpts.ApplyToOS}); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range b.sets {
		if err := s.SetWithOptions(e.Key, e.Value, SetOptions{ApplyToOS: b.loadOpts.ApplyToOS}); err != nil {
			return nil, err
		}
	}

	// Run validators
	for _, validator := range b.validators {
		if err := validator(s); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return s, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Store {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("store build failed: %v", err))
	}
	return s
}

// BuildAndDecode builds and decodes the entries under prefix into target
func (b *Builder) BuildAndDecode(prefix string, target any) (*Store, error) {
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := s.Decode(prefix, target); err != nil {
		return nil, fmt.Errorf("failed to decode final config into target: %w", err)
	}
	return s, nil
}
