// Package transform holds the named string transforms applied to field
// values during template expansion ([title:lower], [author:names("*@*@{ll}")]).
package transform

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Func converts one field value. Transforms are pure and total.
type Func func(string) string

// Factory binds a parameterised transform to its argument. An empty argument
// means the call carried none.
type Factory func(arg string) (Func, error)

// Option customises a registry during construction.
type Option func(*Registry) error

// Registry maps case-insensitive names to transforms. It is safe for
// concurrent use; expansion only reads from it.
type Registry struct {
	mu        sync.RWMutex
	funcs     map[string]Func
	factories map[string]Factory
}

// NewRegistry builds a registry with the built-in transforms and applies the
// supplied options in order.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := newEmpty()
	registerBuiltins(r)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry is NewRegistry that panics on error.
func MustNewRegistry(opts ...Option) *Registry {
	r, err := NewRegistry(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewEmptyRegistry returns a registry without built-ins.
func NewEmptyRegistry() *Registry {
	return newEmpty()
}

func newEmpty() *Registry {
	return &Registry{
		funcs:     make(map[string]Func),
		factories: make(map[string]Factory),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding the built-ins only.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = MustNewRegistry()
	})
	return defaultRegistry
}

// Register adds a transform. Empty and duplicate names return an error.
func (r *Registry) Register(name string, fn Func) error {
	if fn == nil {
		return fmt.Errorf("transform: function for %q is required", name)
	}
	key, err := registryKey(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(key) {
		return fmt.Errorf("transform: %q already registered", key)
	}
	r.funcs[key] = fn
	return nil
}

// RegisterParam adds a transform that takes one argument.
func (r *Registry) RegisterParam(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("transform: factory for %q is required", name)
	}
	key, err := registryKey(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(key) {
		return fmt.Errorf("transform: %q already registered", key)
	}
	r.factories[key] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, fn Func) {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
}

// replace installs fn under name, dropping any previous entry.
func (r *Registry) replace(name string, fn Func) error {
	key, err := registryKey(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.factories, key)
	r.funcs[key] = fn
	return nil
}

// Lookup returns the transform registered under name. Parameterised
// transforms are bound without an argument.
func (r *Registry) Lookup(name string) (Func, bool) {
	return r.Resolve(Call{Name: name})
}

// Resolve binds a parsed call. Plain transforms reject arguments; a factory
// error counts as an unknown transform.
func (r *Registry) Resolve(call Call) (Func, bool) {
	if r == nil {
		return nil, false
	}
	key := strings.ToLower(strings.TrimSpace(call.Name))
	if key == "" {
		return nil, false
	}

	r.mu.RLock()
	fn, isFunc := r.funcs[key]
	factory, isFactory := r.factories[key]
	r.mu.RUnlock()

	switch {
	case isFunc:
		if call.HasArg {
			return nil, false
		}
		return fn, true
	case isFactory:
		bound, err := factory(call.Arg)
		if err != nil || bound == nil {
			return nil, false
		}
		return bound, true
	}
	return nil, false
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.existsLocked(strings.ToLower(strings.TrimSpace(name)))
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs)+len(r.factories))
	for name := range r.funcs {
		names = append(names, name)
	}
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parameterised reports whether name takes an argument.
func (r *Registry) Parameterised(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Apply runs every call in order. It reports false as soon as one call does
// not resolve.
func (r *Registry) Apply(value string, calls []Call) (string, bool) {
	for _, call := range calls {
		fn, ok := r.Resolve(call)
		if !ok {
			return "", false
		}
		value = fn(value)
	}
	return value, true
}

func (r *Registry) existsLocked(key string) bool {
	_, isFunc := r.funcs[key]
	_, isFactory := r.factories[key]
	return isFunc || isFactory
}

func registryKey(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", fmt.Errorf("transform: name is required")
	}
	if strings.ContainsAny(key, "[]:,()\" \t") {
		return "", fmt.Errorf("transform: name %q contains reserved characters", name)
	}
	return key, nil
}

// WithTransform registers an additional transform.
func WithTransform(name string, fn Func) Option {
	return func(r *Registry) error {
		return r.Register(name, fn)
	}
}
