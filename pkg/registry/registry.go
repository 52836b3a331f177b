// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/sync/singleflight"
)

type (
	// Registry holds module definitions and the cache of imported modules.
	// It is safe for concurrent use.
	Registry struct {
		mu       sync.Mutex
		defs     map[string]*definition
		imported map[string]*Module
		// inflight makes concurrent first imports of one module share a
		// single initializer run.
		inflight singleflight.Group
	}

	// DefineOption configures a module definition.
	DefineOption func(*definition)

	definition struct {
		name     string
		location string
		symbols  []Symbol
		init     func() error
	}
)

var defaultRegistry = New()

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		defs:     make(map[string]*definition),
		imported: make(map[string]*Module),
	}
}

// Default returns the process-wide registry that init()-time definitions go to.
func Default() *Registry {
	return defaultRegistry
}

// WithSymbols adds exported symbols to the module.
func WithSymbols(symbols ...Symbol) DefineOption {
	return func(d *definition) {
		d.symbols = append(d.symbols, symbols...)
	}
}

// WithInit sets a function that runs when the module is first imported.
// A non-nil error fails that import and leaves the module un-cached.
func WithInit(fn func() error) DefineOption {
	return func(d *definition) {
		d.init = fn
	}
}

// WithLocation overrides the declaring file recorded for the module.
// By default the file of the code calling Define is recorded.
func WithLocation(path string) DefineOption {
	return func(d *definition) {
		d.location = path
	}
}

// WithoutLocation marks the module as built-in: it has no file on disk.
func WithoutLocation() DefineOption {
	return func(d *definition) {
		d.location = ""
	}
}

// Define declares a module in the default registry.
func Define(name string, opts ...DefineOption) error {
	return defaultRegistry.define(2, name, opts)
}

// MustDefine declares a module in the default registry and panics on error.
// It is meant for init() functions.
func MustDefine(name string, opts ...DefineOption) {
	if err := defaultRegistry.define(2, name, opts); err != nil {
		panic(err)
	}
}

// Import imports a module from the default registry.
func Import(name string) (*Module, error) {
	return defaultRegistry.Import(name)
}

// Define declares a module. The source file of the caller is recorded as the
// module location unless WithLocation or WithoutLocation says otherwise.
func (r *Registry) Define(name string, opts ...DefineOption) error {
	return r.define(2, name, opts)
}

// MustDefine is like Define but panics on error.
func (r *Registry) MustDefine(name string, opts ...DefineOption) {
	if err := r.define(2, name, opts); err != nil {
		panic(err)
	}
}

// define records a definition. skip is the runtime.Caller depth of the code
// that should be recorded as the module location.
func (r *Registry) define(skip int, name string, opts []DefineOption) error {
	if err := validateName(name); err != nil {
		return err
	}

	d := &definition{name: name}
	if _, file, _, ok := runtime.Caller(skip); ok {
		d.location = file
	}
	for _, opt := range opts {
		opt(d)
	}

	slices.SortStableFunc(d.symbols, func(a, b Symbol) int {
		return strings.Compare(a.Name, b.Name)
	})
	for i, sym := range d.symbols {
		if sym.Name == "" {
			return fmt.Errorf("module %q: symbol %d has no name", name, i)
		}
		if i > 0 && d.symbols[i-1].Name == sym.Name {
			return fmt.Errorf("module %q: %w %q", name, ErrDuplicateSymbol, sym.Name)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.defs[name]; ok {
		return &DuplicateModuleError{
			Name:           name,
			FirstLocation:  existing.location,
			SecondLocation: d.location,
		}
	}
	r.defs[name] = d

	return nil
}

// Import returns the named module, running its initializer on first import.
// Every defined ancestor ("a", then "a/b" for "a/b/c") is imported first,
// shortest first; undefined ancestors are treated as plain namespaces.
func (r *Registry) Import(name string) (*Module, error) {
	r.mu.Lock()
	if m, ok := r.imported[name]; ok {
		r.mu.Unlock()
		return m, nil
	}
	def, ok := r.defs[name]
	r.mu.Unlock()

	if !ok {
		return nil, &ModuleNotFoundError{Name: name}
	}

	for _, parent := range ancestors(name) {
		if !r.Defined(parent) {
			continue
		}
		if _, err := r.Import(parent); err != nil {
			return nil, err
		}
	}

	v, err, _ := r.inflight.Do(name, func() (any, error) {
		r.mu.Lock()
		if m, ok := r.imported[name]; ok {
			r.mu.Unlock()
			return m, nil
		}
		r.mu.Unlock()

		if def.init != nil {
			if err := def.init(); err != nil {
				return nil, &InitError{Name: name, Cause: err}
			}
		}

		m := &Module{
			Name:     def.name,
			Location: def.location,
			symbols:  slices.Clone(def.symbols),
		}

		r.mu.Lock()
		r.imported[name] = m
		r.mu.Unlock()

		return m, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Module), nil
}

// Defined reports whether a module called name has been defined.
func (r *Registry) Defined(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.defs[name]
	return ok
}

// Imported reports whether the module called name is in the import cache.
func (r *Registry) Imported(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.imported[name]
	return ok
}

// Modules lists all defined modules sorted by name.
func (r *Registry) Modules() []ModuleInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := maps.Keys(r.defs)
	slices.Sort(names)
	infos := make([]ModuleInfo, 0, len(names))
	for _, name := range names {
		d := r.defs[name]
		_, imported := r.imported[name]
		infos = append(infos, ModuleInfo{
			Name:     name,
			Location: d.location,
			Symbols:  len(d.symbols),
			Imported: imported,
		})
	}

	return infos
}

// Reset empties the import cache. Definitions are kept, so the next Import
// of each module runs its initializer again.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imported = make(map[string]*Module)
}

// validateName checks that name is a non-empty slash-separated path with no
// empty, "." or ".." segments.
func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n\\") {
		return fmt.Errorf("%w: %q", ErrInvalidModuleName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidModuleName, name)
		}
	}
	return nil
}

// ancestors returns the proper prefixes of name, shortest first:
// "a" and "a/b" for "a/b/c".
func ancestors(name string) []string {
	var out []string
	for i, c := range name {
		if c == '/' && i > 0 {
			out = append(out, name[:i])
		}
	}
	return out
}
