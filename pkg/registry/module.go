// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"path/filepath"
	"reflect"
	"slices"
	"strings"
)

type (
	// Symbol is a named export of a module. Value is a reflect.Type when the
	// symbol exports a type; any other value is an ordinary exported value.
	Symbol struct {
		Name  string
		Value any
	}

	// Module is an imported module.
	Module struct {
		// Name is the slash-separated module name (e.g., "specter/services/swan/service").
		Name string
		// Location is the source file that declared the module. Empty for
		// built-in modules that have no filesystem backing.
		Location string

		symbols []Symbol
	}

	// ModuleInfo describes a defined module without importing it.
	ModuleInfo struct {
		Name     string `json:"name" yaml:"name" toml:"name"`
		Location string `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
		Symbols  int    `json:"symbols" yaml:"symbols" toml:"symbols"`
		Imported bool   `json:"imported" yaml:"imported" toml:"imported"`
	}
)

// Type returns a symbol exporting the type T under its declared name.
func Type[T any]() Symbol {
	t := reflect.TypeFor[T]()
	return Symbol{Name: typeName(t), Value: t}
}

// TypeAs returns a symbol exporting the type T under an alias.
func TypeAs[T any](name string) Symbol {
	return Symbol{Name: name, Value: reflect.TypeFor[T]()}
}

// Value returns a symbol exporting an ordinary value.
func Value(name string, v any) Symbol {
	return Symbol{Name: name, Value: v}
}

// Symbols returns the module's exports sorted by name.
func (m *Module) Symbols() []Symbol {
	return slices.Clone(m.symbols)
}

// Lookup returns the exported symbol called name.
func (m *Module) Lookup(name string) (Symbol, bool) {
	i, found := slices.BinarySearchFunc(m.symbols, name, func(s Symbol, n string) int {
		return strings.Compare(s.Name, n)
	})
	if !found {
		return Symbol{}, false
	}
	return m.symbols[i], true
}

// Dir returns the directory containing the module's declaring file, or ""
// for built-in modules.
func (m *Module) Dir() string {
	if m.Location == "" {
		return ""
	}
	return filepath.Dir(m.Location)
}

// IsType reports whether the symbol exports a type and returns it.
func (s Symbol) IsType() (reflect.Type, bool) {
	t, ok := s.Value.(reflect.Type)
	return t, ok && t != nil
}

// typeName returns t's declared name, falling back to its string form for
// unnamed types such as pointers.
func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
