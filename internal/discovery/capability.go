// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"reflect"
)

type (
	// Capability is a base type whose subtypes are discoverable plugins.
	Capability struct {
		// Kind selects the search roots, module naming and failure policy.
		Kind Kind
		// Base is the base type. Interface bases match implementing types,
		// struct bases match types that embed them.
		Base reflect.Type
		// Module is the registry module that declares Base. Migration roots
		// are resolved relative to its file.
		Module string
	}

	// DiscoveredClass is a subtype of a capability found during discovery.
	DiscoveredClass struct {
		// Type is the discovered type.
		Type reflect.Type
		// Name is the type's declared name.
		Name string
		// Module is the module that exported the type.
		Module string
		// Root is the search root the module's candidate was found under.
		Root SearchRoot
	}
)

// NewCapability returns a capability whose base type is T.
func NewCapability[T any](kind Kind, module string) Capability {
	return Capability{
		Kind:   kind,
		Base:   reflect.TypeFor[T](),
		Module: module,
	}
}

// Name returns the base type's name.
func (c Capability) Name() string {
	if c.Base == nil {
		return ""
	}
	return c.Base.Name()
}

// QualifiedName returns the base type's package-qualified name, which
// identifies the capability.
func (c Capability) QualifiedName() string {
	if c.Base == nil {
		return ""
	}
	if c.Base.PkgPath() == "" {
		return c.Base.String()
	}
	return c.Base.PkgPath() + "." + c.Base.Name()
}

// IsValid returns whether the capability has a known kind and a named base type.
func (c Capability) IsValid() (bool, []error) {
	var errs []error
	if valid, kindErrs := c.Kind.IsValid(); !valid {
		errs = append(errs, kindErrs...)
	}
	if c.Base == nil {
		errs = append(errs, fmt.Errorf("%w: base type is nil", ErrInvalidCapability))
	} else if c.Base.Name() == "" {
		errs = append(errs, fmt.Errorf("%w: base type %s is unnamed", ErrInvalidCapability, c.Base))
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Admits reports whether t is a subtype of the capability's base type and
// is not named like the base type itself.
func (c Capability) Admits(t reflect.Type) bool {
	if t == nil || c.Base == nil {
		return false
	}
	if t.Name() == c.Base.Name() {
		return false
	}
	return IsSubtype(t, c.Base)
}

// IsSubtype reports whether t is a subtype of base. For an interface base
// that means t or *t implements it; for a struct base, t embeds it directly
// or through other embedded structs. Every type is a subtype of itself.
func IsSubtype(t, base reflect.Type) bool {
	if t == nil || base == nil {
		return false
	}
	if t == base {
		return true
	}

	switch base.Kind() {
	case reflect.Interface:
		if t.Implements(base) {
			return true
		}
		if t.Kind() != reflect.Interface && t.Kind() != reflect.Pointer {
			return reflect.PointerTo(t).Implements(base)
		}
		return false
	case reflect.Struct:
		return embeds(t, base, make(map[reflect.Type]bool))
	default:
		return false
	}
}

func embeds(t, base reflect.Type, seen map[reflect.Type]bool) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || seen[t] {
		return false
	}
	seen[t] = true

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == base || embeds(ft, base, seen) {
			return true
		}
	}

	return false
}

// DisplayName returns the class name, falling back to the type's string
// form for unnamed types.
func (d DiscoveredClass) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Type.String()
}
