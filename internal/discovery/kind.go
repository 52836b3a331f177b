// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"strings"
)

const (
	// KindMigration is the capability kind of schema/data migration steps.
	KindMigration Kind = iota + 1
	// KindService is the capability kind of optional service extensions.
	KindService
)

type (
	// Kind tags a capability with the discovery strategy it needs. The zero
	// value is not a valid kind.
	Kind int

	// kindPolicy is everything that differs between capability kinds.
	kindPolicy struct {
		// roots computes the installed search roots.
		roots func(*Resolver, Capability) ([]SearchRoot, error)
		// moduleNames lists the module names to try, in order, for a candidate.
		moduleNames func(Layout, string) []string
		// tolerateAbsent skips candidates whose modules are all missing
		// instead of failing the discovery call.
		tolerateAbsent bool
		// cwdFallback allows the working directory as an extra root.
		cwdFallback bool
	}
)

var kindPolicies = map[Kind]kindPolicy{
	KindMigration: {
		roots:       (*Resolver).migrationRoots,
		moduleNames: migrationModuleNames,
	},
	KindService: {
		roots:          (*Resolver).serviceRoots,
		moduleNames:    serviceModuleNames,
		tolerateAbsent: true,
		cwdFallback:    true,
	},
}

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindMigration:
		return "migration"
	case KindService:
		return "service"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() (bool, []error) {
	if _, ok := kindPolicies[k]; !ok {
		return false, []error{&UnknownKindError{Kind: k}}
	}
	return true, nil
}

// ParseKind parses a kind name. Plural forms ("services") are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "migration":
		return KindMigration, nil
	case "service":
		return KindService, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func policyFor(k Kind) (kindPolicy, error) {
	p, ok := kindPolicies[k]
	if !ok {
		return kindPolicy{}, &UnknownKindError{Kind: k}
	}
	return p, nil
}

// serviceModuleNames returns the host-namespaced service module first and
// the top-level one second, for services developed outside the host tree.
func serviceModuleNames(l Layout, candidate string) []string {
	return []string{
		l.ServicesPackage + "/" + candidate + "/" + l.ServiceSubmodule,
		candidate + "/" + l.ServiceSubmodule,
	}
}

func migrationModuleNames(l Layout, candidate string) []string {
	return []string{l.MigrationsPackage + "/" + candidate}
}
