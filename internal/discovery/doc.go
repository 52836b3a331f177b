// SPDX-License-Identifier: MPL-2.0

// Package discovery finds the plugin types that implement a capability.
//
// Two capability kinds are known: migration steps and service extensions.
// A discovery call resolves the search roots of the capability's kind,
// lists the candidate modules under those roots, imports each from the
// module registry, and keeps every exported type that is a subtype of the
// capability's base type (the base type itself excluded).
//
// File organization:
//   - kind.go: Kind and the per-kind policy table
//   - capability.go: Capability, DiscoveredClass and the subtype relation
//   - roots.go: Resolver (search roots, cwd fallback)
//   - enumerate.go: Enumerator (candidate modules under roots)
//   - loader.go: Loader (imports, absent vs. fatal failures)
//   - collector.go: Collector (the discovery call)
package discovery
