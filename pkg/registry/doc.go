// SPDX-License-Identifier: MPL-2.0

// Package registry is the module system that plugin discovery imports from.
//
// Go binaries cannot import packages by name at runtime, so discoverable
// packages declare their modules from init() instead:
//
//	func init() {
//		registry.MustDefine("specter/services/swan/service",
//			registry.WithSymbols(registry.Type[SwanService]()),
//		)
//	}
//
// A declared module carries its exported symbols and, optionally, an
// initializer that runs on first import. Imported modules are cached per
// Registry; tests create their own Registry (or call Reset) instead of
// sharing the process-wide Default one.
package registry
