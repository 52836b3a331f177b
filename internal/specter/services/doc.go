// SPDX-License-Identifier: MPL-2.0

// Package services holds the Service base type and, in its sub-directories,
// the built-in service extensions.
//
// Every sub-package that provides a service defines a module named
// "specter/services/<name>/service" from its service.go and exports the
// service type there. Sub-packages without such a module (helpers, shared
// controllers) are skipped by discovery.
package services

import "github.com/cryptoadvance/specter/pkg/registry"

// Module is the registry module that marks the services directory.
const Module = "specter/services"

func init() {
	registry.MustDefine(Module, registry.WithSymbols(
		registry.Type[Service](),
		registry.Type[DevStatus](),
	))
}
