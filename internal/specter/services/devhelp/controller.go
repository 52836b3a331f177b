// SPDX-License-Identifier: MPL-2.0

// Package devhelp holds developer tooling shared by services. It ships no
// service module of its own.
package devhelp

import "github.com/cryptoadvance/specter/pkg/registry"

// Routes lists the developer endpoints mounted when developer mode is on.
var Routes = []string{"/devhelp/console", "/devhelp/services"}

func init() {
	registry.MustDefine("specter/services/devhelp/controller", registry.WithSymbols(
		registry.Value("Routes", Routes),
	))
}
