// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the specter CLI: plugin discovery, the module
// registry listing, static asset lookup and configuration management.
//
// Every command receives an App, the composition root holding the config
// provider, the module registry and the output streams.
package cmd
