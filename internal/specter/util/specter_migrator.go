// SPDX-License-Identifier: MPL-2.0

// Package util holds the data-directory migration framework. Migration
// steps live in the migrations sub-directory, one module per file.
package util

import (
	"context"

	"github.com/cryptoadvance/specter/pkg/registry"
)

// MigratorModule is the registry module that declares SpecterMigration.
// Migration steps are discovered in the migrations directory next to this file.
const MigratorModule = "specter/util/specter_migrator"

// SpecterMigration is one step of the data-directory migration sequence.
type SpecterMigration interface {
	// Version orders the steps; each version runs at most once.
	Version() int
	// Description is a one-line summary of the step.
	Description() string
	// Execute applies the step to the data directory.
	Execute(ctx context.Context, dataDir string) error
}

func init() {
	registry.MustDefine(MigratorModule, registry.WithSymbols(
		registry.Type[SpecterMigration](),
	))
}
