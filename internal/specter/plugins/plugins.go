// SPDX-License-Identifier: MPL-2.0

// Package plugins links the built-in services and migrations into the
// binary and names the capabilities discovery looks for.
//
// Importing this package registers every built-in module with
// registry.Default(). Out-of-tree services are linked the same way: a
// blank import of their package from the main package.
package plugins

import (
	"github.com/cryptoadvance/specter/internal/discovery"
	"github.com/cryptoadvance/specter/internal/specter/services"
	"github.com/cryptoadvance/specter/internal/specter/util"

	// Built-in modules register themselves from init.
	_ "github.com/cryptoadvance/specter/internal/specter/services/bitcoinreserve"
	_ "github.com/cryptoadvance/specter/internal/specter/services/devhelp"
	_ "github.com/cryptoadvance/specter/internal/specter/services/swan"
	_ "github.com/cryptoadvance/specter/internal/specter/util/migrations"
)

var (
	// Services is the service extension capability.
	Services = discovery.NewCapability[services.Service](discovery.KindService, services.Module)

	// Migrations is the data-directory migration capability.
	Migrations = discovery.NewCapability[util.SpecterMigration](discovery.KindMigration, util.MigratorModule)
)

// Capability returns the built-in capability of the given kind.
func Capability(kind discovery.Kind) (discovery.Capability, error) {
	switch kind {
	case discovery.KindService:
		return Services, nil
	case discovery.KindMigration:
		return Migrations, nil
	default:
		return discovery.Capability{}, &discovery.UnknownKindError{Kind: kind}
	}
}
