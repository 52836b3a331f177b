// SPDX-License-Identifier: MPL-2.0

package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cryptoadvance/specter/pkg/registry"
)

// dataDirs are the sub-directories every data directory has since version 1.
var dataDirs = []string{"wallets", "devices", "nodes"}

// M001DataLayout creates the standard data-directory layout.
type M001DataLayout struct{}

func init() {
	registry.MustDefine("specter/util/migrations/m001_data_layout", registry.WithSymbols(
		registry.Type[M001DataLayout](),
	))
}

func (M001DataLayout) Version() int { return 1 }

func (M001DataLayout) Description() string {
	return "create the wallets, devices and nodes directories"
}

func (M001DataLayout) Execute(ctx context.Context, dataDir string) error {
	for _, dir := range dataDirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Join(dataDir, dir), 0o750); err != nil {
			return fmt.Errorf("create %s directory: %w", dir, err)
		}
	}
	return nil
}
