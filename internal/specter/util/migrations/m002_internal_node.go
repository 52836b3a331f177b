// SPDX-License-Identifier: MPL-2.0

package migrations

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cryptoadvance/specter/pkg/registry"
)

const (
	legacyBitcoinDir = ".bitcoin"
	internalNodeDir  = "specter_bitcoin"
)

// M002InternalNode moves the datadir of the bundled bitcoind from the top of
// the data directory into nodes/specter_bitcoin.
type M002InternalNode struct{}

func init() {
	registry.MustDefine("specter/util/migrations/m002_internal_node", registry.WithSymbols(
		registry.Type[M002InternalNode](),
	))
}

func (M002InternalNode) Version() int { return 2 }

func (M002InternalNode) Description() string {
	return "move the internal bitcoind datadir into nodes/specter_bitcoin"
}

func (M002InternalNode) Execute(ctx context.Context, dataDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src := filepath.Join(dataDir, legacyBitcoinDir)
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("stat legacy bitcoind datadir: %w", err)
	}

	dst := filepath.Join(dataDir, "nodes", internalNodeDir, legacyBitcoinDir)
	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("internal node datadir %s already exists", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("create internal node directory: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move bitcoind datadir: %w", err)
	}
	return nil
}
