// SPDX-License-Identifier: MPL-2.0

// Package bitcoinreserve integrates Bitcoin Reserve purchases.
package bitcoinreserve

import (
	"github.com/cryptoadvance/specter/internal/specter/services"
	"github.com/cryptoadvance/specter/pkg/registry"
)

// BitcoinReserveService buys bitcoin and withdraws it to a Specter wallet.
type BitcoinReserveService struct{}

func init() {
	registry.MustDefine("specter/services/bitcoinreserve/service", registry.WithSymbols(
		registry.Type[BitcoinReserveService](),
	))
}

func (BitcoinReserveService) ID() string          { return "bitcoinreserve" }
func (BitcoinReserveService) Name() string        { return "Bitcoin Reserve" }
func (BitcoinReserveService) Description() string { return "Stacking sats with Bitcoin Reserve" }

func (BitcoinReserveService) DevStatus() services.DevStatus { return services.DevStatusAlpha }
