// SPDX-License-Identifier: MPL-2.0

// Package swan integrates Swan Bitcoin auto-withdrawals.
package swan

import (
	"github.com/cryptoadvance/specter/internal/specter/services"
	"github.com/cryptoadvance/specter/pkg/registry"
)

// SwanService sends Swan auto-withdrawals to a Specter wallet.
type SwanService struct{}

func init() {
	registry.MustDefine("specter/services/swan/service", registry.WithSymbols(
		registry.Type[SwanService](),
		registry.Type[services.Service](),
		registry.Value("ReserveAddresses", ReserveAddresses),
	))
}

// ReserveAddresses is how many wallet addresses are handed to Swan at once.
const ReserveAddresses = 10

func (SwanService) ID() string                    { return "swan" }
func (SwanService) Name() string                  { return "Swan" }
func (SwanService) Description() string           { return "Auto-withdraw to your Specter wallet" }
func (SwanService) DevStatus() services.DevStatus { return services.DevStatusProd }
