// SPDX-License-Identifier: MPL-2.0

package services

import "fmt"

const (
	// DevStatusAlpha marks services that are hidden unless developer mode is on.
	DevStatusAlpha DevStatus = "alpha"
	// DevStatusBeta marks services that are usable but may change.
	DevStatusBeta DevStatus = "beta"
	// DevStatusProd marks stable services.
	DevStatusProd DevStatus = "prod"
)

type (
	// DevStatus is the maturity of a service.
	DevStatus string

	// Service is an optional extension of the wallet application. Concrete
	// services are discovered at startup; see the discovery package.
	Service interface {
		// ID is the unique, URL-safe service identifier.
		ID() string
		// Name is the human-readable service name.
		Name() string
		// Description is a one-line summary shown in the service list.
		Description() string
		// DevStatus is the service's maturity.
		DevStatus() DevStatus
	}
)

// IsValid returns whether the status is a known value.
func (s DevStatus) IsValid() (bool, []error) {
	switch s {
	case DevStatusAlpha, DevStatusBeta, DevStatusProd:
		return true, nil
	default:
		return false, []error{fmt.Errorf("invalid dev status %q (valid: alpha, beta, prod)", string(s))}
	}
}

// Visible reports whether a service with status s is listed when developer
// mode is off.
func (s DevStatus) Visible() bool {
	return s == DevStatusBeta || s == DevStatusProd
}
