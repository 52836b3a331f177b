// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrModuleNotFound is the sentinel error wrapped by ModuleNotFoundError.
	ErrModuleNotFound = errors.New("module not found")
	// ErrDuplicateModule is the sentinel error wrapped by DuplicateModuleError.
	ErrDuplicateModule = errors.New("duplicate module")
	// ErrInvalidModuleName is returned when a module name is empty or malformed.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrDuplicateSymbol is returned when a module declares the same symbol twice.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	// ErrModuleInit is the sentinel error wrapped by InitError.
	ErrModuleInit = errors.New("module initialization failed")
)

type (
	// ModuleNotFoundError is returned by Import when no module with the
	// requested name has been defined.
	ModuleNotFoundError struct {
		Name string
	}

	// DuplicateModuleError is returned when a module name is defined twice.
	DuplicateModuleError struct {
		Name           string
		FirstLocation  string
		SecondLocation string
	}

	// InitError is returned by Import when a module initializer fails.
	// The failed import is not cached, so a later Import retries it.
	InitError struct {
		Name  string
		Cause error
	}
)

// Error implements the error interface.
func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("no module named %q", e.Name)
}

// Unwrap returns ErrModuleNotFound for errors.Is() compatibility.
func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// Error implements the error interface.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q defined twice:\n  - %s\n  - %s",
		e.Name, locationOrBuiltin(e.FirstLocation), locationOrBuiltin(e.SecondLocation))
}

// Unwrap returns ErrDuplicateModule for errors.Is() compatibility.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("initialize module %q: %v", e.Name, e.Cause)
}

// Unwrap returns both ErrModuleInit and the initializer's error.
func (e *InitError) Unwrap() []error { return []error{ErrModuleInit, e.Cause} }

// IsNotFound reports whether err says that the module called name itself
// is missing. A not-found error raised by an initializer does not match;
// use errors.Is(err, ErrModuleNotFound) to accept those too.
func IsNotFound(err error, name string) bool {
	if err == nil {
		return false
	}
	// An InitError means name was found and then failed.
	var initErr *InitError
	if errors.As(err, &initErr) {
		return false
	}
	var nf *ModuleNotFoundError
	return errors.As(err, &nf) && nf.Name == name
}

func locationOrBuiltin(location string) string {
	if location == "" {
		return "(built-in)"
	}
	return location
}
