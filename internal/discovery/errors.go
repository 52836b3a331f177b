// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned for capabilities whose kind has no discovery policy.
	ErrUnknownKind = errors.New("unknown capability kind")
	// ErrInvalidCapability is returned for capabilities without a usable base type.
	ErrInvalidCapability = errors.New("invalid capability")
	// ErrResolution is the sentinel error wrapped by ResolutionError.
	ErrResolution = errors.New("cannot resolve search root")
	// ErrNoLocation is returned when a module has no file on disk.
	ErrNoLocation = errors.New("module has no filesystem location")
	// ErrAbsentCandidate is the sentinel error wrapped by AbsentCandidateError.
	ErrAbsentCandidate = errors.New("candidate provides no capability module")
	// ErrUnexpectedImport is the sentinel error wrapped by ImportError.
	ErrUnexpectedImport = errors.New("unexpected import failure")
	// ErrInvalidLayout is the sentinel error wrapped by InvalidLayoutError.
	ErrInvalidLayout = errors.New("invalid layout")
)

type (
	// UnknownKindError is returned when a capability kind has no discovery policy.
	UnknownKindError struct {
		Kind Kind
	}

	// ResolutionError is returned when the search root of a capability cannot
	// be computed, e.g. because the declaring module has no file on disk.
	ResolutionError struct {
		Kind   Kind
		Module string
		Cause  error
	}

	// AbsentCandidateError is returned by the Loader when none of the
	// modules a candidate could provide exists.
	AbsentCandidateError struct {
		Kind      Kind
		Candidate string
		Tried     []string
	}

	// ImportError is returned when importing a candidate's module fails for a
	// reason other than the module being absent. It aborts discovery.
	ImportError struct {
		Kind      Kind
		Candidate string
		Module    string
		Cause     error
	}

	// InvalidLayoutError is returned when a Layout has invalid fields.
	// It wraps ErrInvalidLayout for errors.Is() compatibility.
	InvalidLayoutError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown capability kind %d", int(e.Kind))
}

// Unwrap returns ErrUnknownKind for errors.Is() compatibility.
func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s search root from module %q: %v", e.Kind, e.Module, e.Cause)
}

// Unwrap returns ErrResolution and the underlying cause.
func (e *ResolutionError) Unwrap() []error { return []error{ErrResolution, e.Cause} }

// Error implements the error interface.
func (e *AbsentCandidateError) Error() string {
	return fmt.Sprintf("%s candidate %q provides none of: %s", e.Kind, e.Candidate, strings.Join(e.Tried, ", "))
}

// Unwrap returns ErrAbsentCandidate for errors.Is() compatibility.
func (e *AbsentCandidateError) Unwrap() error { return ErrAbsentCandidate }

// Error implements the error interface.
func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s module %q for candidate %q: %v", e.Kind, e.Module, e.Candidate, e.Cause)
}

// Unwrap returns ErrUnexpectedImport and the underlying cause.
func (e *ImportError) Unwrap() []error { return []error{ErrUnexpectedImport, e.Cause} }

// Error implements the error interface.
func (e *InvalidLayoutError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid layout: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidLayout for errors.Is() compatibility.
func (e *InvalidLayoutError) Unwrap() error { return ErrInvalidLayout }
