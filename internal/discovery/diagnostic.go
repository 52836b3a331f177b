// SPDX-License-Identifier: MPL-2.0

package discovery

const (
	// SeverityInfo marks an expected, recovered condition (e.g., a directory
	// under the services root that is not a service package).
	SeverityInfo Severity = "info"
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeCandidateAbsent is reported for service candidates without a service module.
	CodeCandidateAbsent = "candidate_absent"
	// CodeDuplicateClass is reported when a type is exported by more than one symbol.
	CodeDuplicateClass = "duplicate_class"
	// CodeWorkingDirUnavailable is reported when the working directory cannot be determined.
	CodeWorkingDirUnavailable = "working_dir_unavailable"
	// CodeWorkingDirRootAdded is reported when the cwd-fallback root is used.
	CodeWorkingDirRootAdded = "working_dir_root_added"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity `json:"severity" yaml:"severity" toml:"severity"`
		// Code is a machine-readable identifier (e.g., "candidate_absent").
		Code string `json:"code" yaml:"code" toml:"code"`
		// Message is the human-readable description.
		Message string `json:"message" yaml:"message" toml:"message"`
		// Path is the file path associated with this diagnostic (optional).
		Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error `json:"-" yaml:"-" toml:"-"`
	}

	// Result bundles the classes of one discovery call with the search roots
	// that were scanned and the diagnostics produced on the way.
	Result struct {
		Classes     []DiscoveredClass
		Roots       []SearchRoot
		Diagnostics []Diagnostic
	}
)
