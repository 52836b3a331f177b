// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// OutputText prints human-readable, styled output.
	OutputText OutputFormat = "text"
	// OutputJSON prints JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML prints YAML.
	OutputYAML OutputFormat = "yaml"
	// OutputTOML prints TOML.
	OutputTOML OutputFormat = "toml"
)

var (
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidModuleName is returned when a ModuleName value is malformed.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrInvalidRootPath is returned when a RootPath value is empty or whitespace-only.
	ErrInvalidRootPath = errors.New("invalid root path")
	// ErrInvalidSourceExt is returned when a SourceExt value does not start with a dot.
	ErrInvalidSourceExt = errors.New("invalid source extension")
	// ErrInvalidDiscoveryConfig is the sentinel error wrapped by InvalidDiscoveryConfigError.
	ErrInvalidDiscoveryConfig = errors.New("invalid discovery config")
	// ErrInvalidAssetsConfig is the sentinel error wrapped by InvalidAssetsConfigError.
	ErrInvalidAssetsConfig = errors.New("invalid assets config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// OutputFormat selects how CLI results are printed.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// ModuleName is a slash-separated registry module name ("specter/services").
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName is empty or has
	// empty path elements.
	InvalidModuleNameError struct {
		Field string
		Value ModuleName
	}

	// RootPath is an extra discovery root as written in the config file. It
	// may reference environment variables and may be relative.
	RootPath string

	// InvalidRootPathError is returned when a RootPath is empty or whitespace-only.
	InvalidRootPathError struct {
		Value RootPath
	}

	// SourceExt is the extension of module source files, including the dot.
	SourceExt string

	// InvalidSourceExtError is returned when a SourceExt does not start with
	// a dot or contains a path separator.
	InvalidSourceExtError struct {
		Value SourceExt
	}

	// InvalidDiscoveryConfigError is returned when a DiscoveryConfig has invalid fields.
	InvalidDiscoveryConfigError struct {
		FieldErrors []error
	}

	// InvalidAssetsConfigError is returned when an AssetsConfig has invalid fields.
	InvalidAssetsConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Discovery configures plugin discovery.
		Discovery DiscoveryConfig `json:"discovery" yaml:"discovery" toml:"discovery" mapstructure:"discovery"`
		// Assets configures static asset lookup.
		Assets AssetsConfig `json:"assets" yaml:"assets" toml:"assets" mapstructure:"assets"`
		// UI configures CLI output.
		UI UIConfig `json:"ui" yaml:"ui" toml:"ui" mapstructure:"ui"`
	}

	// DiscoveryConfig configures where and how plugins are discovered.
	DiscoveryConfig struct {
		ServicesPackage   ModuleName `json:"services_package" yaml:"services_package" toml:"services_package" mapstructure:"services_package"`
		MigrationsPackage ModuleName `json:"migrations_package" yaml:"migrations_package" toml:"migrations_package" mapstructure:"migrations_package"`
		ServiceSubmodule  ModuleName `json:"service_submodule" yaml:"service_submodule" toml:"service_submodule" mapstructure:"service_submodule"`
		MigrationsDir     string     `json:"migrations_dir" yaml:"migrations_dir" toml:"migrations_dir" mapstructure:"migrations_dir"`
		SourceMarker      string     `json:"source_marker" yaml:"source_marker" toml:"source_marker" mapstructure:"source_marker"`
		SourceExt         SourceExt  `json:"source_ext" yaml:"source_ext" toml:"source_ext" mapstructure:"source_ext"`
		// LoadFromCwd makes service discovery scan the working directory
		// unless the CLI flag says otherwise.
		LoadFromCwd bool       `json:"load_from_cwd" yaml:"load_from_cwd" toml:"load_from_cwd" mapstructure:"load_from_cwd"`
		ExtraRoots  []RootPath `json:"extra_roots" yaml:"extra_roots" toml:"extra_roots" mapstructure:"extra_roots"`
	}

	// AssetsConfig selects between source-tree and bundled static assets.
	AssetsConfig struct {
		Bundled    bool   `json:"bundled" yaml:"bundled" toml:"bundled" mapstructure:"bundled"`
		BundleRoot string `json:"bundle_root" yaml:"bundle_root" toml:"bundle_root" mapstructure:"bundle_root"`
	}

	// UIConfig configures CLI output.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" yaml:"verbose" toml:"verbose" mapstructure:"verbose"`
		// Output is the default output format.
		Output OutputFormat `json:"output" yaml:"output" toml:"output" mapstructure:"output"`
	}
)

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats,
// and a list of validation errors if it is not.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputText, OutputJSON, OutputYAML, OutputTOML:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidOutputFormat for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// validate checks the name, reporting field in the error.
func (n ModuleName) validate(field string) []error {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") ||
		strings.Contains(s, "//") || strings.ContainsAny(s, ` \`) {
		return []error{&InvalidModuleNameError{Field: field, Value: n}}
	}
	return nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("%s: invalid module name %q", e.Field, e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }

// String returns the string representation of the RootPath.
func (p RootPath) String() string { return string(p) }

// IsValid returns whether the RootPath is non-empty.
func (p RootPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidRootPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRootPathError.
func (e *InvalidRootPathError) Error() string {
	return fmt.Sprintf("invalid extra root %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidRootPath for errors.Is() compatibility.
func (e *InvalidRootPathError) Unwrap() error { return ErrInvalidRootPath }

// IsValid returns whether the SourceExt starts with a dot and names no directory.
func (x SourceExt) IsValid() (bool, []error) {
	s := string(x)
	if len(s) < 2 || s[0] != '.' || strings.ContainsAny(s, `/\`) || filepath.Ext(s) != s {
		return false, []error{&InvalidSourceExtError{Value: x}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceExtError.
func (e *InvalidSourceExtError) Error() string {
	return fmt.Sprintf("invalid source extension %q: must look like \".go\"", e.Value)
}

// Unwrap returns ErrInvalidSourceExt for errors.Is() compatibility.
func (e *InvalidSourceExtError) Unwrap() error { return ErrInvalidSourceExt }

// IsValid returns whether the DiscoveryConfig has valid fields.
func (c DiscoveryConfig) IsValid() (bool, []error) {
	var errs []error
	errs = append(errs, c.ServicesPackage.validate("services_package")...)
	errs = append(errs, c.MigrationsPackage.validate("migrations_package")...)
	errs = append(errs, c.ServiceSubmodule.validate("service_submodule")...)
	if strings.Contains(string(c.ServiceSubmodule), "/") {
		errs = append(errs, &InvalidModuleNameError{Field: "service_submodule", Value: c.ServiceSubmodule})
	}
	if strings.TrimSpace(c.MigrationsDir) == "" || strings.ContainsAny(c.MigrationsDir, `/\`) {
		errs = append(errs, fmt.Errorf("migrations_dir: %q must be a single directory name", c.MigrationsDir))
	}
	if strings.TrimSpace(c.SourceMarker) == "" {
		errs = append(errs, errors.New("source_marker: must not be empty"))
	}
	if valid, fieldErrs := c.SourceExt.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, root := range c.ExtraRoots {
		if valid, fieldErrs := root.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidDiscoveryConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDiscoveryConfigError.
func (e *InvalidDiscoveryConfigError) Error() string {
	return fmt.Sprintf("invalid discovery config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidDiscoveryConfig for errors.Is() compatibility.
func (e *InvalidDiscoveryConfigError) Unwrap() error { return ErrInvalidDiscoveryConfig }

// IsValid returns whether the AssetsConfig has valid fields. An empty
// BundleRoot is valid and means the executable's directory.
func (c AssetsConfig) IsValid() (bool, []error) {
	if c.BundleRoot != "" && strings.TrimSpace(c.BundleRoot) == "" {
		return false, []error{&InvalidAssetsConfigError{FieldErrors: []error{
			fmt.Errorf("bundle_root: %q must not be whitespace-only", c.BundleRoot),
		}}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAssetsConfigError.
func (e *InvalidAssetsConfigError) Error() string {
	return fmt.Sprintf("invalid assets config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidAssetsConfig for errors.Is() compatibility.
func (e *InvalidAssetsConfigError) Unwrap() error { return ErrInvalidAssetsConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to Output.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Discovery.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Assets.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			ServicesPackage:   "specter/services",
			MigrationsPackage: "specter/util/migrations",
			ServiceSubmodule:  "service",
			MigrationsDir:     "migrations",
			SourceMarker:      filepath.Join("src", "specter"),
			SourceExt:         ".go",
			LoadFromCwd:       false,
			ExtraRoots:        []RootPath{},
		},
		Assets: AssetsConfig{
			Bundled:    false,
			BundleRoot: "",
		},
		UI: UIConfig{
			Verbose: false,
			Output:  OutputText,
		},
	}
}
