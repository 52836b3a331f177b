// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultServicesPackage is the host package whose directory holds services.
	DefaultServicesPackage = "specter/services"
	// DefaultMigrationsPackage is the module prefix migration modules are defined under.
	DefaultMigrationsPackage = "specter/util/migrations"
	// DefaultServiceSubmodule is the module every service package must ship.
	DefaultServiceSubmodule = "service"
	// DefaultMigrationsDir is the directory next to the migration base's file.
	DefaultMigrationsDir = "migrations"
	// DefaultSourceExt is the extension of source files that count as modules.
	DefaultSourceExt = ".go"
)

// DefaultSourceMarker is the path, relative to the working directory, whose
// presence means the process runs from inside the host's source checkout.
var DefaultSourceMarker = filepath.Join("src", "specter")

// Layout describes how the host lays out its discoverable packages.
type Layout struct {
	// ServicesPackage is the module that marks the services directory.
	ServicesPackage string `json:"services_package" mapstructure:"services_package"`
	// MigrationsPackage is the module prefix of migration modules.
	MigrationsPackage string `json:"migrations_package" mapstructure:"migrations_package"`
	// ServiceSubmodule is the module name every service package must provide.
	ServiceSubmodule string `json:"service_submodule" mapstructure:"service_submodule"`
	// MigrationsDir is the migrations directory name.
	MigrationsDir string `json:"migrations_dir" mapstructure:"migrations_dir"`
	// SourceMarker disables the working-directory root when it exists under the cwd.
	SourceMarker string `json:"source_marker" mapstructure:"source_marker"`
	// SourceExt is the extension of module source files (e.g., ".go").
	SourceExt string `json:"source_ext" mapstructure:"source_ext"`
}

// DefaultLayout returns the layout of the specter source tree.
func DefaultLayout() Layout {
	return Layout{
		ServicesPackage:   DefaultServicesPackage,
		MigrationsPackage: DefaultMigrationsPackage,
		ServiceSubmodule:  DefaultServiceSubmodule,
		MigrationsDir:     DefaultMigrationsDir,
		SourceMarker:      DefaultSourceMarker,
		SourceExt:         DefaultSourceExt,
	}
}

// IsValid returns whether every layout field is set and well-formed.
func (l Layout) IsValid() (bool, []error) {
	var errs []error

	required := []struct {
		field string
		value string
	}{
		{"services_package", l.ServicesPackage},
		{"migrations_package", l.MigrationsPackage},
		{"service_submodule", l.ServiceSubmodule},
		{"migrations_dir", l.MigrationsDir},
		{"source_marker", l.SourceMarker},
		{"source_ext", l.SourceExt},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s: must not be empty", r.field))
		}
	}

	if l.SourceExt != "" && !strings.HasPrefix(l.SourceExt, ".") {
		errs = append(errs, fmt.Errorf("source_ext: %q must start with '.'", l.SourceExt))
	}
	if strings.ContainsAny(l.MigrationsDir, `/\`) {
		errs = append(errs, fmt.Errorf("migrations_dir: %q must be a single directory name", l.MigrationsDir))
	}
	if strings.Contains(l.ServiceSubmodule, "/") {
		errs = append(errs, fmt.Errorf("service_submodule: %q must be a single module name", l.ServiceSubmodule))
	}

	if len(errs) > 0 {
		return false, []error{&InvalidLayoutError{FieldErrors: errs}}
	}
	return true, nil
}
