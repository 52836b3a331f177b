// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cryptoadvance/specter/pkg/registry"

	"mvdan.cc/sh/v3/shell"
)

const (
	// OriginInstalled marks the root computed from the host's installed packages.
	OriginInstalled Origin = "installed"
	// OriginConfigured marks an extra root listed in the configuration.
	OriginConfigured Origin = "configured"
	// OriginWorkingDir marks the cwd-fallback root.
	OriginWorkingDir Origin = "working_dir"
)

type (
	// Origin says why a directory is a search root.
	Origin string

	// SearchRoot is a directory scanned for candidate modules.
	SearchRoot struct {
		Path   string `json:"path" yaml:"path" toml:"path"`
		Origin Origin `json:"origin" yaml:"origin" toml:"origin"`
	}

	// ResolverOptions holds the environment a Resolver computes roots from.
	ResolverOptions struct {
		// WorkDir is the process working directory; empty disables the
		// cwd-fallback root.
		WorkDir string
		// ExtraRoots are additional service roots. They may reference
		// environment variables ($HOME, ${XDG_DATA_HOME}); relative paths are
		// taken relative to WorkDir.
		ExtraRoots []string
		// Getenv resolves variables in ExtraRoots. Defaults to os.Getenv.
		Getenv func(string) string
	}

	// Resolver computes the directories that must be scanned for a capability.
	// Resolution reads the registry and the filesystem but changes nothing
	// other than the registry's import cache.
	Resolver struct {
		registry   *registry.Registry
		layout     Layout
		workDir    string
		extraRoots []string
		getenv     func(string) string
	}
)

// NewResolver creates a Resolver for the given registry and layout.
func NewResolver(reg *registry.Registry, layout Layout, opts ResolverOptions) *Resolver {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Resolver{
		registry:   reg,
		layout:     layout,
		workDir:    opts.WorkDir,
		extraRoots: opts.ExtraRoots,
		getenv:     getenv,
	}
}

// Roots returns the installed (and configured) search roots for c, in scan order.
func (r *Resolver) Roots(c Capability) ([]SearchRoot, error) {
	if valid, errs := c.IsValid(); !valid {
		return nil, errs[0]
	}
	p, err := policyFor(c.Kind)
	if err != nil {
		return nil, err
	}
	return p.roots(r, c)
}

// SearchRoots returns Roots(c) plus, for kinds that allow it and when
// fromCwd is set, the working directory. The working directory is skipped
// when it contains the layout's source marker, i.e. when the process runs
// from inside the host's own source checkout.
func (r *Resolver) SearchRoots(c Capability, fromCwd bool) ([]SearchRoot, error) {
	roots, err := r.Roots(c)
	if err != nil {
		return nil, err
	}

	p, _ := policyFor(c.Kind)
	if !p.cwdFallback || !fromCwd || r.workDir == "" {
		return roots, nil
	}
	if isDir(filepath.Join(r.workDir, r.layout.SourceMarker)) {
		return roots, nil
	}

	return append(roots, SearchRoot{Path: canonicalPath(r.workDir), Origin: OriginWorkingDir}), nil
}

// migrationRoots returns the migrations directory next to the file that
// declares the migration base type.
func (r *Resolver) migrationRoots(c Capability) ([]SearchRoot, error) {
	dir, err := r.moduleDir(c.Kind, c.Module)
	if err != nil {
		return nil, err
	}
	return []SearchRoot{{
		Path:   canonicalPath(filepath.Join(dir, r.layout.MigrationsDir)),
		Origin: OriginInstalled,
	}}, nil
}

// serviceRoots returns the directory of the host services package followed
// by the configured extra roots.
func (r *Resolver) serviceRoots(c Capability) ([]SearchRoot, error) {
	dir, err := r.moduleDir(c.Kind, r.layout.ServicesPackage)
	if err != nil {
		return nil, err
	}

	roots := []SearchRoot{{Path: canonicalPath(dir), Origin: OriginInstalled}}
	for _, raw := range r.extraRoots {
		expanded, err := shell.Expand(raw, r.getenv)
		if err != nil {
			return nil, &ResolutionError{
				Kind:  c.Kind,
				Cause: fmt.Errorf("expand extra root %q: %w", raw, err),
			}
		}
		if expanded == "" {
			continue
		}
		if !filepath.IsAbs(expanded) && r.workDir != "" {
			expanded = filepath.Join(r.workDir, expanded)
		}
		roots = append(roots, SearchRoot{Path: canonicalPath(expanded), Origin: OriginConfigured})
	}

	return roots, nil
}

// moduleDir imports module and returns the directory of its declaring file.
// The location must be an absolute path to a directory that exists: binaries
// built with -trimpath, or run away from their build tree, record locations
// that do not name anything on this machine.
func (r *Resolver) moduleDir(kind Kind, module string) (string, error) {
	m, err := r.registry.Import(module)
	if err != nil {
		return "", &ResolutionError{Kind: kind, Module: module, Cause: err}
	}
	switch {
	case m.Location == "":
		return "", &ResolutionError{Kind: kind, Module: module, Cause: ErrNoLocation}
	case !filepath.IsAbs(m.Location):
		return "", &ResolutionError{
			Kind:   kind,
			Module: module,
			Cause:  fmt.Errorf("%w: %q is not an absolute path", ErrNoLocation, m.Location),
		}
	case !isDir(m.Dir()):
		return "", &ResolutionError{
			Kind:   kind,
			Module: module,
			Cause:  fmt.Errorf("%w: directory %q does not exist", ErrNoLocation, m.Dir()),
		}
	}
	return m.Dir(), nil
}

// canonicalPath makes p absolute and resolves symlinks when p exists.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
