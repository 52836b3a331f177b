// SPDX-License-Identifier: MPL-2.0

// Package assets resolves directories of static files (templates, static)
// for source checkouts and for bundled builds.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidFolder is returned for folder names that are empty, absolute or
// escape the asset root.
var ErrInvalidFolder = errors.New("invalid asset folder")

// Locator maps asset folder names to directories.
type Locator struct {
	// Bundled selects bundle mode, where assets live under BundleRoot.
	Bundled bool
	// BundleRoot is the directory the bundle was unpacked to. When empty in
	// bundle mode, the directory of the running executable is used.
	BundleRoot string

	executable func() (string, error)
}

// NewLocator returns a Locator for the given mode.
func NewLocator(bundled bool, bundleRoot string) Locator {
	return Locator{Bundled: bundled, BundleRoot: bundleRoot}
}

// Dir returns the directory for folder: folder itself when running from
// source, <bundle root>/<folder> in bundle mode.
func (l Locator) Dir(folder string) (string, error) {
	if folder == "" || filepath.IsAbs(folder) || !filepath.IsLocal(folder) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
	}
	if !l.Bundled {
		return folder, nil
	}

	root, err := l.root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, folder), nil
}

func (l Locator) root() (string, error) {
	if l.BundleRoot != "" {
		return l.BundleRoot, nil
	}
	executable := l.executable
	if executable == nil {
		executable = os.Executable
	}
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("resolve bundle root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
