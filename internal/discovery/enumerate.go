// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

const (
	// testFileSuffix marks source files that are never modules.
	testFileSuffix = "_test"
	// packageDocModule is the per-package documentation file, which declares
	// no module of its own.
	packageDocModule = "doc"
	// testdataDir is ignored like the go tool ignores it.
	testdataDir = "testdata"
)

type (
	// Candidate is a module name found under a search root, not yet imported.
	Candidate struct {
		Root SearchRoot
		Name string
	}

	// Enumerator lists candidate modules under search roots without
	// importing them.
	Enumerator struct {
		sourceExt string
	}
)

// NewEnumerator creates an Enumerator for the layout's source extension.
func NewEnumerator(layout Layout) *Enumerator {
	return &Enumerator{sourceExt: layout.SourceExt}
}

// Enumerate yields one candidate per module found directly under each root.
// Roots are scanned in order and entries in name order. A module name that
// was already yielded for an earlier root is skipped, so the first root
// wins. Roots that do not exist or cannot be read yield nothing.
//
// The sequence is lazy and can be ranged over more than once; each pass
// re-reads the directories.
func (e *Enumerator) Enumerate(roots []SearchRoot) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		seen := make(map[string]bool)
		for _, root := range roots {
			for _, name := range e.modulesIn(root.Path) {
				if seen[name] {
					continue
				}
				seen[name] = true
				if !yield(Candidate{Root: root, Name: name}) {
					return
				}
			}
		}
	}
}

// modulesIn returns the module names directly under dir: packages
// (sub-directories holding at least one source file) and source files.
func (e *Enumerator) modulesIn(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if ignoredEntry(entry.Name()) {
			continue
		}

		if entry.IsDir() {
			if entry.Name() == testdataDir || strings.Contains(entry.Name(), ".") {
				continue
			}
			if e.isPackage(filepath.Join(dir, entry.Name())) {
				names = append(names, entry.Name())
			}
			continue
		}

		if name, ok := e.moduleName(entry.Name()); ok {
			names = append(names, name)
		}
	}

	return names
}

// isPackage reports whether dir directly contains a module source file.
func (e *Enumerator) isPackage(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() || ignoredEntry(entry.Name()) {
			continue
		}
		if strings.HasSuffix(entry.Name(), e.sourceExt) && !isTestFile(entry.Name(), e.sourceExt) {
			return true
		}
	}
	return false
}

// moduleName returns the module a source file defines, if any.
func (e *Enumerator) moduleName(file string) (string, bool) {
	if !strings.HasSuffix(file, e.sourceExt) || isTestFile(file, e.sourceExt) {
		return "", false
	}
	name := strings.TrimSuffix(file, e.sourceExt)
	if name == "" || name == packageDocModule || strings.Contains(name, ".") {
		return "", false
	}
	return name, true
}

func isTestFile(file, ext string) bool {
	return strings.HasSuffix(strings.TrimSuffix(file, ext), testFileSuffix)
}

func ignoredEntry(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
