// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collectNames(e *Enumerator, roots []SearchRoot) []string {
	var names []string
	for c := range e.Enumerate(roots) {
		names = append(names, c.Name)
	}
	return names
}

func TestEnumerate_ModuleRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	addServicePackage(t, dir, "swan", "service.go", "controller.go")
	addServicePackage(t, dir, "onlytests", "service_test.go")
	addServicePackage(t, dir, "testdata", "service.go")
	addServicePackage(t, dir, "_hidden", "service.go")
	addServicePackage(t, dir, ".git", "config.go")
	mustMkdirAll(t, filepath.Join(dir, "empty"))
	mustMkdirAll(t, filepath.Join(dir, "nested", "deeper"))
	mustWriteFile(t, filepath.Join(dir, "nested", "deeper", "x.go"), "package deeper\n")
	mustWriteFile(t, filepath.Join(dir, "m001.go"), "package migrations\n")
	mustWriteFile(t, filepath.Join(dir, "m001_test.go"), "package migrations\n")
	mustWriteFile(t, filepath.Join(dir, "doc.go"), "package migrations\n")
	mustWriteFile(t, filepath.Join(dir, "notes.txt"), "")
	mustWriteFile(t, filepath.Join(dir, "v1.2.go"), "package migrations\n")
	mustWriteFile(t, filepath.Join(dir, "_scratch.go"), "package migrations\n")

	e := NewEnumerator(DefaultLayout())
	got := collectNames(e, []SearchRoot{{Path: dir, Origin: OriginInstalled}})

	assert.Equal(t, []string{"m001", "swan"}, got)
}

func TestEnumerate_FirstRootWins(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	addServicePackage(t, first, "foo", "service.go")
	addServicePackage(t, second, "foo", "service.go")
	addServicePackage(t, second, "bar", "service.go")

	roots := []SearchRoot{
		{Path: first, Origin: OriginInstalled},
		{Path: second, Origin: OriginWorkingDir},
	}

	var got []Candidate
	for c := range NewEnumerator(DefaultLayout()).Enumerate(roots) {
		got = append(got, c)
	}

	assert.Equal(t, []Candidate{
		{Root: roots[0], Name: "foo"},
		{Root: roots[1], Name: "bar"},
	}, got)
}

func TestEnumerate_MissingRoot(t *testing.T) {
	t.Parallel()

	e := NewEnumerator(DefaultLayout())
	got := collectNames(e, []SearchRoot{{Path: filepath.Join(t.TempDir(), "missing")}})
	assert.Empty(t, got)
}

func TestEnumerate_RestartableAndStoppable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		addServicePackage(t, dir, name, "service.go")
	}

	e := NewEnumerator(DefaultLayout())
	seq := e.Enumerate([]SearchRoot{{Path: dir}})

	var firstOnly []string
	for c := range seq {
		firstOnly = append(firstOnly, c.Name)
		break
	}
	assert.Equal(t, []string{"a"}, firstOnly)

	var all []string
	for c := range seq {
		all = append(all, c.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, all)

	// A package added after the sequence was created shows up on the next pass.
	addServicePackage(t, dir, "d", "service.go")
	var again []string
	for c := range seq {
		again = append(again, c.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, again)
}

func TestEnumerate_CustomSourceExt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "m001.py"), "")
	mustWriteFile(t, filepath.Join(dir, "m002.go"), "")

	layout := DefaultLayout()
	layout.SourceExt = ".py"
	assert.Equal(t, []string{"m001"}, collectNames(NewEnumerator(layout), []SearchRoot{{Path: dir}}))
}
