// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	widget      struct{}
	otherWidget struct{}
)

func TestDefine_RecordsCallerLocation(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("app/widgets"))

	m, err := r.Import("app/widgets")
	require.NoError(t, err)
	assert.Equal(t, "registry_test.go", filepath.Base(m.Location))
	assert.Equal(t, filepath.Dir(m.Location), m.Dir())
}

func TestDefine_LocationOptions(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("builtin", WithoutLocation()))
	require.NoError(t, r.Define("pinned", WithLocation("/opt/app/pinned.go")))

	builtin, err := r.Import("builtin")
	require.NoError(t, err)
	assert.Empty(t, builtin.Location)
	assert.Empty(t, builtin.Dir())

	pinned, err := r.Import("pinned")
	require.NoError(t, err)
	assert.Equal(t, "/opt/app/pinned.go", pinned.Location)
}

func TestDefine_Duplicate(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("app/a", WithLocation("/first.go")))

	err := r.Define("app/a", WithLocation("/second.go"))
	require.ErrorIs(t, err, ErrDuplicateModule)

	var dupErr *DuplicateModuleError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "/first.go", dupErr.FirstLocation)
	assert.Equal(t, "/second.go", dupErr.SecondLocation)
}

func TestDefine_InvalidNames(t *testing.T) {
	t.Parallel()

	tests := []string{"", "a//b", "/a", "a/", "a/../b", "a b", `a\b`, "."}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, New().Define(name), ErrInvalidModuleName)
		})
	}
}

func TestDefine_DuplicateSymbol(t *testing.T) {
	t.Parallel()

	err := New().Define("app/dup", WithSymbols(Type[widget](), TypeAs[otherWidget]("widget")))
	assert.ErrorIs(t, err, ErrDuplicateSymbol)
}

func TestModule_SymbolsSortedByName(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("app/sorted", WithSymbols(
		Value("zeta", 1),
		Type[widget](),
		Value("alpha", "x"),
	)))

	m, err := r.Import("app/sorted")
	require.NoError(t, err)

	var names []string
	for _, sym := range m.Symbols() {
		names = append(names, sym.Name)
	}
	assert.Equal(t, []string{"alpha", "widget", "zeta"}, names)

	sym, ok := m.Lookup("widget")
	require.True(t, ok)
	typ, isType := sym.IsType()
	require.True(t, isType)
	assert.Equal(t, reflect.TypeFor[widget](), typ)

	sym, ok = m.Lookup("alpha")
	require.True(t, ok)
	_, isType = sym.IsType()
	assert.False(t, isType)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)
}

func TestImport_NotFound(t *testing.T) {
	t.Parallel()

	_, err := New().Import("nowhere/service")
	require.ErrorIs(t, err, ErrModuleNotFound)
	assert.True(t, IsNotFound(err, "nowhere/service"))
	assert.False(t, IsNotFound(err, "elsewhere"))
	assert.False(t, IsNotFound(nil, "nowhere/service"))
}

func TestImport_CachesAndReset(t *testing.T) {
	t.Parallel()

	var runs int
	r := New()
	require.NoError(t, r.Define("app/counted", WithInit(func() error {
		runs++
		return nil
	})))

	first, err := r.Import("app/counted")
	require.NoError(t, err)
	second, err := r.Import("app/counted")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, runs)
	assert.True(t, r.Imported("app/counted"))

	r.Reset()
	assert.False(t, r.Imported("app/counted"))

	_, err = r.Import("app/counted")
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
}

func TestImport_InitFailureIsNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fail := true
	r := New()
	require.NoError(t, r.Define("app/flaky", WithInit(func() error {
		if fail {
			return boom
		}
		return nil
	})))

	_, err := r.Import("app/flaky")
	require.ErrorIs(t, err, ErrModuleInit)
	require.ErrorIs(t, err, boom)
	assert.False(t, IsNotFound(err, "app/flaky"))
	assert.False(t, r.Imported("app/flaky"))

	fail = false
	_, err = r.Import("app/flaky")
	require.NoError(t, err)
}

func TestImport_NestedNotFound(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("plugin/service", WithInit(func() error {
		_, err := r.Import("plugin/missing-dependency")
		return err
	})))

	_, err := r.Import("plugin/service")
	require.ErrorIs(t, err, ErrModuleNotFound)
	require.ErrorIs(t, err, ErrModuleInit)

	// The chain still names the module that is missing.
	var nf *ModuleNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "plugin/missing-dependency", nf.Name)
	assert.False(t, IsNotFound(err, "plugin/service"))
	assert.False(t, IsNotFound(err, "plugin/missing-dependency"))
}

func TestImport_ParentsFirst(t *testing.T) {
	t.Parallel()

	var order []string
	record := func(name string) DefineOption {
		return WithInit(func() error {
			order = append(order, name)
			return nil
		})
	}

	r := New()
	require.NoError(t, r.Define("app/services/swan/service", record("service")))
	require.NoError(t, r.Define("app/services", record("services")))
	require.NoError(t, r.Define("app", record("app")))

	_, err := r.Import("app/services/swan/service")
	require.NoError(t, err)

	// "app/services/swan" is undefined and acts as a namespace.
	assert.Equal(t, []string{"app", "services", "service"}, order)
}

func TestImport_ParentFailureFailsChild(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("app", WithInit(func() error { return errors.New("bad parent") })))
	require.NoError(t, r.Define("app/child"))

	_, err := r.Import("app/child")
	require.ErrorIs(t, err, ErrModuleInit)
	assert.False(t, IsNotFound(err, "app/child"))
}

func TestImport_ConcurrentFirstImportInitializesOnce(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	r := New()
	require.NoError(t, r.Define("app/shared", WithInit(func() error {
		runs.Add(1)
		return nil
	})))

	var wg sync.WaitGroup
	modules := make([]*Module, 32)
	for i := range modules {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Import("app/shared")
			if err == nil {
				modules[i] = m
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	for _, m := range modules {
		assert.Same(t, modules[0], m)
	}
}

func TestModules_Listing(t *testing.T) {
	t.Parallel()

	r := New()
	require.NoError(t, r.Define("b/mod", WithSymbols(Type[widget]())))
	require.NoError(t, r.Define("a/mod", WithoutLocation()))
	_, err := r.Import("b/mod")
	require.NoError(t, err)

	infos := r.Modules()
	require.Len(t, infos, 2)
	assert.Equal(t, ModuleInfo{Name: "a/mod"}, infos[0])
	assert.Equal(t, "b/mod", infos[1].Name)
	assert.Equal(t, 1, infos[1].Symbols)
	assert.True(t, infos[1].Imported)
}
