// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/cryptoadvance/specter/pkg/registry"
)

const testMigratorModule = "specter/util/specter_migrator"

type (
	// Service mirrors the host's service extension base.
	Service interface {
		ID() string
	}

	// SpecterMigration mirrors the host's migration step base.
	SpecterMigration interface {
		Version() int
	}

	FooService   struct{}
	BarService   struct{}
	DevService   struct{}
	notAService  struct{}
	ptrService   struct{}
	M001         struct{}
	M002A        struct{}
	M002B        struct{}
	helperConfig struct{ Name string }
)

func (FooService) ID() string        { return "foo" }
func (BarService) ID() string        { return "bar" }
func (DevService) ID() string        { return "dev" }
func (*ptrService) ID() string       { return "ptr" }
func (M001) Version() int            { return 1 }
func (M002A) Version() int           { return 2 }
func (M002B) Version() int           { return 3 }
func (helperConfig) String() string  { return "helper" }
func (notAService) Describe() string { return "not a service" }

var (
	serviceCapability   = NewCapability[Service](KindService, "specter/services")
	migrationCapability = NewCapability[SpecterMigration](KindMigration, testMigratorModule)
)

// hostFixture is a host installation under a temp directory: a services
// package directory and a util directory whose migrations/ sub-directory
// holds migration modules.
type hostFixture struct {
	root          string
	servicesDir   string
	migrationsDir string
	reg           *registry.Registry
}

// newHostFixture creates the host directories and a registry declaring the
// services package and the migration base module.
func newHostFixture(t *testing.T) *hostFixture {
	t.Helper()

	root := t.TempDir()
	f := &hostFixture{
		root:          root,
		servicesDir:   filepath.Join(root, "host", "services"),
		migrationsDir: filepath.Join(root, "host", "util", "migrations"),
		reg:           registry.New(),
	}
	mustMkdirAll(t, f.servicesDir)
	mustMkdirAll(t, f.migrationsDir)

	f.define(t, DefaultServicesPackage, registry.WithLocation(filepath.Join(f.servicesDir, "doc.go")))
	f.define(t, testMigratorModule, registry.WithLocation(filepath.Join(root, "host", "util", "specter_migrator.go")))

	return f
}

func (f *hostFixture) define(t *testing.T, name string, opts ...registry.DefineOption) {
	t.Helper()
	if err := f.reg.Define(name, opts...); err != nil {
		t.Fatalf("failed to define module %s: %v", name, err)
	}
}

// addServicePackage creates <dir>/<name>/ with the given source files.
func addServicePackage(t *testing.T, dir, name string, files ...string) {
	t.Helper()
	pkgDir := filepath.Join(dir, name)
	mustMkdirAll(t, pkgDir)
	for _, file := range files {
		mustWriteFile(t, filepath.Join(pkgDir, file), "package "+name+"\n")
	}
}

// addMigrationFile creates <migrationsDir>/<name>.go.
func (f *hostFixture) addMigrationFile(t *testing.T, name string) {
	t.Helper()
	mustWriteFile(t, filepath.Join(f.migrationsDir, name+".go"), "package migrations\n")
}

// collector returns a Collector over the fixture registry with the given
// working directory and a silent logger.
func (f *hostFixture) collector(workDir string, opts ...Option) *Collector {
	defaults := []Option{
		WithRegistry(f.reg),
		WithWorkDir(workDir),
		WithLogger(discardLogger()),
	}
	return New(append(defaults, opts...)...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	mustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func classNames(classes []DiscoveredClass) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.DisplayName()
	}
	return names
}
