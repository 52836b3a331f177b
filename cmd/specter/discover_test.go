// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cryptoadvance/specter/internal/config"
	"github.com/cryptoadvance/specter/internal/discovery"
	"github.com/cryptoadvance/specter/internal/issue"
	"github.com/cryptoadvance/specter/internal/testutil"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func classIDs(report discoverReport) []string {
	var ids []string
	for _, c := range report.Classes {
		ids = append(ids, c.ID)
	}
	return ids
}

func diagnosticCodes(diags []discovery.Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestDiscoverServices_JSON(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, Dependencies{}, "discover", "services", "-o", "json")
	require.NoError(t, err)

	var report discoverReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, "service", report.Kind)
	assert.Equal(t, []string{"bitcoinreserve", "swan"}, classIDs(report))
	assert.Contains(t, diagnosticCodes(report.Diagnostics), discovery.CodeCandidateAbsent)
	require.Len(t, report.Roots, 1)
	assert.Equal(t, discovery.OriginInstalled, report.Roots[0].Origin)

	for _, c := range report.Classes {
		assert.Equal(t, discovery.OriginInstalled, c.Origin)
		assert.NotEmpty(t, c.Description)
	}
}

func TestDiscoverServices_Text(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, Dependencies{}, "discover", "services")
	require.NoError(t, err)

	assert.Contains(t, stdout, "SwanService")
	assert.Contains(t, stdout, "BitcoinReserveService")
	assert.Contains(t, stdout, "Auto-withdraw to your Specter wallet")
}

func TestDiscoverServices_FromCwd(t *testing.T) {
	t.Parallel()

	workDir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(workDir, "myext"))
	testutil.MustWriteFile(t, filepath.Join(workDir, "myext", "ext.go"), "package myext\n")

	stdout, _, err := runCLI(t, Dependencies{WorkDir: workDir}, "discover", "services", "--from-cwd", "-o", "json")
	require.NoError(t, err)

	var report discoverReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	require.Len(t, report.Roots, 2)
	assert.Equal(t, discovery.OriginWorkingDir, report.Roots[1].Origin)
	assert.Equal(t, []string{"bitcoinreserve", "swan"}, classIDs(report))
	assert.Contains(t, diagnosticCodes(report.Diagnostics), discovery.CodeWorkingDirRootAdded)
}

func TestDiscoverServices_FromCwdConfigDefault(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Discovery.LoadFromCwd = true

	stdout, _, err := runCLI(t, Dependencies{Config: &stubProvider{cfg: cfg}}, "discover", "services", "-o", "json")
	require.NoError(t, err)

	var report discoverReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Len(t, report.Roots, 2)

	stdout, _, err = runCLI(t, Dependencies{Config: &stubProvider{cfg: cfg}}, "discover", "services", "--from-cwd=false", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Len(t, report.Roots, 1)
}

func TestDiscoverMigrations_YAML(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, Dependencies{}, "discover", "migrations", "-o", "yaml")
	require.NoError(t, err)

	var report discoverReport
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))

	require.Len(t, report.Classes, 2)
	assert.Equal(t, "M001DataLayout", report.Classes[0].Name)
	assert.Equal(t, 1, report.Classes[0].Version)
	assert.Equal(t, "M002InternalNode", report.Classes[1].Name)
	assert.Equal(t, 2, report.Classes[1].Version)
}

func TestDiscover_Metrics(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, Dependencies{}, "discover", "migrations", "--metrics", "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, stderr, `specter_discovery_calls_total{kind="migration",outcome="ok"} 1`)
	assert.Contains(t, stderr, `specter_discovery_classes_found_total{kind="migration"} 2`)
}

func TestDiscover_InvalidOutput(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, Dependencies{}, "discover", "services", "-o", "xml")
	require.ErrorIs(t, err, config.ErrInvalidOutputFormat)
}

func TestDiscover_InvalidLayout(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Discovery.SourceExt = "go"

	_, _, err := runCLI(t, Dependencies{Config: &stubProvider{cfg: cfg}}, "discover", "services")
	require.ErrorIs(t, err, discovery.ErrInvalidLayout)

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.ConfigLoadFailedId, ae.Issue)
}

func TestDiscoverRoots_TOML(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, Dependencies{}, "discover", "roots", "migrations", "-o", "toml")
	require.NoError(t, err)

	var report rootsReport
	require.NoError(t, toml.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, "migration", report.Kind)
	require.Len(t, report.Roots, 1)
	assert.Equal(t, "migrations", filepath.Base(report.Roots[0].Path))
	assert.Equal(t, discovery.OriginInstalled, report.Roots[0].Origin)
}

func TestDiscoverRoots_UnknownKind(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, Dependencies{}, "discover", "roots", "wallets")
	require.ErrorIs(t, err, discovery.ErrUnknownKind)

	var ae *issue.ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, issue.UnknownKindId, ae.Issue)
	assert.Contains(t, stderr, "Unknown plugin kind")
}

func TestDiscoveryError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name         string
		kind         discovery.Kind
		err          error
		wantIssue    issue.Id
		wantResource string
	}{
		{
			"migration root",
			discovery.KindMigration,
			&discovery.ResolutionError{Kind: discovery.KindMigration, Module: "specter/util/specter_migrator", Cause: cause},
			issue.MigrationsRootUnresolvedId,
			"specter/util/specter_migrator",
		},
		{
			"service root",
			discovery.KindService,
			&discovery.ResolutionError{Kind: discovery.KindService, Module: "specter/services", Cause: cause},
			issue.ServicesRootUnresolvedId,
			"specter/services",
		},
		{
			"service import",
			discovery.KindService,
			&discovery.ImportError{Kind: discovery.KindService, Candidate: "swan", Module: "specter/services/swan/service", Cause: cause},
			issue.ServiceImportFailedId,
			"specter/services/swan/service",
		},
		{
			"migration import",
			discovery.KindMigration,
			&discovery.ImportError{Kind: discovery.KindMigration, Candidate: "m003", Module: "specter/util/migrations/m003", Cause: cause},
			issue.MigrationImportFailedId,
			"specter/util/migrations/m003",
		},
		{"other", discovery.KindService, cause, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ae := discoveryError(tt.kind, tt.err)
			assert.Equal(t, tt.wantIssue, ae.Issue)
			assert.Equal(t, tt.wantResource, ae.Resource)
			assert.ErrorIs(t, ae, cause)
		})
	}
}
