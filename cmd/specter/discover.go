// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/cryptoadvance/specter/internal/config"
	"github.com/cryptoadvance/specter/internal/discovery"
	"github.com/cryptoadvance/specter/internal/issue"
	"github.com/cryptoadvance/specter/internal/metrics"
	"github.com/cryptoadvance/specter/internal/specter/plugins"
	"github.com/cryptoadvance/specter/internal/specter/services"
	"github.com/cryptoadvance/specter/internal/specter/util"

	"github.com/spf13/cobra"
)

const (
	fromCwdFlag = "from-cwd"
	metricsFlag = "metrics"
)

type (
	// classRecord is the output form of a discovered class.
	classRecord struct {
		Name        string           `json:"name" yaml:"name" toml:"name"`
		Type        string           `json:"type" yaml:"type" toml:"type"`
		Module      string           `json:"module" yaml:"module" toml:"module"`
		Root        string           `json:"root" yaml:"root" toml:"root"`
		Origin      discovery.Origin `json:"origin" yaml:"origin" toml:"origin"`
		ID          string           `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
		Version     int              `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
		Description string           `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	}

	discoverReport struct {
		Kind        string                 `json:"kind" yaml:"kind" toml:"kind"`
		Classes     []classRecord          `json:"classes" yaml:"classes" toml:"classes"`
		Roots       []discovery.SearchRoot `json:"roots" yaml:"roots" toml:"roots"`
		Diagnostics []discovery.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
	}

	rootsReport struct {
		Kind  string                 `json:"kind" yaml:"kind" toml:"kind"`
		Roots []discovery.SearchRoot `json:"roots" yaml:"roots" toml:"roots"`
	}
)

func newDiscoverCommand(app *App) *cobra.Command {
	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover services and migrations",
		Long: `Discover the service extensions and migrations linked into this build.

Services are looked up one directory per service under the services
package; a directory without a service module is skipped. Migrations are
the files of the migrations directory, and every one of them must load.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	discoverCmd.PersistentFlags().Bool(metricsFlag, false, "print discovery metrics in Prometheus text format to stderr")

	servicesCmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service"},
		Short:   "List discovered services",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, app, discovery.KindService)
		},
	}
	servicesCmd.Flags().Bool(fromCwdFlag, false, "also scan the working directory (default from config discovery.load_from_cwd)")
	addOutputFlag(servicesCmd)

	migrationsCmd := &cobra.Command{
		Use:     "migrations",
		Aliases: []string{"migration"},
		Short:   "List discovered migrations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(cmd, app, discovery.KindMigration)
		},
	}
	addOutputFlag(migrationsCmd)

	rootsCmd := &cobra.Command{
		Use:       "roots <kind>",
		Short:     "Show the directories scanned for a plugin kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"services", "migrations"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoots(cmd, app, args[0])
		},
	}
	rootsCmd.Flags().Bool(fromCwdFlag, false, "include the working-directory root (default from config discovery.load_from_cwd)")
	addOutputFlag(rootsCmd)

	discoverCmd.AddCommand(servicesCmd, migrationsCmd, rootsCmd)
	return discoverCmd
}

func runDiscover(cmd *cobra.Command, app *App, kind discovery.Kind) error {
	ctx := cmd.Context()
	s, err := app.newSession(ctx)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd, s)
	if err != nil {
		return err
	}
	fromCwd, err := fromCwdValue(cmd, s)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	var observer discovery.Observer
	if withMetrics, _ := cmd.Flags().GetBool(metricsFlag); withMetrics {
		recorder = metrics.NewRecorder()
		observer = recorder
	}

	capability, err := plugins.Capability(kind)
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}
	collector, err := app.newCollector(s, observer)
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}

	res, err := collector.CollectWithDiagnostics(capability, fromCwd)
	if recorder != nil {
		defer func() {
			if werr := recorder.WriteText(app.stderr); werr != nil {
				s.logger.Warn("failed to write metrics", "error", werr)
			}
		}()
	}
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}

	diags := append(append([]discovery.Diagnostic(nil), s.diags...), res.Diagnostics...)
	report := discoverReport{
		Kind:        kind.String(),
		Classes:     make([]classRecord, 0, len(res.Classes)),
		Roots:       res.Roots,
		Diagnostics: diags,
	}
	for _, class := range res.Classes {
		report.Classes = append(report.Classes, describeClass(kind, class))
	}

	if format == config.OutputText {
		app.Diagnostics.Render(ctx, diags, s.verbose, app.stderr)
	}
	return writeOutput(app.stdout, format, report, func(w io.Writer) error {
		return writeClassesText(w, report, s.verbose)
	})
}

func runRoots(cmd *cobra.Command, app *App, kindName string) error {
	s, err := app.newSession(cmd.Context())
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd, s)
	if err != nil {
		return err
	}
	fromCwd, err := fromCwdValue(cmd, s)
	if err != nil {
		return err
	}

	kind, err := discovery.ParseKind(kindName)
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}
	capability, err := plugins.Capability(kind)
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}
	collector, err := app.newCollector(s, nil)
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}
	roots, err := collector.Resolver().SearchRoots(capability, fromCwd)
	if err != nil {
		return app.discoveryFailure(s, kind, err)
	}

	report := rootsReport{Kind: kind.String(), Roots: roots}
	return writeOutput(app.stdout, format, report, func(w io.Writer) error {
		for _, root := range roots {
			if _, err := fmt.Fprintf(w, "%s %s\n", root.Path, SubtitleStyle.Render("("+string(root.Origin)+")")); err != nil {
				return err
			}
		}
		return nil
	})
}

func fromCwdValue(cmd *cobra.Command, s *session) (bool, error) {
	flag := cmd.Flags().Lookup(fromCwdFlag)
	if flag == nil || !flag.Changed {
		return s.cfg.Discovery.LoadFromCwd, nil
	}
	return cmd.Flags().GetBool(fromCwdFlag)
}

// describeClass converts class to its output form, adding what the
// built-in base types expose about an instance.
func describeClass(kind discovery.Kind, class discovery.DiscoveredClass) classRecord {
	rec := classRecord{
		Name:   class.DisplayName(),
		Type:   class.Type.String(),
		Module: class.Module,
		Root:   class.Root.Path,
		Origin: class.Root.Origin,
	}
	switch kind {
	case discovery.KindService:
		if svc, ok := discovery.Instantiate[services.Service](class); ok {
			rec.ID = svc.ID()
			rec.Description = svc.Description()
		}
	case discovery.KindMigration:
		if m, ok := discovery.Instantiate[util.SpecterMigration](class); ok {
			rec.Version = m.Version()
			rec.Description = m.Description()
		}
	}
	return rec
}

func writeClassesText(w io.Writer, report discoverReport, verbose bool) error {
	if len(report.Classes) == 0 {
		_, err := fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("No %ss found.", report.Kind)))
		return err
	}
	for _, c := range report.Classes {
		line := nameColumnStyle.Render(c.Name) + " " + c.Description
		if verbose {
			line += " " + VerboseStyle.Render(c.Module+" @ "+c.Root)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// discoveryFailure turns a discovery error into an ActionableError linked
// to its catalog issue, rendering the issue to stderr.
func (a *App) discoveryFailure(s *session, kind discovery.Kind, err error) error {
	ae := discoveryError(kind, err)
	if ae.Issue != 0 {
		a.renderIssue(ae.Issue)
	}
	if s.verbose {
		_, _ = fmt.Fprintln(a.stderr, VerboseStyle.Render(ae.Format(true)))
	}
	return ae
}

func discoveryError(kind discovery.Kind, err error) *issue.ActionableError {
	ctx := issue.NewErrorContext().
		WithOperation("discover " + kind.String() + "s").
		Wrap(err)

	switch {
	case errors.Is(err, discovery.ErrUnknownKind):
		ctx.WithOperation("discover plugins").
			WithIssue(issue.UnknownKindId).
			WithSuggestion("Use one of: services, migrations")
	case errors.Is(err, discovery.ErrInvalidLayout):
		ctx.WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the discovery section of your configuration")
	case errors.Is(err, discovery.ErrResolution):
		var re *discovery.ResolutionError
		if errors.As(err, &re) {
			ctx.WithResource(re.Module)
		}
		if kind == discovery.KindMigration {
			ctx.WithIssue(issue.MigrationsRootUnresolvedId)
		} else {
			ctx.WithIssue(issue.ServicesRootUnresolvedId)
		}
	case errors.Is(err, discovery.ErrUnexpectedImport):
		var ie *discovery.ImportError
		if errors.As(err, &ie) {
			ctx.WithResource(ie.Module)
		}
		if kind == discovery.KindMigration {
			ctx.WithIssue(issue.MigrationImportFailedId)
		} else {
			ctx.WithIssue(issue.ServiceImportFailedId)
		}
		ctx.WithSuggestion("Run with --verbose to see the full error chain")
	}

	return ctx.Build()
}
