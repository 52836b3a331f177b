// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cryptoadvance/specter/internal/config"
	"github.com/cryptoadvance/specter/internal/discovery"
	"github.com/cryptoadvance/specter/internal/issue"
	"github.com/cryptoadvance/specter/pkg/registry"

	"github.com/charmbracelet/log"
)

// codeConfigLoadFailed is reported when configuration falls back to defaults.
const codeConfigLoadFailed = "config_load_failed"

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App reference.
	App struct {
		Config      ConfigProvider
		Registry    *registry.Registry
		Diagnostics DiagnosticRenderer
		// WorkDir overrides the working directory used for the cwd-fallback
		// root. Empty means os.Getwd().
		WorkDir string
		// IssueStyle is the glamour style issues are rendered with.
		IssueStyle string

		stdout io.Writer
		stderr io.Writer
		flags  globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Registry    *registry.Registry
		Diagnostics DiagnosticRenderer
		WorkDir     string
		IssueStyle  string
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, verbose bool, w io.Writer)
	}

	globalFlags struct {
		verbose    bool
		configPath string
	}

	// session is the per-invocation state every command starts from.
	session struct {
		cfg     *config.Config
		path    string
		verbose bool
		logger  *slog.Logger
		// diags are configuration problems recovered by using defaults.
		diags []discovery.Diagnostic
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registry == nil {
		deps.Registry = registry.Default()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}
	if deps.IssueStyle == "" {
		deps.IssueStyle = "dark"
	}

	return &App{
		Config:      deps.Config,
		Registry:    deps.Registry,
		Diagnostics: deps.Diagnostics,
		WorkDir:     deps.WorkDir,
		IssueStyle:  deps.IssueStyle,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// newSession loads configuration and sets up logging for one command.
//
// A config file given with --config must load. Otherwise a broken config
// file degrades to defaults with a diagnostic so discovery stays usable.
func (a *App) newSession(ctx context.Context) (*session, error) {
	s := &session{}

	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	switch {
	case err == nil:
		s.cfg, s.path = loaded.Config, loaded.Path
	case a.flags.configPath != "":
		a.renderIssue(issue.ConfigLoadFailedId)
		return nil, err
	default:
		s.cfg = config.DefaultConfig()
		s.diags = append(s.diags, discovery.Diagnostic{
			Severity: discovery.SeverityWarning,
			Code:     codeConfigLoadFailed,
			Message:  fmt.Sprintf("failed to load config, using defaults: %s", formatErrorForDisplay(err, false)),
			Cause:    err,
		})
	}

	s.verbose = a.flags.verbose || s.cfg.UI.Verbose
	s.logger = newLogger(a.stderr, s.verbose)
	return s, nil
}

// newCollector builds a Collector from the session's discovery settings.
func (a *App) newCollector(s *session, observer discovery.Observer) (*discovery.Collector, error) {
	layout := layoutFromConfig(s.cfg.Discovery)
	if valid, errs := layout.IsValid(); !valid {
		return nil, errs[0]
	}

	opts := []discovery.Option{
		discovery.WithRegistry(a.Registry),
		discovery.WithLayout(layout),
		discovery.WithLogger(s.logger),
	}
	if roots := s.cfg.Discovery.ExtraRoots; len(roots) > 0 {
		extra := make([]string, len(roots))
		for i, r := range roots {
			extra[i] = r.String()
		}
		opts = append(opts, discovery.WithExtraRoots(extra...))
	}
	if a.WorkDir != "" {
		opts = append(opts, discovery.WithWorkDir(a.WorkDir))
	}
	if observer != nil {
		opts = append(opts, discovery.WithObserver(observer))
	}
	return discovery.New(opts...), nil
}

// renderIssue writes the catalog entry for id to stderr.
func (a *App) renderIssue(id issue.Id) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	rendered, err := is.Render(a.IssueStyle)
	if err != nil {
		return
	}
	_, _ = fmt.Fprint(a.stderr, rendered)
}

func layoutFromConfig(d config.DiscoveryConfig) discovery.Layout {
	return discovery.Layout{
		ServicesPackage:   d.ServicesPackage.String(),
		MigrationsPackage: d.MigrationsPackage.String(),
		ServiceSubmodule:  d.ServiceSubmodule.String(),
		MigrationsDir:     d.MigrationsDir,
		SourceMarker:      d.SourceMarker,
		SourceExt:         string(d.SourceExt),
	}
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Prefix: "specter",
		Level:  level,
	}))
}

// Render writes diagnostics with lipgloss styling. Info diagnostics are
// shown only in verbose mode.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, verbose bool, w io.Writer) {
	for _, diag := range diags {
		var prefix string
		switch diag.Severity {
		case discovery.SeverityError:
			prefix = ErrorStyle.Render("error")
		case discovery.SeverityWarning:
			prefix = WarningStyle.Render("warning")
		default:
			if !verbose {
				continue
			}
			prefix = VerboseStyle.Render("info")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(w, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, diag.Message)
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
