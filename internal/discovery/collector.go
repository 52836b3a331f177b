// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/cryptoadvance/specter/pkg/registry"
)

type (
	// Collector finds every subtype of a capability in the modules under the
	// capability's search roots. A Collector keeps no state between calls.
	Collector struct {
		registry   *registry.Registry
		layout     Layout
		workDir    string
		workDirSet bool
		extraRoots []string
		logger     *slog.Logger
		observer   Observer
		// initDiagnostics are problems found while building the Collector,
		// reported with the result of every call.
		initDiagnostics []Diagnostic
	}

	// Option configures a Collector.
	Option func(*Collector)
)

// WithRegistry sets the module registry to import from (default: registry.Default()).
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Collector) {
		c.registry = reg
	}
}

// WithLayout sets the host package layout (default: DefaultLayout()).
func WithLayout(layout Layout) Option {
	return func(c *Collector) {
		c.layout = layout
	}
}

// WithWorkDir sets the working directory used for the cwd-fallback root
// (default: os.Getwd()). An empty dir disables the fallback.
func WithWorkDir(dir string) Option {
	return func(c *Collector) {
		c.workDir = dir
		c.workDirSet = true
	}
}

// WithExtraRoots adds configured service roots scanned after the installed one.
func WithExtraRoots(roots ...string) Option {
	return func(c *Collector) {
		c.extraRoots = append(c.extraRoots, roots...)
	}
}

// WithLogger sets the logger for discovery trace output (default: slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

// WithObserver sets an observer notified of discovery events.
func WithObserver(o Observer) Option {
	return func(c *Collector) {
		c.observer = o
	}
}

// New creates a Collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		registry: registry.Default(),
		layout:   DefaultLayout(),
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.workDirSet {
		wd, err := os.Getwd()
		if err != nil {
			c.initDiagnostics = append(c.initDiagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeWorkingDirUnavailable,
				Message:  fmt.Sprintf("cannot determine working directory, cwd fallback disabled: %v", err),
				Cause:    err,
			})
		} else {
			c.workDir = wd
		}
	}

	return c
}

// Resolver returns a Resolver sharing the Collector's configuration.
func (c *Collector) Resolver() *Resolver {
	return NewResolver(c.registry, c.layout, ResolverOptions{
		WorkDir:    c.workDir,
		ExtraRoots: c.extraRoots,
	})
}

// Collect returns every subtype of capability found under its search roots,
// in discovery order: root order, then module order, then symbol name order.
// When fromCwd is set and the capability kind allows it, the working
// directory is scanned as an extra root (see Resolver.SearchRoots).
//
// An empty result is not an error.
func (c *Collector) Collect(capability Capability, fromCwd bool) ([]DiscoveredClass, error) {
	res, err := c.CollectWithDiagnostics(capability, fromCwd)
	if err != nil {
		return nil, err
	}
	return res.Classes, nil
}

// CollectWithDiagnostics is Collect plus the scanned roots and the non-fatal
// diagnostics (skipped candidates, cwd fallback) of the call.
func (c *Collector) CollectWithDiagnostics(capability Capability, fromCwd bool) (Result, error) {
	start := time.Now()
	res, err := c.collect(capability, fromCwd)
	c.observer.ObserveCall(capability.Kind, time.Since(start), err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (c *Collector) collect(capability Capability, fromCwd bool) (Result, error) {
	if valid, errs := c.layout.IsValid(); !valid {
		return Result{}, errs[0]
	}

	res := Result{
		Diagnostics: append([]Diagnostic(nil), c.initDiagnostics...),
	}

	roots, err := c.Resolver().SearchRoots(capability, fromCwd)
	if err != nil {
		return Result{}, err
	}
	res.Roots = roots

	for _, root := range roots {
		c.logger.Info("collecting subtypes",
			"capability", capability.Name(), "kind", capability.Kind.String(),
			"root", root.Path, "origin", string(root.Origin))
		if root.Origin == OriginWorkingDir {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityInfo,
				Code:     CodeWorkingDirRootAdded,
				Message:  "running outside the source tree, added working directory to discovery",
				Path:     root.Path,
			})
		}
	}

	loader := NewLoader(c.registry, c.layout, c.logger)
	seen := make(map[reflect.Type]string)

	for cand := range NewEnumerator(c.layout).Enumerate(roots) {
		c.logger.Debug("iterating on candidate", "module", cand.Name, "root", cand.Root.Path)

		m, err := loader.Load(capability.Kind, cand.Name)
		if err != nil {
			var absent *AbsentCandidateError
			if errors.As(err, &absent) {
				c.observer.ObserveCandidate(capability.Kind, OutcomeAbsent)
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity: SeverityInfo,
					Code:     CodeCandidateAbsent,
					Message:  fmt.Sprintf("no %s module found for %q, skipping", capability.Kind, cand.Name),
					Path:     cand.Root.Path,
					Cause:    err,
				})
				continue
			}
			c.observer.ObserveCandidate(capability.Kind, OutcomeFailed)
			return Result{}, err
		}
		c.observer.ObserveCandidate(capability.Kind, OutcomeImported)

		for _, sym := range m.Symbols() {
			t, ok := sym.IsType()
			if !ok || !capability.Admits(t) {
				continue
			}
			if first, dup := seen[t]; dup {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity: SeverityInfo,
					Code:     CodeDuplicateClass,
					Message:  fmt.Sprintf("%s exported again as %s.%s, already found in %s", t, m.Name, sym.Name, first),
				})
				continue
			}
			seen[t] = m.Name

			class := DiscoveredClass{Type: t, Name: t.Name(), Module: m.Name, Root: cand.Root}
			res.Classes = append(res.Classes, class)
			c.observer.ObserveClass(capability.Kind)
			c.logger.Info("found class", "class", class.DisplayName(), "module", m.Name)
		}
	}

	return res, nil
}
