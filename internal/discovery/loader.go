// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"log/slog"

	"github.com/cryptoadvance/specter/pkg/registry"
)

// Loader imports the module a candidate stands for.
type Loader struct {
	registry *registry.Registry
	layout   Layout
	logger   *slog.Logger
}

// NewLoader creates a Loader importing from reg.
func NewLoader(reg *registry.Registry, layout Layout, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{registry: reg, layout: layout, logger: logger}
}

// Load imports the module for candidate.
//
// For services the host-namespaced module (<services>/<candidate>/service)
// is tried first, then the top-level one (<candidate>/service). When neither
// imports, including when a module's initializer itself hits a missing
// module, the candidate is not a service package and an
// *AbsentCandidateError is returned. For migrations the single module
// <migrations>/<candidate> must import; any failure is fatal. Fatal failures
// are *ImportError.
func (l *Loader) Load(kind Kind, candidate string) (*registry.Module, error) {
	p, err := policyFor(kind)
	if err != nil {
		return nil, err
	}

	names := p.moduleNames(l.layout, candidate)
	for _, name := range names {
		m, err := l.registry.Import(name)
		if err == nil {
			l.logger.Debug("imported module", "kind", kind.String(), "module", name)
			return m, nil
		}
		if p.tolerateAbsent && errors.Is(err, registry.ErrModuleNotFound) {
			if registry.IsNotFound(err, name) {
				l.logger.Debug("no capability module", "kind", kind.String(), "module", name)
			} else {
				l.logger.Debug("capability module imports a missing module",
					"kind", kind.String(), "module", name, "error", err)
			}
			continue
		}
		return nil, &ImportError{Kind: kind, Candidate: candidate, Module: name, Cause: err}
	}

	return nil, &AbsentCandidateError{Kind: kind, Candidate: candidate, Tried: names}
}
