// SPDX-License-Identifier: MPL-2.0

package discovery

import "time"

const (
	// OutcomeImported counts candidates whose module was imported.
	OutcomeImported CandidateOutcome = "imported"
	// OutcomeAbsent counts skipped service candidates.
	OutcomeAbsent CandidateOutcome = "absent"
	// OutcomeFailed counts candidates whose import aborted discovery.
	OutcomeFailed CandidateOutcome = "failed"
)

type (
	// CandidateOutcome is what happened to one candidate module.
	CandidateOutcome string

	// Observer receives discovery events, e.g. to export metrics.
	Observer interface {
		ObserveCandidate(kind Kind, outcome CandidateOutcome)
		ObserveClass(kind Kind)
		ObserveCall(kind Kind, elapsed time.Duration, err error)
	}

	nopObserver struct{}
)

func (nopObserver) ObserveCandidate(Kind, CandidateOutcome) {}
func (nopObserver) ObserveClass(Kind)                       {}
func (nopObserver) ObserveCall(Kind, time.Duration, error)  {}
