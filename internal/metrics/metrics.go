// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cryptoadvance/specter/internal/discovery"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Namespace prefixes every metric name.
const Namespace = "specter"

const (
	labelKind    = "kind"
	labelOutcome = "outcome"

	callOK     = "ok"
	callFailed = "failed"
)

// Recorder records discovery events into its own Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	calls      *prometheus.CounterVec
	candidates *prometheus.CounterVec
	classes    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var _ discovery.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "discovery",
				Name:      "calls_total",
				Help:      "Discovery calls by plugin kind and result.",
			},
			[]string{labelKind, labelOutcome},
		),
		candidates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "discovery",
				Name:      "candidates_total",
				Help:      "Candidate modules by plugin kind and outcome.",
			},
			[]string{labelKind, labelOutcome},
		),
		classes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "discovery",
				Name:      "classes_found_total",
				Help:      "Plugin classes admitted by discovery.",
			},
			[]string{labelKind},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "discovery",
				Name:      "duration_seconds",
				Help:      "Duration of discovery calls in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{labelKind},
		),
	}
}

// ObserveCandidate implements discovery.Observer.
func (r *Recorder) ObserveCandidate(kind discovery.Kind, outcome discovery.CandidateOutcome) {
	r.candidates.WithLabelValues(kind.String(), string(outcome)).Inc()
}

// ObserveClass implements discovery.Observer.
func (r *Recorder) ObserveClass(kind discovery.Kind) {
	r.classes.WithLabelValues(kind.String()).Inc()
}

// ObserveCall implements discovery.Observer.
func (r *Recorder) ObserveCall(kind discovery.Kind, elapsed time.Duration, err error) {
	outcome := callOK
	if err != nil {
		outcome = callFailed
	}
	r.calls.WithLabelValues(kind.String(), outcome).Inc()
	r.duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes every gathered metric family in the Prometheus text
// exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var errs []error
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
