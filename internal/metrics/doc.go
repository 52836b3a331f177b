// SPDX-License-Identifier: MPL-2.0

// Package metrics exports plugin discovery counters and timings as
// Prometheus metrics. A Recorder implements discovery.Observer.
package metrics
