/*
Copyright 2026 The Romulus Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics wires the executor's action counters into a
// Prometheus registry, exposed via an HTTP handler when a caller
// wants one (e.g. a long-running apply watched by an operator).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts executor actions by outcome, type and resource
// kind. The zero value is not usable; call NewRecorder.
type Recorder struct {
	registry *prometheus.Registry

	actionsTotal    *prometheus.CounterVec
	actionsFailed   *prometheus.CounterVec
	actionsDuration *prometheus.HistogramVec
}

// NewRecorder returns a Recorder backed by a fresh, private registry
// so repeated CLI invocations within the same process (as in tests)
// never collide on global metric registration.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "romulus_executor_actions_total",
			Help: "Count of plan actions successfully applied, by type and resource kind.",
		}, []string{"type", "kind"}),
		actionsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "romulus_executor_actions_failed_total",
			Help: "Count of plan actions that failed, by type and resource kind.",
		}, []string{"type", "kind"}),
		actionsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "romulus_executor_action_duration_seconds",
			Help:    "Time taken to apply a single plan action.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45, 90, 180},
		}, []string{"type", "kind"}),
	}

	registry.MustRegister(r.actionsTotal, r.actionsFailed, r.actionsDuration)

	return r
}

// RecordActionSuccess increments the success counter for (actionType, kind).
func (r *Recorder) RecordActionSuccess(actionType, kind string) {
	if r == nil {
		return
	}

	r.actionsTotal.WithLabelValues(actionType, kind).Inc()
}

// RecordActionFailure increments the failure counter for (actionType, kind).
func (r *Recorder) RecordActionFailure(actionType, kind string) {
	if r == nil {
		return
	}

	r.actionsFailed.WithLabelValues(actionType, kind).Inc()
}

// ObserveActionDuration records how long a single action took to apply.
func (r *Recorder) ObserveActionDuration(actionType, kind string, seconds float64) {
	if r == nil {
		return
	}

	r.actionsDuration.WithLabelValues(actionType, kind).Observe(seconds)
}

// Handler returns an HTTP handler exposing this Recorder's registry in
// the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
