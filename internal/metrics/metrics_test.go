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

package metrics_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somatczk/romulus/internal/metrics"
)

func TestNewRecorderRegistersDistinctPrivateRegistries(t *testing.T) {
	// Two recorders in the same process must not collide on duplicate
	// metric registration, the way a global registry would.
	assert.NotPanics(t, func() {
		metrics.NewRecorder()
		metrics.NewRecorder()
	})
}

func TestRecordActionSuccessIsReflectedInHandlerOutput(t *testing.T) {
	r := metrics.NewRecorder()
	r.RecordActionSuccess("create", "pool")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `romulus_executor_actions_total{kind="pool",type="create"} 1`)
}

func TestRecordActionFailureIsReflectedInHandlerOutput(t *testing.T) {
	r := metrics.NewRecorder()
	r.RecordActionFailure("destroy", "domain")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `romulus_executor_actions_failed_total{kind="domain",type="destroy"} 1`)
}

func TestObserveActionDurationRecordsIntoHistogram(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveActionDuration("create", "volume", 12.5)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "romulus_executor_action_duration_seconds")
}

func TestNilRecorderMethodsAreNoOps(t *testing.T) {
	var r *metrics.Recorder

	assert.NotPanics(t, func() {
		r.RecordActionSuccess("create", "pool")
		r.RecordActionFailure("create", "pool")
		r.ObserveActionDuration("create", "pool", 1)
	})
}
