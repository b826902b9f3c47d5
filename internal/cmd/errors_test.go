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

package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/somatczk/romulus/internal/executor"
	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/state"
)

func TestExitCodeSuccessOnNilError(t *testing.T) {
	assert.Equal(t, exitSuccess, ExitCode(nil))
}

func TestExitCodeCancelledOnContextCanceled(t *testing.T) {
	assert.Equal(t, exitCancelled, ExitCode(context.Canceled))
}

func TestExitCodeCancelledOnExecutorCancelled(t *testing.T) {
	err := &executor.Cancelled{Completed: 2, Cause: context.Canceled}
	assert.Equal(t, exitCancelled, ExitCode(err))
}

func TestExitCodeValidationOnDependencyError(t *testing.T) {
	err := &plan.DependencyError{Action: plan.Action{Kind: plan.KindDomain}, Ref: "network/foo"}
	assert.Equal(t, exitValidationOrConsistency, ExitCode(err))
}

func TestExitCodeValidationOnConsistencyError(t *testing.T) {
	err := &state.ConsistencyError{Reason: "duplicate identity"}
	assert.Equal(t, exitValidationOrConsistency, ExitCode(err))
}

func TestExitCodeExecutionOnAdapterError(t *testing.T) {
	err := &hypervisor.AdapterError{Op: "CreatePool", Identity: "pool/default", Cause: errors.New("boom")}
	assert.Equal(t, exitExecution, ExitCode(err))
}

func TestExitCodeExecutionOnExecutionError(t *testing.T) {
	err := &executor.ExecutionError{Action: plan.Action{Kind: plan.KindPool}, Completed: 1, Cause: errors.New("boom")}
	assert.Equal(t, exitExecution, ExitCode(err))
}

func TestExitCodeFallsBackToValidationForUnknownErrors(t *testing.T) {
	assert.Equal(t, exitValidationOrConsistency, ExitCode(errors.New("something unclassified")))
}
