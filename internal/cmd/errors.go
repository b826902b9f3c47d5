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

	"github.com/somatczk/romulus/internal/cloudinit"
	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/executor"
	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/state"
)

// Exit codes per spec §6.
const (
	exitSuccess                 = 0
	exitValidationOrConsistency = 1
	exitExecution               = 2
	exitCancelled               = 130
)

// ExitCode classifies err into one of the four codes the CLI returns,
// following the error taxonomy in spec §7.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	if errors.Is(err, context.Canceled) {
		return exitCancelled
	}

	var cancelled *executor.Cancelled
	if errors.As(err, &cancelled) {
		return exitCancelled
	}

	var configErr *config.ConfigError
	if errors.As(err, &configErr) {
		return exitValidationOrConsistency
	}

	var consistencyErr *state.ConsistencyError
	if errors.As(err, &consistencyErr) {
		return exitValidationOrConsistency
	}

	var depErr *plan.DependencyError
	if errors.As(err, &depErr) {
		return exitValidationOrConsistency
	}

	var orderErr *plan.OrderError
	if errors.As(err, &orderErr) {
		return exitValidationOrConsistency
	}

	var templateErr *cloudinit.TemplateError
	if errors.As(err, &templateErr) {
		return exitExecution
	}

	var adapterErr *hypervisor.AdapterError
	if errors.As(err, &adapterErr) {
		return exitExecution
	}

	var execErr *executor.ExecutionError
	if errors.As(err, &execErr) {
		return exitExecution
	}

	return exitValidationOrConsistency
}
