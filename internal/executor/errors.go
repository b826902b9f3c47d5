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

package executor

import (
	"errors"
	"fmt"

	"github.com/somatczk/romulus/internal/plan"
)

var (
	// ErrExecution is the sentinel wrapped by every ExecutionError.
	ErrExecution = errors.New("executor: action failed")

	// ErrCancelled is the sentinel wrapped by every Cancelled.
	ErrCancelled = errors.New("executor: cancelled")
)

// ExecutionError reports the first action that failed during Apply,
// how many actions completed before it, and the underlying cause
// (spec §4.3: no rollback, the operator re-runs plan to reconcile).
type ExecutionError struct {
	Action    plan.Action
	Completed int
	Cause     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executor: %s %s %q failed after %d completed action(s): %v",
		e.Action.Type, e.Action.Kind, e.Action.Identity(), e.Completed, e.Cause)
}

func (e *ExecutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrExecution, e.Cause}
	}

	return []error{ErrExecution}
}

// Cancelled reports that Apply's context was cancelled before the
// plan finished executing.
type Cancelled struct {
	Completed int
	Cause     error
}

func (e *Cancelled) Error() string {
	return fmt.Sprintf("executor: cancelled after %d completed action(s): %v", e.Completed, e.Cause)
}

func (e *Cancelled) Unwrap() error { return ErrCancelled }
