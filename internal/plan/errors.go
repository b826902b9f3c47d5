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

package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrDependency is the sentinel wrapped by every DependencyError.
	ErrDependency = errors.New("plan: unresolved dependency")

	// ErrOrder is the sentinel wrapped by every OrderError.
	ErrOrder = errors.New("plan: action out of dependency order")
)

// DependencyError reports an action referencing a resource that is
// neither present in current state nor created by an earlier step in
// the plan.
type DependencyError struct {
	Action Action
	Ref    string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s %s depends on %q, which does not exist and is not created earlier in the plan",
		e.Action.Type, e.Action.Kind, e.Ref)
}

func (e *DependencyError) Unwrap() error { return ErrDependency }

// OrderError reports a create action that depends on a resource which
// is itself created later in the plan, rather than missing outright.
type OrderError struct {
	Action Action
	Ref    string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s %s depends on %q, which is created later in the plan instead of earlier",
		e.Action.Type, e.Action.Kind, e.Ref)
}

func (e *OrderError) Unwrap() error { return ErrOrder }
