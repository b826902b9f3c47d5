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

package hypervisor

import (
	"errors"
	"fmt"
)

var (
	// ErrAdapter is the sentinel wrapped by every AdapterError.
	ErrAdapter = errors.New("hypervisor: adapter operation failed")

	// ErrNotFound indicates an operation targeted a resource that does
	// not exist.
	ErrNotFound = errors.New("hypervisor: resource not found")

	// ErrConflict indicates a create call targeted an identity that
	// already exists with different attributes (spec §7's idempotent
	// create contract).
	ErrConflict = errors.New("hypervisor: resource exists with different attributes")
)

// AdapterError wraps a failure from an Adapter call with enough
// context for the executor to report it against the plan action that
// triggered it.
type AdapterError struct {
	Op       string
	Identity string
	Cause    error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("hypervisor: %s %q: %v", e.Op, e.Identity, e.Cause)
}

func (e *AdapterError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrAdapter, e.Cause}
	}

	return []error{ErrAdapter}
}
