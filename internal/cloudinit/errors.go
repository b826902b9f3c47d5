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

package cloudinit

import (
	"errors"
	"fmt"
)

// ErrTemplate is the sentinel wrapped by every TemplateError.
var ErrTemplate = errors.New("cloudinit: template rendering failed")

// TemplateError reports a rendering failure: a required variable with
// no supplied value, or substituted output that does not parse as
// YAML (spec §4.4, §7).
type TemplateError struct {
	Reason string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("cloudinit: %s", e.Reason)
}

func (e *TemplateError) Unwrap() error { return ErrTemplate }
