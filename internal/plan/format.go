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
	"fmt"
	"strings"
)

// Format renders a plan for human review (spec §4.2): grouped by
// action type, each line bracketing the resource kind, with a header
// announcing no-op and a trailing change count.
func Format(p Plan) string {
	if len(p) == 0 {
		return "No changes needed — infrastructure is up to date.\n"
	}

	var b strings.Builder

	groups := []struct {
		title string
		typ   ActionType
		mark  string
	}{
		{"Create", Create, "+"},
		{"Update", Update, "~"},
		{"Destroy", Destroy, "-"},
	}

	for _, g := range groups {
		var lines []string

		for _, a := range p {
			if a.Type != g.typ {
				continue
			}

			lines = append(lines, fmt.Sprintf("  %s [%s] %s", g.mark, a.Kind, a.Identity()))
		}

		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(&b, "%s:\n%s\n\n", g.title, strings.Join(lines, "\n"))
	}

	fmt.Fprintf(&b, "%d change(s)\n", len(p))

	return b.String()
}
