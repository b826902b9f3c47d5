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

// Optimize collapses redundant action pairs for the same resource
// identity, conservatively preserving observable semantics (spec
// §4.2): a destroy immediately followed, for the same identity, by a
// create of identical attributes collapses to nothing (a create with
// different attributes keeps both); a create followed by a destroy
// likewise collapses to nothing; a create, destroy, create sequence
// collapses to a single create. It never reorders actions belonging
// to different identities.
func Optimize(p Plan) Plan {
	cancelled := make([]bool, len(p))

	type stackEntry struct {
		index  int
		action Action
	}

	stacks := make(map[string][]stackEntry)

	for i, a := range p {
		if a.Type == Update {
			// Updates never participate in cancellation; leave any
			// stack for this identity as-is and move on.
			continue
		}

		key := a.Kind.String() + "/" + a.Identity()
		stack := stacks[key]

		if n := len(stack); n > 0 {
			top := stack[n-1]
			if cancels(top.action, a) {
				cancelled[top.index] = true
				cancelled[i] = true
				stacks[key] = stack[:n-1]

				continue
			}
		}

		stacks[key] = append(stack, stackEntry{index: i, action: a})
	}

	out := make(Plan, 0, len(p))

	for i, a := range p {
		if !cancelled[i] {
			out = append(out, a)
		}
	}

	return out
}

// cancels reports whether action next immediately following prev, for
// the same identity, cancels both. A destroy followed by a create
// cancels only when the create restores identical attributes.
func cancels(prev, next Action) bool {
	if prev.Type == Destroy && next.Type == Create {
		return prev.Resource == next.Resource
	}

	return prev.Type == Create && next.Type == Destroy
}
