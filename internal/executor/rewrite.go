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
	"fmt"

	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/state"
)

// RewriteUpdates replaces every Update action in p with a
// destroy-then-create pair for the same identity (spec §4.3: the
// baseline adapter supports no in-place update for any resource kind),
// then re-validates the resulting plan's dependency ordering against
// current. A network or pool update still referenced by a domain
// elsewhere in the plan fails validation here rather than silently
// tearing down a resource still in use.
func RewriteUpdates(p plan.Plan, current state.Snapshot) (plan.Plan, error) {
	surviving := survivingDomains(p, current)

	out := make(plan.Plan, 0, len(p)+countUpdates(p))

	for _, a := range p {
		if a.Type != plan.Update {
			out = append(out, a)
			continue
		}

		before, ok := findCurrent(current, a.Kind, a.Identity())
		if !ok {
			return nil, fmt.Errorf("executor: update action for %s %q has no matching current resource", a.Kind, a.Identity())
		}

		if (a.Kind == plan.KindPool || a.Kind == plan.KindNetwork) && referencedBy(surviving, a.Kind, a.Identity()) {
			return nil, fmt.Errorf("executor: cannot rewrite update of %s %q to destroy+create: still referenced by a domain that is not being recreated", a.Kind, a.Identity())
		}

		out = append(out,
			plan.Action{Type: plan.Destroy, Kind: a.Kind, Resource: before, Reason: rewrittenUpdateDestroyReason},
			plan.Action{Type: plan.Create, Kind: a.Kind, Resource: a.Resource, Reason: rewrittenUpdateReason},
		)
	}

	return plan.Validate(out, current)
}

// survivingDomains returns every domain, from current, that p does
// not destroy — i.e. it will still exist, unchanged, after p runs.
func survivingDomains(p plan.Plan, current state.Snapshot) []state.Domain {
	destroyed := make(map[string]bool)

	for _, a := range p {
		if a.Type == plan.Destroy && a.Kind == plan.KindDomain {
			destroyed[a.Identity()] = true
		}
	}

	var out []state.Domain

	for _, d := range current.Domains {
		if !destroyed[d.Name] {
			out = append(out, d)
		}
	}

	return out
}

func referencedBy(domains []state.Domain, kind plan.ResourceKind, identity string) bool {
	for _, d := range domains {
		switch kind {
		case plan.KindNetwork:
			if d.Network == identity {
				return true
			}
		case plan.KindPool:
			if d.DiskVolume.Pool == identity || d.CloudInitVolume.Pool == identity {
				return true
			}
		}
	}

	return false
}

func countUpdates(p plan.Plan) int {
	n := 0

	for _, a := range p {
		if a.Type == plan.Update {
			n++
		}
	}

	return n
}

func findCurrent(current state.Snapshot, kind plan.ResourceKind, identity string) (interface{}, bool) {
	switch kind {
	case plan.KindPool:
		for _, r := range current.Pools {
			if r.Identity() == identity {
				return r, true
			}
		}
	case plan.KindNetwork:
		for _, r := range current.Networks {
			if r.Identity() == identity {
				return r, true
			}
		}
	case plan.KindVolume:
		for _, r := range current.Volumes {
			if r.Identity() == identity {
				return r, true
			}
		}
	case plan.KindDomain:
		for _, r := range current.Domains {
			if r.Identity() == identity {
				return r, true
			}
		}
	}

	return nil, false
}
