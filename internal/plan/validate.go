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

import "github.com/somatczk/romulus/internal/state"

// existingSet tracks, per kind, which identities are known to exist
// at a given point while walking a plan.
type existingSet map[ResourceKind]map[string]struct{}

func newExistingSet(current state.Snapshot) existingSet {
	set := existingSet{
		KindPool:    {},
		KindNetwork: {},
		KindVolume:  {},
		KindDomain:  {},
	}

	for _, p := range current.Pools {
		set[KindPool][p.Identity()] = struct{}{}
	}

	for _, n := range current.Networks {
		set[KindNetwork][n.Identity()] = struct{}{}
	}

	for _, v := range current.Volumes {
		set[KindVolume][v.Identity()] = struct{}{}
	}

	for _, dom := range current.Domains {
		set[KindDomain][dom.Identity()] = struct{}{}
	}

	return set
}

func (s existingSet) has(r ref) bool {
	_, ok := s[r.Kind][r.Identity]
	return ok
}

// Validate walks plan in order against the resources already present
// in current, maintaining a projected "will exist after step i" set
// (spec §4.2). It fails with *DependencyError if an action references
// a resource that is neither already present in current nor created
// by an earlier step, and with *OrderError if the missing dependency
// is instead created by a LATER step — i.e. it exists somewhere in
// the plan, just in the wrong position.
func Validate(p Plan, current state.Snapshot) (Plan, error) {
	willBeCreatedAt := make(map[ref]int, len(p))

	for i, a := range p {
		if a.Type == Create {
			willBeCreatedAt[ref{Kind: a.Kind, Identity: a.Identity()}] = i
		}
	}

	exists := newExistingSet(current)

	for i, a := range p {
		for _, dep := range dependenciesOf(a) {
			if exists.has(dep) {
				continue
			}

			if createdAt, ok := willBeCreatedAt[dep]; ok && createdAt > i {
				return nil, &OrderError{Action: a, Ref: dep.Identity}
			}

			return nil, &DependencyError{Action: a, Ref: dep.Identity}
		}

		switch a.Type {
		case Create:
			exists[a.Kind][a.Identity()] = struct{}{}
		case Destroy:
			if !exists.has(ref{Kind: a.Kind, Identity: a.Identity()}) {
				return nil, &DependencyError{Action: a, Ref: a.Identity()}
			}

			delete(exists[a.Kind], a.Identity())
		case Update:
			if !exists.has(ref{Kind: a.Kind, Identity: a.Identity()}) {
				return nil, &DependencyError{Action: a, Ref: a.Identity()}
			}
		}
	}

	return p, nil
}
