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

// ref names a single cross-resource reference an action's resource
// makes, used only by Validate to check it resolves.
type ref struct {
	Kind     ResourceKind
	Identity string
}

// dependenciesOf returns the resources a.Resource must already exist
// (or be created earlier in the plan) for this action to be safe,
// mirroring the DAG in spec §9 ("domain -> {pool, network, volumes}
// -> nil"). Destroy actions have no dependencies: a destroy only
// requires its own target to currently exist, which Validate checks
// directly against its identity.
func dependenciesOf(a Action) []ref {
	if a.Type == Destroy {
		return nil
	}

	switch r := a.Resource.(type) {
	case state.Pool, state.Network:
		return nil
	case state.Volume:
		deps := []ref{{Kind: KindPool, Identity: r.Pool}}
		if r.BackingVolume != "" {
			deps = append(deps, ref{Kind: KindVolume, Identity: r.Pool + "/" + r.BackingVolume})
		}

		return deps
	case state.Domain:
		return []ref{
			{Kind: KindNetwork, Identity: r.Network},
			{Kind: KindVolume, Identity: r.DiskVolume.Pool + "/" + r.DiskVolume.Name},
			{Kind: KindVolume, Identity: r.CloudInitVolume.Pool + "/" + r.CloudInitVolume.Name},
		}
	default:
		return nil
	}
}
