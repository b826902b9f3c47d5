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
	"context"
	"fmt"

	"github.com/somatczk/romulus/internal/state"
)

// ReadSnapshot queries every managed resource kind from adapter and
// assembles them into the current-state Snapshot the planner diffs
// against desired state. Volumes are read per pool since the adapter
// contract scopes ListVolumes to a single pool (spec §4.5).
func ReadSnapshot(ctx context.Context, adapter Adapter) (state.Snapshot, error) {
	pools, err := adapter.ListPools(ctx)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("hypervisor: list pools: %w", err)
	}

	networks, err := adapter.ListNetworks(ctx)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("hypervisor: list networks: %w", err)
	}

	domains, err := adapter.ListDomains(ctx)
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("hypervisor: list domains: %w", err)
	}

	var volumes []state.Volume

	for _, p := range pools {
		vs, err := adapter.ListVolumes(ctx, p.Name)
		if err != nil {
			return state.Snapshot{}, fmt.Errorf("hypervisor: list volumes in pool %q: %w", p.Name, err)
		}

		volumes = append(volumes, vs...)
	}

	return state.Snapshot{
		Pools:    pools,
		Networks: networks,
		Volumes:  volumes,
		Domains:  domains,
	}, nil
}
