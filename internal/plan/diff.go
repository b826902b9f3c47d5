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

	"github.com/somatczk/romulus/internal/state"
)

// Diff computes the ordered action list transforming current into
// desired (spec §4.2). Both snapshots are validated against the §3
// invariants before diffing; a violation is returned as
// *state.ConsistencyError.
func Diff(current, desired state.Snapshot) (Plan, error) {
	if err := state.Validate(current); err != nil {
		return nil, fmt.Errorf("current state: %w", err)
	}

	if err := state.Validate(desired); err != nil {
		return nil, fmt.Errorf("desired state: %w", err)
	}

	pools := diffPools(current.Pools, desired.Pools)
	networks := diffNetworks(current.Networks, desired.Networks)
	volumes := diffVolumes(current.Volumes, desired.Volumes)
	domains := diffDomains(current.Domains, desired.Domains)

	byKind := map[ResourceKind]*kindDiff{
		KindPool:    pools,
		KindNetwork: networks,
		KindVolume:  volumes,
		KindDomain:  domains,
	}

	var out Plan

	for _, k := range kindOrderCreate {
		out = append(out, byKind[k].creates...)
	}

	for _, k := range kindOrderCreate {
		out = append(out, byKind[k].updates...)
	}

	for _, k := range kindOrderDestroy {
		out = append(out, byKind[k].destroys...)
	}

	return out, nil
}

// kindDiff holds one resource kind's creates, updates and destroys,
// each already in the order their source snapshot presented them.
type kindDiff struct {
	creates  []Action
	updates  []Action
	destroys []Action
}

func diffPools(current, desired []state.Pool) *kindDiff {
	d := &kindDiff{}

	currentByName := make(map[string]state.Pool, len(current))
	for _, p := range current {
		currentByName[p.Identity()] = p
	}

	desiredByName := make(map[string]state.Pool, len(desired))
	for _, p := range desired {
		desiredByName[p.Identity()] = p
	}

	for _, p := range desired {
		if existing, ok := currentByName[p.Identity()]; !ok {
			d.creates = append(d.creates, Action{Type: Create, Kind: KindPool, Resource: p, Reason: fmt.Sprintf("pool %q is in desired state but not current", p.Identity())})
		} else if !existing.Equal(p) {
			d.updates = append(d.updates, Action{Type: Update, Kind: KindPool, Resource: p, Reason: fmt.Sprintf("pool %q attributes differ from current", p.Identity())})
		}
	}

	for _, p := range current {
		if _, ok := desiredByName[p.Identity()]; !ok {
			d.destroys = append(d.destroys, Action{Type: Destroy, Kind: KindPool, Resource: p, Reason: fmt.Sprintf("pool %q is in current state but not desired", p.Identity())})
		}
	}

	return d
}

func diffNetworks(current, desired []state.Network) *kindDiff {
	d := &kindDiff{}

	currentByName := make(map[string]state.Network, len(current))
	for _, n := range current {
		currentByName[n.Identity()] = n
	}

	desiredByName := make(map[string]state.Network, len(desired))
	for _, n := range desired {
		desiredByName[n.Identity()] = n
	}

	for _, n := range desired {
		if existing, ok := currentByName[n.Identity()]; !ok {
			d.creates = append(d.creates, Action{Type: Create, Kind: KindNetwork, Resource: n, Reason: fmt.Sprintf("network %q is in desired state but not current", n.Identity())})
		} else if !existing.Equal(n) {
			d.updates = append(d.updates, Action{Type: Update, Kind: KindNetwork, Resource: n, Reason: fmt.Sprintf("network %q attributes differ from current", n.Identity())})
		}
	}

	for _, n := range current {
		if _, ok := desiredByName[n.Identity()]; !ok {
			d.destroys = append(d.destroys, Action{Type: Destroy, Kind: KindNetwork, Resource: n, Reason: fmt.Sprintf("network %q is in current state but not desired", n.Identity())})
		}
	}

	return d
}

func diffVolumes(current, desired []state.Volume) *kindDiff {
	d := &kindDiff{}

	currentByID := make(map[string]state.Volume, len(current))
	for _, v := range current {
		currentByID[v.Identity()] = v
	}

	desiredByID := make(map[string]state.Volume, len(desired))
	for _, v := range desired {
		desiredByID[v.Identity()] = v
	}

	for _, v := range desired {
		if existing, ok := currentByID[v.Identity()]; !ok {
			d.creates = append(d.creates, Action{Type: Create, Kind: KindVolume, Resource: v, Reason: fmt.Sprintf("volume %q is in desired state but not current", v.Identity())})
		} else if !existing.Equal(v) {
			d.updates = append(d.updates, Action{Type: Update, Kind: KindVolume, Resource: v, Reason: fmt.Sprintf("volume %q attributes differ from current", v.Identity())})
		}
	}

	for _, v := range current {
		if _, ok := desiredByID[v.Identity()]; !ok {
			d.destroys = append(d.destroys, Action{Type: Destroy, Kind: KindVolume, Resource: v, Reason: fmt.Sprintf("volume %q is in current state but not desired", v.Identity())})
		}
	}

	return d
}

func diffDomains(current, desired []state.Domain) *kindDiff {
	d := &kindDiff{}

	currentByName := make(map[string]state.Domain, len(current))
	for _, dom := range current {
		currentByName[dom.Identity()] = dom
	}

	desiredByName := make(map[string]state.Domain, len(desired))
	for _, dom := range desired {
		desiredByName[dom.Identity()] = dom
	}

	for _, dom := range desired {
		if existing, ok := currentByName[dom.Identity()]; !ok {
			d.creates = append(d.creates, Action{Type: Create, Kind: KindDomain, Resource: dom, Reason: fmt.Sprintf("domain %q is in desired state but not current", dom.Identity())})
		} else if !existing.Equal(dom) {
			d.updates = append(d.updates, Action{Type: Update, Kind: KindDomain, Resource: dom, Reason: fmt.Sprintf("domain %q attributes differ from current", dom.Identity())})
		}
	}

	for _, dom := range current {
		if _, ok := desiredByName[dom.Identity()]; !ok {
			d.destroys = append(d.destroys, Action{Type: Destroy, Kind: KindDomain, Resource: dom, Reason: fmt.Sprintf("domain %q is in current state but not desired", dom.Identity())})
		}
	}

	return d
}
