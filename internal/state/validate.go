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

package state

import (
	"errors"
	"fmt"
)

// ErrConsistency is the sentinel wrapped by every ConsistencyError, for
// errors.Is matching at the CLI boundary.
var ErrConsistency = errors.New("state: consistency violation")

// ConsistencyError reports a snapshot that fails the invariants of
// §3: duplicate identities within a kind, or a reference to a resource
// that isn't present in the same snapshot.
type ConsistencyError struct {
	// Reason is a human-readable description naming the offending
	// resource.
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent state: %s", e.Reason)
}

func (e *ConsistencyError) Unwrap() error { return ErrConsistency }

func consistencyErrorf(format string, args ...interface{}) *ConsistencyError {
	return &ConsistencyError{Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a snapshot against the invariants in spec §3:
// identities unique per kind, and every Volume/Domain reference
// resolves to a resource present in the same snapshot. It returns the
// first violation found; callers wanting an exhaustive report should
// call it repeatedly after fixing each one, though in practice a
// snapshot produced by the projector or a faithful adapter either
// satisfies all of these or none.
func Validate(s Snapshot) error {
	pools := make(map[string]struct{}, len(s.Pools))
	for _, p := range s.Pools {
		if _, exists := pools[p.Identity()]; exists {
			return consistencyErrorf("duplicate pool %q", p.Identity())
		}
		pools[p.Identity()] = struct{}{}
	}

	networks := make(map[string]struct{}, len(s.Networks))
	for _, n := range s.Networks {
		if _, exists := networks[n.Identity()]; exists {
			return consistencyErrorf("duplicate network %q", n.Identity())
		}
		networks[n.Identity()] = struct{}{}
	}

	volumes := make(map[string]struct{}, len(s.Volumes))
	for _, v := range s.Volumes {
		if _, exists := volumes[v.Identity()]; exists {
			return consistencyErrorf("duplicate volume %q", v.Identity())
		}
		volumes[v.Identity()] = struct{}{}
	}

	// Backing-volume and pool references are checked in a second pass
	// over the full identity set built above: a volume may legitimately
	// back onto one that appears later in s.Volumes (snapshot order is
	// not a dependency order), so checking inline during the first pass
	// would reject valid snapshots depending on slice order.
	for _, v := range s.Volumes {
		if _, ok := pools[v.Pool]; !ok {
			return consistencyErrorf("volume %q references unknown pool %q", v.Name, v.Pool)
		}

		if v.BackingVolume != "" {
			backingRef := VolumeRef{Pool: v.Pool, Name: v.BackingVolume}
			if _, ok := volumes[backingRef.Pool+"/"+backingRef.Name]; !ok {
				return consistencyErrorf("volume %q references unknown backing volume %q", v.Name, v.BackingVolume)
			}
		}
	}

	domains := make(map[string]struct{}, len(s.Domains))
	for _, d := range s.Domains {
		if _, exists := domains[d.Identity()]; exists {
			return consistencyErrorf("duplicate domain %q", d.Identity())
		}
		domains[d.Identity()] = struct{}{}

		if _, ok := networks[d.Network]; !ok {
			return consistencyErrorf("domain %q references unknown network %q", d.Name, d.Network)
		}

		if _, ok := pools[d.DiskVolume.Pool]; !ok {
			return consistencyErrorf("domain %q references unknown pool %q for disk volume", d.Name, d.DiskVolume.Pool)
		}

		if _, ok := volumes[d.DiskVolume.Pool+"/"+d.DiskVolume.Name]; !ok {
			return consistencyErrorf("domain %q references unknown disk volume %q", d.Name, d.DiskVolume.Name)
		}

		if _, ok := pools[d.CloudInitVolume.Pool]; !ok {
			return consistencyErrorf("domain %q references unknown pool %q for cloud-init volume", d.Name, d.CloudInitVolume.Pool)
		}

		if _, ok := volumes[d.CloudInitVolume.Pool+"/"+d.CloudInitVolume.Name]; !ok {
			return consistencyErrorf("domain %q references unknown cloud-init volume %q", d.Name, d.CloudInitVolume.Name)
		}
	}

	return nil
}
