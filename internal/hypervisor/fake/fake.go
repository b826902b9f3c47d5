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

// Package fake provides an in-memory hypervisor.Adapter for tests and
// property checks (spec §9 Design Notes): it stores the four managed
// resource sequences directly rather than talking to libvirt, with the
// same idempotent-create semantics the concrete adapter must honor.
package fake

import (
	"context"
	"sync"

	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/state"
)

// Adapter is a hypervisor.Adapter backed by in-memory maps, safe for
// concurrent use.
type Adapter struct {
	mu sync.Mutex

	pools    map[string]state.Pool
	networks map[string]state.Network
	volumes  map[state.VolumeRef]state.Volume
	domains  map[string]state.Domain

	// isoContent remembers the rendered bytes behind each cloud-init
	// ISO volume, so a repeat CreateCloudInitISO call can tell whether
	// it is a true no-op repeat or a conflicting overwrite.
	isoContent map[state.VolumeRef]string

	// domainActive tracks whether a domain is running, separately from
	// its mere existence, so tests can assert DestroyDomain happens
	// before DeleteDomain (spec §4.3).
	domainActive map[string]bool
}

var errDomainStillActive = errDomainActive{}

type errDomainActive struct{}

func (errDomainActive) Error() string { return "hypervisor: domain is still active; destroy it first" }

// New returns an empty Adapter.
func New() *Adapter {
	return &Adapter{
		pools:        make(map[string]state.Pool),
		networks:     make(map[string]state.Network),
		volumes:      make(map[state.VolumeRef]state.Volume),
		domains:      make(map[string]state.Domain),
		domainActive: make(map[string]bool),
	}
}

// Snapshot returns the adapter's current contents as a state.Snapshot,
// for asserting executor behavior against the fake's ending state.
func (a *Adapter) Snapshot() state.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := state.Snapshot{}

	for _, p := range a.pools {
		s.Pools = append(s.Pools, p)
	}

	for _, n := range a.networks {
		s.Networks = append(s.Networks, n)
	}

	for _, v := range a.volumes {
		s.Volumes = append(s.Volumes, v)
	}

	for _, d := range a.domains {
		s.Domains = append(s.Domains, d)
	}

	return s
}

func (a *Adapter) ListPools(_ context.Context) ([]state.Pool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]state.Pool, 0, len(a.pools))
	for _, p := range a.pools {
		out = append(out, p)
	}

	return out, nil
}

func (a *Adapter) GetPool(_ context.Context, name string) (state.Pool, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.pools[name]

	return p, ok, nil
}

func (a *Adapter) CreatePool(_ context.Context, p state.Pool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.pools[p.Name]; ok {
		if existing.Equal(p) {
			return nil
		}

		return conflictf("create_pool", p.Name)
	}

	a.pools[p.Name] = p

	return nil
}

func (a *Adapter) DestroyPool(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.pools[name]; !ok {
		return notFoundf("destroy_pool", name)
	}

	delete(a.pools, name)

	return nil
}

func (a *Adapter) ListNetworks(_ context.Context) ([]state.Network, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]state.Network, 0, len(a.networks))
	for _, n := range a.networks {
		out = append(out, n)
	}

	return out, nil
}

func (a *Adapter) GetNetwork(_ context.Context, name string) (state.Network, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n, ok := a.networks[name]

	return n, ok, nil
}

func (a *Adapter) CreateNetwork(_ context.Context, n state.Network) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if existing, ok := a.networks[n.Name]; ok {
		if existing.Equal(n) {
			return nil
		}

		return conflictf("create_network", n.Name)
	}

	a.networks[n.Name] = n

	return nil
}

func (a *Adapter) DestroyNetwork(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.networks[name]; !ok {
		return notFoundf("destroy_network", name)
	}

	delete(a.networks, name)

	return nil
}

func (a *Adapter) ListVolumes(_ context.Context, pool string) ([]state.Volume, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []state.Volume

	for ref, v := range a.volumes {
		if ref.Pool == pool {
			out = append(out, v)
		}
	}

	return out, nil
}

func (a *Adapter) GetVolume(_ context.Context, ref state.VolumeRef) (state.Volume, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, ok := a.volumes[ref]

	return v, ok, nil
}

func (a *Adapter) CreateVolume(_ context.Context, v state.Volume) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	ref := v.Ref()

	if _, ok := a.pools[ref.Pool]; !ok {
		return notFoundf("create_volume", ref.Pool)
	}

	if existing, ok := a.volumes[ref]; ok {
		if existing.Equal(v) {
			return nil
		}

		return conflictf("create_volume", v.Identity())
	}

	a.volumes[ref] = v

	return nil
}

func (a *Adapter) DeleteVolume(_ context.Context, ref state.VolumeRef) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.volumes[ref]; !ok {
		return notFoundf("delete_volume", ref.Pool+"/"+ref.Name)
	}

	delete(a.volumes, ref)

	return nil
}

// CreateCloudInitISO stores the rendered content's presence as a
// volume of format ISO; the fake does not model ISO9660 byte layout,
// only that the operation happened and is idempotent on identical
// inputs, mirroring the real adapter's contract.
func (a *Adapter) CreateCloudInitISO(_ context.Context, ref state.VolumeRef, userData, networkConfig string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.pools[ref.Pool]; !ok {
		return notFoundf("create_cloudinit_iso", ref.Pool)
	}

	v := state.Volume{Pool: ref.Pool, Name: ref.Name, Format: state.VolumeFormatISO}

	if existing, ok := a.volumes[ref]; ok {
		if existing.Equal(v) && a.isoContent[ref] == userData+"\x00"+networkConfig {
			return nil
		}

		return conflictf("create_cloudinit_iso", ref.Pool+"/"+ref.Name)
	}

	if a.isoContent == nil {
		a.isoContent = make(map[state.VolumeRef]string)
	}

	a.isoContent[ref] = userData + "\x00" + networkConfig
	a.volumes[ref] = v

	return nil
}

func (a *Adapter) ListDomains(_ context.Context) ([]state.Domain, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]state.Domain, 0, len(a.domains))
	for _, d := range a.domains {
		out = append(out, d)
	}

	return out, nil
}

func (a *Adapter) GetDomain(_ context.Context, name string) (state.Domain, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	d, ok := a.domains[name]

	return d, ok, nil
}

func (a *Adapter) CreateDomain(_ context.Context, d state.Domain) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.networks[d.Network]; !ok {
		return notFoundf("create_domain", d.Network)
	}

	if _, ok := a.volumes[d.DiskVolume]; !ok {
		return notFoundf("create_domain", d.DiskVolume.Pool+"/"+d.DiskVolume.Name)
	}

	if _, ok := a.volumes[d.CloudInitVolume]; !ok {
		return notFoundf("create_domain", d.CloudInitVolume.Pool+"/"+d.CloudInitVolume.Name)
	}

	if existing, ok := a.domains[d.Name]; ok {
		if existing.Equal(d) {
			return nil
		}

		return conflictf("create_domain", d.Name)
	}

	a.domains[d.Name] = d
	a.domainActive[d.Name] = true

	return nil
}

func (a *Adapter) DestroyDomain(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.domains[name]; !ok {
		return notFoundf("destroy_domain", name)
	}

	a.domainActive[name] = false

	return nil
}

func (a *Adapter) DeleteDomain(_ context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.domains[name]; !ok {
		return notFoundf("delete_domain", name)
	}

	if a.domainActive[name] {
		return &hypervisor.AdapterError{Op: "delete_domain", Identity: name, Cause: errDomainStillActive}
	}

	delete(a.domains, name)
	delete(a.domainActive, name)

	return nil
}

func conflictf(op, identity string) error {
	return &hypervisor.AdapterError{Op: op, Identity: identity, Cause: hypervisor.ErrConflict}
}

func notFoundf(op, identity string) error {
	return &hypervisor.AdapterError{Op: op, Identity: identity, Cause: hypervisor.ErrNotFound}
}
