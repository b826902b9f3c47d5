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

package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/state"
)

func minimalDesired() state.Snapshot {
	return state.Snapshot{
		Networks: []state.Network{{Name: "n", Mode: state.NetworkModeNAT, CIDR: "192.168.1.0/24", DHCP: true, Active: true}},
		Pools:    []state.Pool{{Name: "p", Path: "/var/lib/libvirt/images/p", Active: true}},
		Volumes: []state.Volume{
			{Pool: "p", Name: "base.qcow2", Format: state.VolumeFormatQCOW2, SourceURL: "https://example.com/base.qcow2"},
			{Pool: "p", Name: "k8s-master-1-disk", Format: state.VolumeFormatQCOW2, CapacityBytes: 20 << 30, BackingVolume: "base.qcow2"},
			{Pool: "p", Name: "k8s-master-1-init.iso", Format: state.VolumeFormatISO},
			{Pool: "p", Name: "k8s-worker-1-disk", Format: state.VolumeFormatQCOW2, CapacityBytes: 40 << 30, BackingVolume: "base.qcow2"},
			{Pool: "p", Name: "k8s-worker-1-init.iso", Format: state.VolumeFormatISO},
		},
		Domains: []state.Domain{
			{
				Name: "k8s-master-1", MemoryMiB: 2048, VCPUs: 2,
				DiskVolume: state.VolumeRef{Pool: "p", Name: "k8s-master-1-disk"}, CloudInitVolume: state.VolumeRef{Pool: "p", Name: "k8s-master-1-init.iso"},
				Network: "n", Role: state.RoleMaster, Index: 1, StaticIP: "192.168.1.1",
			},
			{
				Name: "k8s-worker-1", MemoryMiB: 4096, VCPUs: 4,
				DiskVolume: state.VolumeRef{Pool: "p", Name: "k8s-worker-1-disk"}, CloudInitVolume: state.VolumeRef{Pool: "p", Name: "k8s-worker-1-init.iso"},
				Network: "n", Role: state.RoleWorker, Index: 1, StaticIP: "192.168.1.2",
			},
		},
	}
}

// TestDiffEmptyToMinimal is scenario S1: empty current, minimal
// desired. Expect a plan of length 9 with pool-create preceding every
// volume-create, and every volume-create preceding the domain-create
// referencing it.
func TestDiffEmptyToMinimal(t *testing.T) {
	t.Parallel()

	desired := minimalDesired()

	p, err := plan.Diff(state.Empty, desired)
	require.NoError(t, err)
	assert.Len(t, p, 9)

	poolIdx := indexOf(t, p, plan.Create, plan.KindPool, "p")

	for _, a := range p {
		if a.Type == plan.Create && a.Kind == plan.KindVolume {
			idx := indexOf(t, p, plan.Create, plan.KindVolume, a.Identity())
			assert.Greater(t, idx, poolIdx, "volume create %s must follow pool create", a.Identity())
		}
	}

	for _, dom := range desired.Domains {
		domainIdx := indexOf(t, p, plan.Create, plan.KindDomain, dom.Name)
		diskIdx := indexOf(t, p, plan.Create, plan.KindVolume, dom.DiskVolume.Pool+"/"+dom.DiskVolume.Name)
		initIdx := indexOf(t, p, plan.Create, plan.KindVolume, dom.CloudInitVolume.Pool+"/"+dom.CloudInitVolume.Name)

		assert.Greater(t, domainIdx, diskIdx)
		assert.Greater(t, domainIdx, initIdx)
	}

	validated, err := plan.Validate(p, state.Empty)
	require.NoError(t, err)
	assert.Equal(t, p, validated)
}

// TestDiffIdenticalStatesIsNoOp is scenario S2.
func TestDiffIdenticalStatesIsNoOp(t *testing.T) {
	t.Parallel()

	desired := minimalDesired()

	p, err := plan.Diff(desired, desired)
	require.NoError(t, err)
	assert.Empty(t, p)
	assert.Contains(t, plan.Format(p), "up to date")
}

// TestDiffFullTeardown is scenario S3.
func TestDiffFullTeardown(t *testing.T) {
	t.Parallel()

	current := minimalDesired()

	p, err := plan.Diff(current, state.Empty)
	require.NoError(t, err)
	assert.Len(t, p, 9)

	for _, dom := range current.Domains {
		domainIdx := indexOf(t, p, plan.Destroy, plan.KindDomain, dom.Name)
		diskIdx := indexOf(t, p, plan.Destroy, plan.KindVolume, dom.DiskVolume.Pool+"/"+dom.DiskVolume.Name)
		initIdx := indexOf(t, p, plan.Destroy, plan.KindVolume, dom.CloudInitVolume.Pool+"/"+dom.CloudInitVolume.Name)
		poolIdx := indexOf(t, p, plan.Destroy, plan.KindPool, dom.DiskVolume.Pool)

		assert.Less(t, domainIdx, diskIdx)
		assert.Less(t, domainIdx, initIdx)
		assert.Less(t, diskIdx, poolIdx)
		assert.Less(t, initIdx, poolIdx)
	}
}

// TestDiffPartialAdd is scenario S4: current has pool/net/master-1,
// desired adds worker-1. Expect exactly 3 creates, no destroys.
func TestDiffPartialAdd(t *testing.T) {
	t.Parallel()

	desired := minimalDesired()

	current := state.Snapshot{
		Networks: desired.Networks,
		Pools:    desired.Pools,
		Volumes:  desired.Volumes[:3], // base image + master-1 disk + master-1 init
		Domains:  desired.Domains[:1], // master-1 only
	}

	p, err := plan.Diff(current, desired)
	require.NoError(t, err)
	require.Len(t, p, 3)

	for _, a := range p {
		assert.Equal(t, plan.Create, a.Type)
	}

	assert.Equal(t, "p/k8s-worker-1-disk", p[0].Identity())
	assert.Equal(t, "p/k8s-worker-1-init.iso", p[1].Identity())
	assert.Equal(t, "k8s-worker-1", p[2].Identity())
}

// TestDiffNetworkAttributeChange is scenario S5.
func TestDiffNetworkAttributeChange(t *testing.T) {
	t.Parallel()

	current := minimalDesired()
	desired := minimalDesired()
	desired.Networks[0].Mode = state.NetworkModeIsolated
	desired.Networks[0].CIDR = "192.168.2.0/24"

	p, err := plan.Diff(current, desired)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, plan.Update, p[0].Type)
	assert.Equal(t, plan.KindNetwork, p[0].Kind)
}

// TestDiffConsistencyFailure is scenario S6.
func TestDiffConsistencyFailure(t *testing.T) {
	t.Parallel()

	desired := state.Snapshot{
		Networks: []state.Network{{Name: "n"}},
		Pools:    []state.Pool{{Name: "p", Path: "/tmp/p"}},
		Domains: []state.Domain{
			{
				Name:            "orphan",
				DiskVolume:      state.VolumeRef{Pool: "ghost", Name: "d"},
				CloudInitVolume: state.VolumeRef{Pool: "ghost", Name: "i"},
				Network:         "n",
			},
		},
	}

	_, err := plan.Diff(state.Empty, desired)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateDetectsDependencyError(t *testing.T) {
	t.Parallel()

	p := plan.Plan{
		{Type: plan.Create, Kind: plan.KindDomain, Resource: state.Domain{
			Name:            "orphan",
			DiskVolume:      state.VolumeRef{Pool: "p", Name: "missing-disk"},
			CloudInitVolume: state.VolumeRef{Pool: "p", Name: "missing-init"},
			Network:         "n",
		}},
	}

	_, err := plan.Validate(p, state.Snapshot{Networks: []state.Network{{Name: "n"}}, Pools: []state.Pool{{Name: "p"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrDependency)
}

func TestValidateDetectsOrderError(t *testing.T) {
	t.Parallel()

	disk := state.Volume{Pool: "p", Name: "disk"}
	domain := state.Domain{Name: "d", DiskVolume: state.VolumeRef{Pool: "p", Name: "disk"}, CloudInitVolume: state.VolumeRef{Pool: "p", Name: "init"}, Network: "n"}
	initVol := state.Volume{Pool: "p", Name: "init"}

	// Domain created before the disk volume it depends on: the
	// dependency exists somewhere in the plan, just too late.
	p := plan.Plan{
		{Type: plan.Create, Kind: plan.KindDomain, Resource: domain},
		{Type: plan.Create, Kind: plan.KindVolume, Resource: disk},
		{Type: plan.Create, Kind: plan.KindVolume, Resource: initVol},
	}

	_, err := plan.Validate(p, state.Snapshot{Networks: []state.Network{{Name: "n"}}, Pools: []state.Pool{{Name: "p"}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, plan.ErrOrder)
}

func TestOptimizeCancelsDestroyThenCreate(t *testing.T) {
	t.Parallel()

	r := state.Pool{Name: "p", Path: "/tmp/p"}
	p := plan.Plan{
		{Type: plan.Destroy, Kind: plan.KindPool, Resource: r},
		{Type: plan.Create, Kind: plan.KindPool, Resource: r},
	}

	assert.Empty(t, plan.Optimize(p))
}

func TestOptimizeCancelsCreateThenDestroy(t *testing.T) {
	t.Parallel()

	r := state.Pool{Name: "p", Path: "/tmp/p"}
	p := plan.Plan{
		{Type: plan.Create, Kind: plan.KindPool, Resource: r},
		{Type: plan.Destroy, Kind: plan.KindPool, Resource: r},
	}

	assert.Empty(t, plan.Optimize(p))
}

func TestOptimizeCollapsesCreateDestroyCreateToSingleCreate(t *testing.T) {
	t.Parallel()

	r := state.Pool{Name: "p", Path: "/tmp/p"}
	p := plan.Plan{
		{Type: plan.Create, Kind: plan.KindPool, Resource: r},
		{Type: plan.Destroy, Kind: plan.KindPool, Resource: r},
		{Type: plan.Create, Kind: plan.KindPool, Resource: r},
	}

	out := plan.Optimize(p)
	require.Len(t, out, 1)
	assert.Equal(t, plan.Create, out[0].Type)
}

func TestOptimizeDoesNotReorderDifferentIdentities(t *testing.T) {
	t.Parallel()

	a := state.Pool{Name: "a", Path: "/tmp/a"}
	b := state.Pool{Name: "b", Path: "/tmp/b"}

	p := plan.Plan{
		{Type: plan.Create, Kind: plan.KindPool, Resource: a},
		{Type: plan.Create, Kind: plan.KindPool, Resource: b},
	}

	out := plan.Optimize(p)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Identity())
	assert.Equal(t, "b", out[1].Identity())
}

func TestSummaryCounts(t *testing.T) {
	t.Parallel()

	p, err := plan.Diff(state.Empty, minimalDesired())
	require.NoError(t, err)

	stats := plan.Summary(p)
	assert.Equal(t, 9, stats.Total)
	assert.Equal(t, 9, stats.ByType[plan.Create])
	assert.Positive(t, stats.EstimatedFor)
}

func TestSummaryIsMonotonic(t *testing.T) {
	t.Parallel()

	small, err := plan.Diff(state.Empty, minimalDesired())
	require.NoError(t, err)

	desired := minimalDesired()
	desired.Domains = append(desired.Domains, state.Domain{
		Name: "k8s-worker-2", Network: "n",
		DiskVolume:      state.VolumeRef{Pool: "p", Name: "k8s-worker-2-disk"},
		CloudInitVolume: state.VolumeRef{Pool: "p", Name: "k8s-worker-2-init.iso"},
	})
	desired.Volumes = append(desired.Volumes,
		state.Volume{Pool: "p", Name: "k8s-worker-2-disk", Format: state.VolumeFormatQCOW2, BackingVolume: "base.qcow2"},
		state.Volume{Pool: "p", Name: "k8s-worker-2-init.iso", Format: state.VolumeFormatISO},
	)

	big, err := plan.Diff(state.Empty, desired)
	require.NoError(t, err)

	assert.Greater(t, plan.Summary(big).EstimatedFor, plan.Summary(small).EstimatedFor)
}

func TestFormatEmptyPlan(t *testing.T) {
	t.Parallel()

	assert.Contains(t, plan.Format(nil), "No changes needed")
}

func TestFormatGroupsByActionType(t *testing.T) {
	t.Parallel()

	p, err := plan.Diff(state.Empty, minimalDesired())
	require.NoError(t, err)

	out := plan.Format(p)
	assert.Contains(t, out, "Create:")
	assert.Contains(t, out, "[pool] p")
	assert.Contains(t, out, "9 change(s)")
}

func indexOf(t *testing.T, p plan.Plan, typ plan.ActionType, kind plan.ResourceKind, identity string) int {
	t.Helper()

	for i, a := range p {
		if a.Type == typ && a.Kind == kind && a.Identity() == identity {
			return i
		}
	}

	t.Fatalf("action %s %s %q not found in plan", typ, kind, identity)

	return -1
}
