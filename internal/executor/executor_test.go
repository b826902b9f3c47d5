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

package executor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somatczk/romulus/internal/cloudinit"
	"github.com/somatczk/romulus/internal/executor"
	"github.com/somatczk/romulus/internal/hypervisor/fake"
	"github.com/somatczk/romulus/internal/plan"
	"github.com/somatczk/romulus/internal/state"
)

type stubRenderer struct{}

func (stubRenderer) Render(dom state.Domain, _ string) (cloudinit.Rendered, error) {
	return cloudinit.Rendered{UserData: "user-data-for-" + dom.Name, NetworkConfig: "network-config-for-" + dom.Name}, nil
}

func minimalDesired() state.Snapshot {
	return state.Snapshot{
		Networks: []state.Network{{Name: "n", Mode: state.NetworkModeNAT, CIDR: "192.168.1.0/24", DHCP: true}},
		Pools:    []state.Pool{{Name: "p", Path: "/var/lib/libvirt/images/p"}},
		Volumes: []state.Volume{
			{Pool: "p", Name: "k8s-master-1-disk", Format: state.VolumeFormatQCOW2, CapacityBytes: 20 << 30},
			{Pool: "p", Name: "k8s-master-1-init.iso", Format: state.VolumeFormatISO},
		},
		Domains: []state.Domain{
			{
				Name: "k8s-master-1", MemoryMiB: 2048, VCPUs: 2,
				DiskVolume: state.VolumeRef{Pool: "p", Name: "k8s-master-1-disk"}, CloudInitVolume: state.VolumeRef{Pool: "p", Name: "k8s-master-1-init.iso"},
				Network: "n", Role: state.RoleMaster, Index: 1, StaticIP: "192.168.1.1",
			},
		},
	}
}

func TestApplyCreatesEverythingInOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := fake.New()
	ex := executor.New(adapter, stubRenderer{}, "ssh-key")

	desired := minimalDesired()

	p, err := plan.Diff(state.Empty, desired)
	require.NoError(t, err)

	result, err := ex.Apply(ctx, p, state.Empty)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Created)
	assert.Zero(t, result.Failed)

	snap := adapter.Snapshot()
	assert.Len(t, snap.Domains, 1)
	assert.Len(t, snap.Volumes, 2)
}

func TestApplyStopsOnFirstFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := fake.New()
	ex := executor.New(adapter, stubRenderer{}, "ssh-key")

	// The current snapshot claims the domain's network and volumes
	// exist, so the plan passes the executor's re-validation, but the
	// fake adapter holds none of them: the domain create must fail at
	// the adapter layer.
	stale := state.Snapshot{
		Networks: []state.Network{{Name: "missing"}},
		Volumes:  []state.Volume{{Pool: "p", Name: "disk"}, {Pool: "p", Name: "init"}},
	}

	p := plan.Plan{
		{Type: plan.Create, Kind: plan.KindDomain, Resource: state.Domain{
			Name:            "orphan",
			Network:         "missing",
			DiskVolume:      state.VolumeRef{Pool: "p", Name: "disk"},
			CloudInitVolume: state.VolumeRef{Pool: "p", Name: "init"},
		}},
	}

	_, err := ex.Apply(ctx, p, stale)
	require.Error(t, err)

	var execErr *executor.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, 0, execErr.Completed)
}

func TestApplyDestroysDomainBeforeDeletingVolumesAndPool(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := fake.New()
	ex := executor.New(adapter, stubRenderer{}, "ssh-key")

	current := minimalDesired()

	seed, err := plan.Diff(state.Empty, current)
	require.NoError(t, err)
	_, err = ex.Apply(ctx, seed, state.Empty)
	require.NoError(t, err)

	teardown, err := plan.Diff(current, state.Empty)
	require.NoError(t, err)

	result, err := ex.Apply(ctx, teardown, current)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Destroyed)

	snap := adapter.Snapshot()
	assert.Empty(t, snap.Domains)
	assert.Empty(t, snap.Volumes)
	assert.Empty(t, snap.Pools)
	assert.Empty(t, snap.Networks)
}

func TestApplyRewritesNetworkUpdateToDestroyCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := fake.New()
	ex := executor.New(adapter, stubRenderer{}, "ssh-key")

	current := state.Snapshot{
		Networks: []state.Network{{Name: "n", Mode: state.NetworkModeNAT, CIDR: "192.168.1.0/24"}},
	}

	seed, err := plan.Diff(state.Empty, current)
	require.NoError(t, err)
	_, err = ex.Apply(ctx, seed, state.Empty)
	require.NoError(t, err)

	desired := state.Snapshot{
		Networks: []state.Network{{Name: "n", Mode: state.NetworkModeIsolated, CIDR: "192.168.2.0/24"}},
	}

	p, err := plan.Diff(current, desired)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, plan.Update, p[0].Type)

	result, err := ex.Apply(ctx, p, current)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	got, ok, err := adapter.GetNetwork(ctx, "n")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state.NetworkModeIsolated, got.Mode)
}

func TestApplyForbidsNetworkRewriteWhileDomainStillReferencesIt(t *testing.T) {
	t.Parallel()

	current := minimalDesired()
	desired := minimalDesired()
	desired.Networks[0].Mode = state.NetworkModeIsolated
	desired.Networks[0].CIDR = "192.168.2.0/24"

	p, err := plan.Diff(current, desired)
	require.NoError(t, err)
	require.Len(t, p, 1)

	_, err = executor.RewriteUpdates(p, current)
	require.Error(t, err)
}

func TestApplyIsCancellable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := fake.New()
	ex := executor.New(adapter, stubRenderer{}, "ssh-key")

	p, err := plan.Diff(state.Empty, minimalDesired())
	require.NoError(t, err)

	_, err = ex.Apply(ctx, p, state.Empty)
	require.Error(t, err)

	var cancelled *executor.Cancelled
	assert.ErrorAs(t, err, &cancelled)
}
