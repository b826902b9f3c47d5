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

package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/project"
	"github.com/somatczk/romulus/internal/state"
)

func minimalConfig(t *testing.T) *config.Config {
	t.Helper()

	c, err := config.Parse([]byte(`
cluster:
  name: demo
  domain: demo.local
network:
  name: n
  mode: nat
  cidr: 192.168.1.0/24
  dhcp: true
  dns: true
storage:
  pool_name: p
  pool_path: /var/lib/libvirt/images/p
  base_image: {name: base.qcow2, url: "https://example.com/base.qcow2", format: qcow2}
nodes:
  masters: {count: 1, memory: 2048, vcpus: 2, disk_size: 20, ip_prefix: "192.168.1."}
  workers: {count: 1, memory: 2048, vcpus: 2, disk_size: 20, ip_prefix: "192.168.1."}
ssh: {public_key_path: /tmp/k.pub, user: demo}
`))
	require.NoError(t, err)

	return c
}

// TestProjectMinimalCluster is scenario S1 from spec §8: masters=1,
// workers=1 should project exactly one network, one pool, one
// base-image volume, two disk volumes, two cloud-init volumes and two
// domains (9 resources total, the network and pool included).
func TestProjectMinimalCluster(t *testing.T) {
	t.Parallel()

	snapshot, err := project.Project(minimalConfig(t))
	require.NoError(t, err)

	assert.Len(t, snapshot.Networks, 1)
	assert.Len(t, snapshot.Pools, 1)
	assert.Len(t, snapshot.Volumes, 5) // base image + 2 disks + 2 cloud-init ISOs
	assert.Len(t, snapshot.Domains, 2)

	assert.NoError(t, state.Validate(snapshot))

	assert.Equal(t, "k8s-master-1", snapshot.Domains[0].Name)
	assert.Equal(t, "k8s-worker-1", snapshot.Domains[1].Name)
	assert.Equal(t, "192.168.1.1", snapshot.Domains[0].StaticIP)
	assert.Equal(t, "192.168.1.1", snapshot.Domains[1].StaticIP)
}

func TestProjectOrdersMastersBeforeWorkers(t *testing.T) {
	t.Parallel()

	c := minimalConfig(t)
	c.Nodes.Masters.Count = 2
	c.Nodes.Workers.Count = 2

	snapshot, err := project.Project(c)
	require.NoError(t, err)

	require.Len(t, snapshot.Domains, 4)
	assert.Equal(t, []string{"k8s-master-1", "k8s-master-2", "k8s-worker-1", "k8s-worker-2"}, domainNames(snapshot.Domains))
}

func TestProjectIsDeterministic(t *testing.T) {
	t.Parallel()

	c := minimalConfig(t)

	first, err := project.Project(c)
	require.NoError(t, err)

	second, err := project.Project(c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProjectDiskBacksToBaseImage(t *testing.T) {
	t.Parallel()

	snapshot, err := project.Project(minimalConfig(t))
	require.NoError(t, err)

	for _, v := range snapshot.Volumes {
		if v.Format == state.VolumeFormatQCOW2 && v.BackingVolume == "" {
			continue // the base image itself
		}

		if v.Format == state.VolumeFormatQCOW2 {
			assert.Equal(t, "base.qcow2", v.BackingVolume)
		}
	}
}

func domainNames(domains []state.Domain) []string {
	names := make([]string, len(domains))
	for i, d := range domains {
		names[i] = d.Name
	}

	return names
}
