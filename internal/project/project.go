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

// Package project implements the Desired-State Projector (spec
// §4.1): mapping a validated configuration to a fully-populated
// desired-state snapshot.
package project

import (
	"fmt"

	"github.com/somatczk/romulus/internal/config"
	"github.com/somatczk/romulus/internal/mac"
	"github.com/somatczk/romulus/internal/state"
)

const bytesPerGiB = 1 << 30

// Project maps a validated configuration to a desired-state snapshot
// containing one network, one pool, one base-image volume, and for
// every master then worker node a disk volume, a cloud-init ISO
// volume, and a domain.
//
// Project never queries the hypervisor and never fails once its input
// has already passed config.Config.Validate; cfg is assumed to be
// validated, matching spec §4.1 ("Fails with ConfigError when
// validation of the input has not already passed; otherwise always
// succeeds").
func Project(cfg *config.Config) (state.Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return state.Snapshot{}, fmt.Errorf("projecting desired state: %w", err)
	}

	network := state.Network{
		Name:   cfg.Network.Name,
		Mode:   cfg.Network.Mode,
		CIDR:   cfg.Network.CIDR,
		DHCP:   cfg.Network.DHCP,
		DNS:    cfg.Network.DNS,
		Active: true,
	}

	pool := state.Pool{
		Name:   cfg.Storage.PoolName,
		Path:   cfg.Storage.PoolPath,
		Active: true,
	}

	baseImage := state.Volume{
		Pool:      pool.Name,
		Name:      cfg.Storage.BaseImage.Name,
		Format:    cfg.Storage.BaseImage.Format,
		SourceURL: cfg.Storage.BaseImage.URL,
	}

	snapshot := state.Snapshot{
		Networks: []state.Network{network},
		Pools:    []state.Pool{pool},
		Volumes:  []state.Volume{baseImage},
	}

	snapshot = appendNodeGroup(snapshot, pool, network, baseImage, state.RoleMaster, cfg.Nodes.Masters)
	snapshot = appendNodeGroup(snapshot, pool, network, baseImage, state.RoleWorker, cfg.Nodes.Workers)

	return snapshot, nil
}

// appendNodeGroup appends, in 1-based dense index order, the disk
// volume, cloud-init volume and domain for every node in one role's
// group.
func appendNodeGroup(snapshot state.Snapshot, pool state.Pool, network state.Network, baseImage state.Volume, role state.Role, group config.NodeGroup) state.Snapshot {
	for i := 1; i <= group.Count; i++ {
		name := nodeName(role, i)

		disk := state.Volume{
			Pool:          pool.Name,
			Name:          name + "-disk",
			Format:        state.VolumeFormatQCOW2,
			CapacityBytes: group.DiskSizeGiB * bytesPerGiB,
			BackingVolume: baseImage.Name,
		}

		cloudinit := state.Volume{
			Pool:   pool.Name,
			Name:   name + "-init.iso",
			Format: state.VolumeFormatISO,
		}

		domain := state.Domain{
			Name:            name,
			MemoryMiB:       group.MemoryMiB,
			VCPUs:           group.VCPUs,
			DiskVolume:      disk.Ref(),
			CloudInitVolume: cloudinit.Ref(),
			Network:         network.Name,
			MACAddress:      mac.Derive(role, i),
			StaticIP:        fmt.Sprintf("%s%d", group.IPPrefix, i),
			Role:            role,
			Index:           i,
		}

		snapshot.Volumes = append(snapshot.Volumes, disk, cloudinit)
		snapshot.Domains = append(snapshot.Domains, domain)
	}

	return snapshot
}

// nodeName follows the "k8s-<role>-<index>" convention spec §8's
// end-to-end scenarios use (e.g. "k8s-master-1", "k8s-worker-1").
func nodeName(role state.Role, index int) string {
	return fmt.Sprintf("k8s-%s-%d", role, index)
}
