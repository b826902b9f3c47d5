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

// Package state defines the typed resource model Romulus reconciles:
// networks, storage pools, volumes and domains, plus the immutable
// Snapshot that groups one of each kind into "current" or "desired"
// state.
package state

// NetworkMode is the libvirt network forwarding mode.
type NetworkMode string

const (
	NetworkModeNAT      NetworkMode = "nat"
	NetworkModeIsolated NetworkMode = "isolated"
	NetworkModeRoute    NetworkMode = "route"
)

// Network is a libvirt virtual network.
type Network struct {
	Name   string
	Mode   NetworkMode
	CIDR   string
	DHCP   bool
	DNS    bool
	Active bool
}

// Identity returns the unique key for this resource kind.
func (n Network) Identity() string { return n.Name }

// Equal reports whether two networks have identical attributes,
// identity included.
func (n Network) Equal(other Network) bool {
	return n == other
}

// Pool is a libvirt storage pool, a directory on the hypervisor host
// that hosts volumes.
type Pool struct {
	Name   string
	Path   string
	Active bool
}

func (p Pool) Identity() string { return p.Name }

func (p Pool) Equal(other Pool) bool {
	return p == other
}

// VolumeFormat is the on-disk format of a volume.
type VolumeFormat string

const (
	VolumeFormatQCOW2 VolumeFormat = "qcow2"
	VolumeFormatRaw   VolumeFormat = "raw"
	VolumeFormatISO   VolumeFormat = "iso"
)

// VolumeRef identifies a volume by its (pool, name) pair. Volume
// identity is scoped to its pool, since libvirt volume names are only
// unique within a pool.
type VolumeRef struct {
	Pool string
	Name string
}

// Volume is a libvirt storage volume, either a base image, a
// copy-on-write disk overlay, or a cloud-init ISO.
type Volume struct {
	Pool          string
	Name          string
	Format        VolumeFormat
	CapacityBytes uint64

	// SourceURL is set for base-image volumes: the location the image's
	// contents are read from. Empty for overlays and cloud-init ISOs.
	SourceURL string

	// BackingVolume names a volume in the same pool this volume is a
	// copy-on-write overlay of. Empty for base images and ISOs.
	BackingVolume string
}

func (v Volume) Ref() VolumeRef { return VolumeRef{Pool: v.Pool, Name: v.Name} }

func (v Volume) Identity() string { return v.Pool + "/" + v.Name }

func (v Volume) Equal(other Volume) bool {
	return v == other
}

// Role distinguishes Kubernetes control-plane from worker nodes.
type Role string

const (
	RoleMaster Role = "master"
	RoleWorker Role = "worker"
)

// Domain is a libvirt virtual machine definition.
type Domain struct {
	Name            string
	MemoryMiB       uint64
	VCPUs           uint
	DiskVolume      VolumeRef
	CloudInitVolume VolumeRef
	Network         string
	MACAddress      string
	StaticIP        string
	Role            Role
	Index           int
}

func (d Domain) Identity() string { return d.Name }

func (d Domain) Equal(other Domain) bool {
	return d == other
}

// Snapshot is an immutable view of every managed resource at one
// instant: either the hypervisor's current state, or a config's
// projected desired state. Callers must not mutate the slices in
// place; treat a Snapshot as a value.
type Snapshot struct {
	Networks []Network
	Pools    []Pool
	Volumes  []Volume
	Domains  []Domain
}

// Empty is the zero-value snapshot, used as the desired state of a
// full teardown or the current state of a fresh hypervisor.
var Empty = Snapshot{}
