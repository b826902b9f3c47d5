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

// Package hypervisor defines the boundary between Romulus and the
// virtualization host (spec §4.5): a small capability interface the
// executor drives, implemented both by an in-memory fake
// (package fake, used in tests and property checks) and by a concrete
// libvirt-backed adapter (package libvirtadapter).
package hypervisor

import (
	"context"

	"github.com/somatczk/romulus/internal/state"
)

// Adapter is the full set of hypervisor operations the executor needs.
// Every Create method must be idempotent: calling it again with an
// identical resource succeeds silently, and calling it again with a
// resource of the same identity but different attributes fails with
// *AdapterError wrapping ErrConflict (spec §7).
type Adapter interface {
	ListPools(ctx context.Context) ([]state.Pool, error)
	GetPool(ctx context.Context, name string) (state.Pool, bool, error)
	CreatePool(ctx context.Context, p state.Pool) error
	DestroyPool(ctx context.Context, name string) error

	ListNetworks(ctx context.Context) ([]state.Network, error)
	GetNetwork(ctx context.Context, name string) (state.Network, bool, error)
	CreateNetwork(ctx context.Context, n state.Network) error
	DestroyNetwork(ctx context.Context, name string) error

	ListVolumes(ctx context.Context, pool string) ([]state.Volume, error)
	GetVolume(ctx context.Context, ref state.VolumeRef) (state.Volume, bool, error)
	CreateVolume(ctx context.Context, v state.Volume) error
	DeleteVolume(ctx context.Context, ref state.VolumeRef) error

	// CreateCloudInitISO builds a cloud-init NoCloud ISO volume from
	// rendered user-data and network-config content and stores it as
	// ref within the hypervisor's storage layer.
	CreateCloudInitISO(ctx context.Context, ref state.VolumeRef, userData, networkConfig string) error

	ListDomains(ctx context.Context) ([]state.Domain, error)
	GetDomain(ctx context.Context, name string) (state.Domain, bool, error)
	CreateDomain(ctx context.Context, d state.Domain) error
	DestroyDomain(ctx context.Context, name string) error
	DeleteDomain(ctx context.Context, name string) error
}
