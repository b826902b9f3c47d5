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

// Package config defines the closed record types that back Romulus's
// declarative configuration file (spec §6) and the validation that
// promotes a decoded file into one of them. Config loading and flag
// glue are excluded from the core reconciliation budget, but the
// types here are still what the projector consumes, so they are
// implemented fully rather than stubbed.
package config

import "github.com/somatczk/romulus/internal/state"

// Cluster names the cluster being provisioned.
type Cluster struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Network describes the single libvirt network the cluster's nodes
// share.
type Network struct {
	Name string          `json:"name"`
	Mode state.NetworkMode `json:"mode"`
	CIDR string          `json:"cidr"`
	DHCP bool            `json:"dhcp"`
	DNS  bool            `json:"dns"`
}

// BaseImage describes the base volume every node's disk overlays.
type BaseImage struct {
	Name   string             `json:"name"`
	URL    string             `json:"url"`
	Format state.VolumeFormat `json:"format"`
}

// Storage describes the pool the cluster's volumes live in.
type Storage struct {
	PoolName  string    `json:"pool_name"`
	PoolPath  string    `json:"pool_path"`
	BaseImage BaseImage `json:"base_image"`
}

// NodeGroup describes one role's worth of nodes: how many, their
// sizing, and the IP prefix they're addressed from.
type NodeGroup struct {
	Count     int    `json:"count"`
	MemoryMiB uint64 `json:"memory"`
	VCPUs     uint   `json:"vcpus"`
	DiskSizeGiB uint64 `json:"disk_size"`
	IPPrefix  string `json:"ip_prefix"`
}

// Nodes groups the master and worker node groups.
type Nodes struct {
	Masters NodeGroup `json:"masters"`
	Workers NodeGroup `json:"workers"`
}

// SSH describes the key material injected into every node via
// cloud-init.
type SSH struct {
	PublicKeyPath  string `json:"public_key_path"`
	PrivateKeyPath string `json:"private_key_path,omitempty"`
	User           string `json:"user"`
}

// Config is the fully decoded, not-yet-validated configuration file.
// Use Load to obtain one and Validate (called by Load) to promote it
// to a form the projector trusts.
type Config struct {
	Cluster Cluster `json:"cluster"`
	Network Network `json:"network"`
	Storage Storage `json:"storage"`
	Nodes   Nodes   `json:"nodes"`
	SSH     SSH     `json:"ssh"`
}
