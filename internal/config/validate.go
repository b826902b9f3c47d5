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

package config

import (
	"net"
	"strconv"
	"strings"
)

const (
	minMemoryMiB   = 512
	minVCPUs       = 1
	minDiskSizeGiB = 1
)

// Validate checks every constraint named in spec §6, returning the
// first violation as a *ConfigError. A Config that passes Validate is
// the only input the projector (internal/project) accepts.
func (c *Config) Validate() error {
	if c.Nodes.Masters.Count < 1 {
		return configErrorf("nodes.masters.count", "must be at least 1, got %d", c.Nodes.Masters.Count)
	}

	if c.Nodes.Workers.Count < 0 {
		return configErrorf("nodes.workers.count", "must not be negative, got %d", c.Nodes.Workers.Count)
	}

	if err := validateNodeGroup("nodes.masters", c.Nodes.Masters); err != nil {
		return err
	}

	if c.Nodes.Workers.Count > 0 {
		if err := validateNodeGroup("nodes.workers", c.Nodes.Workers); err != nil {
			return err
		}
	}

	if _, _, err := net.ParseCIDR(c.Network.CIDR); err != nil {
		return configErrorf("network.cidr", "must be a valid IPv4 CIDR: %v", err)
	}

	return nil
}

func validateNodeGroup(field string, g NodeGroup) error {
	if g.MemoryMiB < minMemoryMiB {
		return configErrorf(field+".memory", "must be at least %d MiB, got %d", minMemoryMiB, g.MemoryMiB)
	}

	if g.VCPUs < minVCPUs {
		return configErrorf(field+".vcpus", "must be at least %d, got %d", minVCPUs, g.VCPUs)
	}

	if g.DiskSizeGiB < minDiskSizeGiB {
		return configErrorf(field+".disk_size", "must be at least %d GiB, got %d", minDiskSizeGiB, g.DiskSizeGiB)
	}

	if err := validateIPPrefix(field+".ip_prefix", g.IPPrefix, g.Count); err != nil {
		return err
	}

	return nil
}

// validateIPPrefix checks that prefix is a dotted-quad prefix ending
// in a dot, and that appending every 1-based index up to count yields
// a parseable IPv4 address (spec §3: static_ip = ip_prefix ++
// string(index)).
func validateIPPrefix(field, prefix string, count int) error {
	if !strings.HasSuffix(prefix, ".") {
		return configErrorf(field, "must end in a dot, e.g. %q", "10.10.10.")
	}

	for i := 1; i <= count; i++ {
		candidate := prefix + strconv.Itoa(i)

		ip := net.ParseIP(candidate)
		if ip == nil || ip.To4() == nil {
			return configErrorf(field, "prefix %q + index %d = %q is not a valid IPv4 address", prefix, i, candidate)
		}
	}

	return nil
}
