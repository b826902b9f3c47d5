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

package libvirtadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somatczk/romulus/internal/state"
)

func TestMaskBitsFromDottedConvertsCommonMasks(t *testing.T) {
	assert.Equal(t, "24", maskBitsFromDotted("255.255.255.0"))
	assert.Equal(t, "16", maskBitsFromDotted("255.255.0.0"))
	assert.Equal(t, "32", maskBitsFromDotted("not-an-ip"))
}

func TestNetworkIPConfigDerivesAddressAndNetmaskFromCIDR(t *testing.T) {
	cfg, err := networkIPConfig("192.168.100.0/24", true)
	require.NoError(t, err)

	assert.Equal(t, "192.168.100.0", cfg.Address)
	assert.Equal(t, "255.255.255.0", cfg.Netmask)
	require.NotNil(t, cfg.DHCP)
}

func TestNetworkIPConfigOmitsDHCPWhenDisabled(t *testing.T) {
	cfg, err := networkIPConfig("10.0.0.0/8", false)
	require.NoError(t, err)

	assert.Nil(t, cfg.DHCP)
}

func TestNetworkIPConfigRejectsMalformedCIDR(t *testing.T) {
	_, err := networkIPConfig("not-a-cidr", false)
	assert.Error(t, err)
}

func TestNormalizeMemoryMiBConvertsUnits(t *testing.T) {
	assert.Equal(t, uint64(2048), normalizeMemoryMiB(2048*1024, "KiB"))
	assert.Equal(t, uint64(2048), normalizeMemoryMiB(2048*1024, ""))
	assert.Equal(t, uint64(2048), normalizeMemoryMiB(2048, "MiB"))
	assert.Equal(t, uint64(2048), normalizeMemoryMiB(2, "GiB"))
}

func TestDomainXMLBuildsDiskInterfaceAndMemoryFromDomain(t *testing.T) {
	dom := state.Domain{
		Name:            "master-0",
		MemoryMiB:       4096,
		VCPUs:           2,
		Network:         "cluster-net",
		MACAddress:      "52:54:00:aa:bb:cc",
		DiskVolume:      state.VolumeRef{Pool: "pool-0", Name: "master-0-disk"},
		CloudInitVolume: state.VolumeRef{Pool: "pool-0", Name: "master-0-cidata"},
	}

	xml := domainXML(dom)

	assert.Equal(t, "master-0", xml.Name)
	assert.Equal(t, uint64(4096), xml.Memory.Value)
	assert.Equal(t, 2, xml.VCPU.Value)
	require.Len(t, xml.Devices.Disks, 2)
	assert.Equal(t, "master-0-disk", xml.Devices.Disks[0].Source.Volume.Volume)
	assert.Equal(t, "master-0-cidata", xml.Devices.Disks[1].Source.Volume.Volume)
	require.Len(t, xml.Devices.Interfaces, 1)
	assert.Equal(t, "cluster-net", xml.Devices.Interfaces[0].Source.Network.Network)
	assert.Equal(t, "52:54:00:aa:bb:cc", xml.Devices.Interfaces[0].MAC.Address)
}
