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
	"context"
	"errors"

	libvirt "github.com/digitalocean/go-libvirt"
	"libvirt.org/go/libvirtxml"

	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/state"
)

var errDomainStillActive = errors.New("libvirtadapter: domain is still active; destroy it first")

func (a *Adapter) ListDomains(_ context.Context) ([]state.Domain, error) {
	doms, _, err := a.conn.ConnectListAllDomains(-1, 0)
	if err != nil {
		return nil, adapterErr("list_domains", "", err)
	}

	out := make([]state.Domain, 0, len(doms))

	for _, d := range doms {
		desc, err := a.describeDomain(d)
		if err != nil {
			return nil, err
		}

		out = append(out, desc)
	}

	return out, nil
}

func (a *Adapter) describeDomain(d libvirt.Domain) (state.Domain, error) {
	xmlDesc, err := a.conn.DomainGetXMLDesc(d, 0)
	if err != nil {
		return state.Domain{}, adapterErr("get_domain", d.Name, err)
	}

	var def libvirtxml.Domain
	if err := def.Unmarshal(xmlDesc); err != nil {
		return state.Domain{}, adapterErr("get_domain", d.Name, err)
	}

	out := state.Domain{Name: def.Name}

	if def.Memory != nil {
		out.MemoryMiB = normalizeMemoryMiB(def.Memory.Value, def.Memory.Unit)
	}

	if def.VCPU != nil {
		out.VCPUs = uint(def.VCPU.Value)
	}

	for _, iface := range def.Devices.Interfaces {
		if iface.Source != nil && iface.Source.Network != nil {
			out.Network = iface.Source.Network.Network
		}

		if iface.MAC != nil {
			out.MACAddress = iface.MAC.Address
		}
	}

	for _, disk := range def.Devices.Disks {
		if disk.Source == nil || disk.Source.Volume == nil {
			continue
		}

		ref := state.VolumeRef{Pool: disk.Source.Volume.Pool, Name: disk.Source.Volume.Volume}

		if disk.Device == "cdrom" {
			out.CloudInitVolume = ref
		} else {
			out.DiskVolume = ref
		}
	}

	return out, nil
}

func normalizeMemoryMiB(value uint64, unit string) uint64 {
	switch unit {
	case "", "KiB":
		return value / 1024
	case "MiB":
		return value
	case "GiB":
		return value * 1024
	default:
		return value
	}
}

func (a *Adapter) GetDomain(_ context.Context, name string) (state.Domain, bool, error) {
	d, err := a.conn.DomainLookupByName(name)
	if isNotFound(err) {
		return state.Domain{}, false, nil
	}

	if err != nil {
		return state.Domain{}, false, adapterErr("get_domain", name, err)
	}

	desc, err := a.describeDomain(d)

	return desc, true, err
}

func (a *Adapter) CreateDomain(ctx context.Context, dom state.Domain) error {
	existing, ok, err := a.GetDomain(ctx, dom.Name)
	if err != nil {
		return err
	}

	if ok {
		if existing.Equal(dom) {
			return nil
		}

		return adapterErr("create_domain", dom.Name, hypervisor.ErrConflict)
	}

	def := domainXML(dom)

	xmlDoc, err := def.Marshal()
	if err != nil {
		return adapterErr("create_domain", dom.Name, err)
	}

	d, err := a.conn.DomainDefineXML(xmlDoc)
	if err != nil {
		return adapterErr("create_domain", dom.Name, err)
	}

	if err := a.conn.DomainCreate(d); err != nil {
		return adapterErr("create_domain", dom.Name, err)
	}

	return nil
}

func domainXML(dom state.Domain) *libvirtxml.Domain {
	return &libvirtxml.Domain{
		Type:   "kvm",
		Name:   dom.Name,
		Memory: &libvirtxml.DomainMemory{Value: dom.MemoryMiB, Unit: "MiB"},
		VCPU:   &libvirtxml.DomainVCPU{Value: int(dom.VCPUs)},
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{Type: "hvm"},
		},
		Devices: &libvirtxml.DomainDeviceList{
			Disks: []libvirtxml.DomainDisk{
				{
					Device: "disk",
					Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "qcow2"},
					Source: &libvirtxml.DomainDiskSource{
						Volume: &libvirtxml.DomainDiskSourceVolume{Pool: dom.DiskVolume.Pool, Volume: dom.DiskVolume.Name},
					},
					Target: &libvirtxml.DomainDiskTarget{Dev: "vda", Bus: "virtio"},
				},
				{
					Device: "cdrom",
					Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: "raw"},
					Source: &libvirtxml.DomainDiskSource{
						Volume: &libvirtxml.DomainDiskSourceVolume{Pool: dom.CloudInitVolume.Pool, Volume: dom.CloudInitVolume.Name},
					},
					Target: &libvirtxml.DomainDiskTarget{Dev: "sda", Bus: "sata"},
				},
			},
			Interfaces: []libvirtxml.DomainInterface{
				{
					Source: &libvirtxml.DomainInterfaceSource{
						Network: &libvirtxml.DomainInterfaceSourceNetwork{Network: dom.Network},
					},
					MAC: &libvirtxml.DomainInterfaceMAC{Address: dom.MACAddress},
					Model: &libvirtxml.DomainInterfaceModel{Type: "virtio"},
				},
			},
		},
	}
}

func (a *Adapter) DestroyDomain(_ context.Context, name string) error {
	d, err := a.conn.DomainLookupByName(name)
	if isNotFound(err) {
		return adapterErr("destroy_domain", name, hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("destroy_domain", name, err)
	}

	active, err := a.conn.DomainIsActive(d)
	if err != nil {
		return adapterErr("destroy_domain", name, err)
	}

	if active == 0 {
		return nil
	}

	if err := a.conn.DomainDestroy(d); err != nil {
		return adapterErr("destroy_domain", name, err)
	}

	return nil
}

func (a *Adapter) DeleteDomain(_ context.Context, name string) error {
	d, err := a.conn.DomainLookupByName(name)
	if isNotFound(err) {
		return adapterErr("delete_domain", name, hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("delete_domain", name, err)
	}

	active, err := a.conn.DomainIsActive(d)
	if err != nil {
		return adapterErr("delete_domain", name, err)
	}

	if active == 1 {
		return adapterErr("delete_domain", name, errDomainStillActive)
	}

	if err := a.conn.DomainUndefineFlags(d, libvirt.DomainUndefineManagedSave|libvirt.DomainUndefineSnapshotsMetadata|libvirt.DomainUndefineNvram); err != nil {
		return adapterErr("delete_domain", name, err)
	}

	return nil
}
