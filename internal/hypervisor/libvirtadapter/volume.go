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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	libvirt "github.com/digitalocean/go-libvirt"
	"github.com/kdomanski/iso9660"
	"libvirt.org/go/libvirtxml"

	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/state"
)

func (a *Adapter) ListVolumes(_ context.Context, pool string) ([]state.Volume, error) {
	p, err := a.conn.StoragePoolLookupByName(pool)
	if isNotFound(err) {
		return nil, adapterErr("list_volumes", pool, hypervisor.ErrNotFound)
	}

	if err != nil {
		return nil, adapterErr("list_volumes", pool, err)
	}

	vols, _, err := a.conn.StoragePoolListAllVolumes(p, -1, 0)
	if err != nil {
		return nil, adapterErr("list_volumes", pool, err)
	}

	out := make([]state.Volume, 0, len(vols))

	for _, v := range vols {
		desc, err := a.describeVolume(pool, v)
		if err != nil {
			return nil, err
		}

		out = append(out, desc)
	}

	return out, nil
}

func (a *Adapter) describeVolume(pool string, v libvirt.StorageVol) (state.Volume, error) {
	xmlDesc, err := a.conn.StorageVolGetXMLDesc(v, 0)
	if err != nil {
		return state.Volume{}, adapterErr("get_volume", pool+"/"+v.Name, err)
	}

	var def libvirtxml.StorageVolume
	if err := def.Unmarshal(xmlDesc); err != nil {
		return state.Volume{}, adapterErr("get_volume", pool+"/"+v.Name, err)
	}

	format := state.VolumeFormatQCOW2
	if def.Target != nil && def.Target.Format != nil {
		switch def.Target.Format.Type {
		case "raw":
			format = state.VolumeFormatRaw
		case "iso":
			format = state.VolumeFormatISO
		}
	}

	backing := ""
	if def.BackingStore != nil {
		backing = def.BackingStore.Path
	}

	var capacity uint64
	if def.Capacity != nil {
		capacity = def.Capacity.Value
	}

	return state.Volume{
		Pool:          pool,
		Name:          def.Name,
		Format:        format,
		CapacityBytes: capacity,
		BackingVolume: backing,
	}, nil
}

func (a *Adapter) GetVolume(_ context.Context, ref state.VolumeRef) (state.Volume, bool, error) {
	p, err := a.conn.StoragePoolLookupByName(ref.Pool)
	if isNotFound(err) {
		return state.Volume{}, false, nil
	}

	if err != nil {
		return state.Volume{}, false, adapterErr("get_volume", ref.Pool+"/"+ref.Name, err)
	}

	v, err := a.conn.StorageVolLookupByName(p, ref.Name)
	if isNotFound(err) {
		return state.Volume{}, false, nil
	}

	if err != nil {
		return state.Volume{}, false, adapterErr("get_volume", ref.Pool+"/"+ref.Name, err)
	}

	desc, err := a.describeVolume(ref.Pool, v)

	return desc, true, err
}

func (a *Adapter) CreateVolume(ctx context.Context, vol state.Volume) error {
	existing, ok, err := a.GetVolume(ctx, vol.Ref())
	if err != nil {
		return err
	}

	if ok {
		if existing.Equal(vol) {
			return nil
		}

		return adapterErr("create_volume", vol.Identity(), hypervisor.ErrConflict)
	}

	p, err := a.conn.StoragePoolLookupByName(vol.Pool)
	if isNotFound(err) {
		return adapterErr("create_volume", vol.Identity(), hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("create_volume", vol.Identity(), err)
	}

	def := libvirtxml.StorageVolume{
		Name: vol.Name,
		Capacity: &libvirtxml.StorageVolumeSize{
			Value: vol.CapacityBytes,
			Unit:  "bytes",
		},
		Target: &libvirtxml.StorageVolumeTarget{
			Format: &libvirtxml.StorageVolumeTargetFormat{Type: string(vol.Format)},
		},
	}

	if vol.BackingVolume != "" {
		def.BackingStore = &libvirtxml.StorageVolumeBackingStore{
			Path:   vol.BackingVolume,
			Format: &libvirtxml.StorageVolumeTargetFormat{Type: string(vol.Format)},
		}
	}

	xmlDoc, err := def.Marshal()
	if err != nil {
		return adapterErr("create_volume", vol.Identity(), err)
	}

	flags := libvirt.StorageVolCreateFlags(0)
	if vol.BackingVolume != "" {
		flags = libvirt.StorageVolCreateReflink
	}

	if _, err := a.conn.StorageVolCreateXML(p, xmlDoc, flags); err != nil {
		return adapterErr("create_volume", vol.Identity(), err)
	}

	if vol.SourceURL != "" {
		if err := a.uploadVolumeFromURL(p, vol); err != nil {
			return adapterErr("create_volume", vol.Identity(), err)
		}
	}

	return nil
}

// uploadVolumeFromURL streams a base image's bytes from vol.SourceURL
// into the freshly created volume over the libvirt upload stream.
// SourceURL is opened as a path on the local filesystem; http(s) URLs
// are not downloaded, so os.Open fails on them and the error is
// returned. There is no resumable transfer and no checksum
// verification beyond what libvirt itself performs.
func (a *Adapter) uploadVolumeFromURL(p libvirt.StoragePool, vol state.Volume) error {
	v, err := a.conn.StorageVolLookupByName(p, vol.Name)
	if err != nil {
		return err
	}

	f, err := os.Open(vol.SourceURL)
	if err != nil {
		return fmt.Errorf("open source image: %w", err)
	}
	defer f.Close()

	return a.conn.StorageVolUpload(v, f, 0, 0, 0)
}

func (a *Adapter) DeleteVolume(_ context.Context, ref state.VolumeRef) error {
	p, err := a.conn.StoragePoolLookupByName(ref.Pool)
	if isNotFound(err) {
		return adapterErr("delete_volume", ref.Pool+"/"+ref.Name, hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("delete_volume", ref.Pool+"/"+ref.Name, err)
	}

	v, err := a.conn.StorageVolLookupByName(p, ref.Name)
	if isNotFound(err) {
		return adapterErr("delete_volume", ref.Pool+"/"+ref.Name, hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("delete_volume", ref.Pool+"/"+ref.Name, err)
	}

	if err := a.conn.StorageVolDelete(v, 0); err != nil {
		return adapterErr("delete_volume", ref.Pool+"/"+ref.Name, err)
	}

	return nil
}

// CreateCloudInitISO builds a NoCloud-format ISO9660 image containing
// user-data and network-config at its root, then uploads it as a
// volume the same way a regular image volume is created.
func (a *Adapter) CreateCloudInitISO(ctx context.Context, ref state.VolumeRef, userData, networkConfig string) error {
	writer, err := iso9660.NewWriter()
	if err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}
	defer writer.Cleanup()

	if err := writer.AddFile(bytes.NewReader([]byte(userData)), "user-data"); err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	if err := writer.AddFile(bytes.NewReader([]byte(networkConfig)), "network-config"); err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	metaData := fmt.Sprintf("instance-id: %s\nlocal-hostname: %s\n", ref.Name, ref.Name)
	if err := writer.AddFile(bytes.NewReader([]byte(metaData)), "meta-data"); err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	tmp, err := os.CreateTemp("", "romulus-cloudinit-*.iso")
	if err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if err := writer.WriteTo(tmp, "cidata"); err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	info, err := tmp.Stat()
	if err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	if err := a.CreateVolume(ctx, state.Volume{
		Pool:          ref.Pool,
		Name:          ref.Name,
		Format:        state.VolumeFormatISO,
		CapacityBytes: uint64(info.Size()),
	}); err != nil {
		return err
	}

	p, err := a.conn.StoragePoolLookupByName(ref.Pool)
	if err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	v, err := a.conn.StorageVolLookupByName(p, ref.Name)
	if err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	if err := a.conn.StorageVolUpload(v, tmp, 0, uint64(info.Size()), 0); err != nil {
		return adapterErr("create_cloudinit_iso", ref.Pool+"/"+ref.Name, err)
	}

	return nil
}
