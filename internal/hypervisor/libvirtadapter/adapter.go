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

// Package libvirtadapter implements hypervisor.Adapter against a real
// libvirtd connection. It is supporting infrastructure, not part of
// the core reconciliation logic, which only ever depends on the
// hypervisor.Adapter interface.
package libvirtadapter

import (
	"context"
	"fmt"
	"net"

	libvirt "github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
	"libvirt.org/go/libvirtxml"

	"github.com/somatczk/romulus/internal/hypervisor"
	"github.com/somatczk/romulus/internal/state"
)

// Adapter drives a local or remote libvirtd over its native RPC
// protocol.
type Adapter struct {
	conn *libvirt.Libvirt
}

// Dial connects to libvirtd at the given socket path (empty for the
// system default, typically /var/run/libvirt/libvirt-sock).
func Dial(ctx context.Context, socketPath string) (*Adapter, error) {
	var d libvirt.Dialer
	if socketPath == "" {
		d = dialers.NewLocal()
	} else {
		d = dialers.NewLocal(dialers.WithSocket(socketPath))
	}

	l := libvirt.NewWithDialer(d)
	if err := l.ConnectToURI(libvirt.QEMUSystem); err != nil {
		return nil, fmt.Errorf("libvirtadapter: connect: %w", err)
	}

	return &Adapter{conn: l}, nil
}

// Close disconnects from libvirtd.
func (a *Adapter) Close() error {
	return a.conn.Disconnect()
}

func (a *Adapter) ListPools(_ context.Context) ([]state.Pool, error) {
	pools, _, err := a.conn.StoragePools(libvirt.ConnectListStoragePoolsActive|libvirt.ConnectListStoragePoolsInactive, 1)
	if err != nil {
		return nil, adapterErr("list_pools", "", err)
	}

	out := make([]state.Pool, 0, len(pools))

	for _, p := range pools {
		converted, err := a.describePool(p)
		if err != nil {
			return nil, err
		}

		out = append(out, converted)
	}

	return out, nil
}

func (a *Adapter) describePool(p libvirt.StoragePool) (state.Pool, error) {
	xmlDesc, err := a.conn.StoragePoolGetXMLDesc(p, 0)
	if err != nil {
		return state.Pool{}, adapterErr("get_pool", p.Name, err)
	}

	var def libvirtxml.StoragePool
	if err := def.Unmarshal(xmlDesc); err != nil {
		return state.Pool{}, adapterErr("get_pool", p.Name, err)
	}

	active, err := a.conn.StoragePoolIsActive(p)
	if err != nil {
		return state.Pool{}, adapterErr("get_pool", p.Name, err)
	}

	path := ""
	if def.Target != nil {
		path = def.Target.Path
	}

	return state.Pool{Name: def.Name, Path: path, Active: active == 1}, nil
}

func (a *Adapter) GetPool(_ context.Context, name string) (state.Pool, bool, error) {
	p, err := a.conn.StoragePoolLookupByName(name)
	if isNotFound(err) {
		return state.Pool{}, false, nil
	}

	if err != nil {
		return state.Pool{}, false, adapterErr("get_pool", name, err)
	}

	desc, err := a.describePool(p)

	return desc, true, err
}

func (a *Adapter) CreatePool(ctx context.Context, p state.Pool) error {
	existing, ok, err := a.GetPool(ctx, p.Name)
	if err != nil {
		return err
	}

	if ok {
		if existing.Equal(p) {
			return nil
		}

		return adapterErr("create_pool", p.Name, hypervisor.ErrConflict)
	}

	def := libvirtxml.StoragePool{
		Type:   "dir",
		Name:   p.Name,
		Target: &libvirtxml.StoragePoolTarget{Path: p.Path},
	}

	xmlDoc, err := def.Marshal()
	if err != nil {
		return adapterErr("create_pool", p.Name, err)
	}

	pool, err := a.conn.StoragePoolDefineXML(xmlDoc, 0)
	if err != nil {
		return adapterErr("create_pool", p.Name, err)
	}

	if err := a.conn.StoragePoolBuild(pool, 0); err != nil {
		return adapterErr("create_pool", p.Name, err)
	}

	if err := a.conn.StoragePoolCreate(pool, 0); err != nil {
		return adapterErr("create_pool", p.Name, err)
	}

	return nil
}

func (a *Adapter) DestroyPool(_ context.Context, name string) error {
	p, err := a.conn.StoragePoolLookupByName(name)
	if isNotFound(err) {
		return adapterErr("destroy_pool", name, hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("destroy_pool", name, err)
	}

	if err := a.conn.StoragePoolDestroy(p); err != nil {
		return adapterErr("destroy_pool", name, err)
	}

	if err := a.conn.StoragePoolUndefine(p); err != nil {
		return adapterErr("destroy_pool", name, err)
	}

	return nil
}

func (a *Adapter) ListNetworks(_ context.Context) ([]state.Network, error) {
	nets, _, err := a.conn.ConnectListAllNetworks(-1, 0)
	if err != nil {
		return nil, adapterErr("list_networks", "", err)
	}

	out := make([]state.Network, 0, len(nets))

	for _, n := range nets {
		converted, err := a.describeNetwork(n)
		if err != nil {
			return nil, err
		}

		out = append(out, converted)
	}

	return out, nil
}

func (a *Adapter) describeNetwork(n libvirt.Network) (state.Network, error) {
	xmlDesc, err := a.conn.NetworkGetXMLDesc(n, 0)
	if err != nil {
		return state.Network{}, adapterErr("get_network", n.Name, err)
	}

	var def libvirtxml.Network
	if err := def.Unmarshal(xmlDesc); err != nil {
		return state.Network{}, adapterErr("get_network", n.Name, err)
	}

	active, err := a.conn.NetworkIsActive(n)
	if err != nil {
		return state.Network{}, adapterErr("get_network", n.Name, err)
	}

	mode := state.NetworkModeIsolated

	cidr := ""
	dhcp := false

	if def.Forward != nil {
		switch def.Forward.Mode {
		case "nat":
			mode = state.NetworkModeNAT
		case "route":
			mode = state.NetworkModeRoute
		}
	}

	if len(def.IPs) > 0 {
		ip := def.IPs[0]
		if ip.Address != "" && ip.Netmask != "" {
			_, ipNet, err := net.ParseCIDR(ip.Address + "/" + maskBitsFromDotted(ip.Netmask))
			if err == nil {
				cidr = ipNet.String()
			}
		}

		dhcp = ip.DHCP != nil
	}

	return state.Network{
		Name:   def.Name,
		Mode:   mode,
		CIDR:   cidr,
		DHCP:   dhcp,
		DNS:    def.DNS != nil,
		Active: active == 1,
	}, nil
}

func (a *Adapter) GetNetwork(_ context.Context, name string) (state.Network, bool, error) {
	n, err := a.conn.NetworkLookupByName(name)
	if isNotFound(err) {
		return state.Network{}, false, nil
	}

	if err != nil {
		return state.Network{}, false, adapterErr("get_network", name, err)
	}

	desc, err := a.describeNetwork(n)

	return desc, true, err
}

func (a *Adapter) CreateNetwork(ctx context.Context, n state.Network) error {
	existing, ok, err := a.GetNetwork(ctx, n.Name)
	if err != nil {
		return err
	}

	if ok {
		if existing.Equal(n) {
			return nil
		}

		return adapterErr("create_network", n.Name, hypervisor.ErrConflict)
	}

	def := libvirtxml.Network{
		Name: n.Name,
	}

	if n.Mode != state.NetworkModeIsolated {
		def.Forward = &libvirtxml.NetworkForward{Mode: string(n.Mode)}
	}

	if n.CIDR != "" {
		ip, err := networkIPConfig(n.CIDR, n.DHCP)
		if err != nil {
			return adapterErr("create_network", n.Name, err)
		}

		def.IPs = []libvirtxml.NetworkIP{ip}
	}

	if n.DNS {
		def.DNS = &libvirtxml.NetworkDNS{Enable: "yes"}
	}

	xmlDoc, err := def.Marshal()
	if err != nil {
		return adapterErr("create_network", n.Name, err)
	}

	net, err := a.conn.NetworkDefineXML(xmlDoc)
	if err != nil {
		return adapterErr("create_network", n.Name, err)
	}

	if err := a.conn.NetworkCreate(net); err != nil {
		return adapterErr("create_network", n.Name, err)
	}

	return nil
}

func (a *Adapter) DestroyNetwork(_ context.Context, name string) error {
	n, err := a.conn.NetworkLookupByName(name)
	if isNotFound(err) {
		return adapterErr("destroy_network", name, hypervisor.ErrNotFound)
	}

	if err != nil {
		return adapterErr("destroy_network", name, err)
	}

	if err := a.conn.NetworkDestroy(n); err != nil {
		return adapterErr("destroy_network", name, err)
	}

	if err := a.conn.NetworkUndefine(n); err != nil {
		return adapterErr("destroy_network", name, err)
	}

	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}

	lverr, ok := err.(libvirt.Error)

	return ok && lverr.Code == uint32(libvirt.ErrNoStoragePool) ||
		(ok && lverr.Code == uint32(libvirt.ErrNoNetwork)) ||
		(ok && lverr.Code == uint32(libvirt.ErrNoDomain)) ||
		(ok && lverr.Code == uint32(libvirt.ErrNoStorageVol))
}

func adapterErr(op, identity string, cause error) error {
	return &hypervisor.AdapterError{Op: op, Identity: identity, Cause: cause}
}

func maskBitsFromDotted(netmask string) string {
	ip := net.ParseIP(netmask).To4()
	if ip == nil {
		return "32"
	}

	mask := net.IPv4Mask(ip[0], ip[1], ip[2], ip[3])
	ones, _ := mask.Size()

	return fmt.Sprintf("%d", ones)
}

func networkIPConfig(cidr string, dhcp bool) (libvirtxml.NetworkIP, error) {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return libvirtxml.NetworkIP{}, fmt.Errorf("libvirtadapter: parse cidr %q: %w", cidr, err)
	}

	ones, bits := ipNet.Mask.Size()
	netmask := net.CIDRMask(ones, bits)

	out := libvirtxml.NetworkIP{
		Address: ip.Mask(ipNet.Mask).String(),
		Netmask: net.IP(netmask).String(),
	}

	if dhcp {
		out.DHCP = &libvirtxml.NetworkDHCP{}
	}

	return out, nil
}
