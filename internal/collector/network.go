// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// Interface name prefixes that identify virtual devices. Bond and team
// masters are exempt from the no-PCI-device exclusion below.
var virtualIfacePrefixes = []string{
	"lo", "veth", "docker", "br-", "virbr",
	"cni", "flannel", "kube", "tun", "tap", "vmnet",
}

type ipLinkAddrs struct {
	Ifname   string       `json:"ifname"`
	AddrInfo []ipAddrInfo `json:"addr_info"`
}

type ipAddrInfo struct {
	Family    string `json:"family"`
	Local     string `json:"local"`
	PrefixLen uint8  `json:"prefixlen"`
	Scope     string `json:"scope"`
}

type ipRouteEntry struct {
	Dst     string `json:"dst"`
	Gateway string `json:"gateway"`
	Dev     string `json:"dev"`
}

// CollectNetwork enumerates physical NICs and bond/team masters, plus
// the kernel routing table. Addresses are collected in one bulk call
// rather than per interface.
func (c *Collector) CollectNetwork(ctx context.Context) inventory.NetworkInfo {
	info := inventory.NetworkInfo{
		Interfaces: []inventory.NetInterface{},
		Routes:     c.collectRoutes(ctx),
	}

	addrsByIface := c.collectAddresses(ctx)

	entries, err := os.ReadDir(pathSysClassNet)
	if err != nil {
		return info
	}

	var et ethtoolClient
	if c.newEthtool != nil {
		if h, err := c.newEthtool(); err == nil {
			et = h
			defer et.Close()
		}
	}

	for _, entry := range entries {
		name := entry.Name()
		ifacePath := filepath.Join(pathSysClassNet, name)
		if isVirtualInterface(name, ifacePath) {
			continue
		}
		info.Interfaces = append(info.Interfaces, c.collectInterface(name, ifacePath, addrsByIface[name], et))
	}
	return info
}

func isVirtualInterface(name, ifacePath string) bool {
	if hasAnyPrefix(name, virtualIfacePrefixes) || strings.Contains(name, "vlan") {
		return true
	}
	// Bond and team masters have no backing device but are still
	// part of the physical network configuration.
	if strings.HasPrefix(name, "bond") || strings.HasPrefix(name, "team") {
		return false
	}
	_, err := os.Stat(filepath.Join(ifacePath, "device"))
	return err != nil
}

func (c *Collector) collectInterface(name, ifacePath string, addrs []ipAddrInfo, et ethtoolClient) inventory.NetInterface {
	iface := inventory.NetInterface{Name: name, Addresses: []inventory.IPAddress{}}
	devicePath := filepath.Join(ifacePath, "device")

	iface.MACAddress = optString(readFileTrim(filepath.Join(ifacePath, "address")))
	if mtu, ok := readFileUint32(filepath.Join(ifacePath, "mtu")); ok {
		iface.MTU = ptr.To(mtu)
	}

	if speed, ok := readFileUint32(filepath.Join(ifacePath, "speed")); ok && speed > 0 {
		iface.SpeedMbps = ptr.To(speed)
	} else if et != nil {
		if speed, err := et.LinkSpeed(name); err == nil && speed > 0 {
			iface.SpeedMbps = ptr.To(speed)
		}
	}

	var driver string
	if link, err := os.Readlink(filepath.Join(devicePath, "driver")); err == nil {
		driver = filepath.Base(link)
	}

	if et != nil {
		if drv, err := et.DriverInfo(name); err == nil {
			iface.FirmwareVersion = optString(cleanEthtoolVersion(drv.FwVersion))
			if iface.FirmwareVersion == nil {
				iface.FirmwareVersion = optString(cleanEthtoolVersion(drv.Version))
			}
			if driver == "" {
				driver = drv.Driver
			}
		}
	}
	iface.Driver = optString(driver)

	iface.PCIAddress = optString(pciAddressOf(devicePath))
	iface.VendorName, iface.DeviceName = c.resolveDeviceNames(devicePath)

	for _, a := range addrs {
		iface.Addresses = append(iface.Addresses, inventory.IPAddress{
			Family:  a.Family,
			Address: a.Local,
			Prefix:  a.PrefixLen,
		})
	}

	iface.IsPrimary, iface.BondGroup, iface.BondMaster = bondInfo(name, ifacePath, addrs)
	return iface
}

func cleanEthtoolVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "N/A" || v == "n/a" {
		return ""
	}
	return v
}

// pciAddressOf resolves the device symlink and scans its target path
// for a domain:bus:device.function component.
func pciAddressOf(devicePath string) string {
	link, err := os.Readlink(devicePath)
	if err != nil {
		return ""
	}
	target := link
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(devicePath), link)
	}
	for _, component := range strings.Split(filepath.Clean(target), string(filepath.Separator)) {
		if isPCIAddress(component) {
			return component
		}
	}
	return ""
}

func isPCIAddress(s string) bool {
	return len(s) >= 12 && strings.Count(s, ":") == 2 && strings.Contains(s, ".")
}

func (c *Collector) resolveDeviceNames(devicePath string) (*string, *string) {
	vendorID := readFileTrim(filepath.Join(devicePath, "vendor"))
	deviceID := readFileTrim(filepath.Join(devicePath, "device"))
	if vendorID == "" || deviceID == "" {
		return nil, nil
	}
	vendor, device, ok := c.pci.Resolve(vendorID, deviceID)
	if !ok {
		return nil, nil
	}
	return ptr.To(vendor), ptr.To(device)
}

// bondInfo applies the bond membership rules: masters are primary by
// definition; slaves inherit primacy from a bond/team master; anything
// else is primary when it holds a global unicast address. The address
// rule is a heuristic, not an authoritative signal.
func bondInfo(name, ifacePath string, addrs []ipAddrInfo) (bool, *string, *string) {
	if strings.HasPrefix(name, "bond") || strings.HasPrefix(name, "team") {
		return true, ptr.To(name), nil
	}

	var isPrimary bool
	var group, master *string
	if link, err := os.Readlink(filepath.Join(ifacePath, "master")); err == nil {
		masterName := filepath.Base(link)
		group = ptr.To(masterName)
		master = ptr.To(masterName)
		if strings.HasPrefix(masterName, "bond") || strings.HasPrefix(masterName, "team") {
			isPrimary = true
		}
	}

	if !isPrimary {
		for _, a := range addrs {
			if a.Family == "inet" && a.Scope == "global" {
				isPrimary = true
				break
			}
		}
	}
	return isPrimary, group, master
}

// collectAddresses bulk-reads every interface's addresses so that no
// per-interface process spawn is needed.
func (c *Collector) collectAddresses(ctx context.Context) map[string][]ipAddrInfo {
	addrs := map[string][]ipAddrInfo{}

	out, err := c.run.Run(ctx, "ip", "-j", "addr")
	if err != nil {
		return addrs
	}
	var links []ipLinkAddrs
	if err := json.Unmarshal(out, &links); err != nil {
		return addrs
	}

	for _, link := range links {
		if link.Ifname == "" {
			continue
		}
		entries := []ipAddrInfo{}
		for _, a := range link.AddrInfo {
			if a.Local == "" {
				continue
			}
			entries = append(entries, a)
		}
		addrs[link.Ifname] = entries
	}
	return addrs
}

func (c *Collector) collectRoutes(ctx context.Context) []inventory.RouteInfo {
	routes := []inventory.RouteInfo{}

	out, err := c.run.Run(ctx, "ip", "-j", "route")
	if err != nil {
		return routes
	}
	var entries []ipRouteEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return routes
	}

	for _, e := range entries {
		dst := e.Dst
		if dst == "" {
			dst = "default"
		}
		routes = append(routes, inventory.RouteInfo{Dst: dst, Gateway: e.Gateway, Iface: e.Dev})
	}
	return routes
}
