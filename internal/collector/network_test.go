// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Network collector", func() {
	var (
		c       *Collector
		runner  *fakeRunner
		tmpDir  string
		cleanup func()
	)

	const pciAddress = "0000:00:1f.6"

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()

		tmpSysClassNet := filepath.Join(tmpDir, "sys", "class", "net")
		Expect(os.MkdirAll(tmpSysClassNet, 0755)).To(Succeed())

		orig := pathSysClassNet
		pathSysClassNet = tmpSysClassNet
		cleanup = func() { pathSysClassNet = orig }

		runner = &fakeRunner{outputs: map[string]string{}}
		c = &Collector{
			log: GinkgoLogr,
			run: runner,
			pci: &fakeResolver{
				vendors: map[string]string{"8086": "Intel Corporation"},
				devices: map[string]string{"8086:15b8": "Ethernet Connection (2) I219-V"},
			},
			newEthtool: func() (ethtoolClient, error) {
				return nil, errors.New("netlink unavailable")
			},
		}
	})

	AfterEach(func() {
		cleanup()
	})

	addIface := func(name string) string {
		dir := filepath.Join(pathSysClassNet, name)
		Expect(os.MkdirAll(dir, 0755)).To(Succeed())
		return dir
	}

	addPhysicalIface := func(name string) string {
		dir := addIface(name)
		deviceDir := filepath.Join(tmpDir, "sys", "devices", "pci0000:00", pciAddress)
		Expect(os.MkdirAll(deviceDir, 0755)).To(Succeed())
		Expect(os.Symlink("../../../devices/pci0000:00/"+pciAddress, filepath.Join(dir, "device"))).To(Succeed())
		return dir
	}

	It("keeps physical NICs and bond masters, drops virtual devices", func() {
		addIface("lo")
		addIface("docker0")
		addIface("veth12ab")
		addIface("bond0")
		ifaceDir := addPhysicalIface("eth0")
		Expect(os.WriteFile(filepath.Join(ifaceDir, "address"), []byte("aa:bb:cc:dd:ee:ff\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(ifaceDir, "mtu"), []byte("1500\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(ifaceDir, "speed"), []byte("1000\n"), 0644)).To(Succeed())

		deviceDir := filepath.Join(ifaceDir, "device")
		Expect(os.WriteFile(filepath.Join(deviceDir, "vendor"), []byte("0x8086\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(deviceDir, "device"), []byte("0x15b8\n"), 0644)).To(Succeed())
		Expect(os.Symlink("../../../bus/pci/drivers/e1000e", filepath.Join(deviceDir, "driver"))).To(Succeed())

		runner.outputs["ip -j addr"] = `[
			{"ifname":"eth0","addr_info":[
				{"family":"inet","local":"192.168.1.10","prefixlen":24,"scope":"global"},
				{"family":"inet6","local":"fe80::1","prefixlen":64,"scope":"link"}
			]},
			{"ifname":"bond0","addr_info":[]}
		]`
		runner.outputs["ip -j route"] = `[
			{"gateway":"192.168.1.1","dev":"eth0"},
			{"dst":"192.168.1.0/24","dev":"eth0"}
		]`

		info := c.CollectNetwork(context.Background())

		Expect(info.Interfaces).To(HaveLen(2))
		Expect(info.Interfaces[0].Name).To(Equal("bond0"))
		Expect(info.Interfaces[1].Name).To(Equal("eth0"))

		bond := info.Interfaces[0]
		Expect(bond.IsPrimary).To(BeTrue())
		Expect(bond.BondGroup).To(HaveValue(Equal("bond0")))
		Expect(bond.BondMaster).To(BeNil())

		eth := info.Interfaces[1]
		Expect(eth.IsPrimary).To(BeTrue())
		Expect(eth.MACAddress).To(HaveValue(Equal("aa:bb:cc:dd:ee:ff")))
		Expect(eth.MTU).To(HaveValue(Equal(uint32(1500))))
		Expect(eth.SpeedMbps).To(HaveValue(Equal(uint32(1000))))
		Expect(eth.Driver).To(HaveValue(Equal("e1000e")))
		Expect(eth.PCIAddress).To(HaveValue(Equal(pciAddress)))
		Expect(eth.VendorName).To(HaveValue(Equal("Intel Corporation")))
		Expect(eth.DeviceName).To(HaveValue(Equal("Ethernet Connection (2) I219-V")))
		Expect(eth.Addresses).To(HaveLen(2))
		Expect(eth.Addresses[0].Address).To(Equal("192.168.1.10"))
		Expect(eth.Addresses[0].Prefix).To(Equal(uint8(24)))

		Expect(info.Routes).To(HaveLen(2))
		Expect(info.Routes[0].Dst).To(Equal("default"))
		Expect(info.Routes[0].Gateway).To(Equal("192.168.1.1"))
		Expect(info.Routes[0].Iface).To(Equal("eth0"))
		Expect(info.Routes[1].Dst).To(Equal("192.168.1.0/24"))
	})

	It("marks bond slaves primary through their master", func() {
		ifaceDir := addPhysicalIface("eth1")
		addIface("bond0")
		Expect(os.Symlink("../bond0", filepath.Join(ifaceDir, "master"))).To(Succeed())

		info := c.CollectNetwork(context.Background())

		Expect(info.Interfaces).To(HaveLen(2))
		slave := info.Interfaces[1]
		Expect(slave.Name).To(Equal("eth1"))
		Expect(slave.IsPrimary).To(BeTrue())
		Expect(slave.BondGroup).To(HaveValue(Equal("bond0")))
		Expect(slave.BondMaster).To(HaveValue(Equal("bond0")))
	})

	It("does not mark an interface with only link-scope addresses primary", func() {
		addPhysicalIface("eth0")
		runner.outputs["ip -j addr"] = `[
			{"ifname":"eth0","addr_info":[
				{"family":"inet6","local":"fe80::1","prefixlen":64,"scope":"link"}
			]}
		]`

		info := c.CollectNetwork(context.Background())

		Expect(info.Interfaces).To(HaveLen(1))
		Expect(info.Interfaces[0].IsPrimary).To(BeFalse())
	})

	It("labels unknown devices of a known vendor", func() {
		ifaceDir := addPhysicalIface("eth0")
		deviceDir := filepath.Join(ifaceDir, "device")
		Expect(os.WriteFile(filepath.Join(deviceDir, "vendor"), []byte("0x8086\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(deviceDir, "device"), []byte("0x9999\n"), 0644)).To(Succeed())

		info := c.CollectNetwork(context.Background())

		Expect(info.Interfaces).To(HaveLen(1))
		Expect(info.Interfaces[0].DeviceName).To(HaveValue(ContainSubstring("0x9999")))
	})
})
