// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage collector", func() {
	var (
		c       *Collector
		runner  *fakeRunner
		cleanup func()
	)

	BeforeEach(func() {
		tmpDir := GinkgoT().TempDir()

		tmpSysBlock := filepath.Join(tmpDir, "sys", "block")
		tmpSysClassNvme := filepath.Join(tmpDir, "sys", "class", "nvme")
		tmpDev := filepath.Join(tmpDir, "dev")
		Expect(os.MkdirAll(tmpSysBlock, 0755)).To(Succeed())
		Expect(os.MkdirAll(tmpSysClassNvme, 0755)).To(Succeed())
		Expect(os.MkdirAll(tmpDev, 0755)).To(Succeed())

		origSysBlock := pathSysBlock
		origSysClassNvme := pathSysClassNvme
		origDev := pathDev
		pathSysBlock = tmpSysBlock
		pathSysClassNvme = tmpSysClassNvme
		pathDev = tmpDev
		cleanup = func() {
			pathSysBlock = origSysBlock
			pathSysClassNvme = origSysClassNvme
			pathDev = origDev
		}

		runner = &fakeRunner{outputs: map[string]string{}}
		c = &Collector{log: GinkgoLogr, run: runner}
	})

	AfterEach(func() {
		cleanup()
	})

	addBlockDevice := func(name string, withNode bool) string {
		dir := filepath.Join(pathSysBlock, name)
		Expect(os.MkdirAll(filepath.Join(dir, "device"), 0755)).To(Succeed())
		Expect(os.MkdirAll(filepath.Join(dir, "queue"), 0755)).To(Succeed())
		if withNode {
			Expect(os.WriteFile(filepath.Join(pathDev, name), nil, 0644)).To(Succeed())
		}
		return dir
	}

	It("collects an NVMe namespace with controller attributes", func() {
		dir := addBlockDevice("nvme0n1", true)
		Expect(os.WriteFile(filepath.Join(dir, "size"), []byte("7814037168\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "queue", "rotational"), []byte("0\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "device", "model"), []byte("Samsung PM9A3\n"), 0644)).To(Succeed())

		controllerDir := filepath.Join(pathSysClassNvme, "nvme0")
		Expect(os.MkdirAll(controllerDir, 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(controllerDir, "firmware_rev"), []byte("GDC7302Q\n"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(controllerDir, "serial"), []byte("S5XANA0R123456\n"), 0644)).To(Succeed())

		disks := c.CollectDisks(context.Background())
		Expect(disks).To(HaveLen(1))

		disk := disks[0]
		Expect(disk.Name).To(Equal("nvme0n1"))
		Expect(disk.BusType).To(HaveValue(Equal("nvme")))
		Expect(disk.Model).To(HaveValue(Equal("Samsung PM9A3")))
		Expect(disk.Serial).To(HaveValue(Equal("S5XANA0R123456")))
		Expect(disk.FirmwareVersion).To(HaveValue(Equal("GDC7302Q")))
		Expect(disk.SizeBytes).To(HaveValue(Equal(uint64(7814037168 * 512))))
		Expect(disk.Rotational).To(HaveValue(BeFalse()))
		Expect(disk.SMART).To(BeNil())
	})

	It("excludes synthetic devices and devices without a node", func() {
		addBlockDevice("loop0", true)
		addBlockDevice("zram0", true)
		addBlockDevice("dm-0", true)
		addBlockDevice("sdb", false)
		dir := addBlockDevice("sda", true)
		Expect(os.WriteFile(filepath.Join(dir, "size"), []byte("1024\n"), 0644)).To(Succeed())

		disks := c.CollectDisks(context.Background())
		Expect(disks).To(HaveLen(1))
		Expect(disks[0].Name).To(Equal("sda"))
	})

	It("takes the SMART verdict from smartctl", func() {
		devPath := filepath.Join(pathDev, "sda")
		addBlockDevice("sda", true)
		runner.outputs["smartctl -H "+devPath] =
			"SMART overall-health self-assessment test result: PASSED\n"

		disks := c.CollectDisks(context.Background())
		Expect(disks).To(HaveLen(1))
		Expect(disks[0].SMART).NotTo(BeNil())
		Expect(disks[0].SMART.Health).To(HaveValue(Equal("PASSED")))
	})

	It("reports SMART presence without a verdict from the nvme fallback", func() {
		devPath := filepath.Join(pathDev, "nvme1n1")
		addBlockDevice("nvme1n1", true)
		runner.outputs["nvme smart-log "+devPath] = "critical_warning : 0\n"

		disks := c.CollectDisks(context.Background())
		Expect(disks).To(HaveLen(1))
		Expect(disks[0].SMART).NotTo(BeNil())
		Expect(disks[0].SMART.Health).To(BeNil())
	})

	DescribeTable("nvmeControllerName",
		func(name, controller string) {
			Expect(nvmeControllerName(name)).To(Equal(controller))
		},
		Entry("first namespace", "nvme0n1", "nvme0"),
		Entry("later controller", "nvme12n3", "nvme12"),
		Entry("with partition suffix", "nvme0n1p2", "nvme0"),
	)
})
