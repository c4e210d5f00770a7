// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fleetable/nodescan/internal/dmi"
)

var _ = Describe("Memory collector", func() {
	It("skips unpopulated slots and sums only emitted DIMMs", func() {
		table := dmi.NewTable(nil, []dmi.MemoryDeviceRecord{
			{DeviceLocator: "DIMM_A0", RawSize: 16384, MemoryType: "DDR4", SpeedMTs: 3200},
			{DeviceLocator: "DIMM_A1"},
			{DeviceLocator: "DIMM_B0", RawSize: 16384, MemoryType: "DDR4", ConfiguredSpeedMTs: 2933, SpeedMTs: 3200},
			{DeviceLocator: "DIMM_B1", RawSize: 0xffff},
		}, nil)

		c := &Collector{log: GinkgoLogr, table: table}
		info := c.CollectMemory()

		Expect(info.DIMMs).To(HaveLen(2))
		Expect(info.DIMMs[0].Slot).To(HaveValue(Equal("DIMM_A0")))
		Expect(info.DIMMs[0].SpeedMTs).To(HaveValue(Equal(uint32(3200))))
		Expect(info.DIMMs[1].SpeedMTs).To(HaveValue(Equal(uint32(2933))))

		var sum uint64
		for _, dimm := range info.DIMMs {
			Expect(dimm.SizeBytes).NotTo(BeNil())
			sum += *dimm.SizeBytes
		}
		Expect(info.TotalBytes).To(HaveValue(Equal(sum)))
	})

	It("reports no total when nothing is populated", func() {
		table := dmi.NewTable(nil, []dmi.MemoryDeviceRecord{
			{DeviceLocator: "DIMM_A0"},
		}, nil)

		c := &Collector{log: GinkgoLogr, table: table}
		info := c.CollectMemory()

		Expect(info.TotalBytes).To(BeNil())
		Expect(info.DIMMs).To(BeEmpty())
	})
})
