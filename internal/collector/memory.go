// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// CollectMemory emits one DIMM per firmware memory device that
// reports installed capacity; empty slots never appear. TotalBytes is
// the sum over the emitted DIMMs, absent when nothing was found.
func (c *Collector) CollectMemory() inventory.MemoryInfo {
	info := inventory.MemoryInfo{DIMMs: []inventory.DIMMInfo{}}

	var total uint64
	for _, rec := range c.table.MemoryDevices {
		size := rec.SizeBytes()
		if size == 0 {
			continue
		}

		dimm := inventory.DIMMInfo{
			SizeBytes:    ptr.To(size),
			Slot:         optString(rec.DeviceLocator),
			MemType:      optString(rec.MemoryType),
			Manufacturer: optString(rec.Manufacturer),
			SerialNumber: optString(rec.SerialNumber),
			PartNumber:   optString(rec.PartNumber),
		}

		// Configured speed, falling back to the rated maximum.
		speed := rec.ConfiguredSpeedMTs
		if speed == 0 {
			speed = rec.SpeedMTs
		}
		if speed > 0 {
			dimm.SpeedMTs = ptr.To(speed)
		}

		total += size
		info.DIMMs = append(info.DIMMs, dimm)
	}

	if total > 0 {
		info.TotalBytes = ptr.To(total)
	}
	return info
}
