// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// CollectCPU builds one CPUSocket per firmware processor record,
// assigning ascending socket indices in table order. Zero counts and
// speeds from firmware mean "unknown" and stay absent; the aggregate
// totals sum only what the sockets actually reported.
func (c *Collector) CollectCPU() inventory.CPUInfo {
	info := inventory.CPUInfo{CPUs: []inventory.CPUSocket{}}

	var totalCores, totalThreads uint32
	for i, rec := range c.table.Processors {
		socket := inventory.CPUSocket{Socket: uint32(i)}

		socket.Slot = optString(rec.SocketDesignation)
		socket.Manufacturer = optString(rec.Manufacturer)
		socket.ModelName = optString(rec.Version)

		if rec.CoreCount > 0 {
			socket.NumCores = ptr.To(rec.CoreCount)
			totalCores += rec.CoreCount
		}
		if rec.ThreadCount > 0 {
			socket.NumThreads = ptr.To(rec.ThreadCount)
			totalThreads += rec.ThreadCount
		}

		// Current speed, falling back to the rated maximum.
		speed := rec.CurrentSpeedMHz
		if speed == 0 {
			speed = rec.MaxSpeedMHz
		}
		if speed > 0 {
			socket.CapacityMHz = ptr.To(speed)
		}

		if kb, ok := c.table.CacheSizeKB(rec.L1CacheHandle); ok {
			socket.L1CacheKB = ptr.To(kb)
		}
		if kb, ok := c.table.CacheSizeKB(rec.L2CacheHandle); ok {
			socket.L2CacheKB = ptr.To(kb)
		}
		if kb, ok := c.table.CacheSizeKB(rec.L3CacheHandle); ok {
			socket.L3CacheKB = ptr.To(kb)
		}

		info.CPUs = append(info.CPUs, socket)
	}

	if n := len(info.CPUs); n > 0 {
		info.Sockets = ptr.To(uint32(n))
	}
	if totalCores > 0 {
		info.Cores = ptr.To(totalCores)
	}
	if totalThreads > 0 {
		info.Threads = ptr.To(totalThreads)
	}
	return info
}
