// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"runtime"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// CollectNode assembles host identity from the firmware table plus
// the BMC detection chain.
func (c *Collector) CollectNode(ctx context.Context) inventory.NodeInfo {
	node := inventory.NodeInfo{
		Hostname:     hostname(),
		Architecture: runtime.GOARCH,
	}

	if sys := c.table.System; sys != nil {
		node.ProductName = optString(sys.ProductName)
		node.Manufacturer = optString(sys.Manufacturer)
		node.SerialNumber = optString(sys.SerialNumber)
	}
	if chassis := c.table.Chassis; chassis != nil {
		node.ChassisManufacturer = optString(chassis.Manufacturer)
		node.ChassisSerialNumber = optString(chassis.SerialNumber)
	}
	if board := c.table.Baseboard; board != nil {
		mb := inventory.MotherboardInfo{
			Manufacturer: optString(board.Manufacturer),
			ProductName:  optString(board.Product),
			Version:      optString(board.Version),
			SerialNumber: optString(board.SerialNumber),
		}
		if mb != (inventory.MotherboardInfo{}) {
			node.Motherboard = &mb
		}
	}
	if bios := c.table.BIOS; bios != nil {
		bi := inventory.BIOSInfo{
			Vendor:      optString(bios.Vendor),
			Version:     optString(bios.Version),
			ReleaseDate: optString(bios.ReleaseDate),
		}
		if bi != (inventory.BIOSInfo{}) {
			node.BIOS = &bi
		}
	}

	node.BMC = c.detectBMC(ctx)
	return node
}

func hostname() string {
	if h := readFileTrim(pathProcHostname); h != "" {
		return h
	}
	return "unknown"
}
