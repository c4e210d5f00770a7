// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"strconv"
	"strings"

	"github.com/jaypipes/ghw"
	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// CollectGPUs scans the PCI bus for display controllers and enriches
// them with vendor tooling where available.
func (c *Collector) CollectGPUs(ctx context.Context) []inventory.GPUInfo {
	gpus := []inventory.GPUInfo{}

	devices, err := c.pciDevices()
	if err != nil {
		c.log.V(1).Info("PCI scan failed", "error", err)
		return gpus
	}

	for _, dev := range devices {
		if !isDisplayController(dev) {
			continue
		}
		gpus = append(gpus, c.gpuFromPCI(dev))
	}

	c.enhanceGPUs(ctx, gpus)
	return gpus
}

// isDisplayController matches PCI class 03 with the VGA, 3D and
// generic display subclasses.
func isDisplayController(dev *ghw.PCIDevice) bool {
	if dev == nil || dev.Class == nil || dev.Subclass == nil {
		return false
	}
	if dev.Class.ID != "03" {
		return false
	}
	switch dev.Subclass.ID {
	case "00", "02", "80":
		return true
	}
	return false
}

func (c *Collector) gpuFromPCI(dev *ghw.PCIDevice) inventory.GPUInfo {
	gpu := inventory.GPUInfo{PCIAddress: optString(dev.Address)}

	var vendorID, deviceID string
	if dev.Vendor != nil {
		vendorID = dev.Vendor.ID
	}
	if dev.Product != nil {
		deviceID = dev.Product.ID
	}

	if vendor, device, ok := c.pci.Resolve(vendorID, deviceID); ok {
		gpu.Vendor = ptr.To(vendor)
		gpu.Model = ptr.To(device)
	} else {
		if dev.Vendor != nil {
			gpu.Vendor = optString(dev.Vendor.Name)
		}
		if dev.Product != nil {
			gpu.Model = optString(dev.Product.Name)
		}
	}
	return gpu
}

func (c *Collector) enhanceGPUs(ctx context.Context, gpus []inventory.GPUInfo) {
	for i := range gpus {
		if gpus[i].Vendor == nil {
			continue
		}
		vendor := strings.ToLower(*gpus[i].Vendor)
		switch {
		case strings.Contains(vendor, "nvidia"):
			c.enhanceNvidiaGPU(ctx, &gpus[i])
		case strings.Contains(vendor, "amd"), strings.Contains(vendor, "ati"):
			c.enhanceAMDGPU(ctx, &gpus[i])
		}
	}
}

func (c *Collector) enhanceNvidiaGPU(ctx context.Context, gpu *inventory.GPUInfo) {
	out, err := c.run.Run(ctx, "nvidia-smi",
		"--query-gpu=name,memory.total,driver_version,uuid",
		"--format=csv,noheader,nounits")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(out), "\n") {
		parts := strings.Split(line, ",")
		if len(parts) < 4 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if gpu.Model == nil || !gpuModelsMatch(parts[0], *gpu.Model) {
			continue
		}
		if vram, err := strconv.ParseUint(parts[1], 10, 32); err == nil {
			gpu.VRAMMB = ptr.To(uint32(vram))
		}
		gpu.DriverVersion = optString(parts[2])
		gpu.UUID = optString(parts[3])
		return
	}
}

func (c *Collector) enhanceAMDGPU(ctx context.Context, gpu *inventory.GPUInfo) {
	out, err := c.run.Run(ctx, "rocm-smi", "--showproductname", "--showmeminfo")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "Memory") || !strings.Contains(line, "MB") {
			continue
		}
		for _, field := range strings.Fields(line) {
			if !isAllDigits(field) {
				continue
			}
			if vram, err := strconv.ParseUint(field, 10, 32); err == nil {
				gpu.VRAMMB = ptr.To(uint32(vram))
			}
			break
		}
	}
}

// gpuModelsMatch fuzzily matches a tool-reported GPU name against a
// PCI database name: any tool token longer than three characters found
// inside a database token counts as a match.
func gpuModelsMatch(toolName, pciName string) bool {
	toolParts := strings.Fields(strings.ToLower(toolName))
	pciParts := strings.Fields(strings.ToLower(pciName))
	for _, toolPart := range toolParts {
		if len(toolPart) <= 3 {
			continue
		}
		for _, pciPart := range pciParts {
			if strings.Contains(pciPart, toolPart) {
				return true
			}
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
