// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// Synthetic block devices that never describe physical storage.
var excludedDiskPrefixes = []string{"loop", "ram", "dm-", "zram"}

// CollectDisks enumerates physical block devices from the kernel
// device tree. Devices without a device node are skipped entirely.
func (c *Collector) CollectDisks(ctx context.Context) []inventory.DiskInfo {
	disks := []inventory.DiskInfo{}

	entries, err := os.ReadDir(pathSysBlock)
	if err != nil {
		return disks
	}

	for _, entry := range entries {
		name := entry.Name()
		if hasAnyPrefix(name, excludedDiskPrefixes) {
			continue
		}
		devPath := filepath.Join(pathDev, name)
		if _, err := os.Stat(devPath); err != nil {
			continue
		}
		disks = append(disks, c.collectDisk(ctx, name, filepath.Join(pathSysBlock, name), devPath))
	}
	return disks
}

func (c *Collector) collectDisk(ctx context.Context, name, sysPath, devPath string) inventory.DiskInfo {
	disk := inventory.DiskInfo{Name: name, DevPath: devPath}
	deviceDir := filepath.Join(sysPath, "device")

	disk.Model = optString(readFileTrim(filepath.Join(deviceDir, "model")))
	serial := readFileTrim(filepath.Join(deviceDir, "serial"))

	if sectors, ok := readFileUint64(filepath.Join(sysPath, "size")); ok {
		disk.SizeBytes = ptr.To(sectors * 512)
	}
	if rot, ok := readFileUint64(filepath.Join(sysPath, "queue", "rotational")); ok {
		disk.Rotational = ptr.To(rot == 1)
	}

	var busType, firmware string
	if strings.HasPrefix(name, "nvme") {
		busType = "nvme"
		// Namespace attributes live on the owning controller:
		// nvme0n1 reads from /sys/class/nvme/nvme0.
		controllerPath := filepath.Join(pathSysClassNvme, nvmeControllerName(name))
		firmware = readFileTrim(filepath.Join(controllerPath, "firmware_rev"))
		if serial == "" {
			serial = readFileTrim(filepath.Join(controllerPath, "serial"))
		}
	} else {
		busType = c.detectBusType(ctx, deviceDir, devPath)
	}

	if firmware == "" {
		firmware = c.toolFirmwareVersion(ctx, devPath, busType)
	}
	if serial == "" {
		serial = c.toolSerialNumber(ctx, devPath, busType)
	}

	disk.BusType = optString(busType)
	disk.FirmwareVersion = optString(firmware)
	disk.Serial = optString(serial)
	disk.SMART = c.collectSMART(ctx, devPath, busType)
	return disk
}

// nvmeControllerName strips the namespace suffix from an NVMe block
// device name: nvme0n1 -> nvme0, nvme12n3 -> nvme12.
func nvmeControllerName(name string) string {
	rest := strings.TrimPrefix(name, "nvme")
	for i, r := range rest {
		if r < '0' || r > '9' {
			return "nvme" + rest[:i]
		}
	}
	return name
}

// detectBusType resolves the attachment class of a non-NVMe device
// from the subsystem symlink, with a udev property fallback.
func (c *Collector) detectBusType(ctx context.Context, deviceDir, devPath string) string {
	if link, err := os.Readlink(filepath.Join(deviceDir, "subsystem")); err == nil {
		if name := filepath.Base(link); name != "" && name != "." {
			return name
		}
	}

	out, err := c.run.Run(ctx, "udevadm", "info", "--query=property", "--name", devPath)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		if rest, ok := strings.CutPrefix(line, "ID_BUS="); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// smartctlInfoArgs builds the identify argument vector; NVMe devices
// need the -d nvme device-type flag.
func smartctlInfoArgs(flag, devPath, busType string) []string {
	args := []string{flag}
	if busType == "nvme" {
		args = append(args, "-d", "nvme")
	}
	return append(args, devPath)
}

func (c *Collector) toolFirmwareVersion(ctx context.Context, devPath, busType string) string {
	if out, err := c.run.Run(ctx, "smartctl", smartctlInfoArgs("-i", devPath, busType)...); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Firmware Version:") || strings.HasPrefix(line, "Firmware Revision:") {
				if v := valueAfterColon(line); v != "" {
					return v
				}
			}
		}
	}

	// hdparm only speaks ATA; never point it at NVMe namespaces.
	if busType == "scsi" {
		if out, err := c.run.Run(ctx, "hdparm", "-I", devPath); err == nil {
			for _, line := range strings.Split(string(out), "\n") {
				if strings.Contains(line, "Firmware Revision:") || strings.Contains(line, "FW Revision:") {
					if v := valueAfterColon(line); v != "" {
						return v
					}
				}
			}
		}
	}
	return ""
}

func (c *Collector) toolSerialNumber(ctx context.Context, devPath, busType string) string {
	if out, err := c.run.Run(ctx, "smartctl", smartctlInfoArgs("-i", devPath, busType)...); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Serial Number:") || strings.HasPrefix(line, "Serial number:") {
				if v := valueAfterColon(line); v != "" {
					return v
				}
			}
		}
	}

	if busType == "scsi" {
		if out, err := c.run.Run(ctx, "hdparm", "-I", devPath); err == nil {
			for _, line := range strings.Split(string(out), "\n") {
				if strings.Contains(line, "Serial Number:") {
					if v := valueAfterColon(line); v != "" {
						return v
					}
				}
			}
		}
	}
	return ""
}

// collectSMART reports the SMART health verdict: exactly PASSED,
// FAILED, or absent. Ambiguous tool output yields an absent verdict,
// never a guess. Note that smartctl exits non-zero on a failing
// drive, so an actual FAILED verdict usually arrives through the
// error path and stays absent.
func (c *Collector) collectSMART(ctx context.Context, devPath, busType string) *inventory.SMARTInfo {
	if out, err := c.run.Run(ctx, "smartctl", smartctlInfoArgs("-H", devPath, busType)...); err == nil {
		text := string(out)
		smart := &inventory.SMARTInfo{}
		switch {
		case strings.Contains(text, "PASSED"):
			smart.Health = ptr.To("PASSED")
		case strings.Contains(text, "FAILED"):
			smart.Health = ptr.To("FAILED")
		}
		return smart
	}

	if busType == "nvme" {
		if _, err := c.run.Run(ctx, "nvme", "smart-log", devPath); err == nil {
			// nvme-cli has no simple pass/fail verdict.
			return &inventory.SMARTInfo{}
		}
	}
	return nil
}
