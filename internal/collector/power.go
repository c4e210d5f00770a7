// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
	"github.com/fleetable/nodescan/internal/dmi"
)

// CollectPowerSupplies runs every detection strategy and concatenates
// their results. The same physical unit may appear once per strategy
// that sees it.
func (c *Collector) CollectPowerSupplies(ctx context.Context) []inventory.PowerSupplyInfo {
	supplies := []inventory.PowerSupplyInfo{}
	supplies = append(supplies, c.powerFromDmidecode(ctx)...)
	supplies = append(supplies, c.powerFromIPMI(ctx)...)
	supplies = append(supplies, c.powerFromLshw(ctx)...)
	supplies = append(supplies, c.powerFromUPS(ctx)...)
	supplies = append(supplies, c.powerFromSysfs()...)
	return supplies
}

// powerFromDmidecode parses type-39 records from tool output. A
// "Handle" line opens a new record block; only blocks whose
// description names a power supply are emitted.
func (c *Collector) powerFromDmidecode(ctx context.Context) []inventory.PowerSupplyInfo {
	supplies := []inventory.PowerSupplyInfo{}

	out, err := c.run.Run(ctx, "dmidecode", "-t", "power", "-t", "powersupply")
	if err != nil {
		return supplies
	}

	var current inventory.PowerSupplyInfo
	inBlock, isPSU := false, false
	flush := func() {
		if inBlock && isPSU {
			supplies = append(supplies, current)
		}
		current = inventory.PowerSupplyInfo{}
		isPSU = false
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "Handle") {
			flush()
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			if strings.Contains(line, "Power Supply") {
				isPSU = true
			}
			continue
		}
		key = strings.TrimSpace(key)
		value = dmi.Clean(strings.TrimSpace(value))
		if value == "" {
			continue
		}

		switch key {
		case "Manufacturer":
			current.Manufacturer = ptr.To(value)
		case "Model", "Model Part Number":
			current.Model = ptr.To(value)
		case "Serial Number":
			current.SerialNumber = ptr.To(value)
		case "Part Number":
			current.PartNumber = ptr.To(value)
		case "Name":
			current.Name = ptr.To(value)
		case "Max Power Capacity":
			if watts, ok := firstUint32(value); ok {
				current.MaxPowerWatts = ptr.To(watts)
			}
		case "Status":
			current.Status = ptr.To(value)
		}
	}
	flush()
	return supplies
}

// powerFromIPMI lists PSU sensors from the sensor data repository and
// enriches each with its current reading.
func (c *Collector) powerFromIPMI(ctx context.Context) []inventory.PowerSupplyInfo {
	supplies := []inventory.PowerSupplyInfo{}

	out, err := c.run.Run(ctx, "ipmitool", "sdr", "list", "full")
	if err != nil {
		return supplies
	}

	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "power") {
			continue
		}
		if !strings.Contains(lower, "supply") && !strings.Contains(lower, "psu") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		psu := inventory.PowerSupplyInfo{
			Name:   ptr.To(name),
			Status: optString(strings.TrimSpace(parts[2])),
		}
		c.enrichIPMISensor(ctx, name, &psu)
		supplies = append(supplies, psu)
	}
	return supplies
}

func (c *Collector) enrichIPMISensor(ctx context.Context, sensor string, psu *inventory.PowerSupplyInfo) {
	out, err := c.run.Run(ctx, "ipmitool", "sdr", "get", sensor)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "Sensor Reading") {
			continue
		}
		value := valueAfterColon(line)
		switch {
		case strings.Contains(value, "degrees C"):
			if first := strings.Fields(value); len(first) > 0 {
				if temp, err := strconv.ParseInt(first[0], 10, 32); err == nil {
					psu.TemperatureC = ptr.To(int32(temp))
				}
			}
		case strings.Contains(value, "Volts"):
			if first := strings.Fields(value); len(first) > 0 {
				if volts, err := strconv.ParseFloat(first[0], 32); err == nil {
					psu.OutputVoltage = ptr.To(float32(volts))
				}
			}
		}
	}
}

// powerFromLshw only confirms presence; the tool rarely exposes PSU
// details.
func (c *Collector) powerFromLshw(ctx context.Context) []inventory.PowerSupplyInfo {
	out, err := c.run.Run(ctx, "lshw", "-class", "power")
	if err != nil || !strings.Contains(string(out), "power") {
		return nil
	}
	return []inventory.PowerSupplyInfo{{
		Name:   ptr.To("System Power Supply"),
		Status: ptr.To("Present"),
	}}
}

func (c *Collector) powerFromUPS(ctx context.Context) []inventory.PowerSupplyInfo {
	if ups := c.upsFromApcupsd(ctx); ups != nil {
		return []inventory.PowerSupplyInfo{*ups}
	}
	if ups := c.upsFromNUT(ctx); ups != nil {
		return []inventory.PowerSupplyInfo{*ups}
	}
	return nil
}

func (c *Collector) upsFromApcupsd(ctx context.Context) *inventory.PowerSupplyInfo {
	out, err := c.run.Run(ctx, "apcaccess", "status")
	if err != nil {
		return nil
	}

	ups := &inventory.PowerSupplyInfo{
		Name:         ptr.To("UPS"),
		Manufacturer: ptr.To("APC"),
	}
	for _, line := range strings.Split(string(out), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "MODEL":
			ups.Model = optString(value)
		case "SERIALNO":
			ups.SerialNumber = optString(value)
		case "STATUS":
			ups.Status = optString(value)
		case "LINEV":
			if volts, ok := firstFloat32(value); ok {
				ups.InputVoltage = ptr.To(volts)
			}
		case "OUTPUTV":
			if volts, ok := firstFloat32(value); ok {
				ups.OutputVoltage = ptr.To(volts)
			}
		case "ITEMP":
			if first := strings.Fields(value); len(first) > 0 {
				if temp, err := strconv.ParseInt(first[0], 10, 32); err == nil {
					ups.TemperatureC = ptr.To(int32(temp))
				}
			}
		}
	}
	return ups
}

func (c *Collector) upsFromNUT(ctx context.Context) *inventory.PowerSupplyInfo {
	out, err := c.run.Run(ctx, "upsc", "ups")
	if err != nil {
		return nil
	}

	ups := &inventory.PowerSupplyInfo{Name: ptr.To("UPS")}
	for _, line := range strings.Split(string(out), "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "device.mfr":
			ups.Manufacturer = optString(value)
		case "device.model":
			ups.Model = optString(value)
		case "device.serial":
			ups.SerialNumber = optString(value)
		case "ups.status":
			ups.Status = optString(value)
		case "input.voltage":
			if volts, err := strconv.ParseFloat(value, 32); err == nil {
				ups.InputVoltage = ptr.To(float32(volts))
			}
		case "output.voltage":
			if volts, err := strconv.ParseFloat(value, 32); err == nil {
				ups.OutputVoltage = ptr.To(float32(volts))
			}
		case "ups.temperature":
			if temp, err := strconv.ParseInt(value, 10, 32); err == nil {
				ups.TemperatureC = ptr.To(int32(temp))
			}
		}
	}
	return ups
}

// powerFromSysfs walks the power-supply class, skipping batteries and
// AC adapters.
func (c *Collector) powerFromSysfs() []inventory.PowerSupplyInfo {
	supplies := []inventory.PowerSupplyInfo{}

	entries, err := os.ReadDir(pathSysPowerSupply)
	if err != nil {
		return supplies
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "BAT") || strings.HasPrefix(name, "ADP") {
			continue
		}
		psuPath := filepath.Join(pathSysPowerSupply, name)
		supplies = append(supplies, inventory.PowerSupplyInfo{
			Name:         ptr.To(name),
			Status:       optString(readFileTrim(filepath.Join(psuPath, "status"))),
			Manufacturer: optString(readFileTrim(filepath.Join(psuPath, "manufacturer"))),
			Model:        optString(readFileTrim(filepath.Join(psuPath, "model_name"))),
			SerialNumber: optString(readFileTrim(filepath.Join(psuPath, "serial_number"))),
		})
	}
	return supplies
}

func firstUint32(s string) (uint32, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func firstFloat32(s string) (float32, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}
