// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package diag runs GPU diagnostics through the NVIDIA management
// library. Unlike the inventory collectors, these hard-fail when the
// library is missing; an unavailable diagnostic must not look like a
// healthy result.
package diag

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"k8s.io/utils/ptr"

	"github.com/fleetable/nodescan/internal/api/inventory"
)

// CollectGPUErrors reports ECC, retired-page and thermal error state
// for every NVML-visible device. Per-device sub-queries degrade to
// absent fields; only library or enumeration failures are errors.
func CollectGPUErrors() ([]inventory.GPUErrorInfo, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("NVIDIA management library unavailable: %s", nvml.ErrorString(ret))
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("counting GPU devices: %s", nvml.ErrorString(ret))
	}

	errorInfos := make([]inventory.GPUErrorInfo, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("opening GPU device %d: %s", i, nvml.ErrorString(ret))
		}
		errorInfos = append(errorInfos, deviceErrors(device, uint32(i)))
	}
	return errorInfos, nil
}

func deviceErrors(device nvml.Device, index uint32) inventory.GPUErrorInfo {
	info := inventory.GPUErrorInfo{
		DeviceIndex: index,
		DeviceName:  deviceName(device, index),
	}
	if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
		info.DeviceUUID = ptr.To(uuid)
	}

	if current, _, ret := device.GetEccMode(); ret == nvml.SUCCESS && current == nvml.FEATURE_ENABLED {
		ecc := eccErrorCounts(device)
		if ecc.HasErrors {
			info.HasErrors = true
		}
		info.ECCErrors = &ecc
	}

	var retired uint32
	for _, cause := range []nvml.PageRetirementCause{
		nvml.PAGE_RETIREMENT_CAUSE_MULTIPLE_SINGLE_BIT_ECC_ERRORS,
		nvml.PAGE_RETIREMENT_CAUSE_DOUBLE_BIT_ECC_ERROR,
	} {
		if pages, ret := device.GetRetiredPages(cause); ret == nvml.SUCCESS {
			retired += uint32(len(pages))
		}
	}
	if retired > 0 {
		info.RetiredPages = ptr.To(retired)
		info.HasErrors = true
	}

	if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		if threshold, ret := device.GetTemperatureThreshold(nvml.TEMPERATURE_THRESHOLD_SLOWDOWN); ret == nvml.SUCCESS && temp >= threshold {
			info.ThermalViolations = ptr.To(thermalViolationMessage(temp, threshold))
			info.HasErrors = true
		}
	}
	return info
}

func eccErrorCounts(device nvml.Device) inventory.ECCErrorCounts {
	var ecc inventory.ECCErrorCounts

	if n, ret := device.GetTotalEccErrors(nvml.MEMORY_ERROR_TYPE_CORRECTED, nvml.VOLATILE_ECC); ret == nvml.SUCCESS {
		ecc.CorrectedVolatile = n
	}
	if n, ret := device.GetTotalEccErrors(nvml.MEMORY_ERROR_TYPE_UNCORRECTED, nvml.VOLATILE_ECC); ret == nvml.SUCCESS {
		ecc.UncorrectedVolatile = n
	}
	if n, ret := device.GetTotalEccErrors(nvml.MEMORY_ERROR_TYPE_CORRECTED, nvml.AGGREGATE_ECC); ret == nvml.SUCCESS {
		ecc.CorrectedAggregate = n
	}
	if n, ret := device.GetTotalEccErrors(nvml.MEMORY_ERROR_TYPE_UNCORRECTED, nvml.AGGREGATE_ECC); ret == nvml.SUCCESS {
		ecc.UncorrectedAggregate = n
	}

	// Only session-local counts flag the device; lifetime aggregates
	// accumulate over years of operation.
	ecc.HasErrors = ecc.CorrectedVolatile > 0 || ecc.UncorrectedVolatile > 0
	return ecc
}

// CollectGPUHealth snapshots thermals, power, utilization, memory and
// clocks for every NVML-visible device.
func CollectGPUHealth() ([]inventory.GPUHealthInfo, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("NVIDIA management library unavailable: %s", nvml.ErrorString(ret))
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("counting GPU devices: %s", nvml.ErrorString(ret))
	}

	healthInfos := make([]inventory.GPUHealthInfo, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("opening GPU device %d: %s", i, nvml.ErrorString(ret))
		}
		healthInfos = append(healthInfos, deviceHealth(device, uint32(i)))
	}
	return healthInfos, nil
}

func deviceHealth(device nvml.Device, index uint32) inventory.GPUHealthInfo {
	info := inventory.GPUHealthInfo{
		DeviceIndex:     index,
		DeviceName:      deviceName(device, index),
		ThrottleReasons: []string{},
	}
	if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
		info.DeviceUUID = ptr.To(uuid)
	}

	if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		info.TemperatureCelsius = ptr.To(temp)
	}
	if milliwatts, ret := device.GetPowerUsage(); ret == nvml.SUCCESS {
		info.PowerUsageWatts = ptr.To(milliwatts / 1000)
	}
	if milliwatts, ret := device.GetPowerManagementLimit(); ret == nvml.SUCCESS {
		info.PowerLimitWatts = ptr.To(milliwatts / 1000)
	}
	if speed, ret := device.GetFanSpeed(); ret == nvml.SUCCESS {
		info.FanSpeedPercent = ptr.To(speed)
	}
	if util, ret := device.GetUtilizationRates(); ret == nvml.SUCCESS {
		info.UtilizationGPUPercent = ptr.To(util.Gpu)
		info.UtilizationMemoryPercent = ptr.To(util.Memory)
	}
	if mem, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
		info.MemoryUsedMB = ptr.To(uint32(mem.Used / (1024 * 1024)))
		info.MemoryTotalMB = ptr.To(uint32(mem.Total / (1024 * 1024)))
	}
	if clock, ret := device.GetClockInfo(nvml.CLOCK_GRAPHICS); ret == nvml.SUCCESS {
		info.ClockGraphicsMHz = ptr.To(clock)
	}
	if clock, ret := device.GetClockInfo(nvml.CLOCK_MEM); ret == nvml.SUCCESS {
		info.ClockMemoryMHz = ptr.To(clock)
	}
	if reasons, ret := device.GetCurrentClocksThrottleReasons(); ret == nvml.SUCCESS {
		info.ThrottleReasons = throttleReasonNames(reasons)
	}
	if pstate, ret := device.GetPerformanceState(); ret == nvml.SUCCESS {
		info.PerformanceState = ptr.To(fmt.Sprintf("P%d", int(pstate)))
	}
	return info
}

func deviceName(device nvml.Device, index uint32) string {
	name, ret := device.GetName()
	if ret != nvml.SUCCESS || name == "" {
		return fmt.Sprintf("GPU %d", index)
	}
	return name
}

func thermalViolationMessage(temp, threshold uint32) string {
	return fmt.Sprintf("temperature %d C exceeds slowdown threshold %d C", temp, threshold)
}

var throttleReasonLabels = []struct {
	mask  uint64
	label string
}{
	{nvml.ClocksThrottleReasonGpuIdle, "GPU Idle"},
	{nvml.ClocksThrottleReasonSwThermalSlowdown, "Software Thermal Slowdown"},
	{nvml.ClocksThrottleReasonHwThermalSlowdown, "Hardware Thermal Slowdown"},
	{nvml.ClocksThrottleReasonHwPowerBrakeSlowdown, "Hardware Power Brake Slowdown"},
	{nvml.ClocksThrottleReasonSwPowerCap, "Software Power Cap"},
}

func throttleReasonNames(mask uint64) []string {
	names := []string{}
	for _, reason := range throttleReasonLabels {
		if mask&reason.mask != 0 {
			names = append(names, reason.label)
		}
	}
	return names
}
