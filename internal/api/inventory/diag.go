// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// GPUErrorInfo is the per-device error report produced by the NVML
// diagnostics. Unlike the inventory categories, these are only
// produced when the management library is available.
type GPUErrorInfo struct {
	DeviceIndex       uint32          `json:"deviceIndex"`
	DeviceName        string          `json:"deviceName"`
	DeviceUUID        *string         `json:"deviceUUID,omitempty"`
	ECCErrors         *ECCErrorCounts `json:"eccErrors,omitempty"`
	RetiredPages      *uint32         `json:"retiredPages,omitempty"`
	ThermalViolations *string         `json:"thermalViolations,omitempty"`
	PowerViolations   *string         `json:"powerViolations,omitempty"`
	HasErrors         bool            `json:"hasErrors"`
}

type ECCErrorCounts struct {
	CorrectedVolatile    uint64 `json:"correctedVolatile"`
	UncorrectedVolatile  uint64 `json:"uncorrectedVolatile"`
	CorrectedAggregate   uint64 `json:"correctedAggregate"`
	UncorrectedAggregate uint64 `json:"uncorrectedAggregate"`
	HasErrors            bool   `json:"hasErrors"`
}

type GPUHealthInfo struct {
	DeviceIndex              uint32   `json:"deviceIndex"`
	DeviceName               string   `json:"deviceName"`
	DeviceUUID               *string  `json:"deviceUUID,omitempty"`
	TemperatureCelsius       *uint32  `json:"temperatureCelsius,omitempty"`
	PowerUsageWatts          *uint32  `json:"powerUsageWatts,omitempty"`
	PowerLimitWatts          *uint32  `json:"powerLimitWatts,omitempty"`
	FanSpeedPercent          *uint32  `json:"fanSpeedPercent,omitempty"`
	UtilizationGPUPercent    *uint32  `json:"utilizationGPUPercent,omitempty"`
	UtilizationMemoryPercent *uint32  `json:"utilizationMemoryPercent,omitempty"`
	MemoryUsedMB             *uint32  `json:"memoryUsedMB,omitempty"`
	MemoryTotalMB            *uint32  `json:"memoryTotalMB,omitempty"`
	ClockGraphicsMHz         *uint32  `json:"clockGraphicsMHz,omitempty"`
	ClockMemoryMHz           *uint32  `json:"clockMemoryMHz,omitempty"`
	ThrottleReasons          []string `json:"throttleReasons"`
	PerformanceState         *string  `json:"performanceState,omitempty"`
}
