// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// PowerSupplyInfo is one detected power source. Every detection
// strategy contributes its own entries; no cross-source
// deduplication is performed, so one physical unit visible to two
// sources is reported twice.
type PowerSupplyInfo struct {
	Name             *string  `json:"name,omitempty"`
	Manufacturer     *string  `json:"manufacturer,omitempty"`
	Model            *string  `json:"model,omitempty"`
	SerialNumber     *string  `json:"serialNumber,omitempty"`
	PartNumber       *string  `json:"partNumber,omitempty"`
	MaxPowerWatts    *uint32  `json:"maxPowerWatts,omitempty"`
	EfficiencyRating *string  `json:"efficiencyRating,omitempty"`
	Status           *string  `json:"status,omitempty"`
	InputVoltage     *float32 `json:"inputVoltage,omitempty"`
	InputCurrent     *float32 `json:"inputCurrent,omitempty"`
	OutputVoltage    *float32 `json:"outputVoltage,omitempty"`
	OutputCurrent    *float32 `json:"outputCurrent,omitempty"`
	TemperatureC     *int32   `json:"temperatureC,omitempty"`
	FanSpeedRPM      *uint32  `json:"fanSpeedRPM,omitempty"`
}
