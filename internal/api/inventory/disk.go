// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// DiskInfo is one physical block device with a device node.
type DiskInfo struct {
	Name            string     `json:"name"`
	DevPath         string     `json:"devPath"`
	Model           *string    `json:"model,omitempty"`
	Serial          *string    `json:"serial,omitempty"`
	SizeBytes       *uint64    `json:"sizeBytes,omitempty"`
	Rotational      *bool      `json:"rotational,omitempty"`
	BusType         *string    `json:"busType,omitempty"`
	FirmwareVersion *string    `json:"firmwareVersion,omitempty"`
	SMART           *SMARTInfo `json:"smart,omitempty"`
}

// SMARTInfo carries the SMART health verdict. Health is exactly
// "PASSED", "FAILED", or absent; ambiguous tool output stays absent.
type SMARTInfo struct {
	Health *string `json:"health,omitempty"`
}
