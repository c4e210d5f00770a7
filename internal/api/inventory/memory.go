// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// MemoryInfo lists the physically populated memory slots. TotalBytes
// always equals the sum of the emitted DIMM sizes.
type MemoryInfo struct {
	TotalBytes *uint64    `json:"totalBytes,omitempty"`
	DIMMs      []DIMMInfo `json:"dimms"`
}

type DIMMInfo struct {
	Slot         *string `json:"slot,omitempty"`
	SizeBytes    *uint64 `json:"sizeBytes,omitempty"`
	MemType      *string `json:"memType,omitempty"`
	SpeedMTs     *uint32 `json:"speedMTs,omitempty"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	PartNumber   *string `json:"partNumber,omitempty"`
}
