// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

type NodeInfo struct {
	Hostname            string           `json:"hostname"`
	Architecture        string           `json:"architecture"`
	ProductName         *string          `json:"productName,omitempty"`
	Manufacturer        *string          `json:"manufacturer,omitempty"`
	SerialNumber        *string          `json:"serialNumber,omitempty"`
	ChassisManufacturer *string          `json:"chassisManufacturer,omitempty"`
	ChassisSerialNumber *string          `json:"chassisSerialNumber,omitempty"`
	Motherboard         *MotherboardInfo `json:"motherboard,omitempty"`
	BIOS                *BIOSInfo        `json:"bios,omitempty"`
	BMC                 *BMCInfo         `json:"bmc,omitempty"`
}

type MotherboardInfo struct {
	Manufacturer *string `json:"manufacturer,omitempty"`
	ProductName  *string `json:"productName,omitempty"`
	Version      *string `json:"version,omitempty"`
	SerialNumber *string `json:"serialNumber,omitempty"`
}

type BIOSInfo struct {
	Vendor      *string `json:"vendor,omitempty"`
	Version     *string `json:"version,omitempty"`
	ReleaseDate *string `json:"releaseDate,omitempty"`
}

// BMCInfo describes the node's management controller. At most one is
// reported, populated by the first detection strategy that succeeds.
type BMCInfo struct {
	IPAddress       *string `json:"ipAddress,omitempty"`
	MACAddress      *string `json:"macAddress,omitempty"`
	FirmwareVersion *string `json:"firmwareVersion,omitempty"`
	ReleaseDate     *string `json:"releaseDate,omitempty"`
}
