// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

type NetworkInfo struct {
	Interfaces []NetInterface `json:"interfaces"`
	Routes     []RouteInfo    `json:"routes"`
}

// NetInterface is one physical (non-virtual) NIC, or a bond/team
// master interface, which is tracked even though it has no PCI device.
type NetInterface struct {
	Name            string      `json:"name"`
	MACAddress      *string     `json:"macAddress,omitempty"`
	MTU             *uint32     `json:"mtu,omitempty"`
	SpeedMbps       *uint32     `json:"speedMbps,omitempty"`
	Driver          *string     `json:"driver,omitempty"`
	FirmwareVersion *string     `json:"firmwareVersion,omitempty"`
	VendorName      *string     `json:"vendorName,omitempty"`
	DeviceName      *string     `json:"deviceName,omitempty"`
	PCIAddress      *string     `json:"pciAddress,omitempty"`
	Addresses       []IPAddress `json:"addresses"`

	IsPrimary  bool    `json:"isPrimary"`
	BondGroup  *string `json:"bondGroup,omitempty"`
	BondMaster *string `json:"bondMaster,omitempty"`
}

type IPAddress struct {
	Family  string `json:"family"`
	Address string `json:"address"`
	Prefix  uint8  `json:"prefix"`
}

// RouteInfo references its interface by name only; routes are not
// owned by any NetInterface.
type RouteInfo struct {
	Dst     string `json:"dst"`
	Gateway string `json:"gateway"`
	Iface   string `json:"iface"`
}
