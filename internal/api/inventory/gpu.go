// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// GPUInfo is one PCI device classified as a display controller.
// Vendor and model come from the PCI ID database; VRAM, driver and
// UUID are best-effort enrichment from vendor tooling.
type GPUInfo struct {
	Vendor        *string `json:"vendor,omitempty"`
	Model         *string `json:"model,omitempty"`
	PCIAddress    *string `json:"pciAddress,omitempty"`
	VRAMMB        *uint32 `json:"vramMB,omitempty"`
	DriverVersion *string `json:"driverVersion,omitempty"`
	UUID          *string `json:"uuid,omitempty"`
}
