// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// Inventory is the full hardware report for one node. Every category
// is always present; data a source could not provide is represented
// by absent (nil) fields, never by dropping the category.
type Inventory struct {
	AgentVersion  string            `json:"agentVersion"`
	Node          NodeInfo          `json:"node"`
	CPU           CPUInfo           `json:"cpu"`
	Memory        MemoryInfo        `json:"memory"`
	Disks         []DiskInfo        `json:"disks"`
	Network       NetworkInfo       `json:"network"`
	GPUs          []GPUInfo         `json:"gpus"`
	PowerSupplies []PowerSupplyInfo `json:"powerSupplies"`
}

// ReportPayload is the body posted to the fleet API's `/inventory`
// endpoint.
type ReportPayload struct {
	Hostname string    `json:"hostname"`
	Data     Inventory `json:"data"`
}
