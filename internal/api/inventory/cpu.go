// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package inventory

// CPUInfo aggregates all physical CPU sockets. The totals are sums
// over the sockets that reported a value and are absent, not zero,
// when no socket yielded anything.
type CPUInfo struct {
	Sockets *uint32     `json:"sockets,omitempty"`
	Cores   *uint32     `json:"cores,omitempty"`
	Threads *uint32     `json:"threads,omitempty"`
	CPUs    []CPUSocket `json:"cpus"`
}

// CPUSocket is one physical processor socket. Socket indices are
// assigned ascending in firmware table order, starting at 0.
type CPUSocket struct {
	Socket       uint32  `json:"socket"`
	Manufacturer *string `json:"manufacturer,omitempty"`
	ModelName    *string `json:"modelName,omitempty"`
	NumCores     *uint32 `json:"numCores,omitempty"`
	NumThreads   *uint32 `json:"numThreads,omitempty"`
	CapacityMHz  *uint32 `json:"capacityMHz,omitempty"`
	Slot         *string `json:"slot,omitempty"`
	L1CacheKB    *uint32 `json:"l1CacheKB,omitempty"`
	L2CacheKB    *uint32 `json:"l2CacheKB,omitempty"`
	L3CacheKB    *uint32 `json:"l3CacheKB,omitempty"`
}
