// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package dmi reads the SMBIOS firmware table and exposes it as a
// small set of typed records. Loading never fails: when the table is
// unreadable an empty Table is returned so every dependent collector
// can degrade to its next source.
package dmi

import "strings"

// Placeholder strings firmware vendors ship instead of leaving a
// field blank. They are treated as absence everywhere.
var placeholders = map[string]struct{}{
	"Not Specified":          {},
	"To Be Filled By O.E.M.": {},
	"Default string":         {},
	"Not Available":          {},
}

// Clean trims s and maps the well-known firmware placeholder values
// to the empty string.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if _, ok := placeholders[s]; ok {
		return ""
	}
	return s
}

// Table is one parsed firmware table. Slices are in table order.
type Table struct {
	Processors    []ProcessorRecord
	MemoryDevices []MemoryDeviceRecord
	System        *SystemRecord
	Chassis       *ChassisRecord
	Baseboard     *BaseboardRecord
	BIOS          *BIOSRecord

	// caches indexes installed cache sizes by structure handle;
	// processor records reference their caches by handle.
	caches map[uint16]uint32
}

// handleNone is the handle value firmware uses for "no such
// structure", here for processors without a cache at some level.
const handleNone uint16 = 0xffff

// CacheSizeKB resolves a cache structure handle to its installed size
// in kilobytes.
func (t *Table) CacheSizeKB(handle uint16) (uint32, bool) {
	size, ok := t.caches[handle]
	return size, ok
}

// ProcessorRecord is one SMBIOS type 4 structure. String fields are
// placeholder-filtered; zero counts and speeds mean "not reported".
type ProcessorRecord struct {
	SocketDesignation string
	Manufacturer      string
	Version           string
	CoreCount         uint32
	ThreadCount       uint32
	CurrentSpeedMHz   uint32
	MaxSpeedMHz       uint32
	L1CacheHandle     uint16
	L2CacheHandle     uint16
	L3CacheHandle     uint16
}

const (
	// sizeSeeExtended in the megabyte-granularity size field means
	// the real size lives in the extended-size field.
	sizeSeeExtended = 0x7fff

	sizeUnknown = 0xffff

	// sizeKilobyteUnit flags kilobyte instead of megabyte granularity.
	sizeKilobyteUnit = 0x8000
)

// MemoryDeviceRecord is one SMBIOS type 17 structure. RawSize keeps
// the encoded size word so the three encodings (kilobytes, megabytes,
// extended megabytes) can be resolved uniformly.
type MemoryDeviceRecord struct {
	DeviceLocator      string
	MemoryType         string
	Manufacturer       string
	SerialNumber       string
	PartNumber         string
	RawSize            uint16
	ExtendedSizeMB     uint32
	SpeedMTs           uint32
	ConfiguredSpeedMTs uint32
}

// SizeBytes resolves the installed size of the device. Zero means no
// memory installed (or size unknown).
func (m MemoryDeviceRecord) SizeBytes() uint64 {
	switch {
	case m.RawSize == 0 || m.RawSize == sizeUnknown:
		return 0
	case m.RawSize&sizeKilobyteUnit != 0:
		return uint64(m.RawSize&^uint16(sizeKilobyteUnit)) * 1024
	case m.RawSize == sizeSeeExtended:
		if m.ExtendedSizeMB > 0 {
			return uint64(m.ExtendedSizeMB) * 1024 * 1024
		}
		// No extended-size record: fall back to the raw megabyte
		// value rather than dropping the device.
		return uint64(m.RawSize) * 1024 * 1024
	default:
		return uint64(m.RawSize) * 1024 * 1024
	}
}

type SystemRecord struct {
	Manufacturer string
	ProductName  string
	SerialNumber string
	SKUNumber    string
}

type ChassisRecord struct {
	Manufacturer string
	SerialNumber string
}

type BaseboardRecord struct {
	Manufacturer string
	Product      string
	Version      string
	SerialNumber string
}

type BIOSRecord struct {
	Vendor      string
	Version     string
	ReleaseDate string
}
