// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package dmi

import (
	"encoding/binary"
	"strings"

	"github.com/siderolabs/go-smbios/smbios"
)

// Load reads the firmware table from the kernel's well-known paths.
// On any failure it returns an empty table, never an error; dependent
// collectors fall through to their next source.
func Load() *Table {
	sm, err := smbios.New()
	if err != nil {
		return &Table{caches: map[uint16]uint32{}}
	}
	return fromSMBIOS(sm)
}

const (
	typeProcessor = 4
	typeCache     = 7
)

// Raw type 4 fields the typed view does not carry: cache structure
// handles and the SMBIOS 3.0 wide core/thread counts.
type processorRaw struct {
	l1, l2, l3   uint16
	coreCount2   uint16
	threadCount2 uint16
}

func fromSMBIOS(sm *smbios.SMBIOS) *Table {
	t := &Table{caches: map[uint16]uint32{}}

	// The typed views expose neither structure handles nor the fields
	// past SMBIOS 2.x offsets, so cache sizes and per-processor cache
	// handles come from the raw structures. Type 4 raw records appear
	// in the same order as the typed processor view.
	var procRaw []processorRaw
	for _, st := range sm.Structures {
		switch st.Header.Type {
		case typeCache:
			if kb := cacheKB(structWord(st.Formatted, 0x09)); kb > 0 {
				t.caches[st.Header.Handle] = kb
			}
		case typeProcessor:
			procRaw = append(procRaw, processorRaw{
				l1:           structWord(st.Formatted, 0x1a),
				l2:           structWord(st.Formatted, 0x1c),
				l3:           structWord(st.Formatted, 0x1e),
				coreCount2:   structWord(st.Formatted, 0x2a),
				threadCount2: structWord(st.Formatted, 0x2e),
			})
		}
	}

	for i, p := range sm.ProcessorInformation {
		rec := ProcessorRecord{
			SocketDesignation: Clean(p.SocketDesignation),
			Manufacturer:      Clean(p.ProcessorManufacturer),
			Version:           Clean(p.ProcessorVersion),
			CoreCount:         uint32(p.CoreCount),
			ThreadCount:       uint32(p.ThreadCount),
			CurrentSpeedMHz:   uint32(p.CurrentSpeed),
			MaxSpeedMHz:       uint32(p.MaxSpeed),
			L1CacheHandle:     handleNone,
			L2CacheHandle:     handleNone,
			L3CacheHandle:     handleNone,
		}
		if i < len(procRaw) {
			raw := procRaw[i]
			rec.CoreCount = wideCount(p.CoreCount, raw.coreCount2)
			rec.ThreadCount = wideCount(p.ThreadCount, raw.threadCount2)
			rec.L1CacheHandle = raw.l1
			rec.L2CacheHandle = raw.l2
			rec.L3CacheHandle = raw.l3
		}
		t.Processors = append(t.Processors, rec)
	}

	for _, m := range sm.MemoryDevices {
		memType := strings.ToUpper(m.MemoryType.String())
		if memType == "UNKNOWN" {
			memType = ""
		}
		t.MemoryDevices = append(t.MemoryDevices, MemoryDeviceRecord{
			DeviceLocator:      Clean(m.DeviceLocator),
			MemoryType:         memType,
			Manufacturer:       Clean(m.Manufacturer),
			SerialNumber:       Clean(m.SerialNumber),
			PartNumber:         Clean(m.PartNumber),
			RawSize:            uint16(m.Size),
			ExtendedSizeMB:     uint32(m.ExtendedSize),
			SpeedMTs:           uint32(m.Speed),
			ConfiguredSpeedMTs: uint32(m.ConfiguredMemorySpeed),
		})
	}

	t.System = &SystemRecord{
		Manufacturer: Clean(sm.SystemInformation.Manufacturer),
		ProductName:  Clean(sm.SystemInformation.ProductName),
		SerialNumber: Clean(sm.SystemInformation.SerialNumber),
		SKUNumber:    Clean(sm.SystemInformation.SKUNumber),
	}
	t.Chassis = &ChassisRecord{
		Manufacturer: Clean(sm.SystemEnclosure.Manufacturer),
		SerialNumber: Clean(sm.SystemEnclosure.SerialNumber),
	}
	t.Baseboard = &BaseboardRecord{
		Manufacturer: Clean(sm.BaseboardInformation.Manufacturer),
		Product:      Clean(sm.BaseboardInformation.Product),
		Version:      Clean(sm.BaseboardInformation.Version),
		SerialNumber: Clean(sm.BaseboardInformation.SerialNumber),
	}
	t.BIOS = &BIOSRecord{
		Vendor:      Clean(sm.BIOSInformation.Vendor),
		Version:     Clean(sm.BIOSInformation.Version),
		ReleaseDate: Clean(sm.BIOSInformation.ReleaseDate),
	}

	return t
}

// structWord reads a little-endian word from a structure's formatted
// area. The offset is the one from the SMBIOS specification; the
// decoder strips the 4-byte header, so the read is shifted by that
// much. Out-of-range reads return 0, matching how shorter 2.x tables
// simply lack the later fields.
func structWord(formatted []byte, offset int) uint16 {
	i := offset - 4
	if i < 0 || i+2 > len(formatted) {
		return 0
	}
	return binary.LittleEndian.Uint16(formatted[i : i+2])
}

// wideCount resolves the narrow/wide count pair of SMBIOS 3.0
// processor records: 0xFF in the narrow field defers to the wide one.
func wideCount(narrow uint8, wide uint16) uint32 {
	if narrow == 0xff && wide > 0 {
		return uint32(wide)
	}
	return uint32(narrow)
}

// cacheKB decodes an installed-cache-size word: bit 15 selects 64K
// instead of 1K granularity.
func cacheKB(raw uint16) uint32 {
	v := uint32(raw &^ uint16(0x8000))
	if raw&0x8000 != 0 {
		return v * 64
	}
	return v
}

// NewTable builds a Table from pre-parsed records. Tests use it to
// exercise collectors without firmware access.
func NewTable(procs []ProcessorRecord, mem []MemoryDeviceRecord, caches map[uint16]uint32) *Table {
	if caches == nil {
		caches = map[uint16]uint32{}
	}
	return &Table{Processors: procs, MemoryDevices: mem, caches: caches}
}
