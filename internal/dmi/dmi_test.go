// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package dmi

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Clean", func() {
	It("passes ordinary values through trimmed", func() {
		Expect(Clean("  PowerEdge R640 ")).To(Equal("PowerEdge R640"))
	})

	It("maps firmware placeholders to empty", func() {
		Expect(Clean("Not Specified")).To(BeEmpty())
		Expect(Clean("To Be Filled By O.E.M.")).To(BeEmpty())
		Expect(Clean("Default string")).To(BeEmpty())
		Expect(Clean("Not Available")).To(BeEmpty())
	})

	It("maps whitespace-only values to empty", func() {
		Expect(Clean("   ")).To(BeEmpty())
	})
})

var _ = Describe("MemoryDeviceRecord size resolution", func() {
	It("returns zero for empty and unknown slots", func() {
		Expect(MemoryDeviceRecord{RawSize: 0}.SizeBytes()).To(BeZero())
		Expect(MemoryDeviceRecord{RawSize: 0xffff}.SizeBytes()).To(BeZero())
	})

	It("resolves kilobyte-granularity sizes", func() {
		// Bit 15 set: value is in kilobytes.
		rec := MemoryDeviceRecord{RawSize: 0x8000 | 512}
		Expect(rec.SizeBytes()).To(Equal(uint64(512 * 1024)))
	})

	It("resolves megabyte-granularity sizes", func() {
		rec := MemoryDeviceRecord{RawSize: 16384}
		Expect(rec.SizeBytes()).To(Equal(uint64(16384) * 1024 * 1024))
	})

	It("follows the see-extended sentinel to the extended field", func() {
		rec := MemoryDeviceRecord{RawSize: 0x7fff, ExtendedSizeMB: 65536}
		Expect(rec.SizeBytes()).To(Equal(uint64(65536) * 1024 * 1024))
	})

	It("falls back to the raw megabyte value when the sentinel has no extended record", func() {
		rec := MemoryDeviceRecord{RawSize: 0x7fff}
		Expect(rec.SizeBytes()).To(Equal(uint64(0x7fff) * 1024 * 1024))
	})
})

var _ = Describe("Table cache index", func() {
	It("resolves known handles and rejects unknown ones", func() {
		t := NewTable(nil, nil, map[uint16]uint32{0x0701: 1024})

		size, ok := t.CacheSizeKB(0x0701)
		Expect(ok).To(BeTrue())
		Expect(size).To(Equal(uint32(1024)))

		_, ok = t.CacheSizeKB(0x0702)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("cacheKB", func() {
	It("decodes 1K granularity", func() {
		Expect(cacheKB(256)).To(Equal(uint32(256)))
	})

	It("decodes 64K granularity", func() {
		Expect(cacheKB(0x8000 | 512)).To(Equal(uint32(512 * 64)))
	})

	It("returns zero for no cache", func() {
		Expect(cacheKB(0)).To(BeZero())
	})
})

var _ = Describe("wideCount", func() {
	It("prefers the narrow field when meaningful", func() {
		Expect(wideCount(8, 0)).To(Equal(uint32(8)))
	})

	It("defers to the wide field on the 0xFF sentinel", func() {
		Expect(wideCount(0xff, 384)).To(Equal(uint32(384)))
	})

	It("keeps the sentinel when the wide field is empty", func() {
		Expect(wideCount(0xff, 0)).To(Equal(uint32(0xff)))
	})
})
