// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package pciids resolves numeric PCI vendor/device identifiers to
// human-readable names using the static hardware ID database.
package pciids

import (
	"fmt"
	"strings"

	"github.com/jaypipes/pcidb"
)

// Resolver answers vendor/device name lookups. Implementations must
// never fail a lookup for a known vendor: unknown devices get a
// synthesized label instead.
type Resolver interface {
	// Resolve maps hex vendor/device IDs (with or without the "0x"
	// prefix) to names. ok is false only when the vendor itself is
	// unknown or the database is unavailable.
	Resolve(vendorID, deviceID string) (vendor, device string, ok bool)
}

type dbResolver struct {
	db *pcidb.PCIDB
}

// New loads the PCI ID database once. A missing or unreadable
// database yields a resolver that answers every lookup with ok=false
// rather than an error.
func New() Resolver {
	db, err := pcidb.New()
	if err != nil {
		return &dbResolver{}
	}
	return &dbResolver{db: db}
}

func (r *dbResolver) Resolve(vendorID, deviceID string) (string, string, bool) {
	if r.db == nil {
		return "", "", false
	}

	vendorKey := normalizeID(vendorID)
	deviceKey := normalizeID(deviceID)
	if vendorKey == "" || deviceKey == "" {
		return "", "", false
	}

	vendor, ok := r.db.Vendors[vendorKey]
	if !ok {
		return "", "", false
	}

	for _, product := range vendor.Products {
		if product.ID == deviceKey {
			return vendor.Name, product.Name, true
		}
	}
	return vendor.Name, UnknownDeviceLabel(deviceKey), true
}

// UnknownDeviceLabel is the name reported for a device ID the
// database does not know under an otherwise known vendor.
func UnknownDeviceLabel(deviceID string) string {
	return fmt.Sprintf("Unknown Device [0x%s]", deviceID)
}

// normalizeID lowercases a hex identifier, strips an optional 0x
// prefix, and left-pads it to the database's four digits.
func normalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "0x")
	if id == "" || len(id) > 4 {
		return ""
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return ""
		}
	}
	return strings.Repeat("0", 4-len(id)) + id
}
