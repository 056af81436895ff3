// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package fwtab holds the data-driven descriptor types shared by every table
parser in internal/acpi and internal/smbios: spec.md §3's Field descriptor
and Table-type-length policy, and the 36-byte ACPI common table header and
12-byte Generic Address Structure from spec.md §6's bit-exact format list.
*/
package fwtab

import (
	"fmt"

	"fwts-go/internal/fwcursor"
	"fwts-go/internal/fwutil"
)

// FieldKind is spec.md §3's Field descriptor "kind" enumeration.
type FieldKind int

const (
	KindUInt FieldKind = iota
	KindUIntArray
	KindAsciiFixed
	KindAsciiCStr
	KindEnum
	KindGuid
	KindGas
)

// Field is spec.md §3's Field descriptor.
type Field struct {
	Label          string
	ByteSize       uint8 // 1, 2, 4, or 8
	InStructOffset uint16
	Kind           FieldKind
	EnumTable      []string // populated when Kind == KindEnum
}

// TypeLengthPolicy is spec.md §3's Table-type-length policy, keyed by
// signature and the spec revision advertised in a table's header.
type TypeLengthPolicy struct {
	Signature       string
	MinSpecVersion  uint16
	MaxSpecVersion  uint16
	RequiredLength  uint16
}

// Applies reports whether this policy entry governs the given revision.
func (p TypeLengthPolicy) Applies(revision uint16) bool {
	return revision >= p.MinSpecVersion && (p.MaxSpecVersion == 0 || revision <= p.MaxSpecVersion)
}

// RequiredLengthFor looks up the required structure length for the given
// revision out of a policy table, returning ok=false if none match.
func RequiredLengthFor(policies []TypeLengthPolicy, revision uint16) (length uint16, ok bool) {
	for _, p := range policies {
		if p.Applies(revision) {
			return p.RequiredLength, true
		}
	}
	return 0, false
}

// CommonHeaderLen is the size in bytes of the ACPI common table header
// (spec.md §6): signature(4)+length(4)+
// revision(1)+checksum(1)+oemid(6)+oemtableid(8)+oemrevision(4)+
// creatorid(4)+creatorrevision(4) = 36 bytes.
const CommonHeaderLen = 36

// CommonHeader is the decoded 36-byte ACPI common table header shared by
// every full-size ACPI table (everything except RSDP and FACS, which have
// their own fixed layouts).
type CommonHeader struct {
	Signature       string
	Length          uint32
	Revision        uint8
	Checksum        uint8
	OEMID           string
	OEMTableID      string
	OEMRevision     uint32
	CreatorID       uint32
	CreatorRevision uint32
}

// ReadCommonHeader decodes the 36-byte ACPI common table header at the
// start of the cursor, per spec.md §4.D step 1.
func ReadCommonHeader(c *fwcursor.Cursor) (CommonHeader, error) {
	var h CommonHeader
	sig, err := c.PeekAsciiFixed(0, 4)
	if err != nil {
		return h, err
	}
	length, err := c.ReadU32At(4)
	if err != nil {
		return h, err
	}
	revision, err := c.ReadU8At(8)
	if err != nil {
		return h, err
	}
	checksum, err := c.ReadU8At(9)
	if err != nil {
		return h, err
	}
	oemid, err := c.PeekAsciiFixed(10, 6)
	if err != nil {
		return h, err
	}
	oemTableID, err := c.PeekAsciiFixed(16, 8)
	if err != nil {
		return h, err
	}
	oemRev, err := c.ReadU32At(24)
	if err != nil {
		return h, err
	}
	creatorID, err := c.ReadU32At(28)
	if err != nil {
		return h, err
	}
	creatorRev, err := c.ReadU32At(32)
	if err != nil {
		return h, err
	}
	h = CommonHeader{
		Signature:       sig,
		Length:          length,
		Revision:        revision,
		Checksum:        checksum,
		OEMID:           oemid,
		OEMTableID:      oemTableID,
		OEMRevision:     oemRev,
		CreatorID:       creatorID,
		CreatorRevision: creatorRev,
	}
	return h, nil
}

// GenericAddress is spec.md §6's 12-byte ACPI Generic Address Structure.
type GenericAddress struct {
	AddressSpaceID   uint8
	RegisterBitWidth uint8
	RegisterBitOffset uint8
	AccessSize       uint8
	Address          uint64
}

// GasLen is the byte size of a Generic Address Structure.
const GasLen = 12

// ReadGAS decodes a 12-byte Generic Address Structure at offset.
func ReadGAS(c *fwcursor.Cursor, offset int) (GenericAddress, error) {
	var g GenericAddress
	spaceID, err := c.ReadU8At(offset)
	if err != nil {
		return g, err
	}
	bitWidth, err := c.ReadU8At(offset + 1)
	if err != nil {
		return g, err
	}
	bitOffset, err := c.ReadU8At(offset + 2)
	if err != nil {
		return g, err
	}
	accessSize, err := c.ReadU8At(offset + 3)
	if err != nil {
		return g, err
	}
	addr, err := c.ReadU64At(offset + 4)
	if err != nil {
		return g, err
	}
	g = GenericAddress{
		AddressSpaceID:    spaceID,
		RegisterBitWidth:  bitWidth,
		RegisterBitOffset: bitOffset,
		AccessSize:        accessSize,
		Address:           addr,
	}
	return g, nil
}

// KnownGASAddressSpaceIDs is the `space_id` allowed set for GAS fields, per
// the ACPI specification's Address Space ID table.
var KnownGASAddressSpaceIDs = []uint64{
	0x00, // System Memory
	0x01, // System I/O
	0x02, // PCI Configuration Space
	0x03, // Embedded Controller
	0x04, // SMBus
	0x05, // System CMOS
	0x06, // PCI BAR Target
	0x07, // IPMI
	0x08, // General Purpose I/O
	0x09, // Generic Serial Bus
	0x0A, // Platform Communications Channel
	0x0B, // Platform Runtime Mechanism
	0x7F, // Functional Fixed Hardware
}

// HeaderFingerprint returns a short identifying string for logs, e.g.
// "FADT rev 6 (ACME1.2, len 276)".
func HeaderFingerprint(h CommonHeader) string {
	return fmt.Sprintf("%s rev %d (%s, len %d)", h.Signature, h.Revision, h.OEMTableID, h.Length)
}

// ChecksumOverDeclaredLength applies the unsigned-byte-sum checksum over
// exactly DeclaredLength bytes of a blob, per spec.md §4.D step 1.
func ChecksumOverDeclaredLength(data []byte, declaredLength uint32) bool {
	n := int(declaredLength)
	if n > len(data) {
		n = len(data)
	}
	return fwutil.ChecksumOK(data[:n])
}
