// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package fwsource implements spec.md §3's Blob/provenance data model, §4.C's
table registry and loader, and §6's loader source interface together with
reference Source implementations (sysfs, /dev/mem, dump file, fixup) — see
SPEC_FULL.md §11.
*/
package fwsource

// Provenance records where a blob's bytes came from. Some validations are
// gated on FromFirmware (spec.md §4.C's "Provenance tagging").
type Provenance int

const (
	FromFirmware Provenance = iota
	FromFile
	FromFixup
)

func (p Provenance) String() string {
	switch p {
	case FromFirmware:
		return "FromFirmware"
	case FromFile:
		return "FromFile"
	case FromFixup:
		return "FromFixup"
	default:
		return "Unknown"
	}
}

// Blob is a loaded firmware table with provenance, per spec.md §3. The
// invariant DeclaredLength <= len(Data) is enforced at construction; parsers
// may never index beyond DeclaredLength.
type Blob struct {
	Signature      string
	Data           []byte
	DeclaredLength uint32
	Provenance     Provenance
	BaseAddress    uint64
	InstanceIndex  uint32

	// SourceName identifies which fwsource.Source produced this blob
	// ("sysfs", "dmi", "devmem", "dumpfile", "synthesized"), carried only
	// for diagnostics per SPEC_FULL.md §10 — it does not affect any
	// provenance-gated validation.
	SourceName string
}

// NewBlob constructs a Blob, clamping DeclaredLength to len(data) so the
// core invariant from spec.md §3 always holds even if a caller supplies a
// bogus declared length.
func NewBlob(signature string, data []byte, declaredLength uint32, provenance Provenance, baseAddr uint64, instance uint32, sourceName string) Blob {
	if int(declaredLength) > len(data) {
		declaredLength = uint32(len(data))
	}
	return Blob{
		Signature:      signature,
		Data:           data,
		DeclaredLength: declaredLength,
		Provenance:     provenance,
		BaseAddress:    baseAddr,
		InstanceIndex:  instance,
		SourceName:     sourceName,
	}
}
