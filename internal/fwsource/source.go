package fwsource

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// TableRef identifies one discoverable table instance that a Source can
// produce bytes for. Handle is a source-private locator (a file path, a
// physical address, an index into a dump file) opaque to the registry.
type TableRef struct {
	Signature string
	Instance  uint32
	Handle    any
}

// Source is spec.md §6's loader source interface, reduced to the three
// core-facing operations it names: list_available_tables, read_bytes, and
// (optionally) resolve_physical.
type Source interface {
	// Name identifies the source for logs and Blob.SourceName.
	Name() string
	// ListAvailableTables enumerates the (signature, instance, handle)
	// triples this source can currently produce.
	ListAvailableTables() ([]TableRef, error)
	// ReadBytes returns the raw bytes, declared length, provenance, and
	// base physical address (0 if not meaningful) for one table reference.
	ReadBytes(ref TableRef) (data []byte, declaredLength uint32, provenance Provenance, baseAddress uint64, err error)
}

// PhysicalResolver is implemented by sources that can resolve an arbitrary
// physical address range, needed only for BERT's boot-error-region
// follow-pointer (spec.md §4.D's BERT contract).
type PhysicalResolver interface {
	ResolvePhysical(phys uint64, length uint32) ([]byte, bool)
}

// EntryPointReader is implemented by sources that can locate the SMBIOS
// entry-point anchor structure independently of the packed DMI table
// itself (sysfs exposes it as a sibling file; DevmemSource does not
// implement it).
type EntryPointReader interface {
	ReadEntryPoint() ([]byte, error)
}
