package fwsource

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"github.com/pkg/errors"
)

// Registry is spec.md §4.C's table registry. Blobs are immutable once
// loaded and retained for the lifetime of the run.
type Registry struct {
	blobs   []Blob
	sources []Source
}

// NewRegistry builds a Registry backed by sources, which LoadAll consults
// in the given priority order — per
// spec.md §4.C's numbered source list ((1) per-table sysfs directory,
// (2) single packed DMI blob, (3) /dev/mem, (4) dump file, (5) fixup).
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// LoadAll eagerly loads every table every source can produce, skipping a
// (signature, instance) pair already satisfied by a higher-priority source.
func (r *Registry) LoadAll() error {
	seen := make(map[string]bool)
	for _, src := range r.sources {
		refs, err := src.ListAvailableTables()
		if err != nil {
			slog.Warn("source failed to list tables", slog.String("source", src.Name()), slog.String("error", err.Error()))
			continue
		}
		for _, ref := range refs {
			key := refKey(ref)
			if seen[key] {
				continue
			}
			data, declaredLen, prov, base, err := src.ReadBytes(ref)
			if err != nil {
				slog.Warn("source failed to read table", slog.String("source", src.Name()), slog.String("signature", ref.Signature), slog.String("error", err.Error()))
				continue
			}
			seen[key] = true
			r.blobs = append(r.blobs, NewBlob(ref.Signature, data, declaredLen, prov, base, ref.Instance, src.Name()))
		}
	}
	return nil
}

// LoadRequired loads (or synthesises via fixup) every signature in
// required, so dependent tests can run their structural checks even when a
// table is missing, per spec.md §4.C / §7's MissingTable handling.
func (r *Registry) LoadRequired(required []string, fixup Source) error {
	if err := r.LoadAll(); err != nil {
		return err
	}
	if fixup == nil {
		return nil
	}
	for _, sig := range required {
		if _, ok := r.FindBySignature(sig, 0); ok {
			continue
		}
		ref := TableRef{Signature: sig, Instance: 0}
		data, declaredLen, prov, base, err := fixup.ReadBytes(ref)
		if err != nil {
			return errors.Wrapf(err, "fixup source failed to synthesize %s", sig)
		}
		r.blobs = append(r.blobs, NewBlob(sig, data, declaredLen, prov, base, 0, fixup.Name()))
	}
	return nil
}

func refKey(ref TableRef) string {
	return ref.Signature + "#" + itoa(ref.Instance)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// FindBySignature returns the blob with the given signature and instance
// index, if loaded.
func (r *Registry) FindBySignature(name string, instance uint32) (*Blob, bool) {
	for i := range r.blobs {
		if r.blobs[i].Signature == name && r.blobs[i].InstanceIndex == instance {
			return &r.blobs[i], true
		}
	}
	return nil, false
}

// FindAllBySignature returns every loaded instance of a signature (e.g. all
// SSDTs), in load order.
func (r *Registry) FindAllBySignature(name string) []*Blob {
	var out []*Blob
	for i := range r.blobs {
		if r.blobs[i].Signature == name {
			out = append(out, &r.blobs[i])
		}
	}
	return out
}

// IterAll returns every loaded blob.
func (r *Registry) IterAll() []*Blob {
	out := make([]*Blob, len(r.blobs))
	for i := range r.blobs {
		out[i] = &r.blobs[i]
	}
	return out
}

// FindByAddress returns the blob whose BaseAddress matches phys, if any.
func (r *Registry) FindByAddress(phys uint64) (*Blob, bool) {
	for i := range r.blobs {
		if r.blobs[i].BaseAddress == phys && phys != 0 {
			return &r.blobs[i], true
		}
	}
	return nil, false
}

// ReadSMBIOSEntryPoint walks the registry's sources in priority order for
// one that can independently locate the SMBIOS entry-point anchor.
func (r *Registry) ReadSMBIOSEntryPoint() ([]byte, bool) {
	for _, src := range r.sources {
		if epr, ok := src.(EntryPointReader); ok {
			if data, err := epr.ReadEntryPoint(); err == nil {
				return data, true
			}
		}
	}
	return nil, false
}

// ResolvePhysical walks the registry's sources looking for one that can
// resolve an arbitrary physical range — used by BERT to follow its
// boot-error-region pointer (spec.md §6).
func (r *Registry) ResolvePhysical(phys uint64, length uint32) ([]byte, bool) {
	for _, src := range r.sources {
		if pr, ok := src.(PhysicalResolver); ok {
			if data, ok := pr.ResolvePhysical(phys, length); ok {
				return data, true
			}
		}
	}
	return nil, false
}
