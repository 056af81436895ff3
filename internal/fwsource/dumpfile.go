package fwsource

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// DumpfileSource parses a user-provided acpidump-style text dump: one
// header-prefixed hex record per table, grounded on
// original_source/src/acpi/acpidump/acpidump.c's output format (see
// SPEC_FULL.md §11). Each record looks like:
//
//	FACP @ 0x000000007ffe1000
//	  0000: 46 41 43 50 84 01 00 00 ...
//
// a signature-and-address header line followed by "offset: hex bytes" lines
// until a blank line or EOF.

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type dumpRecord struct {
	signature string
	address   uint64
	data      []byte
}

// DumpfileSource implements fwsource.Source by reading all records out of a
// single dump file eagerly and serving them from memory. Provenance is
// always FromFile.
type DumpfileSource struct {
	Path    string
	records []dumpRecord
	loaded  bool
}

func (d *DumpfileSource) Name() string { return "dumpfile" }

func (d *DumpfileSource) ensureLoaded() error {
	if d.loaded {
		return nil
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return errors.Wrapf(err, "opening dump file %s", d.Path)
	}
	defer f.Close()

	records, err := parseDumpFile(f)
	if err != nil {
		return errors.Wrapf(err, "parsing dump file %s", d.Path)
	}
	d.records = records
	d.loaded = true
	return nil
}

func parseDumpFile(f *os.File) ([]dumpRecord, error) {
	var records []dumpRecord
	var cur *dumpRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if cur != nil {
				records = append(records, *cur)
				cur = nil
			}
			continue
		}
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			if cur != nil {
				records = append(records, *cur)
			}
			sig, addr, err := parseDumpHeaderLine(trimmed)
			if err != nil {
				return nil, err
			}
			cur = &dumpRecord{signature: sig, address: addr}
			continue
		}
		if cur == nil {
			continue
		}
		bytes, err := parseDumpDataLine(trimmed)
		if err != nil {
			return nil, err
		}
		cur.data = append(cur.data, bytes...)
	}
	if cur != nil {
		records = append(records, *cur)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseDumpHeaderLine(line string) (sig string, addr uint64, err error) {
	parts := strings.Fields(line)
	if len(parts) < 3 || parts[1] != "@" {
		return "", 0, fmt.Errorf("malformed dump header line: %q", line)
	}
	sig = parts[0]
	addrStr := strings.TrimPrefix(parts[2], "0x")
	v, err := strconv.ParseUint(addrStr, 16, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed address in dump header line: %q", line)
	}
	return sig, v, nil
}

func parseDumpDataLine(line string) ([]byte, error) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return nil, fmt.Errorf("malformed dump data line: %q", line)
	}
	hexPart := strings.TrimSpace(line[idx+1:])
	fields := strings.Fields(hexPart)
	out := make([]byte, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			// stop at the first non-hex field (acpidump trails an ASCII column)
			break
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func (d *DumpfileSource) ListAvailableTables() ([]TableRef, error) {
	if err := d.ensureLoaded(); err != nil {
		return nil, err
	}
	counts := make(map[string]uint32)
	refs := make([]TableRef, 0, len(d.records))
	for i, r := range d.records {
		instance := counts[r.signature]
		counts[r.signature]++
		refs = append(refs, TableRef{Signature: r.signature, Instance: instance, Handle: i})
	}
	return refs, nil
}

func (d *DumpfileSource) ReadBytes(ref TableRef) ([]byte, uint32, Provenance, uint64, error) {
	if err := d.ensureLoaded(); err != nil {
		return nil, 0, FromFile, 0, err
	}
	idx, ok := ref.Handle.(int)
	if !ok || idx < 0 || idx >= len(d.records) {
		return nil, 0, FromFile, 0, fmt.Errorf("dumpfile source: invalid handle for %s", ref.Signature)
	}
	rec := d.records[idx]
	return rec.data, uint32(len(rec.data)), FromFile, rec.address, nil
}
