package fwsource

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

// SysfsSource reads ACPI tables from /sys/firmware/acpi/tables and SMBIOS
// from /sys/firmware/dmi/tables, per spec.md §4.C priority (1) and (2) and
// SPEC_FULL.md §11. Declared length is the file size; provenance is always
// FromFirmware since sysfs exposes the running platform's real tables.
type SysfsSource struct {
	AcpiRoot string // default "/sys/firmware/acpi/tables"
	DmiRoot  string // default "/sys/firmware/dmi/tables"
}

var dynamicInstanceRe = regexp.MustCompile(`^([A-Z0-9]{4})(\d+)$`)

func (s *SysfsSource) Name() string { return "sysfs" }

func (s *SysfsSource) acpiRoot() string {
	if s.AcpiRoot != "" {
		return s.AcpiRoot
	}
	return "/sys/firmware/acpi/tables"
}

func (s *SysfsSource) dmiRoot() string {
	if s.DmiRoot != "" {
		return s.DmiRoot
	}
	return "/sys/firmware/dmi/tables"
}

// ListAvailableTables enumerates plain per-table files and the
// dynamic/{NAME}N files used for repeated tables like SSDT, plus the single
// packed DMI blob if present.
func (s *SysfsSource) ListAvailableTables() ([]TableRef, error) {
	var refs []TableRef
	entries, err := os.ReadDir(s.acpiRoot())
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.acpiRoot())
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) == 4 {
			refs = append(refs, TableRef{Signature: name, Instance: 0, Handle: filepath.Join(s.acpiRoot(), name)})
		}
	}
	dynDir := filepath.Join(s.acpiRoot(), "dynamic")
	if dynEntries, err := os.ReadDir(dynDir); err == nil {
		for _, e := range dynEntries {
			m := dynamicInstanceRe.FindStringSubmatch(e.Name())
			if m == nil {
				continue
			}
			instance, _ := strconv.Atoi(m[2])
			refs = append(refs, TableRef{Signature: m[1], Instance: uint32(instance), Handle: filepath.Join(dynDir, e.Name())})
		}
	}
	if exists, _ := fileExists(filepath.Join(s.dmiRoot(), "DMI")); exists {
		refs = append(refs, TableRef{Signature: "DMI", Instance: 0, Handle: filepath.Join(s.dmiRoot(), "DMI")})
	}
	return refs, nil
}

func (s *SysfsSource) ReadBytes(ref TableRef) ([]byte, uint32, Provenance, uint64, error) {
	path, ok := ref.Handle.(string)
	if !ok {
		return nil, 0, FromFirmware, 0, fmt.Errorf("sysfs source: invalid handle for %s", ref.Signature)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, FromFirmware, 0, errors.Wrapf(err, "reading %s", path)
	}
	return data, uint32(len(data)), FromFirmware, 0, nil
}

// ReadEntryPoint reads the SMBIOS entry-point anchor structure that
// accompanies the packed DMI table, needed by internal/smbios to determine
// v2 vs v3 layout and the table's base/length (spec.md §4.D.1).
func (s *SysfsSource) ReadEntryPoint() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dmiRoot(), "smbios_entry_point"))
	if err != nil {
		return nil, errors.Wrap(err, "reading smbios_entry_point")
	}
	return data, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
