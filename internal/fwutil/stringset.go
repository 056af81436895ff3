package fwutil

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import mapset "github.com/deckarep/golang-set/v2"

// EnumLookup looks a value up in a compile-time enumeration table, returning
// def if the value is not present. Grounded on spec.md §4.G's "Enumerated-
// string lookup: (value, table, default)".
func EnumLookup(value int, table []string, def string) string {
	if value < 0 || value >= len(table) {
		return def
	}
	if table[value] == "" {
		return def
	}
	return table[value]
}

// StringSet is the mapset.Set[string] alias used for the sink's ignore-tag
// membership test. The numeric ID sets (TPM2 algorithm IDs, TPM event types,
// the SBBR mandatory-SMBIOS-type set) use typed mapset sets directly.
type StringSet = mapset.Set[string]

// NewStringSet builds a StringSet from the given members.
func NewStringSet(members ...string) StringSet {
	return mapset.NewSet(members...)
}
