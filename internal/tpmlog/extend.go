// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package tpmlog

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// ExtendPCR computes the PCR value that results from extending current
// with eventDigest under alg: hash(current || eventDigest). This mirrors
// what firmware does on every measurement, letting a verifier replay a log
// against a reported PCR bank without trusting the platform's own replay.
// It is a pure function: equal inputs always produce equal outputs.
func ExtendPCR(alg uint16, current, eventDigest []byte) ([]byte, error) {
	size, ok := digestSize(alg)
	if !ok {
		return nil, fmt.Errorf("tpmlog: no known digest size for algorithm 0x%04x", alg)
	}
	if len(current) != size {
		return nil, fmt.Errorf("tpmlog: current PCR value is %d bytes, want %d for algorithm 0x%04x", len(current), size, alg)
	}
	if len(eventDigest) != size {
		return nil, fmt.Errorf("tpmlog: event digest is %d bytes, want %d for algorithm 0x%04x", len(eventDigest), size, alg)
	}

	var h hash.Hash
	switch alg {
	case AlgSHA1:
		h = sha1.New()
	case AlgSHA256:
		h = sha256.New()
	case AlgSHA384:
		h = sha512.New384()
	case AlgSHA512:
		h = sha512.New()
	default:
		return nil, fmt.Errorf("tpmlog: extend not implemented for algorithm 0x%04x", alg)
	}
	h.Write(current)
	h.Write(eventDigest)
	return h.Sum(nil), nil
}
