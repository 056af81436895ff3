// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package tpmlog

import mapset "github.com/deckarep/golang-set/v2"

// TPM2 algorithm identifiers, from the TCG algorithm registry, as named by
// the EfiSpecIdEvent digest_sizes table.
const (
	AlgError          uint16 = 0x0000
	AlgRSA            uint16 = 0x0001
	AlgTDES           uint16 = 0x0003
	AlgSHA1           uint16 = 0x0004
	AlgHMAC           uint16 = 0x0005
	AlgAES            uint16 = 0x0006
	AlgMGF1           uint16 = 0x0007
	AlgKeyedHash      uint16 = 0x0008
	AlgXOR            uint16 = 0x000a
	AlgSHA256         uint16 = 0x000b
	AlgSHA384         uint16 = 0x000c
	AlgSHA512         uint16 = 0x000d
	AlgNull           uint16 = 0x0010
	AlgSM3_256        uint16 = 0x0012
	AlgSM4            uint16 = 0x0013
	AlgRSASSA         uint16 = 0x0014
	AlgRSAES          uint16 = 0x0015
	AlgRSAPSS         uint16 = 0x0016
	AlgOAEP           uint16 = 0x0017
	AlgECDSA          uint16 = 0x0018
	AlgECDH           uint16 = 0x0019
	AlgECDAA          uint16 = 0x001a
	AlgSM2            uint16 = 0x001b
	AlgECSchnorr      uint16 = 0x001c
	AlgECMQV          uint16 = 0x001d
	AlgKDF1SP80056A   uint16 = 0x0020
	AlgKDF2           uint16 = 0x0021
	AlgKDF1SP800108   uint16 = 0x0022
	AlgECC            uint16 = 0x0023
	AlgSymCipher      uint16 = 0x0025
	AlgCamellia       uint16 = 0x0026
	AlgCTR            uint16 = 0x0040
	AlgOFB            uint16 = 0x0041
	AlgCBC            uint16 = 0x0042
	AlgCFB            uint16 = 0x0043
	AlgECB            uint16 = 0x0044
)

// knownAlgorithmIDs is the 35-entry enumeration spec.md §4.D.2 validates
// digest_sizes entries against.
var knownAlgorithmIDs = mapset.NewSet[uint16](
	AlgError, AlgRSA, AlgTDES, AlgSHA1, AlgHMAC, AlgAES, AlgMGF1, AlgKeyedHash,
	AlgXOR, AlgSHA256, AlgSHA384, AlgSHA512, AlgNull, AlgSM3_256, AlgSM4,
	AlgRSASSA, AlgRSAES, AlgRSAPSS, AlgOAEP, AlgECDSA, AlgECDH, AlgECDAA,
	AlgSM2, AlgECSchnorr, AlgECMQV, AlgKDF1SP80056A, AlgKDF2, AlgKDF1SP800108,
	AlgECC, AlgSymCipher, AlgCamellia, AlgCTR, AlgOFB, AlgCBC, AlgCFB, AlgECB,
)

// digestSize returns the byte length of alg's digest and whether alg is one
// of the four hash algorithms this decoder understands sizes for.
func digestSize(alg uint16) (int, bool) {
	switch alg {
	case AlgSHA1:
		return 20, true
	case AlgSHA256:
		return 32, true
	case AlgSHA384:
		return 48, true
	case AlgSHA512:
		return 64, true
	default:
		return 0, false
	}
}
