/*
NAME
  gf256.go

DESCRIPTION
  gf256.go implements GF(256) arithmetic under the CIRC generator
  polynomial x^8+x^4+x^3+x^2+1 (0x11d), plus exp/log tables for fast
  multiply/divide.

  Per spec §9, the Reed-Solomon primitive is treated as an opaque
  component; no RS library appears anywhere in the retrieved example pack,
  so this is implemented from scratch as spec explicitly allows ("either
  call a mature RS crate/library or implement once with a Berlekamp-Massey
  core").

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

// Package circ implements the CIRC (Cross-Interleaved Reed-Solomon Code)
// C1/C2 codecs: RS(32,28) and RS(28,24) over GF(256), plus the delay-line
// interleave/deinterleave buffers.
package circ

const gfPoly = 0x11d

// expTable[i] = alpha^i, logTable[expTable[i]] = i, for i in [0,255).
var expTable [512]byte
var logTable [256]int

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[x] = i
		x <<= 1
		if x&0x100 != 0 {
			x ^= gfPoly
		}
	}
	for i := 255; i < 512; i++ {
		expTable[i] = expTable[i-255]
	}
}

// gfMul multiplies two GF(256) elements.
func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[logTable[a]+logTable[b]]
}

// gfDiv divides a by b in GF(256); b must be nonzero.
func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return expTable[(logTable[a]-logTable[b]+255)%255]
}

// gfPow returns alpha^e for the primitive element alpha.
func gfPow(base byte, e int) byte {
	if base == 0 {
		return 0
	}
	l := logTable[base] * e
	l = ((l % 255) + 255) % 255
	return expTable[l]
}

// gfInv returns the multiplicative inverse of a (a must be nonzero).
func gfInv(a byte) byte {
	return expTable[(255-logTable[a])%255]
}

// polyEval evaluates poly (coefficients highest-degree first) at x.
func polyEval(poly []byte, x byte) byte {
	var y byte
	if len(poly) > 0 {
		y = poly[0]
	}
	for i := 1; i < len(poly); i++ {
		y = gfMul(y, x) ^ poly[i]
	}
	return y
}
