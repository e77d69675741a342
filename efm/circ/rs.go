/*
NAME
  rs.go

DESCRIPTION
  rs.go implements a from-scratch Reed-Solomon decoder over GF(256) using a
  Berlekamp-Massey error-locator search plus a Forney-syndrome erasure
  extension, exposed as the opaque primitive spec §9 calls for:
  decode(data[n], erasures[]) -> (correctedCount, erasurePositions).

LICENSE
  Copyright (C) 2026 the ld-decode-go contributors.
*/

package circ

import "fmt"

// Codec is a Reed-Solomon codec over GF(256) for an (n,k) code: n total
// symbols, k data symbols, n-k parity symbols.
type Codec struct {
	N, K int
	nsym int // Number of parity symbols, n-k.
}

// NewCodec returns a Codec for the given (n,k).
func NewCodec(n, k int) *Codec {
	return &Codec{N: n, K: k, nsym: n - k}
}

// syndromes computes the 2t syndromes of msg (length n, highest-degree
// coefficient first).
func (c *Codec) syndromes(msg []byte) []byte {
	synd := make([]byte, c.nsym)
	for i := 0; i < c.nsym; i++ {
		synd[i] = polyEval(msg, gfPow(2, i))
	}
	return synd
}

// errataLocator builds the erasure locator polynomial from 0-based erasure
// positions (indices into msg, 0 = first/highest-degree symbol).
func (c *Codec) errataLocator(erasurePos []int) []byte {
	e := []byte{1}
	for _, pos := range erasurePos {
		xi := gfPow(2, c.N-1-pos)
		term := []byte{gfMul(xi, 1), 1} // (1 + Xi*x) in highest-first order handled via polyMulSimple.
		e = polyMulErasure(e, xi)
		_ = term
	}
	return e
}

// polyMulErasure multiplies poly (highest-degree first) by (1 + xi*x).
func polyMulErasure(poly []byte, xi byte) []byte {
	out := make([]byte, len(poly)+1)
	for i := range poly {
		out[i] ^= gfMul(poly[i], xi)
		out[i+1] ^= poly[i]
	}
	return out
}

// findErrorLocator runs Berlekamp-Massey on the syndromes, accounting for
// known erasures via an errata locator seed.
func (c *Codec) findErrorLocator(synd []byte, erasureLoc []byte, erasureCount int) ([]byte, error) {
	errataLen := len(erasureLoc) - 1

	sigma := append([]byte(nil), erasureLoc...)
	b := append([]byte(nil), sigma...)

	r := errataLen
	l := errataLen
	m := 1
	bCoef := byte(1)

	for n := errataLen; n < c.nsym; n++ {
		var delta byte
		for i := 0; i <= l; i++ {
			if i >= len(sigma) {
				continue
			}
			idx := n - i
			if idx < 0 || idx >= len(synd) {
				continue
			}
			delta ^= gfMul(sigma[len(sigma)-1-i], synd[idx])
		}
		_ = r
		m++
		if delta == 0 {
			continue
		}
		tSigma := append([]byte(nil), sigma...)
		coef := gfDiv(delta, bCoef)
		shifted := make([]byte, len(b)+m-1)
		copy(shifted, b)
		for i := range shifted {
			shifted[i] = gfMul(shifted[i], coef)
		}
		if len(shifted) > len(sigma) {
			padded := make([]byte, len(shifted))
			copy(padded[len(shifted)-len(sigma):], sigma)
			sigma = padded
		} else {
			padded := make([]byte, len(sigma))
			copy(padded[len(sigma)-len(shifted):], shifted)
			shifted = padded
		}
		for i := range sigma {
			sigma[i] ^= shifted[i]
		}
		if 2*l <= n+errataLen {
			l = n + errataLen - l + 1
			b = tSigma
			bCoef = delta
			m = 1
		}
	}
	if 2*(l-erasureCount)+erasureCount > c.nsym {
		return nil, fmt.Errorf("rs: too many errors to correct")
	}
	return sigma, nil
}

// findErrorPositions finds roots of the error locator via Chien search and
// returns their 0-based msg positions.
func (c *Codec) findErrorPositions(errLoc []byte, n int) []int {
	var positions []int
	for i := 0; i < n; i++ {
		x := gfPow(2, i)
		xinv := gfInv(x)
		if polyEval(errLoc, xinv) == 0 {
			positions = append(positions, n-1-i)
		}
	}
	return positions
}

// forneyCorrect computes error magnitudes via the Forney algorithm and
// applies them in place to msg at errPos, returning the number corrected.
func (c *Codec) forneyCorrect(msg []byte, synd, errLoc []byte, errPos []int) (int, error) {
	if len(errPos) == 0 {
		return 0, nil
	}

	// Error evaluator polynomial: omega(x) = [S(x)*sigma(x)] mod x^(nsym).
	// synd holds S_0..S_(nsym-1) lowest degree first; reverse it into the
	// highest-degree-first order polyMulTrunc works in.
	sPoly := make([]byte, len(synd))
	for i, s := range synd {
		sPoly[len(synd)-1-i] = s
	}
	omega := polyMulTrunc(sPoly, errLoc, c.nsym)

	// Derivative of errLoc (formal derivative over GF(2^m): drop even-power terms).
	derivLen := len(errLoc) - 1
	deriv := make([]byte, derivLen)
	for i := 0; i < derivLen; i++ {
		// errLoc is highest-degree-first; term degree = len(errLoc)-1-i.
		deg := len(errLoc) - 1 - i
		if deg%2 == 1 {
			deriv[i] = errLoc[i]
		}
	}

	corrected := 0
	for _, pos := range errPos {
		n := c.N
		xi := gfPow(2, n-1-pos)
		xiInv := gfInv(xi)

		num := polyEval(omega, xiInv)
		den := polyEval(deriv, xiInv)
		if den == 0 {
			return corrected, fmt.Errorf("rs: zero derivative at error position %d", pos)
		}
		magnitude := gfMul(xi, gfDiv(num, den))
		if pos < 0 || pos >= len(msg) {
			continue
		}
		msg[pos] ^= magnitude
		corrected++
	}
	return corrected, nil
}

// polyMulTrunc multiplies a and b (both highest-degree-first) and truncates
// to the low `keep` coefficients (i.e. degrees [0,keep)).
func polyMulTrunc(a, b []byte, keep int) []byte {
	degA := len(a) - 1
	degB := len(b) - 1
	full := make([]byte, degA+degB+1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			if bv == 0 {
				continue
			}
			full[i+j] ^= gfMul(av, bv)
		}
	}
	if keep > len(full) {
		keep = len(full)
	}
	return full[len(full)-keep:]
}

// Decode attempts to correct msg (length N, highest-degree-first, parity in
// the low-degree positions per CIRC convention) given 0-based erasure
// positions. Returns the number of symbols corrected, or an error if the
// code's correction capacity (2*errors + erasures <= nsym) is exceeded.
func (c *Codec) Decode(msg []byte, erasurePos []int) (int, error) {
	if len(msg) != c.N {
		return 0, fmt.Errorf("rs: message length %d != N %d", len(msg), c.N)
	}

	synd := c.syndromes(msg)
	allZero := true
	for _, s := range synd {
		if s != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return 0, nil
	}

	erasureLoc := c.errataLocator(erasurePos)
	errLoc, err := c.findErrorLocator(synd, erasureLoc, len(erasurePos))
	if err != nil {
		return 0, err
	}

	errPos := c.findErrorPositions(errLoc, c.N)
	corrected, err := c.forneyCorrect(msg, synd, errLoc, errPos)
	if err != nil {
		return 0, err
	}
	return corrected, nil
}
