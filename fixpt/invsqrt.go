// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import "math/bits"

// InvSqrtIters is the fixed number of Newton-Raphson refinements applied
// to the exponent-halving initial guess.  The guess is always within a
// factor of sqrt(2) of the true value, and 6 iterations bring the relative
// error below 2^-40, which leaves at most a couple of LSB of truncation
// error for the final correction to remove at MaxFPBase.
const InvSqrtIters = 6

// InvSqrt returns the fixed-point inverse square root of x at base fb:
// y = floor(2^fb / sqrt(x / 2^fb)), the largest y >= 0 with x*y*y <= 2^(3*fb).
//
// The value is computed the way the datapath does it: InvSqrtGuess derives
// an initial power-of-two estimate by halving the exponent of x, then
// InvSqrtIters integer Newton-Raphson steps refine it using only multiply,
// subtract and shift.  A final exact correction step moves the result onto
// the floor, which makes InvSqrt monotonically non-increasing in x.
//
// InvSqrt(0, fb) is 0.  Negative x returns ErrNegativeRadicand, and x
// above the 32 bit register returns ErrOverflow.
func InvSqrt(x int64, fb int) (int64, error) {
	y, err := InvSqrtNewton(x, fb, InvSqrtIters)
	if err != nil || x == 0 {
		return y, err
	}
	th, tl := shl128(0, 1, uint(3*fb))
	ux, uy := uint64(x), uint64(y)
	for uy > 0 && !sqWithin(ux, uy, th, tl) {
		uy--
	}
	for sqWithin(ux, uy+1, th, tl) {
		uy++
	}
	return int64(uy), nil
}

// InvSqrtNewton returns the raw result of iters Newton-Raphson steps from
// InvSqrtGuess, without the final floor correction applied by InvSqrt.
// Each step computes, at base fb:
//
//	y = (y * (3<<3fb - x*y*y)) >> (3fb + 1)
func InvSqrtNewton(x int64, fb int, iters int) (int64, error) {
	if err := ValidFPBase(fb); err != nil {
		return 0, err
	}
	switch {
	case x < 0:
		return 0, ErrNegativeRadicand
	case x > MaxReg:
		return 0, ErrOverflow
	case x == 0:
		return 0, nil
	}
	ux := uint64(x)
	y := uint64(InvSqrtGuess(x, fb))
	for i := 0; i < iters && y > 0; i++ {
		y = invSqrtStep(ux, y, uint(fb))
	}
	return int64(y), nil
}

// InvSqrtGuess returns the initial estimate used by InvSqrt: with
// msb the index of the highest set bit of x, the exponent of 2^fb/sqrt(x/2^fb)
// is (3*fb - msb)/2, and the guess is 1 << ((3*fb - msb) >> 1).
// Returns 0 for x <= 0 or when the exponent is negative (result below one LSB).
func InvSqrtGuess(x int64, fb int) int64 {
	if x <= 0 {
		return 0
	}
	msb := bits.Len64(uint64(x)) - 1
	e := (3*fb - msb) >> 1
	if e < 0 {
		return 0
	}
	return int64(1) << uint(e)
}

// invSqrtStep is one integer Newton-Raphson refinement, with the
// 3*2^(3fb) - x*y*y term carried in 128 bits.
// Requires x < 2^31 and y < 2^38 so that every product fits in 128 bits.
func invSqrtStep(x, y uint64, fb uint) uint64 {
	sh, sl := mulSq(x, y)
	th, tl := shl128(0, 3, 3*fb)
	if sh > th || (sh == th && sl >= tl) {
		return 0
	}
	dl, b := bits.Sub64(tl, sl, 0)
	dh, _ := bits.Sub64(th, sh, b)
	ph, pl := bits.Mul64(dl, y)
	ph += dh * y
	_, l := shr128(ph, pl, 3*fb+1)
	return l
}

// sqWithin returns true if x*y*y <= the 128 bit value th:tl.
func sqWithin(x, y, th, tl uint64) bool {
	h, l := mulSq(x, y)
	return h < th || (h == th && l <= tl)
}

// mulSq returns the 128 bit product x*y*y as hi, lo.
func mulSq(x, y uint64) (hi, lo uint64) {
	h1, l1 := bits.Mul64(x, y)
	h2, l2 := bits.Mul64(l1, y)
	return h2 + h1*y, l2
}

func shl128(hi, lo uint64, s uint) (uint64, uint64) {
	switch {
	case s == 0:
		return hi, lo
	case s >= 64:
		return lo << (s - 64), 0
	default:
		return hi<<s | lo>>(64-s), lo << s
	}
}

func shr128(hi, lo uint64, s uint) (uint64, uint64) {
	switch {
	case s == 0:
		return hi, lo
	case s >= 64:
		return 0, hi >> (s - 64)
	default:
		return hi >> s, lo>>s | hi<<(64-s)
	}
}
