// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import "math"

// ShiftRight scales x down by n fractional bits using an arithmetic shift,
// which rounds toward negative infinity (-5 >> 1 == -3).
func ShiftRight(x int64, n int) int64 {
	if n <= 0 {
		return x
	}
	if n > 63 {
		n = 63
	}
	return x >> uint(n)
}

// Fits32 returns true if x fits the 32 bit register.
func Fits32(x int64) bool {
	return x >= MinReg && x <= MaxReg
}

// Reg32 narrows x to the 32 bit register, or returns ErrOverflow.
func Reg32(x int64) (int32, error) {
	if !Fits32(x) {
		return 0, ErrOverflow
	}
	return int32(x), nil
}

// Add32 returns a + b, or ErrOverflow if the sum leaves the 32 bit register.
func Add32(a, b int32) (int32, error) {
	return Reg32(int64(a) + int64(b))
}

// Shl32 returns x << n, or ErrOverflow if the result leaves the 32 bit register.
func Shl32(x int32, n int) (int32, error) {
	if n < 0 || n > 31 {
		if x == 0 {
			return 0, nil
		}
		return 0, ErrOverflow
	}
	return Reg32(int64(x) << uint(n))
}

// Mul returns a * b, or ErrOverflow if the product does not fit in int64.
func Mul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	c := a * b
	if c/b != a {
		return 0, ErrOverflow
	}
	return c, nil
}

// MulShift returns (a * b) >> n, the fixed-point product of a and b at
// base n, narrowed to the 32 bit register.
func MulShift(a, b int64, n int) (int32, error) {
	p, err := Mul(a, b)
	if err != nil {
		return 0, err
	}
	return Reg32(ShiftRight(p, n))
}
