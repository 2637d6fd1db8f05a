// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fixpt

import (
	"math"

	"github.com/chewxy/math32"
)

// Round converts x to an integer the way the neuromorphic datapath rounds and
// truncates: trunc(x + (x > 0) - 0.5).  This is not ordinary rounding:
// positive values round half up (2.5 -> 3) and non-positive values round
// half away from zero (-2.5 -> -3), with truncation toward zero after the bias.
func Round(x float64) int64 {
	b := 0.0
	if x > 0 {
		b = 1
	}
	return int64(math.Trunc(x + b - 0.5))
}

// Round32 is the float32 version of Round.
func Round32(x float32) int32 {
	var b float32
	if x > 0 {
		b = 1
	}
	return int32(math32.Trunc(x + b - 0.5))
}

// RoundSlice applies Round element-wise to xs, writing into r
// which is allocated if nil or too short.
func RoundSlice(xs []float64, r []int64) []int64 {
	if len(r) < len(xs) {
		r = make([]int64, len(xs))
	}
	for i, x := range xs {
		r[i] = Round(x)
	}
	return r[:len(xs)]
}

// RoundFixed applies the Round rule to a higher precision fixed-point value
// x with frac fractional bits, returning an integer with no fractional bits.
// It uses integer arithmetic only, so RoundFixed(x, frac) equals
// Round(x / 2^frac) exactly, for every x and every frac >= 0.
// A negative frac returns ErrFPBase.
func RoundFixed(x int64, frac int) (int64, error) {
	if frac < 0 {
		return 0, ErrFPBase
	}
	if frac == 0 {
		return x, nil
	}
	// magnitude as uint64 so that MinInt64 does not wrap
	neg := x <= 0
	ux := uint64(x)
	if neg {
		ux = uint64(-x)
	}
	if frac >= 64 {
		// |x| / 2^frac <= 0.5, reached only by MinInt64 at frac 64
		if neg && frac == 64 && ux == 1<<63 {
			return -1, nil
		}
		return 0, nil
	}
	half := uint64(1) << uint(frac-1)
	q := ux >> uint(frac)
	if ux&(half<<1-1) >= half {
		q++
	}
	if neg {
		return -int64(q), nil
	}
	return int64(q), nil
}
