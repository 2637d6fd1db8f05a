// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fixpt provides the fixed-point numeric rules of the neuromorphic
datapath that the graded-spike neuron models emulate: the hardware rounding
rule, arithmetic right shift scaling, overflow-checked integer arithmetic,
and the iterative fixed-point inverse square root.

Every rule is a pure function with no hidden configuration, so results are
bit-identical across runs and platforms.  Values are plain machine integers
with an implicit binary scale given as a number of fractional bits
(the fixed-point base, fb).
*/
package fixpt

import (
	"errors"
	"math"
)

const (
	// MaxFPBase is the largest supported number of fractional bits.
	MaxFPBase = 24

	// MaxReg and MinReg bound the signed 32 bit membrane register.
	MaxReg = math.MaxInt32
	MinReg = math.MinInt32
)

var (
	// ErrOverflow is returned when a sum, product or shifted value does not
	// fit the register it is destined for.
	ErrOverflow = errors.New("fixpt: integer overflow")

	// ErrNegativeRadicand is returned by InvSqrt for negative input.
	ErrNegativeRadicand = errors.New("fixpt: negative radicand")

	// ErrFPBase is returned for a fixed-point base outside [0, MaxFPBase].
	ErrFPBase = errors.New("fixpt: fixed-point base out of range")
)

// ValidFPBase returns ErrFPBase if fb is not in [0, MaxFPBase].
func ValidFPBase(fb int) error {
	if fb < 0 || fb > MaxFPBase {
		return ErrFPBase
	}
	return nil
}
