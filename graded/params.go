// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"fmt"
	"log"

	"github.com/emer/graded/fixpt"
)

// SpikeParams are the threshold and scale parameters of the thresholded
// graded spike, shared by GradedVec and NormVecDelay.
type SpikeParams struct {
	Vth  int32 `def:"1" min:"0" desc:"threshold for spiking, in output units -- the membrane state must reach Vth << Exp to spike"`
	Exp  int   `def:"0" min:"0" max:"24" desc:"fixed point base of the membrane state: number of fractional bits removed from the output spike"`
	Init int32 `def:"0" desc:"initial value of the membrane state V"`

	VthScaled int32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"Vth << Exp -- threshold on the membrane state"`
}

func (sp *SpikeParams) Defaults() {
	sp.Vth = 1
	sp.Exp = 0
	sp.Init = 0
	sp.Update()
}

// Update must be called after any changes to parameters.
// An out of range threshold saturates VthScaled -- Validate reports it.
func (sp *SpikeParams) Update() {
	vs, err := fixpt.Shl32(sp.Vth, sp.Exp)
	if err != nil {
		log.Printf("SpikeParams Vth %d << Exp %d: %v\n", sp.Vth, sp.Exp, err)
		vs = fixpt.MaxReg
	}
	sp.VthScaled = vs
}

// Validate returns an error if the params cannot be represented
// in the membrane register.
func (sp *SpikeParams) Validate() error {
	if sp.Vth < 0 {
		return fmt.Errorf("%w: Vth %d is negative", ErrInvalidParams, sp.Vth)
	}
	if err := fixpt.ValidFPBase(sp.Exp); err != nil {
		return fmt.Errorf("%w: Exp %d: %v", ErrInvalidParams, sp.Exp, err)
	}
	if _, err := fixpt.Shl32(sp.Vth, sp.Exp); err != nil {
		return fmt.Errorf("%w: Vth %d << Exp %d: %v", ErrInvalidParams, sp.Vth, sp.Exp, err)
	}
	return nil
}

// SpikeFmV returns the graded spike for membrane state v, and whether
// it fired: v >> Exp where v >= Vth << Exp, else 0.
func (sp *SpikeParams) SpikeFmV(v int32) (int32, bool) {
	if v < sp.VthScaled {
		return 0, false
	}
	return int32(fixpt.ShiftRight(int64(v), sp.Exp)), true
}

// InvSqrtParams are the parameters of the InvSqrt unit.
type InvSqrtParams struct {
	FPBase int   `def:"12" min:"0" max:"24" desc:"base of the fixed-point representation: number of fractional bits of both input and output"`
	Init   int32 `def:"0" min:"0" desc:"initial value of the accumulated state V"`
}

func (ip *InvSqrtParams) Defaults() {
	ip.FPBase = 12
	ip.Init = 0
}

func (ip *InvSqrtParams) Update() {
}

func (ip *InvSqrtParams) Validate() error {
	if err := fixpt.ValidFPBase(ip.FPBase); err != nil {
		return fmt.Errorf("%w: FPBase %d: %v", ErrInvalidParams, ip.FPBase, err)
	}
	if ip.Init < 0 {
		return fmt.Errorf("%w: Init %d is negative", ErrInvalidParams, ip.Init)
	}
	return nil
}

// ValidateShape returns an error unless shape is a non-empty list of
// positive sizes whose product fits an int.
func ValidateShape(shape []int) error {
	if len(shape) == 0 {
		return fmt.Errorf("%w: empty shape", ErrInvalidParams)
	}
	n := 1
	for i, d := range shape {
		if d <= 0 {
			return fmt.Errorf("%w: shape %v: dim %d is %d", ErrInvalidParams, shape, i, d)
		}
		if n > fixpt.MaxReg/d {
			return fmt.Errorf("%w: shape %v is too large", ErrInvalidParams, shape)
		}
		n *= d
	}
	return nil
}
