// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"fmt"

	"github.com/emer/etable/v2/etensor"
	"github.com/emer/graded/fixpt"
)

// InvSqrt is a neuron model computing the inverse square root of its
// accumulated input in fixed point with base FPBase.  Each step
// V += AIn and SOut = fixpt.InvSqrt(V, FPBase).  There is no threshold
// and V is never reset, so the output is continuous.  A negative V is
// a NegativeRadicand error.
type InvSqrt struct {
	UnitBase
	Sqrt InvSqrtParams  `view:"inline" desc:"fixed point base"`
	V    *etensor.Int32 `desc:"accumulated input"`
	SOut *etensor.Int32 `desc:"inverse square root of V at base FPBase"`

	bufV []int32
	bufS []int32
}

var invSqrtIn = []string{"AIn"}
var invSqrtOut = []string{"SOut"}

// NewInvSqrt returns a new InvSqrt with given shape and fixed point
// base fpBase (the default is 12).
func NewInvSqrt(name string, shape []int, fpBase int) (*InvSqrt, error) {
	is := &InvSqrt{}
	is.Defaults()
	is.Sqrt.FPBase = fpBase
	if err := is.Config(name, shape); err != nil {
		return nil, err
	}
	return is, nil
}

func (is *InvSqrt) Defaults() {
	is.Sqrt.Defaults()
}

// Config sets the name and shape, validates the params and
// allocates the state, which is set to its initial value.
func (is *InvSqrt) Config(name string, shape []int) error {
	if err := is.config(name, InvSqrtUnit, shape); err != nil {
		return err
	}
	if err := is.Validate(); err != nil {
		return err
	}
	is.UpdateParams()
	is.V = is.newTensor()
	is.SOut = is.newTensor()
	is.InitState()
	return nil
}

func (is *InvSqrt) UpdateParams() { is.Sqrt.Update() }

func (is *InvSqrt) saveParams() func() {
	ip := is.Sqrt
	return func() { is.Sqrt = ip }
}

func (is *InvSqrt) Validate() error {
	if err := is.Sqrt.Validate(); err != nil {
		return fmt.Errorf("InvSqrt %s: %w", is.Nm, err)
	}
	return nil
}

func (is *InvSqrt) InPorts() []string  { return invSqrtIn }
func (is *InvSqrt) OutPorts() []string { return invSqrtOut }

func (is *InvSqrt) OutPort(name string) *etensor.Int32 {
	if name == "SOut" {
		return is.SOut
	}
	return nil
}

func (is *InvSqrt) InitState() {
	for i := range is.V.Values {
		is.V.Values[i] = is.Sqrt.Init
		is.SOut.Values[i] = 0
	}
	is.StepStats.Init()
}

// Step accumulates ain into V and outputs its inverse square root.
func (is *InvSqrt) Step(in ...*etensor.Int32) error {
	if err := is.checkInputs(invSqrtIn, in); err != nil {
		return err
	}
	ain := in[0].Values
	is.bufV = is.scratch(is.bufV)
	is.bufS = is.scratch(is.bufS)
	fb := is.Sqrt.FPBase
	for i, v0 := range is.V.Values {
		v, err := fixpt.Add32(v0, ain[i])
		if err != nil {
			return is.stepErr("AIn", i, err)
		}
		y, err := fixpt.InvSqrt(int64(v), fb)
		if err != nil {
			return is.stepErr("AIn", i, err)
		}
		s, err := fixpt.Reg32(y)
		if err != nil {
			return is.stepErr("AIn", i, err)
		}
		is.bufV[i] = v
		is.bufS[i] = s
	}
	copy(is.V.Values, is.bufV)
	copy(is.SOut.Values, is.bufS)
	is.StepStats.Steps++
	return nil
}

// SetV sets the accumulated state, between steps only.
func (is *InvSqrt) SetV(v *etensor.Int32) error { return is.setTensor(is.V, v, "V") }

// SetFPBase sets the fixed point base, between steps only.
func (is *InvSqrt) SetFPBase(fb int) error {
	ip := is.Sqrt
	ip.FPBase = fb
	if err := ip.Validate(); err != nil {
		return err
	}
	is.Sqrt.FPBase = fb
	is.UpdateParams()
	return nil
}

func (is *InvSqrt) State() *UnitState {
	st := &UnitState{}
	st.fromBase(&is.UnitBase, 0, is.Sqrt.FPBase)
	st.V = append([]int32(nil), is.V.Values...)
	return st
}

func (is *InvSqrt) SetState(st *UnitState) error {
	ip := is.Sqrt
	ip.FPBase = st.Exp
	if err := st.check(&is.UnitBase, false); err != nil {
		return err
	}
	if err := ip.Validate(); err != nil {
		return err
	}
	is.Sqrt.FPBase = st.Exp
	is.UpdateParams()
	copy(is.V.Values, st.V)
	return nil
}
