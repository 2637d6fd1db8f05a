// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"fmt"

	"github.com/emer/etable/v2/etensor"
	"github.com/emer/graded/fixpt"
)

// NormVecDelay is a normalizable graded spike vector with two input
// channels.  Each step:
//
//	V  += AIn1,  V2 += AIn2
//	norm  = fixpt.InvSqrt(V, Exp)
//	SOut  = GradedVec spike of V (threshold Vth << Exp, reset V on firing)
//	S2Out = (V2 * norm) >> Exp
//
// norm is computed from V before any reset.  Where V is 0 the
// normalization is undefined and S2Out is 0 (counted in Stats().Degenerate).
// V2 is never reset.  Unlike a GradedVec, a negative V is an error: the
// normalization of a negative V fails with ErrNegativeRadicand and the step
// leaves the state unchanged, even where the SOut spike alone would be valid.
// A Network delivers the outputs to connected units on the following
// step, hence the delay.
type NormVecDelay struct {
	UnitBase
	Spike SpikeParams    `view:"inline" desc:"threshold and fixed point base, also the base of the normalization"`
	Init2 int32          `desc:"initial value of the second membrane state V2"`
	V     *etensor.Int32 `desc:"first channel membrane state, drives SOut and the normalization"`
	V2    *etensor.Int32 `desc:"second channel membrane state, normalized into S2Out"`
	SOut  *etensor.Int32 `desc:"graded spike output of the first channel"`
	S2Out *etensor.Int32 `desc:"normalized second channel output"`

	bufV, bufV2, bufS, bufS2 []int32
}

var normVecIn = []string{"AIn1", "AIn2"}
var normVecOut = []string{"SOut", "S2Out"}

// NewNormVecDelay returns a new NormVecDelay with given shape, threshold vth
// and fixed point base exp (the defaults are vth = 1, exp = 0).
func NewNormVecDelay(name string, shape []int, vth int32, exp int) (*NormVecDelay, error) {
	nv := &NormVecDelay{}
	nv.Defaults()
	nv.Spike.Vth = vth
	nv.Spike.Exp = exp
	if err := nv.Config(name, shape); err != nil {
		return nil, err
	}
	return nv, nil
}

func (nv *NormVecDelay) Defaults() {
	nv.Spike.Defaults()
	nv.Init2 = 0
}

// Config sets the name and shape, validates the params and
// allocates the state, which is set to its initial value.
func (nv *NormVecDelay) Config(name string, shape []int) error {
	if err := nv.config(name, NormVecDelayUnit, shape); err != nil {
		return err
	}
	if err := nv.Validate(); err != nil {
		return err
	}
	nv.UpdateParams()
	nv.V = nv.newTensor()
	nv.V2 = nv.newTensor()
	nv.SOut = nv.newTensor()
	nv.S2Out = nv.newTensor()
	nv.InitState()
	return nil
}

func (nv *NormVecDelay) UpdateParams() { nv.Spike.Update() }

func (nv *NormVecDelay) saveParams() func() {
	sp, i2 := nv.Spike, nv.Init2
	return func() { nv.Spike, nv.Init2 = sp, i2 }
}

func (nv *NormVecDelay) Validate() error {
	if err := nv.Spike.Validate(); err != nil {
		return fmt.Errorf("NormVecDelay %s: %w", nv.Nm, err)
	}
	return nil
}

func (nv *NormVecDelay) InPorts() []string  { return normVecIn }
func (nv *NormVecDelay) OutPorts() []string { return normVecOut }

func (nv *NormVecDelay) OutPort(name string) *etensor.Int32 {
	switch name {
	case "SOut":
		return nv.SOut
	case "S2Out":
		return nv.S2Out
	}
	return nil
}

func (nv *NormVecDelay) InitState() {
	for i := range nv.V.Values {
		nv.V.Values[i] = nv.Spike.Init
		nv.V2.Values[i] = nv.Init2
		nv.SOut.Values[i] = 0
		nv.S2Out.Values[i] = 0
	}
	nv.StepStats.Init()
}

// Step accumulates ain1 into V and ain2 into V2, and computes
// the graded spike and normalized outputs.
func (nv *NormVecDelay) Step(in ...*etensor.Int32) error {
	if err := nv.checkInputs(normVecIn, in); err != nil {
		return err
	}
	ain1, ain2 := in[0].Values, in[1].Values
	nv.bufV = nv.scratch(nv.bufV)
	nv.bufV2 = nv.scratch(nv.bufV2)
	nv.bufS = nv.scratch(nv.bufS)
	nv.bufS2 = nv.scratch(nv.bufS2)
	exp := nv.Spike.Exp
	nfire, ndegen := 0, 0
	for i, v0 := range nv.V.Values {
		v, err := fixpt.Add32(v0, ain1[i])
		if err != nil {
			return nv.stepErr("AIn1", i, err)
		}
		v2, err := fixpt.Add32(nv.V2.Values[i], ain2[i])
		if err != nil {
			return nv.stepErr("AIn2", i, err)
		}
		var s2 int32
		if v == 0 {
			ndegen++
		} else {
			norm, err := fixpt.InvSqrt(int64(v), exp)
			if err != nil {
				return nv.stepErr("AIn1", i, err)
			}
			s2, err = fixpt.MulShift(int64(v2), norm, exp)
			if err != nil {
				return nv.stepErr("AIn2", i, err)
			}
		}
		s, fired := nv.Spike.SpikeFmV(v)
		if fired {
			v = 0
			nfire++
		}
		nv.bufV[i], nv.bufV2[i] = v, v2
		nv.bufS[i], nv.bufS2[i] = s, s2
	}
	copy(nv.V.Values, nv.bufV)
	copy(nv.V2.Values, nv.bufV2)
	copy(nv.SOut.Values, nv.bufS)
	copy(nv.S2Out.Values, nv.bufS2)
	nv.StepStats.Steps++
	nv.StepStats.NFire = nfire
	nv.StepStats.Degenerate += ndegen
	return nil
}

// SetV sets the first membrane state, between steps only.
func (nv *NormVecDelay) SetV(v *etensor.Int32) error { return nv.setTensor(nv.V, v, "V") }

// SetV2 sets the second membrane state, between steps only.
func (nv *NormVecDelay) SetV2(v *etensor.Int32) error { return nv.setTensor(nv.V2, v, "V2") }

// SetVth sets the threshold, between steps only.
func (nv *NormVecDelay) SetVth(vth int32) error {
	sp := nv.Spike
	sp.Vth = vth
	if err := sp.Validate(); err != nil {
		return err
	}
	nv.Spike.Vth = vth
	nv.UpdateParams()
	return nil
}

// SetExp sets the fixed point base, between steps only.
func (nv *NormVecDelay) SetExp(exp int) error {
	sp := nv.Spike
	sp.Exp = exp
	if err := sp.Validate(); err != nil {
		return err
	}
	nv.Spike.Exp = exp
	nv.UpdateParams()
	return nil
}

func (nv *NormVecDelay) State() *UnitState {
	st := &UnitState{}
	st.fromBase(&nv.UnitBase, nv.Spike.Vth, nv.Spike.Exp)
	st.V = append([]int32(nil), nv.V.Values...)
	st.V2 = append([]int32(nil), nv.V2.Values...)
	return st
}

func (nv *NormVecDelay) SetState(st *UnitState) error {
	sp := nv.Spike
	sp.Vth, sp.Exp = st.Vth, st.Exp
	if err := st.check(&nv.UnitBase, true); err != nil {
		return err
	}
	if err := sp.Validate(); err != nil {
		return err
	}
	nv.Spike.Vth, nv.Spike.Exp = st.Vth, st.Exp
	nv.UpdateParams()
	copy(nv.V.Values, st.V)
	copy(nv.V2.Values, st.V2)
	return nil
}
