// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"fmt"

	"github.com/emer/etable/v2/etensor"
	"github.com/emer/graded/fixpt"
)

// GradedVec is a thresholded graded spike vector.  Each step it
// accumulates AIn into the membrane state V, and wherever V >= Vth << Exp
// it emits V >> Exp on SOut and resets V to 0.  Elsewhere SOut is 0 and
// V keeps accumulating.
type GradedVec struct {
	UnitBase
	Spike SpikeParams    `view:"inline" desc:"threshold and fixed point base"`
	V     *etensor.Int32 `desc:"membrane state"`
	SOut  *etensor.Int32 `desc:"graded spike output"`

	bufV []int32
	bufS []int32
}

var gradedVecIn = []string{"AIn"}
var gradedVecOut = []string{"SOut"}

// NewGradedVec returns a new GradedVec with given shape, threshold vth and
// fixed point base exp (the defaults are vth = 1, exp = 0).
func NewGradedVec(name string, shape []int, vth int32, exp int) (*GradedVec, error) {
	gv := &GradedVec{}
	gv.Defaults()
	gv.Spike.Vth = vth
	gv.Spike.Exp = exp
	if err := gv.Config(name, shape); err != nil {
		return nil, err
	}
	return gv, nil
}

func (gv *GradedVec) Defaults() {
	gv.Spike.Defaults()
}

// Config sets the name and shape, validates the params and
// allocates the state, which is set to its initial value.
func (gv *GradedVec) Config(name string, shape []int) error {
	if err := gv.config(name, GradedVecUnit, shape); err != nil {
		return err
	}
	if err := gv.Validate(); err != nil {
		return err
	}
	gv.UpdateParams()
	gv.V = gv.newTensor()
	gv.SOut = gv.newTensor()
	gv.InitState()
	return nil
}

func (gv *GradedVec) UpdateParams() { gv.Spike.Update() }

func (gv *GradedVec) saveParams() func() {
	sp := gv.Spike
	return func() { gv.Spike = sp }
}

func (gv *GradedVec) Validate() error {
	if err := gv.Spike.Validate(); err != nil {
		return fmt.Errorf("GradedVec %s: %w", gv.Nm, err)
	}
	return nil
}

func (gv *GradedVec) InPorts() []string  { return gradedVecIn }
func (gv *GradedVec) OutPorts() []string { return gradedVecOut }

func (gv *GradedVec) OutPort(name string) *etensor.Int32 {
	if name == "SOut" {
		return gv.SOut
	}
	return nil
}

func (gv *GradedVec) InitState() {
	for i := range gv.V.Values {
		gv.V.Values[i] = gv.Spike.Init
		gv.SOut.Values[i] = 0
	}
	gv.StepStats.Init()
}

// Step accumulates ain into V and computes the graded spike output.
func (gv *GradedVec) Step(in ...*etensor.Int32) error {
	if err := gv.checkInputs(gradedVecIn, in); err != nil {
		return err
	}
	ain := in[0].Values
	gv.bufV = gv.scratch(gv.bufV)
	gv.bufS = gv.scratch(gv.bufS)
	nfire := 0
	for i, v := range gv.V.Values {
		nw, err := fixpt.Add32(v, ain[i])
		if err != nil {
			return gv.stepErr("AIn", i, err)
		}
		s, fired := gv.Spike.SpikeFmV(nw)
		if fired {
			nw = 0
			nfire++
		}
		gv.bufV[i] = nw
		gv.bufS[i] = s
	}
	copy(gv.V.Values, gv.bufV)
	copy(gv.SOut.Values, gv.bufS)
	gv.StepStats.Steps++
	gv.StepStats.NFire = nfire
	return nil
}

// SetV sets the membrane state, between steps only.
func (gv *GradedVec) SetV(v *etensor.Int32) error { return gv.setTensor(gv.V, v, "V") }

// SetVth sets the threshold, between steps only.
func (gv *GradedVec) SetVth(vth int32) error {
	sp := gv.Spike
	sp.Vth = vth
	if err := sp.Validate(); err != nil {
		return err
	}
	gv.Spike.Vth = vth
	gv.UpdateParams()
	return nil
}

// SetExp sets the fixed point base, between steps only.
func (gv *GradedVec) SetExp(exp int) error {
	sp := gv.Spike
	sp.Exp = exp
	if err := sp.Validate(); err != nil {
		return err
	}
	gv.Spike.Exp = exp
	gv.UpdateParams()
	return nil
}

func (gv *GradedVec) State() *UnitState {
	st := &UnitState{}
	st.fromBase(&gv.UnitBase, gv.Spike.Vth, gv.Spike.Exp)
	st.V = append([]int32(nil), gv.V.Values...)
	return st
}

func (gv *GradedVec) SetState(st *UnitState) error {
	sp := gv.Spike
	sp.Vth, sp.Exp = st.Vth, st.Exp
	if err := st.check(&gv.UnitBase, false); err != nil {
		return err
	}
	if err := sp.Validate(); err != nil {
		return err
	}
	gv.Spike.Vth, gv.Spike.Exp = st.Vth, st.Exp
	gv.UpdateParams()
	copy(gv.V.Values, st.V)
	return nil
}
