// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"errors"
	"testing"

	"github.com/emer/etable/v2/etensor"
	"github.com/emer/graded/fixpt"
)

// tsr returns a 1D tensor with given values.
func tsr(vals ...int32) *etensor.Int32 {
	t := etensor.NewInt32([]int{len(vals)}, nil, nil)
	copy(t.Values, vals)
	return t
}

func cmpVals(t *testing.T, nm string, got *etensor.Int32, want ...int32) {
	t.Helper()
	if len(got.Values) != len(want) {
		t.Fatalf("%s: len %d, want %d", nm, len(got.Values), len(want))
	}
	for i, v := range want {
		if got.Values[i] != v {
			t.Errorf("%s[%d] = %d, want %d  (all: %v)", nm, i, got.Values[i], v, got.Values)
		}
	}
}

func TestGradedVecDefaults(t *testing.T) {
	gv, err := NewGradedVec("g", []int{3}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := gv.Step(tsr(3, 0, -2)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", gv.SOut, 3, 0, 0)
	cmpVals(t, "V", gv.V, 0, 0, -2)
	if gv.Stats().NFire != 1 {
		t.Errorf("NFire = %d, want 1", gv.Stats().NFire)
	}
	if err := gv.Step(tsr(0, 0, 0)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", gv.SOut, 0, 0, 0)
	cmpVals(t, "V", gv.V, 0, 0, -2)
	if gv.Stats().Steps != 2 {
		t.Errorf("Steps = %d, want 2", gv.Stats().Steps)
	}
}

func TestGradedVecAccumulate(t *testing.T) {
	gv, err := NewGradedVec("g", []int{1}, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	vs := []int32{4, 8, 0, 4, 8, 0}
	ss := []int32{0, 0, 12, 0, 0, 12}
	for i := range vs {
		if err := gv.Step(tsr(4)); err != nil {
			t.Fatal(err)
		}
		cmpVals(t, "V", gv.V, vs[i])
		cmpVals(t, "SOut", gv.SOut, ss[i])
	}
}

func TestGradedVecExp(t *testing.T) {
	gv, err := NewGradedVec("g", []int{2}, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if gv.Spike.VthScaled != 32 {
		t.Errorf("VthScaled = %d, want 32", gv.Spike.VthScaled)
	}
	if err := gv.Step(tsr(40, 20)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", gv.SOut, 2, 0)
	cmpVals(t, "V", gv.V, 0, 20)
	if err := gv.Step(tsr(-8, 20)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", gv.SOut, 0, 2)
	cmpVals(t, "V", gv.V, -8, 0)
}

func TestGradedVec2D(t *testing.T) {
	gv, err := NewGradedVec("g", []int{2, 3}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	in := etensor.NewInt32([]int{2, 3}, nil, nil)
	copy(in.Values, []int32{1, 0, 2, 0, 3, -1})
	if err := gv.Step(in); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", gv.SOut, 1, 0, 2, 0, 3, 0)
	if err := gv.Step(tsr(1, 0, 2, 0, 3, -1)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("flat input to 2D unit: err = %v, want ErrShapeMismatch", err)
	}
}

func TestGradedVecQuiescent(t *testing.T) {
	gv, _ := NewGradedVec("g", []int{4}, 3, 2)
	zero := tsr(0, 0, 0, 0)
	for i := 0; i < 10; i++ {
		if err := gv.Step(zero); err != nil {
			t.Fatal(err)
		}
		cmpVals(t, "V", gv.V, 0, 0, 0, 0)
		cmpVals(t, "SOut", gv.SOut, 0, 0, 0, 0)
	}
}

func TestGradedVecFireNoDrift(t *testing.T) {
	gv, _ := NewGradedVec("g", []int{3}, 1, 0)
	in := tsr(1, 5, 100)
	for i := 0; i < 20; i++ {
		if err := gv.Step(in); err != nil {
			t.Fatal(err)
		}
		cmpVals(t, "SOut", gv.SOut, 1, 5, 100)
		cmpVals(t, "V", gv.V, 0, 0, 0)
	}
}

func TestGradedVecDeterministic(t *testing.T) {
	g1, _ := NewGradedVec("g1", []int{5}, 7, 3)
	g2, _ := NewGradedVec("g2", []int{5}, 7, 3)
	for i := 0; i < 50; i++ {
		v := int32(i*37%101 - 30)
		in := tsr(v, -v, v*2, 3, int32(i))
		if err := g1.Step(in); err != nil {
			t.Fatal(err)
		}
		if err := g2.Step(in); err != nil {
			t.Fatal(err)
		}
		cmpVals(t, "SOut", g2.SOut, g1.SOut.Values...)
		cmpVals(t, "V", g2.V, g1.V.Values...)
	}
}

func TestGradedVecShapeMismatch(t *testing.T) {
	gv, _ := NewGradedVec("g", []int{3}, 5, 0)
	gv.Step(tsr(1, 2, 3))
	err := gv.Step(tsr(1, 2))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	if KindOf(err) != ShapeMismatch {
		t.Errorf("KindOf = %v, want ShapeMismatch", KindOf(err))
	}
	var se *StepError
	if !errors.As(err, &se) || se.Unit != "g" || se.Port != "AIn" {
		t.Errorf("StepError = %+v", se)
	}
	cmpVals(t, "V", gv.V, 1, 2, 3)
	if err := gv.Step(); KindOf(err) != ShapeMismatch {
		t.Errorf("no inputs: err = %v", err)
	}
	if err := gv.Step(nil); KindOf(err) != ShapeMismatch {
		t.Errorf("nil input: err = %v", err)
	}
	if gv.Stats().Steps != 1 {
		t.Errorf("Steps = %d, want 1", gv.Stats().Steps)
	}
}

func TestGradedVecOverflow(t *testing.T) {
	gv, _ := NewGradedVec("g", []int{2}, 5, 0)
	if err := gv.Step(tsr(2, 0)); err != nil {
		t.Fatal(err)
	}
	if err := gv.SetV(tsr(2, fixpt.MaxReg)); err != nil {
		t.Fatal(err)
	}
	err := gv.Step(tsr(1, 1))
	if !errors.Is(err, ErrOverflow) || KindOf(err) != Overflow {
		t.Fatalf("err = %v, want Overflow", err)
	}
	var se *StepError
	if errors.As(err, &se) && se.Index != 1 {
		t.Errorf("Index = %d, want 1", se.Index)
	}
	// element 0 was not committed
	cmpVals(t, "V", gv.V, 2, fixpt.MaxReg)
	cmpVals(t, "SOut", gv.SOut, 0, 0)

	if err := gv.Step(tsr(fixpt.MinReg, -1)); err != nil {
		t.Fatal(err)
	}
	if err := gv.Step(tsr(fixpt.MinReg, 0)); !errors.Is(err, ErrOverflow) {
		t.Errorf("negative overflow: err = %v", err)
	}
}

func TestGradedVecConfigErrors(t *testing.T) {
	tests := []struct {
		shape []int
		vth   int32
		exp   int
	}{
		{nil, 1, 0},
		{[]int{}, 1, 0},
		{[]int{0}, 1, 0},
		{[]int{3, -1}, 1, 0},
		{[]int{3}, -1, 0},
		{[]int{3}, 1, -1},
		{[]int{3}, 1, fixpt.MaxFPBase + 1},
		{[]int{3}, 1 << 20, 12},
	}
	for _, ts := range tests {
		if _, err := NewGradedVec("g", ts.shape, ts.vth, ts.exp); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("NewGradedVec(%v, %d, %d): err = %v, want ErrInvalidParams", ts.shape, ts.vth, ts.exp, err)
		}
	}
	gv, err := NewGradedVec("g", []int{3}, 1<<18, 12)
	if err != nil {
		t.Fatal(err)
	}
	if err := gv.SetExp(13); err == nil {
		t.Errorf("SetExp 13 with Vth 1<<18 should fail")
	}
	if gv.Spike.Exp != 12 {
		t.Errorf("Exp = %d after failed SetExp", gv.Spike.Exp)
	}
	if err := gv.SetVth(3); err != nil {
		t.Fatal(err)
	}
	if gv.Spike.VthScaled != 3<<12 {
		t.Errorf("VthScaled = %d, want %d", gv.Spike.VthScaled, 3<<12)
	}
}

func TestGradedVecState(t *testing.T) {
	gv, _ := NewGradedVec("g", []int{3}, 10, 1)
	gv.Step(tsr(3, 7, 1))
	st := gv.State()
	cmpVals(t, "V", gv.V, st.V...)

	g2, _ := NewGradedVec("g", []int{3}, 1, 0)
	if err := g2.SetState(st); err != nil {
		t.Fatal(err)
	}
	if g2.Spike.Vth != 10 || g2.Spike.Exp != 1 || g2.Spike.VthScaled != 20 {
		t.Errorf("params not restored: %+v", g2.Spike)
	}
	for i := 0; i < 5; i++ {
		in := tsr(int32(i), 2, 5)
		gv.Step(in)
		g2.Step(in)
		cmpVals(t, "SOut", g2.SOut, gv.SOut.Values...)
	}

	bad := *st
	bad.V = []int32{1, 2}
	if err := g2.SetState(&bad); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short state: err = %v", err)
	}
	bad = *st
	bad.Type = InvSqrtUnit
	if err := g2.SetState(&bad); err == nil {
		t.Errorf("wrong type state should fail")
	}

	gv.InitState()
	cmpVals(t, "V", gv.V, 0, 0, 0)
	cmpVals(t, "SOut", gv.SOut, 0, 0, 0)
	if gv.Stats().Steps != 0 {
		t.Errorf("Steps = %d after InitState", gv.Stats().Steps)
	}
}
