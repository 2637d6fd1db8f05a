// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"errors"
	"testing"
)

func TestNormVecDelayStep(t *testing.T) {
	nv, err := NewNormVecDelay("n", []int{4}, 1, 12)
	if err != nil {
		t.Fatal(err)
	}
	if err := nv.Step(tsr(16384, 0, 4096, 1024), tsr(4096, 5, 8192, 4096)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", nv.SOut, 4, 0, 1, 0)
	cmpVals(t, "S2Out", nv.S2Out, 2048, 0, 8192, 8192)
	cmpVals(t, "V", nv.V, 0, 0, 0, 1024)
	cmpVals(t, "V2", nv.V2, 4096, 5, 8192, 4096)
	if st := nv.Stats(); st.NFire != 2 || st.Degenerate != 1 {
		t.Errorf("Stats = %+v, want NFire 2, Degenerate 1", *st)
	}

	if err := nv.Step(tsr(0, 0, 0, 0), tsr(0, 0, 0, 0)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "SOut", nv.SOut, 0, 0, 0, 0)
	cmpVals(t, "S2Out", nv.S2Out, 0, 0, 0, 8192)
	cmpVals(t, "V2", nv.V2, 4096, 5, 8192, 4096)
	if st := nv.Stats(); st.NFire != 0 || st.Degenerate != 4 {
		t.Errorf("Stats = %+v, want NFire 0, Degenerate 4", *st)
	}
}

func TestNormVecDelayDeterministic(t *testing.T) {
	n1, _ := NewNormVecDelay("n1", []int{5}, 50, 4)
	n2, _ := NewNormVecDelay("n2", []int{5}, 50, 4)
	for i := 0; i < 50; i++ {
		v := int32(i * 37 % 101)
		in1 := tsr(v, 3, v*2, int32(i), 0)
		in2 := tsr(-v, 5, v, int32(i)-25, 7)
		if err := n1.Step(in1, in2); err != nil {
			t.Fatal(err)
		}
		if err := n2.Step(in1, in2); err != nil {
			t.Fatal(err)
		}
		cmpVals(t, "SOut", n2.SOut, n1.SOut.Values...)
		cmpVals(t, "S2Out", n2.S2Out, n1.S2Out.Values...)
	}
	cmpVals(t, "V", n2.V, n1.V.Values...)
	cmpVals(t, "V2", n2.V2, n1.V2.Values...)
	if *n1.Stats() != *n2.Stats() {
		t.Errorf("Stats differ: %+v, %+v", *n1.Stats(), *n2.Stats())
	}
}

func TestNormVecDelayZero(t *testing.T) {
	nv, err := NewNormVecDelay("n", []int{1}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := nv.Step(tsr(0), tsr(5)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "S2Out", nv.S2Out, 0)
	cmpVals(t, "SOut", nv.SOut, 0)
	cmpVals(t, "V2", nv.V2, 5)
}

// norm uses V before the spike reset, so a firing element still
// normalizes with the value that made it fire.
func TestNormVecDelayNormBeforeReset(t *testing.T) {
	nv, _ := NewNormVecDelay("n", []int{1}, 1, 12)
	if err := nv.Step(tsr(4096*4), tsr(4096)); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "V", nv.V, 0)
	cmpVals(t, "SOut", nv.SOut, 4)
	cmpVals(t, "S2Out", nv.S2Out, 2048)
}

func TestNormVecDelayExp0(t *testing.T) {
	nv, _ := NewNormVecDelay("n", []int{3}, 1, 0)
	if err := nv.Step(tsr(1, 4, 2), tsr(7, 7, 7)); err != nil {
		t.Fatal(err)
	}
	// InvSqrt at base 0 is floor(1/sqrt(v))
	cmpVals(t, "S2Out", nv.S2Out, 7, 0, 0)
	cmpVals(t, "SOut", nv.SOut, 1, 4, 2)
}

func TestNormVecDelayErrors(t *testing.T) {
	nv, _ := NewNormVecDelay("n", []int{2}, 1, 12)
	nv.Step(tsr(0, 0), tsr(3, 3))

	err := nv.Step(tsr(4096, -1), tsr(1, 1))
	if !errors.Is(err, ErrNegativeRadicand) || KindOf(err) != NegativeRadicand {
		t.Fatalf("err = %v, want NegativeRadicand", err)
	}
	cmpVals(t, "V", nv.V, 0, 0)
	cmpVals(t, "V2", nv.V2, 3, 3)
	cmpVals(t, "S2Out", nv.S2Out, 0, 0)

	if err := nv.Step(tsr(1, 1), tsr(1)); KindOf(err) != ShapeMismatch {
		t.Errorf("short AIn2: err = %v", err)
	}
	if err := nv.Step(tsr(1, 1)); KindOf(err) != ShapeMismatch {
		t.Errorf("missing AIn2: err = %v", err)
	}

	// V = 1 at base 12 gives norm 2^18, so V2 * norm overflows the register
	if err := nv.SetV2(tsr(1<<30, 0)); err != nil {
		t.Fatal(err)
	}
	err = nv.Step(tsr(1, 0), tsr(0, 0))
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Port != "AIn2" || se.Index != 0 {
		t.Errorf("StepError = %+v", se)
	}
	cmpVals(t, "V2", nv.V2, 1<<30, 0)
	if nv.Stats().Steps != 1 {
		t.Errorf("Steps = %d, want 1", nv.Stats().Steps)
	}
}

func TestNormVecDelayState(t *testing.T) {
	nv, _ := NewNormVecDelay("n", []int{2}, 3, 4)
	nv.Step(tsr(10, 20), tsr(5, -5))
	st := nv.State()
	n2, _ := NewNormVecDelay("n", []int{2}, 1, 0)
	if err := n2.SetState(st); err != nil {
		t.Fatal(err)
	}
	cmpVals(t, "V2", n2.V2, nv.V2.Values...)
	for i := 0; i < 10; i++ {
		a1, a2 := tsr(int32(i), 7), tsr(3, int32(i))
		if err := nv.Step(a1, a2); err != nil {
			t.Fatal(err)
		}
		if err := n2.Step(a1, a2); err != nil {
			t.Fatal(err)
		}
		cmpVals(t, "SOut", n2.SOut, nv.SOut.Values...)
		cmpVals(t, "S2Out", n2.S2Out, nv.S2Out.Values...)
	}
	bad := *st
	bad.V2 = nil
	if err := n2.SetState(&bad); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("missing V2: err = %v", err)
	}
}
