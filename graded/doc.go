// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package graded implements discrete-time graded-spike neuron units that
emulate the fixed-point datapath of a neuromorphic accelerator, using the
numeric rules of package fixpt.

There are three unit types, all stepped once per timestep by an external
driver (typically a Network run from a looper stack):

* GradedVec: accumulates its input into an integer membrane state V and
emits V >> Exp wherever V reaches the threshold Vth << Exp, resetting V there.

* NormVecDelay: accumulates two input channels into V and V2.  SOut is the
GradedVec spike of V, and S2Out is V2 normalized by the fixed-point inverse
square root of V.  Across a Network connection the outputs arrive one step later.

* InvSqrt: accumulates its input and emits the fixed-point inverse square
root of the accumulated value every step.

All state, ports and scratch buffers are etensor.Int32 tensors with the
unit's Shape.  A step either completes or returns a *StepError and leaves
the unit state exactly as it was.
*/
package graded
