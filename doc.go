// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package graded is the overall repository for the graded-spike fixed-point
neuron models implemented in the Go language (golang), which emulate the
integer datapath of neuromorphic hardware bit for bit.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* fixpt: the fixed-point numeric rules of the datapath: the hardware rounding rule,
arithmetic right shift scaling, overflow-checked register arithmetic, and the
iterative fixed-point inverse square root.

* graded: the neuron units (GradedVec, NormVecDelay, InvSqrt), each stepped once
per timestep on integer input vectors, and the Network that wires unit ports
together across timesteps, with params styling, a per-step etable log, and
looper integration.

* examples: these actually compile into runnable programs and provide the starting
point for your own simulations.  examples/normnet wires a GradedVec into a
NormVecDelay and an InvSqrt unit and saves the per-step outputs.
*/
package graded
