// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import "github.com/emer/emergent/v2/etime"

// graded.Time contains the timestep counters and parameters for running a Network
type Time struct {

	// accumulated amount of time the network has been running,
	// in simulation-time (not real world time), in seconds.
	Time float32

	// step counter: number of timesteps since the last Reset,
	// which Network.InitState does at the start of each trial.
	Step int

	// total step count. this increments continuously from whenever
	// it was last reset.
	StepTot int

	// amount of time to increment per step.
	TimePerStep float32 `def:"0.001"`

	// current evaluation mode, e.g., Train, Test, etc
	Mode etime.Modes
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerStep = 0.001
	tm.Mode = etime.Test
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	tm.StepTot = 0
	if tm.TimePerStep == 0 {
		tm.Defaults()
	}
}

// StepInc increments at the step level
func (tm *Time) StepInc() {
	tm.Step++
	tm.StepTot++
	tm.Time += tm.TimePerStep
}
