// Copyright (c) 2022, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"log"

	"github.com/emer/emergent/v2/etime"
	"github.com/emer/emergent/v2/looper"
)

// LooperStdStep adds a Step of the network to the Cycle loop of every
// stack in man, followed by a Record to slog if it is non-nil.
// The first step error is logged and stored in Err, and later
// steps are skipped until Err is cleared.
func LooperStdStep(man *looper.Manager, net *Network, slog *StepLog) {
	for m := range man.Stacks {
		cycLoop := man.Stacks[m].Loops[etime.Cycle]
		cycLoop.Main.Add("Step", func() {
			if net.Err != nil {
				return
			}
			if err := net.Step(); err != nil {
				log.Printf("graded.Network %s Step: %v\n", net.Nm, err)
				net.Err = err
				return
			}
			if slog != nil {
				slog.Record(net)
			}
		})
	}
}

// LooperInitState adds an InitState of the network, and a Reset of
// slog if non-nil, at the start of the given loop of each stack
// (etime.Trial by default).
func LooperInitState(man *looper.Manager, net *Network, slog *StepLog, trial ...etime.Times) {
	trl := etime.Trial
	if len(trial) > 0 {
		trl = trial[0]
	}
	for m := range man.Stacks {
		lp, ok := man.Stacks[m].Loops[trl]
		if !ok {
			continue
		}
		lp.OnStart.Add("InitState", func() {
			net.InitState()
			if slog != nil {
				slog.Reset()
			}
		})
	}
}
