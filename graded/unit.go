// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"fmt"
	"strings"

	"github.com/emer/etable/v2/etensor"
	"github.com/goki/ki/kit"
)

// Unit is the interface of all graded-spike units, used by Network to
// step, wire and configure them.
type Unit interface {
	// Name is the unique name of the unit within its Network.
	Name() string

	// Class is a space separated list of classes for param selectors.
	Class() string

	// Type returns the unit type.
	Type() UnitTypes

	// Shape returns the shape of all ports and state of the unit.
	Shape() *etensor.Shape

	// SameShape returns true if tsr has the unit's shape.
	SameShape(tsr *etensor.Int32) bool

	// InPorts returns the names of the input ports, in Step argument order.
	InPorts() []string

	// OutPorts returns the names of the output ports.
	OutPorts() []string

	// OutPort returns the output tensor for the named port, nil if none.
	OutPort(name string) *etensor.Int32

	// Step runs one timestep with one input tensor per InPorts entry.
	// On error the unit state and outputs are unchanged.
	Step(in ...*etensor.Int32) error

	// InitState resets membrane state to its initial value and clears outputs.
	InitState()

	// State returns a copy of the unit state.
	State() *UnitState

	// SetState restores the unit state from st, between steps only.
	SetState(st *UnitState) error

	// Stats returns the unit's step statistics.
	Stats() *UnitStats

	// UpdateParams updates derived params after any change.
	UpdateParams()

	// Validate returns an error if the current params are invalid.
	Validate() error

	// saveParams returns a func that restores the current params.
	saveParams() func()

	// TypeName is the type for params.Sheet selectors, e.g. GradedVec.
	// With Class and Name it lets selectors address the unit by
	// type, .class and #name.
	TypeName() string
}

// UnitTypes are the types of graded-spike units.
type UnitTypes int32

var KiT_UnitTypes = kit.Enums.AddEnum(UnitTypesN, false, nil)

func (ev UnitTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *UnitTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// GradedVecUnit is a thresholded graded spike vector.
	GradedVecUnit UnitTypes = iota

	// NormVecDelayUnit is a normalizable graded spike vector.
	NormVecDelayUnit

	// InvSqrtUnit computes the fixed-point inverse square root.
	InvSqrtUnit

	UnitTypesN
)

// UnitStats are statistics updated by each successful step.
type UnitStats struct {

	// number of successful steps since InitState
	Steps int

	// number of elements that fired on the last step
	NFire int

	// cumulative number of elements whose normalization input was zero
	Degenerate int
}

func (us *UnitStats) Init() {
	us.Steps = 0
	us.NFire = 0
	us.Degenerate = 0
}

// UnitBase has the name, shape and stats shared by all unit types.
type UnitBase struct {
	Nm        string        `desc:"name of the unit -- must be unique within a Network"`
	Cls       string        `desc:"space separated classes for params.Sheet .class selectors"`
	Typ       UnitTypes     `inactive:"+" desc:"type of unit"`
	Shp       etensor.Shape `inactive:"+" desc:"shape of all ports and state vectors"`
	StepStats UnitStats     `inactive:"+" view:"inline" desc:"step statistics"`
}

func (ub *UnitBase) Name() string          { return ub.Nm }
func (ub *UnitBase) Class() string         { return ub.Cls }
func (ub *UnitBase) SetClass(cls string)   { ub.Cls = cls }
func (ub *UnitBase) Type() UnitTypes       { return ub.Typ }
func (ub *UnitBase) Shape() *etensor.Shape { return &ub.Shp }
func (ub *UnitBase) Stats() *UnitStats     { return &ub.StepStats }
func (ub *UnitBase) TypeName() string      { return strings.TrimSuffix(ub.Typ.String(), "Unit") }
func (ub *UnitBase) Len() int              { return ub.Shp.Len() }
func (ub *UnitBase) String() string        { return fmt.Sprintf("%s %s %v", ub.TypeName(), ub.Nm, ub.Shp.Shp) }

// config sets the name, type and shape.
func (ub *UnitBase) config(name string, typ UnitTypes, shape []int) error {
	if err := ValidateShape(shape); err != nil {
		return fmt.Errorf("%s %s: %w", strings.TrimSuffix(typ.String(), "Unit"), name, err)
	}
	ub.Nm = name
	ub.Typ = typ
	shp := make([]int, len(shape))
	copy(shp, shape)
	ub.Shp.SetShape(shp, nil, nil)
	return nil
}

// newTensor returns a zero tensor with the unit's shape.
func (ub *UnitBase) newTensor() *etensor.Int32 {
	return etensor.NewInt32(ub.Shp.Shp, nil, nil)
}

// SameShape returns true if tsr has the unit's shape.
func (ub *UnitBase) SameShape(tsr *etensor.Int32) bool {
	if tsr == nil {
		return false
	}
	shp := tsr.Shapes()
	if len(shp) != len(ub.Shp.Shp) || len(tsr.Values) != ub.Len() {
		return false
	}
	for i, d := range shp {
		if d != ub.Shp.Shp[i] {
			return false
		}
	}
	return true
}

// checkInputs returns a ShapeMismatch StepError unless there is one input
// per port, each with the unit's shape.
func (ub *UnitBase) checkInputs(ports []string, in []*etensor.Int32) error {
	if len(in) != len(ports) {
		return ub.stepErr(strings.Join(ports, ","), -1,
			fmt.Errorf("%w: %d inputs for %d ports", ErrShapeMismatch, len(in), len(ports)))
	}
	for i, tsr := range in {
		if ub.SameShape(tsr) {
			continue
		}
		var shp []int
		if tsr != nil {
			shp = tsr.Shapes()
		}
		return ub.stepErr(ports[i], -1,
			fmt.Errorf("%w: input shape %v, unit shape %v", ErrShapeMismatch, shp, ub.Shp.Shp))
	}
	return nil
}

// setTensor copies src into dst after checking its shape.
func (ub *UnitBase) setTensor(dst, src *etensor.Int32, nm string) error {
	if !ub.SameShape(src) {
		return fmt.Errorf("%s %s: set %s: %w", ub.TypeName(), ub.Nm, nm, ErrShapeMismatch)
	}
	copy(dst.Values, src.Values)
	return nil
}

func (ub *UnitBase) stepErr(port string, idx int, err error) *StepError {
	return &StepError{Unit: ub.Nm, Port: port, Kind: KindOf(err), Index: idx, Err: err}
}

// scratch returns buf resized to the unit length.
func (ub *UnitBase) scratch(buf []int32) []int32 {
	n := ub.Len()
	if cap(buf) < n {
		return make([]int32, n)
	}
	return buf[:n]
}
