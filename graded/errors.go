// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"errors"
	"fmt"

	"github.com/emer/graded/fixpt"
	"github.com/goki/ki/kit"
)

var (
	// ErrShapeMismatch is returned when an input does not have the unit's shape.
	ErrShapeMismatch = errors.New("graded: shape mismatch")

	// ErrInvalidParams is returned when unit parameters fail validation.
	ErrInvalidParams = errors.New("graded: invalid params")

	// ErrOverflow and ErrNegativeRadicand are the fixpt errors, for errors.Is.
	ErrOverflow         = fixpt.ErrOverflow
	ErrNegativeRadicand = fixpt.ErrNegativeRadicand
)

// ErrKinds are the kinds of failure a unit step can report.
type ErrKinds int32

//go:generate stringer -type=ErrKinds,UnitTypes

var KiT_ErrKinds = kit.Enums.AddEnum(ErrKindsN, false, nil)

func (ev ErrKinds) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ErrKinds) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ShapeMismatch: an input vector does not have the unit's shape.
	ShapeMismatch ErrKinds = iota

	// Overflow: an accumulation or product left the register range.
	Overflow

	// NegativeRadicand: the inverse square root was asked for a negative value.
	NegativeRadicand

	// InvalidParams: a parameter, such as a fixed-point base, is out of range.
	InvalidParams

	ErrKindsN
)

// StepError reports a failed unit step.  The unit state is unchanged.
type StepError struct {

	// name of the unit
	Unit string

	// port whose input led to the failure
	Port string

	// kind of failure
	Kind ErrKinds

	// flat index of the offending element, -1 if not element specific
	Index int

	// underlying error: ErrShapeMismatch or a fixpt error
	Err error
}

func (se *StepError) Error() string {
	if se.Index < 0 {
		return fmt.Sprintf("%s port %s: %v: %v", se.Unit, se.Port, se.Kind, se.Err)
	}
	return fmt.Sprintf("%s port %s [%d]: %v: %v", se.Unit, se.Port, se.Index, se.Kind, se.Err)
}

func (se *StepError) Unwrap() error { return se.Err }

// KindOf returns the ErrKinds for an error returned from fixpt or a step.
func KindOf(err error) ErrKinds {
	var se *StepError
	switch {
	case errors.As(err, &se):
		return se.Kind
	case errors.Is(err, fixpt.ErrNegativeRadicand):
		return NegativeRadicand
	case errors.Is(err, ErrShapeMismatch):
		return ShapeMismatch
	case errors.Is(err, ErrInvalidParams), errors.Is(err, fixpt.ErrFPBase):
		return InvalidParams
	}
	return Overflow
}
