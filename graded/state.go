// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import "fmt"

// UnitState is a snapshot of a unit's persistent state, used for
// checkpointing and for tests.  Exp holds FPBase for InvSqrt units,
// whose Vth is always 0.
type UnitState struct {
	Name  string    `json:"name"`
	Type  UnitTypes `json:"type"`
	Shape []int     `json:"shape"`
	V     []int32   `json:"v"`
	V2    []int32   `json:"v2,omitempty"`
	Vth   int32     `json:"vth"`
	Exp   int       `json:"exp"`
}

func (st *UnitState) fromBase(ub *UnitBase, vth int32, exp int) {
	st.Name = ub.Nm
	st.Type = ub.Typ
	st.Shape = append([]int(nil), ub.Shp.Shp...)
	st.Vth = vth
	st.Exp = exp
}

// check returns an error if st does not belong to a unit of the type and
// shape of ub.  v2 requires the V2 state as well.
func (st *UnitState) check(ub *UnitBase, v2 bool) error {
	if st.Type != ub.Typ {
		return fmt.Errorf("%s %s: state of type %v: %w", ub.TypeName(), ub.Nm, st.Type, ErrInvalidParams)
	}
	n := ub.Len()
	if len(st.Shape) != len(ub.Shp.Shp) || len(st.V) != n || (v2 && len(st.V2) != n) {
		return fmt.Errorf("%s %s: state shape %v: %w", ub.TypeName(), ub.Nm, st.Shape, ErrShapeMismatch)
	}
	for i, d := range st.Shape {
		if d != ub.Shp.Shp[i] {
			return fmt.Errorf("%s %s: state shape %v: %w", ub.TypeName(), ub.Nm, st.Shape, ErrShapeMismatch)
		}
	}
	return nil
}
