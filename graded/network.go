// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/v2/params"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/graded/fixpt"
	"github.com/goki/kigen/ordmap"
)

// PortKey identifies a port of a unit.
type PortKey struct {
	Unit string
	Port string
}

func (pk PortKey) String() string { return pk.Unit + "." + pk.Port }

// Conn connects an output port of a sending unit to an input port of a
// receiving unit.  Values sent on step t arrive as input on step t+1.
type Conn struct {
	Send PortKey
	Recv PortKey
}

func (cn *Conn) String() string { return cn.Send.String() + " -> " + cn.Recv.String() }

// Network is the external driver of a set of graded-spike units.
// Each Step it assembles every unit's inputs from external values set
// with SetExt plus the outputs of connected units from the previous step,
// then steps each unit once, in the order the units were added.
// Multiple sources into the same input port are summed.
type Network struct {
	Nm    string                    `desc:"name of the network"`
	Units *ordmap.Map[string, Unit] `desc:"units in the order they are stepped"`
	Conns []*Conn                   `desc:"connections between unit ports"`
	Time  Time                      `desc:"timestep counters"`
	Err   error                     `view:"-" desc:"first Step error seen by a looper Step func, which skips steps until cleared"`

	ext    map[PortKey]*etensor.Int32
	recvs  map[PortKey][]*Conn
	inBufs map[string][]*etensor.Int32
}

// NewNetwork returns a new empty Network.
func NewNetwork(name string) *Network {
	nt := &Network{Nm: name}
	nt.Units = ordmap.New[string, Unit]()
	nt.Time.Defaults()
	nt.ext = make(map[PortKey]*etensor.Int32)
	nt.recvs = make(map[PortKey][]*Conn)
	nt.inBufs = make(map[string][]*etensor.Int32)
	return nt
}

func (nt *Network) Name() string { return nt.Nm }

// NUnits returns the number of units.
func (nt *Network) NUnits() int { return nt.Units.Len() }

// UnitByIndex returns the unit at index i in step order.
func (nt *Network) UnitByIndex(i int) Unit { return nt.Units.ValByIdx(i) }

// UnitByName returns the named unit, or an error if not found.
func (nt *Network) UnitByName(name string) (Unit, error) {
	u, ok := nt.Units.ValByKey(name)
	if !ok {
		return nil, fmt.Errorf("network %s: unit %q not found", nt.Nm, name)
	}
	return u, nil
}

// AddUnit adds a configured unit, whose name must be unique.
func (nt *Network) AddUnit(u Unit) error {
	if _, has := nt.Units.ValByKey(u.Name()); has {
		return fmt.Errorf("network %s: duplicate unit name %q", nt.Nm, u.Name())
	}
	nt.Units.Add(u.Name(), u)
	ins := make([]*etensor.Int32, len(u.InPorts()))
	for i := range ins {
		ins[i] = etensor.NewInt32(u.Shape().Shp, nil, nil)
	}
	nt.inBufs[u.Name()] = ins
	return nil
}

// AddGradedVec adds a new GradedVec unit.
func (nt *Network) AddGradedVec(name string, shape []int, vth int32, exp int) (*GradedVec, error) {
	gv, err := NewGradedVec(name, shape, vth, exp)
	if err != nil {
		return nil, err
	}
	return gv, nt.AddUnit(gv)
}

// AddNormVecDelay adds a new NormVecDelay unit.
func (nt *Network) AddNormVecDelay(name string, shape []int, vth int32, exp int) (*NormVecDelay, error) {
	nv, err := NewNormVecDelay(name, shape, vth, exp)
	if err != nil {
		return nil, err
	}
	return nv, nt.AddUnit(nv)
}

// AddInvSqrt adds a new InvSqrt unit.
func (nt *Network) AddInvSqrt(name string, shape []int, fpBase int) (*InvSqrt, error) {
	is, err := NewInvSqrt(name, shape, fpBase)
	if err != nil {
		return nil, err
	}
	return is, nt.AddUnit(is)
}

// inPortIndex returns the index of the named input port of u, -1 if none.
func inPortIndex(u Unit, port string) int {
	for i, p := range u.InPorts() {
		if p == port {
			return i
		}
	}
	return -1
}

// Connect connects output port sendPort of unit send to input port
// recvPort of unit recv.  Both units must have the same shape.
func (nt *Network) Connect(send, sendPort, recv, recvPort string) (*Conn, error) {
	su, err := nt.UnitByName(send)
	if err != nil {
		return nil, err
	}
	ru, err := nt.UnitByName(recv)
	if err != nil {
		return nil, err
	}
	if su.OutPort(sendPort) == nil {
		return nil, fmt.Errorf("network %s: unit %s has no output port %q", nt.Nm, send, sendPort)
	}
	if inPortIndex(ru, recvPort) < 0 {
		return nil, fmt.Errorf("network %s: unit %s has no input port %q", nt.Nm, recv, recvPort)
	}
	if !ru.SameShape(su.OutPort(sendPort)) {
		return nil, fmt.Errorf("network %s: connect %s.%s %v -> %s.%s %v: %w", nt.Nm,
			send, sendPort, su.Shape().Shp, recv, recvPort, ru.Shape().Shp, ErrShapeMismatch)
	}
	cn := &Conn{Send: PortKey{send, sendPort}, Recv: PortKey{recv, recvPort}}
	nt.Conns = append(nt.Conns, cn)
	nt.recvs[cn.Recv] = append(nt.recvs[cn.Recv], cn)
	return cn, nil
}

// SetExt sets the external input for the given unit input port, which is
// applied on every Step until changed or cleared.  The values are copied.
func (nt *Network) SetExt(unit, port string, tsr *etensor.Int32) error {
	u, err := nt.UnitByName(unit)
	if err != nil {
		return err
	}
	if inPortIndex(u, port) < 0 {
		return fmt.Errorf("network %s: unit %s has no input port %q", nt.Nm, unit, port)
	}
	if !u.SameShape(tsr) {
		var shp []int
		if tsr != nil {
			shp = tsr.Shapes()
		}
		return &StepError{Unit: unit, Port: port, Kind: ShapeMismatch, Index: -1,
			Err: fmt.Errorf("%w: external input shape %v, unit shape %v", ErrShapeMismatch, shp, u.Shape().Shp)}
	}
	pk := PortKey{unit, port}
	ext, has := nt.ext[pk]
	if !has {
		ext = etensor.NewInt32(u.Shape().Shp, nil, nil)
		nt.ext[pk] = ext
	}
	copy(ext.Values, tsr.Values)
	return nil
}

// SetExtValues sets the external input from a flat slice of values.
func (nt *Network) SetExtValues(unit, port string, vals []int32) error {
	u, err := nt.UnitByName(unit)
	if err != nil {
		return err
	}
	tsr := etensor.NewInt32(u.Shape().Shp, nil, nil)
	if len(vals) != len(tsr.Values) {
		return &StepError{Unit: unit, Port: port, Kind: ShapeMismatch, Index: -1,
			Err: fmt.Errorf("%w: %d values, unit shape %v", ErrShapeMismatch, len(vals), u.Shape().Shp)}
	}
	copy(tsr.Values, vals)
	return nt.SetExt(unit, port, tsr)
}

// ClearExt removes all external inputs.
func (nt *Network) ClearExt() {
	nt.ext = make(map[PortKey]*etensor.Int32)
}

// InitState initializes the state of all units, resets the Time
// counters and clears Err.
func (nt *Network) InitState() {
	for i := 0; i < nt.Units.Len(); i++ {
		nt.Units.ValByIdx(i).InitState()
	}
	nt.Time.Reset()
	nt.Err = nil
}

// gatherInputs fills the input buffers of every unit from the external
// inputs and the current outputs of connected units.
func (nt *Network) gatherInputs() error {
	for i := 0; i < nt.Units.Len(); i++ {
		u := nt.Units.ValByIdx(i)
		ins := nt.inBufs[u.Name()]
		for pi, port := range u.InPorts() {
			pk := PortKey{u.Name(), port}
			buf := ins[pi].Values
			if ext, has := nt.ext[pk]; has {
				copy(buf, ext.Values)
			} else {
				for j := range buf {
					buf[j] = 0
				}
			}
			for _, cn := range nt.recvs[pk] {
				su, _ := nt.Units.ValByKey(cn.Send.Unit)
				out := su.OutPort(cn.Send.Port).Values
				for j, sv := range out {
					s, err := fixpt.Add32(buf[j], sv)
					if err != nil {
						return &StepError{Unit: pk.Unit, Port: pk.Port, Kind: Overflow, Index: j,
							Err: fmt.Errorf("summing input from %s: %w", cn.Send, err)}
					}
					buf[j] = s
				}
			}
		}
	}
	return nil
}

// Step runs one timestep of the whole network.  All inputs are gathered
// before any unit is stepped, so connected outputs are those of the
// previous step.  It stops at the first unit error, which is returned,
// leaving that unit and all following units unstepped.
func (nt *Network) Step() error {
	if err := nt.gatherInputs(); err != nil {
		return err
	}
	for i := 0; i < nt.Units.Len(); i++ {
		u := nt.Units.ValByIdx(i)
		if err := u.Step(nt.inBufs[u.Name()]...); err != nil {
			return err
		}
	}
	nt.Time.StepInc()
	return nil
}

// ApplyParams applies given parameter style Sheet to the units in this network.
// Calls UpdateParams on anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// A unit whose new params fail validation keeps its previous params.
// returns true if any params were set, and error if there were any errors,
// including params that fail validation.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for i := 0; i < nt.Units.Len(); i++ {
		u := nt.Units.ValByIdx(i)
		restore := u.saveParams()
		app, err := pars.Apply(u, setMsg)
		if app {
			if verr := u.Validate(); verr != nil {
				log.Println(verr)
				restore()
				rerr = verr
			} else {
				applied = true
			}
			u.UpdateParams()
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// States returns a snapshot of the state of all units.
func (nt *Network) States() []*UnitState {
	sts := make([]*UnitState, nt.Units.Len())
	for i := range sts {
		sts[i] = nt.Units.ValByIdx(i).State()
	}
	return sts
}

// SetStates restores unit states by unit name.  If any state fails to
// apply, all units are restored to their prior state.
func (nt *Network) SetStates(sts []*UnitState) error {
	prev := nt.States()
	for _, st := range sts {
		u, err := nt.UnitByName(st.Name)
		if err == nil {
			err = u.SetState(st)
		}
		if err != nil {
			for _, ps := range prev {
				u, _ := nt.Units.ValByKey(ps.Name)
				u.SetState(ps)
			}
			return err
		}
	}
	return nil
}

// SaveStateJSON writes the state of all units to w as JSON.
func (nt *Network) SaveStateJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nt.States())
}

// LoadStateJSON restores unit states saved by SaveStateJSON.
func (nt *Network) LoadStateJSON(r io.Reader) error {
	var sts []*UnitState
	if err := json.NewDecoder(r).Decode(&sts); err != nil {
		return fmt.Errorf("network %s: LoadStateJSON: %w", nt.Nm, err)
	}
	return nt.SetStates(sts)
}

// SizeReport returns a string reporting the size of each unit,
// and the total memory used by state and port tensors.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	tot := 0
	for i := 0; i < nt.Units.Len(); i++ {
		u := nt.Units.ValByIdx(i)
		n := u.Shape().Len()
		ntsr := len(u.InPorts()) + len(u.OutPorts()) + 1
		if u.Type() == NormVecDelayUnit {
			ntsr++
		}
		mem := ntsr * n * 4
		tot += mem
		fmt.Fprintf(&b, "%14s:\t %s\t Shape: %v\t Mem: %v\n", u.Name(), u.TypeName(), u.Shape().Shp, (datasize.ByteSize)(mem).HumanReadable())
	}
	fmt.Fprintf(&b, "\n%14s:\t Units: %d\t Conns: %d\t Mem: %v\n", nt.Nm, nt.Units.Len(), len(nt.Conns), (datasize.ByteSize)(tot).HumanReadable())
	return b.String()
}
