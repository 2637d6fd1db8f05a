// Copyright (c) 2023, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graded

import (
	"io"
	"strconv"

	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
	"github.com/emer/etable/v2/minmax"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// StepLog records the outputs of every unit of a Network, one row per step.
// For each unit output port there is a tensor column with the output values,
// plus _Avg and _Max columns, and each unit has an _NFire column.
type StepLog struct {

	// the log table
	Table *etable.Table

	// output ports logged, in column order
	Ports []PortKey

	avgMax minmax.AvgMax32
}

// ColName returns the column name for the given port and suffix.
func (sl *StepLog) ColName(pk PortKey, sfx string) string {
	return pk.Unit + "_" + pk.Port + sfx
}

// Config configures the table columns for the units in net, with no rows.
func (sl *StepLog) Config(net *Network) {
	if sl.Table == nil {
		sl.Table = &etable.Table{}
	}
	dt := sl.Table
	dt.SetMetaData("name", net.Nm+"StepLog")
	dt.SetMetaData("desc", "Record of unit outputs per step")
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))

	sl.Ports = nil
	sch := etable.Schema{
		{"Step", etensor.INT64, nil, nil},
		{"Time", etensor.FLOAT64, nil, nil},
	}
	for i := 0; i < net.NUnits(); i++ {
		u := net.UnitByIndex(i)
		for _, port := range u.OutPorts() {
			pk := PortKey{u.Name(), port}
			sl.Ports = append(sl.Ports, pk)
			sch = append(sch, etable.Column{sl.ColName(pk, ""), etensor.INT32, u.Shape().Shp, nil})
			sch = append(sch, etable.Column{sl.ColName(pk, "_Avg"), etensor.FLOAT64, nil, nil})
			sch = append(sch, etable.Column{sl.ColName(pk, "_Max"), etensor.FLOAT64, nil, nil})
		}
		sch = append(sch, etable.Column{u.Name() + "_NFire", etensor.INT64, nil, nil})
	}
	dt.SetFromSchema(sch, 0)
}

// Record adds a row with the current outputs of net.
func (sl *StepLog) Record(net *Network) {
	dt := sl.Table
	row := dt.Rows
	dt.SetNumRows(row + 1)

	dt.SetCellFloat("Step", row, float64(net.Time.StepTot))
	dt.SetCellFloat("Time", row, float64(net.Time.Time))
	for _, pk := range sl.Ports {
		u, err := net.UnitByName(pk.Unit)
		if err != nil {
			continue
		}
		out := u.OutPort(pk.Port)
		dt.SetCellTensor(sl.ColName(pk, ""), row, out)
		am := &sl.avgMax
		am.Init()
		for i, v := range out.Values {
			am.UpdateValue(float32(v), int32(i))
		}
		am.CalcAvg()
		dt.SetCellFloat(sl.ColName(pk, "_Avg"), row, float64(am.Avg))
		dt.SetCellFloat(sl.ColName(pk, "_Max"), row, float64(am.Max))
	}
	for i := 0; i < net.NUnits(); i++ {
		u := net.UnitByIndex(i)
		dt.SetCellFloat(u.Name()+"_NFire", row, float64(u.Stats().NFire))
	}
}

// Reset removes all rows.
func (sl *StepLog) Reset() {
	if sl.Table != nil {
		sl.Table.SetNumRows(0)
	}
}

// WriteCSV writes the log as tab separated values with headers.
func (sl *StepLog) WriteCSV(w io.Writer) error {
	return sl.Table.WriteCSV(w, etable.Tab, true)
}
