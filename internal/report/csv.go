package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/vehicle"
)

var cornerFields = []string{"displacement", "velocity", "force", "temperature", "power"}

// ColumnName is the CSV column holding a per-corner field, e.g. "front_left_velocity".
func ColumnName(c vehicle.Corner, field string) string {
	return strings.ReplaceAll(c.String(), "-", "_") + "_" + field
}

func header() []string {
	h := []string{"step", "elapsed_s", "speed_kmh", "acceleration", "battery_soc"}
	for _, c := range vehicle.Corners() {
		for _, f := range cornerFields {
			h = append(h, ColumnName(c, f))
		}
	}
	return append(h,
		"fluid_viscosity", "fluid_temperature", "fluid_recovery_w", "derating_factor",
		"braking_intensity", "regen_ratio", "recovered_power_w")
}

// WriteCSV writes one row per log entry under a fixed header.
func WriteCSV(w io.Writer, entries []datalog.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header()); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{strconv.Itoa(e.Step), f(e.Elapsed), f(e.State.Motion.Speed),
			f(e.State.Motion.Acceleration), f(e.State.Status.BatterySOC)}
		for _, c := range vehicle.Corners() {
			corner := e.State.Corners[c]
			row = append(row, f(corner.Displacement), f(corner.Velocity), f(corner.Force),
				f(corner.Temperature), f(e.Dampers[c].GeneratedPower))
		}
		row = append(row,
			f(e.Fluid.Viscosity), f(e.Fluid.FluidTemperature), f(e.Fluid.TotalEnergyRecovery),
			f(e.Fluid.DeratingFactor), f(e.BrakingIntensity), f(e.Braking.RegenRatio),
			f(e.RecoveredPower()))
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// Table is a column-oriented view of a log CSV.
type Table struct {
	Header  []string
	columns map[string][]float64
}

func (t *Table) Column(name string) ([]float64, bool) {
	c, ok := t.columns[name]
	return c, ok
}

func (t *Table) Rows() int {
	if len(t.Header) == 0 {
		return 0
	}
	return len(t.columns[t.Header[0]])
}

// ReadTable parses a CSV written by WriteCSV. Every cell must be numeric.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty log")
	}

	t := &Table{Header: records[0], columns: make(map[string][]float64, len(records[0]))}
	for _, name := range t.Header {
		t.columns[name] = make([]float64, 0, len(records)-1)
	}
	for i, rec := range records[1:] {
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, t.Header[j], err)
			}
			t.columns[t.Header[j]] = append(t.columns[t.Header[j]], v)
		}
	}
	return t, nil
}
