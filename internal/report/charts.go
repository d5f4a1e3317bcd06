package report

import (
	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/vehicle"
)

// LogCharts builds the standard charts of a run keyed by file stem.
func LogCharts(entries []datalog.Entry) map[string]Chart {
	n := len(entries)
	t := make([]float64, n)
	power := make([]float64, n)
	fluidTemp := make([]float64, n)
	speed := make([]float64, n)
	travel := make(map[vehicle.Corner][]float64, vehicle.NumCorners)
	for _, c := range vehicle.Corners() {
		travel[c] = make([]float64, n)
	}
	for i, e := range entries {
		t[i] = e.Elapsed
		power[i] = e.RecoveredPower()
		fluidTemp[i] = e.Fluid.FluidTemperature
		speed[i] = e.State.Motion.Speed
		for _, c := range vehicle.Corners() {
			travel[c][i] = e.State.Corners[c].Displacement * 1000
		}
	}

	travelSeries := make([]Series, 0, vehicle.NumCorners)
	for _, c := range vehicle.Corners() {
		travelSeries = append(travelSeries, Series{Name: c.String(), X: t, Y: travel[c]})
	}

	return map[string]Chart{
		"recovered_power": {
			Title: "Recovered power", XLabel: "time (s)", YLabel: "power (W)",
			Series: []Series{{X: t, Y: power}},
		},
		"fluid_temperature": {
			Title: "MR fluid temperature", XLabel: "time (s)", YLabel: "temperature (°C)",
			Series: []Series{{X: t, Y: fluidTemp}},
		},
		"speed": {
			Title: "Vehicle speed", XLabel: "time (s)", YLabel: "speed (km/h)",
			Series: []Series{{X: t, Y: speed}},
		},
		"suspension_travel": {
			Title: "Suspension travel", XLabel: "time (s)", YLabel: "displacement (mm)",
			Series: travelSeries,
		},
	}
}
