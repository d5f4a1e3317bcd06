package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/regensim/internal/damper"
	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/mrfluid"
)

func entry(forces []float64, eff float64, fluidTemp float64) datalog.Entry {
	var e datalog.Entry
	for i, f := range forces {
		e.Dampers[i] = damper.Output{DampingForce: f, GeneratedPower: math.Abs(f), EnergyEfficiency: eff}
	}
	e.Fluid = mrfluid.Output{Viscosity: 0.2, FluidTemperature: fluidTemp, TotalEnergyRecovery: 10}
	return e
}

func TestZeroSamples(t *testing.T) {
	ms := []Metric{
		NewMeanForce(), NewMaxForce(), NewDampingEfficiency(), NewReliability(),
		NewRecoveredEnergy(0.1), NewRecoveryRate(), NewMeanViscosity(),
		NewMinFluidTemperature(), NewMaxFluidTemperature(),
	}
	for name, v := range Reduce(nil, ms...) {
		if v != 0 {
			t.Errorf("%s: expected 0 for an empty log, got %f", name, v)
		}
	}
}

func TestForceMetrics(t *testing.T) {
	entries := []datalog.Entry{
		entry([]float64{100, -200, 300, -400}, 0.5, 30),
		entry([]float64{0, 0, 0, 0}, 0.5, 40),
	}
	got := Reduce(entries, NewMeanForce(), NewMaxForce())
	if got["mean_force"] != 125 {
		t.Errorf("expected mean 125, got %f", got["mean_force"])
	}
	if got["max_force"] != 400 {
		t.Errorf("expected max 400, got %f", got["max_force"])
	}
}

func TestReliability(t *testing.T) {
	tests := []struct {
		name    string
		entries []datalog.Entry
		want    float64
	}{
		{"all idle", []datalog.Entry{entry(nil, 0, 20), entry(nil, 0, 20)}, 0},
		{"all active", []datalog.Entry{entry([]float64{1, 1, 1, 1}, 0.5, 20)}, 100},
		{"half active", []datalog.Entry{entry([]float64{1, 1, 0, 0}, 0.5, 20)}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.entries, NewReliability())["reliability"]
			if got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestDampingEfficiencyPercent(t *testing.T) {
	entries := []datalog.Entry{
		entry([]float64{1, 1, 1, 1}, 0.6, 20),
		entry([]float64{1, 1, 1, 1}, 0.8, 20),
	}
	got := Reduce(entries, NewDampingEfficiency())["damping_efficiency"]
	if math.Abs(got-70) > 1e-9 {
		t.Errorf("expected 70%%, got %f", got)
	}
}

func TestEnergyMetrics(t *testing.T) {
	entries := []datalog.Entry{
		entry([]float64{10, 10, 10, 10}, 0.5, 20),
		entry([]float64{20, 20, 20, 20}, 0.5, 20),
	}
	got := Reduce(entries, NewRecoveredEnergy(0.5), NewRecoveryRate())
	// (40+10 + 80+10) W over 0.5 s each.
	if math.Abs(got["recovered_energy"]-70) > 1e-9 {
		t.Errorf("expected 70 J, got %f", got["recovered_energy"])
	}
	if math.Abs(got["recovery_rate"]-70) > 1e-9 {
		t.Errorf("expected 70 W, got %f", got["recovery_rate"])
	}
}

func TestFluidTemperatureRange(t *testing.T) {
	entries := []datalog.Entry{
		entry(nil, 0, 35), entry(nil, 0, 20), entry(nil, 0, 50),
	}
	got := Reduce(entries, NewMinFluidTemperature(), NewMaxFluidTemperature(), NewMeanViscosity())
	if got["min_fluid_temperature"] != 20 || got["max_fluid_temperature"] != 50 {
		t.Errorf("expected 20..50, got %f..%f", got["min_fluid_temperature"], got["max_fluid_temperature"])
	}
	if math.Abs(got["mean_viscosity"]-0.2) > 1e-12 {
		t.Errorf("expected viscosity 0.2, got %f", got["mean_viscosity"])
	}
}

func TestReset(t *testing.T) {
	m := NewMaxForce()
	m.Observe(entry([]float64{500}, 0, 0))
	if m.Value() != 500 {
		t.Fatalf("expected 500, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}
