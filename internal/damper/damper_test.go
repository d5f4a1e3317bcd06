package damper

import (
	"math"
	"testing"
)

func nominal() Input {
	return Input{
		CompressionVelocity: 0.3,
		Displacement:        0.02,
		VehicleSpeed:        60,
		RoadRoughness:       0.4,
		Temperature:         30,
		BatterySOC:          0.7,
		LoadFactor:          0.5,
	}
}

func TestComputeDeterministic(t *testing.T) {
	d := NewElectromagnetic(DefaultParams())
	a := d.Compute(nominal())
	b := d.Compute(nominal())
	if a != b {
		t.Errorf("expected identical outputs, got %+v and %+v", a, b)
	}
	if a.Idle() {
		t.Error("nominal input should not be idle")
	}
}

func TestComputeDeadbandIsIdle(t *testing.T) {
	d := NewElectromagnetic(DefaultParams())
	in := nominal()
	in.CompressionVelocity = 0.0005
	out := d.Compute(in)
	if !out.Idle() {
		t.Errorf("expected idle output, got %+v", out)
	}
}

func TestComputeClampsForce(t *testing.T) {
	p := DefaultParams()
	d := NewElectromagnetic(p)
	in := nominal()
	in.CompressionVelocity = 50
	in.Displacement = 3

	out := d.Compute(in)
	if math.Abs(out.DampingForce) > p.MaxForce {
		t.Errorf("force %f exceeds clamp %f", out.DampingForce, p.MaxForce)
	}
	if math.IsNaN(out.GeneratedPower) || math.IsInf(out.GeneratedPower, 0) {
		t.Error("power must stay finite")
	}
}

func TestComputeForceOpposesSign(t *testing.T) {
	d := NewElectromagnetic(DefaultParams())
	in := nominal()
	up := d.Compute(in)
	in.CompressionVelocity = -in.CompressionVelocity
	down := d.Compute(in)

	if math.Signbit(up.DampingForce) == math.Signbit(down.DampingForce) {
		t.Errorf("expected opposite force signs, got %f and %f", up.DampingForce, down.DampingForce)
	}
	if math.Abs(up.GeneratedPower-down.GeneratedPower) > 1e-9 {
		t.Error("power should be symmetric in velocity")
	}
}

func TestComputeDerates(t *testing.T) {
	d := NewElectromagnetic(DefaultParams())

	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"hot damper", func(in *Input) { in.Temperature = 120 }},
		{"full battery", func(in *Input) { in.BatterySOC = 0.99 }},
	}

	base := d.Compute(nominal())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := nominal()
			tt.mutate(&in)
			out := d.Compute(in)
			if out.EnergyEfficiency >= base.EnergyEfficiency {
				t.Errorf("expected efficiency below %f, got %f", base.EnergyEfficiency, out.EnergyEfficiency)
			}
		})
	}
}

func TestHarvestedEnergyIntegratesStep(t *testing.T) {
	p := DefaultParams()
	p.StepDuration = 0.5
	out := NewElectromagnetic(p).Compute(nominal())
	if math.Abs(out.HarvestedEnergy-out.GeneratedPower*0.5) > 1e-9 {
		t.Errorf("expected energy = power*dt, got %f vs %f", out.HarvestedEnergy, out.GeneratedPower*0.5)
	}
}
