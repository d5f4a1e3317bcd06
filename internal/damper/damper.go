package damper

import "math"

// Input is the per-wheel operating point for one damper.
type Input struct {
	CompressionVelocity float64 // m/s, positive in compression
	Displacement        float64 // m
	VehicleSpeed        float64 // km/h
	RoadRoughness       float64 // [0,1]
	Temperature         float64 // °C
	BatterySOC          float64 // [0,1]
	LoadFactor          float64 // [0,1]
}

type Output struct {
	DampingForce     float64 // N
	HarvestedEnergy  float64 // J over one step
	GeneratedPower   float64 // W
	EnergyEfficiency float64 // [0,1]
}

// Idle reports the zero-force, zero-power output a stalled or failed damper produces.
func (o Output) Idle() bool {
	return o.GeneratedPower == 0 && o.DampingForce == 0
}

// Model maps one damper's operating point to its response. Implementations must be pure.
type Model interface {
	Compute(in Input) Output
}

// ModelFunc adapts a plain function to Model.
type ModelFunc func(Input) Output

func (f ModelFunc) Compute(in Input) Output { return f(in) }

type Params struct {
	Coefficient            float64 // N·s/m at zero load and smooth road
	MaxForce               float64
	MaxVelocity            float64
	MaxStroke              float64
	Deadband               float64 // |v| below this is treated as idle
	GeneratorEfficiency    float64
	NominalTemperature     float64
	TemperatureCoefficient float64 // efficiency loss per °C above nominal
	StepDuration           float64 // s, used to integrate power into energy
}

func DefaultParams() Params {
	return Params{
		Coefficient:            2200,
		MaxForce:               6000,
		MaxVelocity:            2.0,
		MaxStroke:              0.12,
		Deadband:               0.002,
		GeneratorEfficiency:    0.78,
		NominalTemperature:     40,
		TemperatureCoefficient: 0.004,
		StepDuration:           0.1,
	}
}

// Electromagnetic is a linear-motor regenerative damper. Force scales with load and roughness,
// conversion efficiency derates with temperature and with a nearly full battery.
type Electromagnetic struct {
	p Params
}

func NewElectromagnetic(p Params) *Electromagnetic {
	return &Electromagnetic{p: p}
}

func (d *Electromagnetic) Params() Params { return d.p }

func (d *Electromagnetic) Compute(in Input) Output {
	v := clamp(in.CompressionVelocity, -d.p.MaxVelocity, d.p.MaxVelocity)
	x := clamp(in.Displacement, -d.p.MaxStroke, d.p.MaxStroke)
	if math.Abs(v) < d.p.Deadband || math.IsNaN(v) {
		return Output{}
	}

	load := clamp(in.LoadFactor, 0, 1)
	rough := clamp(in.RoadRoughness, 0, 1)
	c := d.p.Coefficient * (1 + 0.5*load) * (1 + 0.3*rough)

	// end-stop stiffening in the last 20% of stroke
	if d.p.MaxStroke > 0 && math.Abs(x) > 0.8*d.p.MaxStroke {
		c *= 1 + 2*(math.Abs(x)/d.p.MaxStroke-0.8)
	}

	thermal := d.thermalFactor(in.Temperature)
	force := clamp(c*v*thermal, -d.p.MaxForce, d.p.MaxForce)

	eff := d.p.GeneratorEfficiency * thermal * socFactor(in.BatterySOC) * speedFactor(in.VehicleSpeed)
	eff = clamp(eff, 0, 1)

	power := math.Abs(force*v) * eff
	return Output{
		DampingForce:     force,
		HarvestedEnergy:  power * d.p.StepDuration,
		GeneratedPower:   power,
		EnergyEfficiency: eff,
	}
}

func (d *Electromagnetic) thermalFactor(temp float64) float64 {
	over := temp - d.p.NominalTemperature
	if over <= 0 {
		return 1
	}
	return clamp(1-d.p.TemperatureCoefficient*over, 0.5, 1)
}

// A full pack cannot absorb regenerated current.
func socFactor(soc float64) float64 {
	if soc > 0.95 {
		return 0.3
	}
	return 1
}

func speedFactor(kmh float64) float64 {
	return clamp(0.85+kmh/400, 0.85, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
