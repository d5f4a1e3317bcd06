package mrfluid

import (
	"math"
	"time"

	"github.com/san-kum/regensim/internal/dynamo"
	"github.com/san-kum/regensim/internal/ringbuf"
)

const (
	// TargetEfficiency is the conversion efficiency adaptive field control steers towards.
	TargetEfficiency = 0.85

	// MinDerating is the floor applied by thermal derating.
	MinDerating = 0.3

	// MinFrequencyFactor is the floor of the response-lag roll-off above the critical frequency.
	MinFrequencyFactor = 0.3

	brakingShearScale    = 500.0  // 1/m across a 2 mm braking gap
	suspensionShearScale = 1000.0 // 1/m across a 1 mm damper gap
	heatRise             = 0.004  // K·(W/m·K)/W
	fieldCeilingRatio    = 0.9
	coilLoss             = 0.01 // W per (kA/m)^2
)

// Input is the system-wide operating point of the fluid circuit for one step.
type Input struct {
	SuspensionVelocity float64 // m/s, mean absolute corner velocity
	SuspensionForce    float64 // N, mean absolute corner force
	VehicleSpeed       float64 // km/h
	BrakingIntensity   float64 // [0,1]
	MagneticField      float64 // kA/m requested
	BatterySOC         float64
	MotorTemperature   float64 // °C
	AmbientTemperature float64 // °C
	Frequency          float64 // Hz
}

type Output struct {
	Viscosity           float64 // Pa·s, apparent
	DampingCoefficient  float64 // N·s/m
	BrakingRecovery     float64 // W
	SuspensionRecovery  float64 // W
	TotalEnergyRecovery float64 // W
	FluidTemperature    float64 // °C
	RequiredField       float64 // kA/m
	Efficiency          float64
	ShearRate           float64 // 1/s
	FrequencyFactor     float64
	DeratingFactor      float64
	Derated             bool
	PowerDraw           float64 // W consumed by the field coil
}

type Params struct {
	DeratingEnabled   bool
	ThermalCeiling    float64 // °C
	AdaptiveField     bool
	GeometryFactor    float64 // m³, converts viscosity to a damping coefficient
	BrakingForceScale float64 // N at full braking intensity
	HistoryCapacity   int
}

func DefaultParams() Params {
	return Params{
		DeratingEnabled:   true,
		ThermalCeiling:    85,
		AdaptiveField:     true,
		GeometryFactor:    4000,
		BrakingForceScale: 4000,
		HistoryCapacity:   1000,
	}
}

// HistoryEntry is one recorded Compute call.
type HistoryEntry struct {
	Timestamp           time.Time
	Formulation         string
	Efficiency          float64
	TotalEnergyRecovery float64
	FluidTemperature    float64
	Viscosity           float64
	DeratingFactor      float64
}

func NewHistoryEntry(ts time.Time, formulation string, out Output) HistoryEntry {
	return HistoryEntry{
		Timestamp:           ts,
		Formulation:         formulation,
		Efficiency:          out.Efficiency,
		TotalEnergyRecovery: out.TotalEnergyRecovery,
		FluidTemperature:    out.FluidTemperature,
		Viscosity:           out.Viscosity,
		DeratingFactor:      out.DeratingFactor,
	}
}

// Integration couples damper load to a selected fluid composition. It always holds a valid
// composition. Compute records into a bounded history, so it is not safe for concurrent use.
type Integration struct {
	catalog Catalog
	current Composition
	params  Params
	clock   dynamo.Clock
	history *ringbuf.Buffer[HistoryEntry]
}

func NewIntegration(catalog Catalog, formulation string, p Params, clock dynamo.Clock) (*Integration, error) {
	if catalog == nil || len(catalog.All()) == 0 {
		return nil, dynamo.ErrEmptyCatalog
	}
	c, ok := catalog.Lookup(formulation)
	if !ok {
		return nil, &dynamo.ConfigurationError{Formulation: formulation}
	}
	if clock == nil {
		clock = dynamo.SystemClock{}
	}
	return &Integration{
		catalog: catalog,
		current: c,
		params:  p,
		clock:   clock,
		history: ringbuf.New[HistoryEntry](p.HistoryCapacity),
	}, nil
}

func (i *Integration) Current() Composition { return i.current }
func (i *Integration) Catalog() Catalog     { return i.catalog }
func (i *Integration) Params() Params       { return i.params }

// Switch replaces the current composition. On failure the previous one stays selected.
// Callers must not switch while a Compute call on another goroutine is in flight.
func (i *Integration) Switch(formulation string) error {
	c, ok := i.catalog.Lookup(formulation)
	if !ok {
		return &dynamo.ConfigurationError{Formulation: formulation}
	}
	i.current = c
	return nil
}

// History returns the retained entries, oldest first.
func (i *Integration) History() []HistoryEntry {
	return i.history.Slice()
}

func (i *Integration) ResetHistory() {
	i.history.Reset()
}

// Compute evaluates the fluid response and appends one history entry.
func (i *Integration) Compute(in Input) Output {
	out := Evaluate(i.current, i.params, in)
	i.history.Push(NewHistoryEntry(i.clock.Now(), i.current.ID, out))
	return out
}

// Evaluate is the stateless fluid response for one composition.
func Evaluate(c Composition, p Params, in Input) Output {
	speed := math.Max(0, in.VehicleSpeed) / 3.6
	braking := clamp(in.BrakingIntensity, 0, 1)
	suspV := math.Abs(in.SuspensionVelocity)
	suspF := math.Abs(in.SuspensionForce)
	field := math.Max(0, in.MagneticField)

	shear := math.Max(braking*speed*brakingShearScale, suspV*suspensionShearScale)

	temp := FluidTemperature(c, in.AmbientTemperature, in.MotorTemperature, suspF*suspV)

	ms := c.Particles.SaturationMagnetization
	fieldRatio := 0.0
	if ms > 0 {
		fieldRatio = math.Min(field/ms, 1)
	}

	eta0 := c.BaseFluid.Viscosity * math.Exp(-0.02*(1-clamp(c.Performance.TemperatureStability, 0, 1))*(temp-25))
	eta0 *= 1 + 2.5*c.Particles.Concentration
	maxVisc := eta0 * math.Max(1, c.Performance.DynamicRange)
	tau := c.Performance.YieldStress * 1e3 * fieldRatio

	visc := math.Max(eta0, maxVisc*fieldRatio)
	if shear > 0 {
		visc = math.Min(eta0+tau/shear, maxVisc)
	}
	damping := visc * p.GeometryFactor

	freq := FrequencyFactor(c, in.Frequency)
	eff := (0.55 + 0.4*fieldRatio) * freq * socFactor(in.BatterySOC)

	required := field
	if p.AdaptiveField {
		required = AdaptiveField(c, field, eff)
	}

	mrGain := 0.5 + 0.5*math.Min(c.Performance.DynamicRange/200, 1)
	brakingRec := braking * speed * p.BrakingForceScale * eff * 0.6 * mrGain
	suspRec := suspF * suspV * eff * 0.5 * mrGain

	out := Output{
		Viscosity:          visc,
		DampingCoefficient: damping,
		BrakingRecovery:    brakingRec,
		SuspensionRecovery: suspRec,
		FluidTemperature:   temp,
		RequiredField:      required,
		Efficiency:         eff,
		ShearRate:          shear,
		FrequencyFactor:    freq,
		DeratingFactor:     1,
		PowerDraw:          coilLoss * required * required,
	}

	if p.DeratingEnabled && p.ThermalCeiling > 0 && temp > p.ThermalCeiling {
		k := DeratingFactor(p.ThermalCeiling, temp)
		out.DeratingFactor = k
		out.Derated = true
		out.BrakingRecovery *= k
		out.SuspensionRecovery *= k
		out.DampingCoefficient *= k
	}
	out.TotalEnergyRecovery = out.BrakingRecovery + out.SuspensionRecovery
	return out
}

// FluidTemperature is ambient plus a share of motor heat plus dissipation through the fluid.
func FluidTemperature(c Composition, ambient, motor, dissipated float64) float64 {
	k := c.BaseFluid.ThermalConductivity
	if k <= 0 {
		k = 0.1
	}
	return ambient + 0.35*math.Max(0, motor-ambient) + dissipated*heatRise/k
}

// CriticalFrequency is 1/(2π·responseTime); above it the fluid lags the excitation.
func CriticalFrequency(c Composition) float64 {
	if c.Performance.ResponseTime <= 0 {
		return math.Inf(1)
	}
	return 1 / (2 * math.Pi * c.Performance.ResponseTime)
}

func FrequencyFactor(c Composition, f float64) float64 {
	fc := CriticalFrequency(c)
	if f <= fc {
		return 1
	}
	return math.Max(MinFrequencyFactor, fc/f)
}

// DeratingFactor is ceiling/temp, never below MinDerating and never above 1.
func DeratingFactor(ceiling, temp float64) float64 {
	if temp <= ceiling || temp <= 0 {
		return 1
	}
	return math.Max(MinDerating, ceiling/temp)
}

// AdaptiveField raises the requested field in proportion to the efficiency shortfall,
// capped at 90% of the composition's saturation magnetization.
func AdaptiveField(c Composition, requested, efficiency float64) float64 {
	if efficiency >= TargetEfficiency {
		return requested
	}
	ceiling := fieldCeilingRatio * c.Particles.SaturationMagnetization
	gap := (TargetEfficiency - efficiency) / TargetEfficiency
	return math.Min(requested+gap*ceiling, ceiling)
}

func socFactor(soc float64) float64 {
	if soc > 0.95 {
		return 0.4
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
