package vehicle

import (
	"math"

	"github.com/san-kum/regensim/internal/dynamo"
	"github.com/san-kum/regensim/internal/scenario"
)

const trackWidth = 1.6 // m

type Params struct {
	StepDuration    float64 // s
	RoadAmplitude   float64 // m at roughness 1
	HeatCoefficient float64 // °C per m/s of corner velocity
	InitialSOC      float64
	SOCDecrement    float64 // per step
	SOCFloor        float64
	BodyFrequency   float64 // Hz, corner 0
	HopFrequency    float64 // Hz, corner 0
	CornerOffset    float64 // Hz added per corner index to the body mode
	HopOffset       float64 // Hz added per corner index to the wheel-hop mode
	RoadWavelength  float64 // m, converts speed to excitation frequency
}

func DefaultParams() Params {
	return Params{
		StepDuration:    0.1,
		RoadAmplitude:   0.04,
		HeatCoefficient: 25,
		InitialSOC:      0.8,
		SOCDecrement:    0.0001,
		SOCFloor:        0.1,
		BodyFrequency:   1.2,
		HopFrequency:    11,
		CornerOffset:    0.15,
		HopOffset:       0.4,
		RoadWavelength:  5,
	}
}

// Integrator owns the vehicle state for one run and advances it one fixed step at a time.
// Corner force is written by the caller after the damper model runs and is never read back
// into the road or velocity derivation: the suspension is driven open-loop.
type Integrator struct {
	p     Params
	clock dynamo.Clock
	state State
}

func NewIntegrator(p Params, clock dynamo.Clock) *Integrator {
	if clock == nil {
		clock = dynamo.SystemClock{}
	}
	in := &Integrator{p: p, clock: clock}
	in.Reset(nil)
	return in
}

func (in *Integrator) Params() Params { return in.p }

// State returns a snapshot of the current state.
func (in *Integrator) State() State { return in.state.Clone() }

// Reset places the vehicle at the origin with ambient-temperature corners and the scenario's
// initial speed.
func (in *Integrator) Reset(sc *scenario.Scenario) {
	s := State{Timestamp: in.clock.Now()}
	ambient := 20.0
	if sc != nil {
		ambient = sc.Ambient.Temperature
		s.Motion.Speed = sc.SpeedAt(0)
		s.Motion.Orientation.Pitch = inclineRad(sc)
	}
	for _, c := range Corners() {
		s.Corners[c] = SuspensionCorner{ID: c, Temperature: ambient}
	}
	s.Status = SystemStatus{BatterySOC: in.p.InitialSOC, Temperature: ambient}
	in.state = s
}

// Step advances the state to elapsed seconds using the scenario script.
func (in *Integrator) Step(sc *scenario.Scenario, elapsed float64) State {
	dt := in.p.StepDuration
	s := &in.state

	target := sc.SpeedAt(elapsed)
	s.Motion.Acceleration = (target - s.Motion.Speed) / 3.6 / dt
	s.Motion.Speed = target

	pitch := inclineRad(sc)
	dist := target / 3.6 * dt
	s.Motion.Position.X += dist * math.Cos(pitch) * math.Cos(s.Motion.Orientation.Yaw)
	s.Motion.Position.Y += dist * math.Cos(pitch) * math.Sin(s.Motion.Orientation.Yaw)
	s.Motion.Position.Z += dist * math.Sin(pitch)
	s.Motion.Orientation.Pitch = pitch

	amp := in.p.RoadAmplitude * sc.Road.Roughness
	ambient := sc.Ambient.Temperature
	hottest := math.Inf(-1)
	for _, c := range Corners() {
		corner := &s.Corners[c]
		disp := in.RoadSignal(c, elapsed, amp)
		corner.Velocity = (disp - corner.Displacement) / dt
		corner.Displacement = disp
		corner.Temperature = ambient + in.p.HeatCoefficient*math.Abs(corner.Velocity)
		hottest = math.Max(hottest, corner.Temperature)
	}

	left := s.Corners[FrontLeft].Displacement + s.Corners[RearLeft].Displacement
	right := s.Corners[FrontRight].Displacement + s.Corners[RearRight].Displacement
	s.Motion.Orientation.Roll = math.Atan((left - right) / 2 / trackWidth)

	s.Status.BatterySOC = math.Max(in.p.SOCFloor, s.Status.BatterySOC-in.p.SOCDecrement)
	s.Status.Temperature = hottest

	s.Elapsed = elapsed
	s.Timestamp = in.clock.Now()
	return s.Clone()
}

// RoadSignal is a synthetic two-tone road input: a body mode and a wheel-hop mode whose
// frequencies shift with the corner index.
func (in *Integrator) RoadSignal(c Corner, t, amplitude float64) float64 {
	i := float64(c)
	body := in.p.BodyFrequency + in.p.CornerOffset*i
	hop := in.p.HopFrequency + in.p.HopOffset*i
	return amplitude * (math.Sin(2*math.Pi*body*t) + 0.25*math.Sin(2*math.Pi*hop*t))
}

// ExcitationFrequency is the dominant input frequency at the current speed.
func (in *Integrator) ExcitationFrequency() float64 {
	f := in.p.BodyFrequency
	if in.p.RoadWavelength > 0 {
		f += in.state.Motion.Speed / 3.6 / in.p.RoadWavelength
	}
	return f
}

func (in *Integrator) SetCornerForce(c Corner, force float64) {
	in.state.Corners[c].Force = force
}

func (in *Integrator) SetPower(recovered, draw float64) {
	in.state.Status.RecoveredPower = recovered
	in.state.Status.PowerDraw = draw
}

func inclineRad(sc *scenario.Scenario) float64 {
	return sc.Road.Incline * math.Pi / 180
}
