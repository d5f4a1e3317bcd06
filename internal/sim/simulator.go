package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/regensim/internal/braking"
	"github.com/san-kum/regensim/internal/damper"
	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/dynamo"
	"github.com/san-kum/regensim/internal/logging"
	"github.com/san-kum/regensim/internal/metrics"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/ringbuf"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/vehicle"
)

const maxWarnings = 100

type Options struct {
	StepInterval    float64 // s
	RealTime        bool    // pace each step by StepInterval on the clock
	LogCapacity     int
	LogEvery        int
	HistoryCapacity int
	InitialField    float64 // kA/m requested on the first step
	Limits          Limits
	Priorities      mrfluid.Priorities
}

func DefaultOptions() Options {
	return Options{
		StepInterval:    0.1,
		LogCapacity:     36000,
		LogEvery:        1,
		HistoryCapacity: 50,
		InitialField:    150,
		Limits:          Limits{MaxSpeed: 180, MaxAcceleration: 10, MaxForce: 8000, EmergencyStop: 120},
		Priorities:      mrfluid.DefaultPriorities(),
	}
}

// Simulator runs one test at a time against a fixed set of components. It exclusively owns
// the vehicle integrator, the fluid integration and the data log for the duration of a run.
type Simulator struct {
	damper  damper.Model
	fluid   *mrfluid.Integration
	brakes  braking.Controller
	vehicle *vehicle.Integrator
	opts    Options
	clock   dynamo.Clock

	mu        sync.Mutex
	status    Status
	testID    string
	stop      chan struct{}
	stopOnce  *sync.Once
	log       *datalog.Log
	history   *ringbuf.Buffer[*TestResults]
	observers []Observer
}

// New wires a simulator. The step length is owned by the vehicle integrator: a zero
// Options.StepInterval adopts it and a different one fails with dynamo.ErrConfiguration,
// as does an electromagnetic damper integrating energy over another step.
func New(model damper.Model, fluid *mrfluid.Integration, brakes braking.Controller, veh *vehicle.Integrator, opts Options, clock dynamo.Clock) (*Simulator, error) {
	dt := veh.Params().StepDuration
	if dt <= 0 {
		return nil, fmt.Errorf("%w: step duration must be positive, got %g", dynamo.ErrConfiguration, dt)
	}
	if opts.StepInterval == 0 {
		opts.StepInterval = dt
	}
	if !sameStep(opts.StepInterval, dt) {
		return nil, fmt.Errorf("%w: step interval %gs differs from vehicle step %gs", dynamo.ErrConfiguration, opts.StepInterval, dt)
	}
	if em, ok := model.(*damper.Electromagnetic); ok && !sameStep(em.Params().StepDuration, dt) {
		return nil, fmt.Errorf("%w: damper step %gs differs from vehicle step %gs", dynamo.ErrConfiguration, em.Params().StepDuration, dt)
	}
	if clock == nil {
		clock = dynamo.SystemClock{}
	}
	if opts.LogEvery < 1 {
		opts.LogEvery = 1
	}
	return &Simulator{
		damper:  model,
		fluid:   fluid,
		brakes:  brakes,
		vehicle: veh,
		opts:    opts,
		clock:   clock,
		log:     datalog.New(opts.LogCapacity),
		history: ringbuf.New[*TestResults](opts.HistoryCapacity),
	}, nil
}

func sameStep(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func (s *Simulator) AddObserver(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Simulator) Options() Options            { return s.opts }
func (s *Simulator) Fluid() *mrfluid.Integration { return s.fluid }

func (s *Simulator) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Log returns the entries retained from the latest run, oldest first.
func (s *Simulator) Log() []datalog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Entries()
}

// History returns results of previous runs, oldest first, bounded by HistoryCapacity.
func (s *Simulator) History() []*TestResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Slice()
}

// Stop requests the running test to end at the next step boundary. It is a no-op when idle.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusRunning {
		return
	}
	s.stopOnce.Do(func() { close(s.stop) })
}

// Start runs sc to completion, until Stop is called, ctx is cancelled or a corner breaches
// the emergency temperature. It blocks for the whole run. Starting while another run is
// active fails with dynamo.ErrInvalidOperation and leaves that run untouched.
func (s *Simulator) Start(ctx context.Context, sc *scenario.Scenario) (*TestResults, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scenario", dynamo.ErrInvalidScenario)
	}

	s.mu.Lock()
	if s.status == StatusRunning {
		id := s.testID
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: test %s is already running", dynamo.ErrInvalidOperation, id)
	}
	if err := sc.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.status = StatusRunning
	s.testID = uuid.NewString()
	s.stop = make(chan struct{})
	s.stopOnce = &sync.Once{}
	s.log.Reset()
	observers := append([]Observer(nil), s.observers...)
	stop := s.stop
	res := &TestResults{TestID: s.testID, ScenarioName: sc.Name, Start: s.clock.Now()}
	s.mu.Unlock()

	logger := logging.FromContext(ctx).With("test_id", res.TestID, "scenario", sc.Name)

	s.vehicle.Reset(sc)
	s.fluid.ResetHistory()
	field := s.opts.InitialField
	dt := s.opts.StepInterval
	steps := sc.Steps(dt)
	pace := time.Duration(dt * float64(time.Second))

	logger.Info("test started", "steps", steps, "step_interval", dt, "formulation", s.fluid.Current().ID)

	final := StatusCompleted
loop:
	for k := 0; k < steps; k++ {
		select {
		case <-ctx.Done():
			final = StatusStopped
			break loop
		case <-stop:
			final = StatusStopped
			break loop
		default:
		}

		e := s.step(sc, k, (float64(k)+1)*dt, field)
		if s.fluid.Params().AdaptiveField && e.Fluid.RequiredField > 0 {
			field = e.Fluid.RequiredField
		}
		res.Steps++

		if k%s.opts.LogEvery == 0 {
			s.mu.Lock()
			s.log.Append(e)
			s.mu.Unlock()
			res.SamplesCollected++
		}
		for _, o := range observers {
			o.OnStep(e)
		}

		if s.checkSafety(logger, res, e) {
			final = StatusStopped
			res.EmergencyStop = true
			break
		}

		if s.opts.RealTime {
			select {
			case <-s.clock.After(pace):
			case <-ctx.Done():
			case <-stop:
			}
		}
	}

	s.aggregate(res)
	res.Status = final
	res.End = s.clock.Now()

	s.mu.Lock()
	s.status = final
	s.history.Push(res)
	s.mu.Unlock()

	logger.Info("test finished",
		"status", final.String(),
		"steps", res.Steps,
		"samples", res.SamplesCollected,
		"energy_j", res.Performance.RecoveredEnergy,
		"reliability", res.Performance.Reliability)
	return res, nil
}

// step advances the vehicle, runs every damper on its corner, then the fluid circuit on the
// mean corner load and the braking controller on the scripted demand.
func (s *Simulator) step(sc *scenario.Scenario, k int, elapsed, field float64) datalog.Entry {
	state := s.vehicle.Step(sc, elapsed)
	e := datalog.Entry{Step: k, Elapsed: elapsed}

	var sumVel, sumForce float64
	for _, c := range vehicle.Corners() {
		corner := state.Corners[c]
		out := s.damper.Compute(damper.Input{
			CompressionVelocity: corner.Velocity,
			Displacement:        corner.Displacement,
			VehicleSpeed:        state.Motion.Speed,
			RoadRoughness:       sc.Road.Roughness,
			Temperature:         corner.Temperature,
			BatterySOC:          state.Status.BatterySOC,
			LoadFactor:          sc.LoadFactor,
		})
		e.Dampers[c] = out
		s.vehicle.SetCornerForce(c, out.DampingForce)
		sumVel += math.Abs(corner.Velocity)
		sumForce += math.Abs(out.DampingForce)
	}

	e.BrakingIntensity = sc.BrakingIntensity(elapsed)
	e.Fluid = s.fluid.Compute(mrfluid.Input{
		SuspensionVelocity: sumVel / float64(vehicle.NumCorners),
		SuspensionForce:    sumForce / float64(vehicle.NumCorners),
		VehicleSpeed:       state.Motion.Speed,
		BrakingIntensity:   e.BrakingIntensity,
		MagneticField:      field,
		BatterySOC:         state.Status.BatterySOC,
		MotorTemperature:   state.Status.Temperature,
		AmbientTemperature: sc.Ambient.Temperature,
		Frequency:          s.vehicle.ExcitationFrequency(),
	})
	if s.brakes != nil {
		e.Braking = s.brakes.Compute(state.Motion.Speed, e.BrakingIntensity, state.Status.BatterySOC, state.Status.Temperature)
	}

	s.vehicle.SetPower(e.RecoveredPower(), e.Fluid.PowerDraw)
	e.State = s.vehicle.State()
	e.Timestamp = e.State.Timestamp
	return e
}

// checkSafety records limit breaches and reports whether the run must stop.
func (s *Simulator) checkSafety(logger *slog.Logger, res *TestResults, e datalog.Entry) bool {
	lim := s.opts.Limits
	warn := func(kind WarningKind, corner string, value, limit float64) {
		res.WarningCount++
		if len(res.Warnings) >= maxWarnings {
			return
		}
		res.Warnings = append(res.Warnings, Warning{
			Step: e.Step, Time: e.Elapsed, Kind: kind, Corner: corner, Value: value, Limit: limit,
		})
		logger.Warn("safety limit exceeded", "kind", kind, "step", e.Step, "corner", corner, "value", value, "limit", limit)
	}

	m := e.State.Motion
	if lim.MaxSpeed > 0 && m.Speed > lim.MaxSpeed {
		warn(WarningSpeed, "", m.Speed, lim.MaxSpeed)
	}
	if lim.MaxAcceleration > 0 && math.Abs(m.Acceleration) > lim.MaxAcceleration {
		warn(WarningAcceleration, "", m.Acceleration, lim.MaxAcceleration)
	}

	stop := false
	for _, c := range vehicle.Corners() {
		corner := e.State.Corners[c]
		if lim.MaxForce > 0 && math.Abs(corner.Force) > lim.MaxForce {
			warn(WarningForce, c.String(), corner.Force, lim.MaxForce)
		}
		if lim.EmergencyStop > 0 && corner.Temperature > lim.EmergencyStop {
			warn(WarningTemperature, c.String(), corner.Temperature, lim.EmergencyStop)
			logger.Error("emergency stop", "step", e.Step, "corner", c.String(), "value", corner.Temperature, "limit", lim.EmergencyStop)
			stop = true
		}
	}
	return stop
}

// aggregate reduces the retained log into res. Fluid analytics and diagnostics read the
// logged fluid outputs, not the bounded fluid history. An empty log yields zeros.
func (s *Simulator) aggregate(res *TestResults) {
	s.mu.Lock()
	entries := s.log.Entries()
	res.SamplesDropped = s.log.Dropped()
	s.mu.Unlock()

	v := metrics.Reduce(entries,
		metrics.NewMeanForce(),
		metrics.NewMaxForce(),
		metrics.NewRecoveredEnergy(s.opts.StepInterval*float64(s.opts.LogEvery)),
		metrics.NewRecoveryRate(),
		metrics.NewDampingEfficiency(),
		metrics.NewReliability(),
		metrics.NewMeanViscosity(),
		metrics.NewMinFluidTemperature(),
		metrics.NewMaxFluidTemperature(),
	)
	res.Performance = PerformanceResults{
		MeanForce:         v["mean_force"],
		MaxForce:          v["max_force"],
		RecoveredEnergy:   v["recovered_energy"],
		RecoveryRate:      v["recovery_rate"],
		DampingEfficiency: v["damping_efficiency"],
		Reliability:       v["reliability"],
	}

	formulation := s.fluid.Current().ID
	recorded := make([]mrfluid.HistoryEntry, len(entries))
	for k, e := range entries {
		recorded[k] = mrfluid.NewHistoryEntry(e.Timestamp, formulation, e.Fluid)
	}
	a := mrfluid.Summarize(formulation, recorded)
	res.Fluid = FluidResults{
		Formulation:           a.Formulation,
		MeanViscosity:         v["mean_viscosity"],
		MinTemperature:        v["min_fluid_temperature"],
		MaxTemperature:        v["max_fluid_temperature"],
		FormulationEfficiency: a.FormulationEfficiency,
		DeratedFraction:       a.DeratedFraction,
		Trend:                 a.Trend,
	}

	d := s.fluid.DiagnoseFrom(a, s.opts.Priorities)
	res.Diagnostics = DiagnosticResults{
		Health:              d.Health,
		Issues:              d.Issues,
		Recommendations:     d.Recommendations,
		MaintenanceRequired: len(d.Issues) > 0,
		Recommended:         d.Recommendation.Best,
		RecommendationBand:  d.Recommendation.Band,
	}
}
