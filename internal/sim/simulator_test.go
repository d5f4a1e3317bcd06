package sim_test

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/regensim/internal/braking"
	"github.com/san-kum/regensim/internal/config"
	"github.com/san-kum/regensim/internal/damper"
	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/dynamo"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
	"github.com/san-kum/regensim/internal/vehicle"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func benchScenario(duration float64) *scenario.Scenario {
	return &scenario.Scenario{
		Name:     "bench",
		Duration: duration,
		Road:     scenario.Road{Type: "asphalt", Roughness: 0.5},
		SpeedProfile: []scenario.SpeedSample{
			{Time: 0, Speed: 30}, {Time: 10, Speed: 60},
		},
		LoadFactor:    0.5,
		Ambient:       scenario.Ambient{Temperature: 20},
		BrakingEvents: []scenario.BrakingEvent{{Start: 0.5, Duration: 0.5, Intensity: 0.4}},
	}
}

func newSimulator(model damper.Model, mutate func(*sim.Options, *vehicle.Params)) (*sim.Simulator, *dynamo.ManualClock) {
	s, clock, err := buildSimulator(model, mrfluid.DefaultParams(), mutate)
	Expect(err).NotTo(HaveOccurred())
	return s, clock
}

func buildSimulator(model damper.Model, fp mrfluid.Params, mutate func(*sim.Options, *vehicle.Params)) (*sim.Simulator, *dynamo.ManualClock, error) {
	clock := dynamo.NewManualClock(epoch)
	fluid, err := mrfluid.NewIntegration(mrfluid.Builtin(), "mrf-standard", fp, clock)
	Expect(err).NotTo(HaveOccurred())

	opts := sim.DefaultOptions()
	vp := vehicle.DefaultParams()
	if mutate != nil {
		mutate(&opts, &vp)
	}
	if model == nil {
		dp := damper.DefaultParams()
		dp.StepDuration = vp.StepDuration
		model = damper.NewElectromagnetic(dp)
	}
	s, err := sim.New(model, fluid, braking.NewFuzzy(braking.DefaultVehicle()), vehicle.NewIntegrator(vp, clock), opts, clock)
	return s, clock, err
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("a completed run", func() {
		It("runs every step and reduces the log", func() {
			s, _ := newSimulator(nil, nil)
			Expect(s.Status()).To(Equal(sim.StatusIdle))

			res, err := s.Start(ctx, benchScenario(2))
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Status).To(Equal(sim.StatusCompleted))
			Expect(s.Status()).To(Equal(sim.StatusCompleted))
			Expect(res.Steps).To(Equal(20))
			Expect(res.SamplesCollected).To(Equal(20))
			Expect(s.Log()).To(HaveLen(20))
			Expect(res.EmergencyStop).To(BeFalse())

			_, err = uuid.Parse(res.TestID)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.ScenarioName).To(Equal("bench"))

			Expect(res.Performance.MaxForce).To(BeNumerically(">=", res.Performance.MeanForce))
			Expect(res.Performance.RecoveredEnergy).To(BeNumerically(">", 0))
			Expect(res.Performance.DampingEfficiency).To(BeNumerically(">", 0))
			Expect(res.Performance.DampingEfficiency).To(BeNumerically("<=", 100))
			Expect(res.Fluid.Formulation).To(Equal("mrf-standard"))
			Expect(res.Fluid.MaxTemperature).To(BeNumerically(">=", res.Fluid.MinTemperature))
			Expect(res.Diagnostics.MaintenanceRequired).To(Equal(len(res.Diagnostics.Issues) > 0))
			Expect(s.History()).To(HaveLen(1))
		})

		It("keeps log entries time-ascending and records the braking decision", func() {
			s, _ := newSimulator(nil, nil)
			_, err := s.Start(ctx, benchScenario(2))
			Expect(err).NotTo(HaveOccurred())

			entries := s.Log()
			for i := 1; i < len(entries); i++ {
				Expect(entries[i].Elapsed).To(BeNumerically(">", entries[i-1].Elapsed))
			}
			braked := entries[5]
			Expect(braked.BrakingIntensity).To(Equal(0.4))
			Expect(braked.Braking.RegenRatio).To(BeNumerically(">", 0))
			Expect(entries[0].Braking).To(Equal(braking.Decision{}))
		})

		It("writes damper forces into the logged corner state", func() {
			s, _ := newSimulator(nil, nil)
			_, err := s.Start(ctx, benchScenario(1))
			Expect(err).NotTo(HaveOccurred())

			for _, e := range s.Log() {
				for _, c := range vehicle.Corners() {
					Expect(e.State.Corners[c].Force).To(Equal(e.Dampers[c].DampingForce))
				}
			}
		})

		It("logs every Nth step", func() {
			s, _ := newSimulator(nil, func(o *sim.Options, _ *vehicle.Params) { o.LogEvery = 4 })
			res, err := s.Start(ctx, benchScenario(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(20))
			Expect(res.SamplesCollected).To(Equal(5))
		})
	})

	Describe("runs longer than the fluid history", func() {
		It("reduces fluid results over every logged step", func() {
			fp := mrfluid.DefaultParams()
			fp.HistoryCapacity = 10
			fp.ThermalCeiling = 25
			s, _, err := buildSimulator(nil, fp, nil)
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Start(ctx, benchScenario(6))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(60))
			Expect(s.Fluid().History()).To(HaveLen(10))

			entries := s.Log()
			Expect(entries).To(HaveLen(60))
			var visc, eff float64
			derated := 0
			for _, e := range entries {
				visc += e.Fluid.Viscosity
				eff += e.Fluid.Efficiency
				if e.Fluid.DeratingFactor < 1 {
					derated++
				}
			}
			Expect(res.Fluid.MeanViscosity).To(BeNumerically("~", visc/60, 1e-9))
			Expect(res.Fluid.FormulationEfficiency).To(BeNumerically("~", eff/60*100, 1e-9))
			Expect(res.Fluid.DeratedFraction).To(BeNumerically("~", float64(derated)/60, 1e-9))
		})
	})

	Describe("empty log aggregation", func() {
		It("returns zero metrics for a zero-duration scenario", func() {
			s, _ := newSimulator(nil, nil)
			res, err := s.Start(ctx, benchScenario(0))
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Status).To(Equal(sim.StatusCompleted))
			Expect(res.SamplesCollected).To(Equal(0))
			Expect(res.Performance.DampingEfficiency).To(Equal(0.0))
			Expect(res.Performance.Reliability).To(Equal(0.0))
			Expect(math.IsNaN(res.Performance.Reliability)).To(BeFalse())
			Expect(res.Performance.MeanForce).To(Equal(0.0))
			Expect(res.Diagnostics.Health).To(Equal(mrfluid.HealthUnknown))
			Expect(res.Diagnostics.MaintenanceRequired).To(BeFalse())
		})
	})

	Describe("reliability", func() {
		It("is 0% when every damper reports the idle signal", func() {
			idle := damper.ModelFunc(func(damper.Input) damper.Output { return damper.Output{} })
			s, _ := newSimulator(idle, nil)
			res, err := s.Start(ctx, benchScenario(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Performance.Reliability).To(Equal(0.0))
		})

		It("is 100% when no damper ever reports the idle signal", func() {
			busy := damper.ModelFunc(func(damper.Input) damper.Output {
				return damper.Output{DampingForce: 100, GeneratedPower: 10, HarvestedEnergy: 1, EnergyEfficiency: 0.5}
			})
			s, _ := newSimulator(busy, nil)
			res, err := s.Start(ctx, benchScenario(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Performance.Reliability).To(Equal(100.0))
			Expect(res.Performance.DampingEfficiency).To(BeNumerically("~", 50, 1e-9))
		})
	})

	Describe("emergency stop", func() {
		hot := func(heat float64) func(*sim.Options, *vehicle.Params) {
			return func(_ *sim.Options, vp *vehicle.Params) { vp.HeatCoefficient = heat }
		}

		It("stops at the step whose corner temperature exceeds the threshold", func() {
			s, _ := newSimulator(nil, hot(1000))
			sc := benchScenario(5)
			sc.Road.Roughness = 1
			res, err := s.Start(ctx, sc)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Status).To(Equal(sim.StatusStopped))
			Expect(s.Status()).To(Equal(sim.StatusStopped))
			Expect(res.EmergencyStop).To(BeTrue())
			Expect(res.Steps).To(Equal(1))
			Expect(s.Log()).To(HaveLen(1))
			Expect(res.Warnings).To(ContainElement(HaveField("Kind", sim.WarningTemperature)))
		})

		It("appends no entries after the breaching step", func() {
			s, _ := newSimulator(nil, hot(350))
			sc := benchScenario(30)
			sc.Road.Roughness = 1
			res, err := s.Start(ctx, sc)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.EmergencyStop).To(BeTrue())

			entries := s.Log()
			Expect(entries).To(HaveLen(res.Steps))
			breached := func(e datalog.Entry) bool {
				_, temp := e.State.MaxCornerTemperature()
				return temp > sim.DefaultOptions().Limits.EmergencyStop
			}
			for _, e := range entries[:len(entries)-1] {
				Expect(breached(e)).To(BeFalse())
			}
			Expect(breached(entries[len(entries)-1])).To(BeTrue())
		})
	})

	Describe("run control", func() {
		It("rejects a second start while running without touching the active run", func() {
			s, _ := newSimulator(nil, nil)
			var nested error
			s.AddObserver(sim.ObserverFunc(func(e datalog.Entry) {
				if e.Step == 3 {
					_, nested = s.Start(ctx, benchScenario(1))
				}
			}))

			res, err := s.Start(ctx, benchScenario(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(nested).To(MatchError(dynamo.ErrInvalidOperation))
			Expect(res.Status).To(Equal(sim.StatusCompleted))
			Expect(res.Steps).To(Equal(20))
			Expect(s.Log()).To(HaveLen(20))
			Expect(s.History()).To(HaveLen(1))
		})

		It("stops at the next step boundary", func() {
			s, _ := newSimulator(nil, nil)
			s.AddObserver(sim.ObserverFunc(func(e datalog.Entry) {
				if e.Step == 4 {
					s.Stop()
				}
			}))

			res, err := s.Start(ctx, benchScenario(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.StatusStopped))
			Expect(res.EmergencyStop).To(BeFalse())
			Expect(res.Steps).To(Equal(5))
		})

		It("ignores Stop when idle", func() {
			s, _ := newSimulator(nil, nil)
			s.Stop()
			Expect(s.Status()).To(Equal(sim.StatusIdle))
		})

		It("stops when the context is cancelled", func() {
			s, _ := newSimulator(nil, nil)
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := s.Start(cctx, benchScenario(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.StatusStopped))
			Expect(res.Steps).To(Equal(0))
		})

		It("rejects invalid scenarios without leaving idle", func() {
			s, _ := newSimulator(nil, nil)
			sc := benchScenario(1)
			sc.Road.Roughness = 2

			_, err := s.Start(ctx, sc)
			Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
			Expect(s.Status()).To(Equal(sim.StatusIdle))

			_, err = s.Start(ctx, nil)
			Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
		})

		It("paces steps on the injected clock in real-time mode", func() {
			s, _ := newSimulator(nil, func(o *sim.Options, _ *vehicle.Params) { o.RealTime = true })
			res, err := s.Start(ctx, benchScenario(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Start).To(Equal(epoch))
			Expect(res.End.Sub(res.Start)).To(Equal(time.Second))
		})

		It("bounds the result history", func() {
			s, _ := newSimulator(nil, func(o *sim.Options, _ *vehicle.Params) { o.HistoryCapacity = 2 })
			var ids []string
			for i := 0; i < 3; i++ {
				res, err := s.Start(ctx, benchScenario(0.5))
				Expect(err).NotTo(HaveOccurred())
				ids = append(ids, res.TestID)
			}

			h := s.History()
			Expect(h).To(HaveLen(2))
			Expect(h[0].TestID).To(Equal(ids[1]))
			Expect(h[1].TestID).To(Equal(ids[2]))
		})
	})

	Describe("step length", func() {
		It("adopts the vehicle step when the interval is unset", func() {
			s, _, err := buildSimulator(nil, mrfluid.DefaultParams(), func(o *sim.Options, vp *vehicle.Params) {
				o.StepInterval = 0
				vp.StepDuration = 0.05
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Options().StepInterval).To(Equal(0.05))

			res, err := s.Start(ctx, benchScenario(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(20))
		})

		It("rejects an interval that differs from the vehicle step", func() {
			_, _, err := buildSimulator(nil, mrfluid.DefaultParams(), func(o *sim.Options, _ *vehicle.Params) {
				o.StepInterval = 0.2
			})
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})

		It("rejects a damper integrating over another step", func() {
			dp := damper.DefaultParams()
			dp.StepDuration = 0.5
			_, _, err := buildSimulator(damper.NewElectromagnetic(dp), mrfluid.DefaultParams(), nil)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})
	})

	Describe("FromConfig", func() {
		It("builds a runnable simulator from defaults", func() {
			s, err := sim.FromConfig(config.DefaultConfig(), nil, dynamo.NewManualClock(epoch))
			Expect(err).NotTo(HaveOccurred())

			res, err := s.Start(ctx, benchScenario(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(10))
		})

		It("fails fast on an unknown formulation", func() {
			cfg := config.DefaultConfig()
			cfg.Fluid.Formulation = "mrf-unobtainium"

			_, err := sim.FromConfig(cfg, mrfluid.Builtin(), nil)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		})
	})

	Describe("Batch", func() {
		It("runs scenarios back to back on one simulator", func() {
			s, _ := newSimulator(nil, nil)
			scenarios := []*scenario.Scenario{benchScenario(1), benchScenario(2), benchScenario(0.5)}

			results, err := sim.NewBatch(s).Run(ctx, scenarios)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Steps).To(Equal(10))
			Expect(results[1].Steps).To(Equal(20))
			Expect(results[2].Steps).To(Equal(5))
			Expect(s.History()).To(HaveLen(3))
			Expect(s.Status()).To(Equal(sim.StatusCompleted))
		})

		It("stops at the first failing scenario", func() {
			s, _ := newSimulator(nil, nil)
			bad := benchScenario(1)
			bad.LoadFactor = -1

			results, err := sim.NewBatch(s).Run(ctx, []*scenario.Scenario{benchScenario(0.2), bad, benchScenario(0.2)})
			Expect(err).To(MatchError(dynamo.ErrInvalidScenario))
			Expect(results).To(HaveLen(1))
			Expect(s.History()).To(HaveLen(1))
		})

		It("does not start runs after the context is cancelled", func() {
			s, _ := newSimulator(nil, nil)
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			results, err := sim.NewBatch(s).Run(cctx, []*scenario.Scenario{benchScenario(1)})
			Expect(err).To(MatchError(context.Canceled))
			Expect(results).To(BeEmpty())
		})
	})
})
