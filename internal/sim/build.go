package sim

import (
	"fmt"

	"github.com/san-kum/regensim/internal/braking"
	"github.com/san-kum/regensim/internal/config"
	"github.com/san-kum/regensim/internal/damper"
	"github.com/san-kum/regensim/internal/dynamo"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/vehicle"
)

// FromConfig wires the stock damper, fluid, braking and vehicle components from cfg.
// A nil catalog loads cfg.Fluid.CatalogPath, or the builtin catalog when no path is set.
func FromConfig(cfg *config.Config, catalog mrfluid.Catalog, clock dynamo.Clock) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = dynamo.SystemClock{}
	}
	if catalog == nil {
		var err error
		catalog, err = CatalogFor(cfg)
		if err != nil {
			return nil, err
		}
	}

	dt := cfg.Rig.StepInterval
	fluid, err := mrfluid.NewIntegration(catalog, cfg.Fluid.Formulation, FluidParams(cfg), clock)
	if err != nil {
		return nil, fmt.Errorf("fluid integration: %w", err)
	}

	dp := damper.Params{
		Coefficient:            cfg.Damper.Coefficient,
		MaxForce:               cfg.Damper.MaxForce,
		MaxVelocity:            cfg.Damper.MaxVelocity,
		MaxStroke:              cfg.Damper.MaxStroke,
		Deadband:               cfg.Damper.Deadband,
		GeneratorEfficiency:    cfg.Damper.GeneratorEfficiency,
		NominalTemperature:     cfg.Damper.NominalTemperature,
		TemperatureCoefficient: cfg.Damper.TemperatureCoefficient,
		StepDuration:           dt,
	}

	vp := vehicle.DefaultParams()
	vp.StepDuration = dt
	vp.RoadAmplitude = cfg.Vehicle.RoadAmplitude
	vp.HeatCoefficient = cfg.Vehicle.HeatCoefficient
	vp.InitialSOC = cfg.Vehicle.InitialSOC
	vp.SOCDecrement = cfg.Vehicle.SOCDecrement
	vp.SOCFloor = cfg.Vehicle.SOCFloor

	bv := braking.DefaultVehicle()
	bv.Mass = cfg.Vehicle.Mass
	bv.Wheelbase = cfg.Vehicle.Wheelbase
	bv.CGHeight = cfg.Vehicle.CGHeight
	bv.CGToFront = cfg.Vehicle.CGToFront

	return New(
		damper.NewElectromagnetic(dp),
		fluid,
		braking.NewFuzzy(bv),
		vehicle.NewIntegrator(vp, clock),
		OptionsFor(cfg),
		clock,
	)
}

func CatalogFor(cfg *config.Config) (mrfluid.Catalog, error) {
	if cfg.Fluid.CatalogPath == "" {
		return mrfluid.Builtin(), nil
	}
	return mrfluid.LoadCatalog(cfg.Fluid.CatalogPath)
}

func FluidParams(cfg *config.Config) mrfluid.Params {
	p := mrfluid.DefaultParams()
	p.DeratingEnabled = cfg.Fluid.DeratingEnabled
	p.ThermalCeiling = cfg.Fluid.ThermalCeiling
	p.AdaptiveField = cfg.Fluid.AdaptiveField
	p.GeometryFactor = cfg.Fluid.GeometryFactor
	p.HistoryCapacity = cfg.Fluid.HistoryCapacity
	return p
}

func Priorities(cfg *config.Config) mrfluid.Priorities {
	pr := cfg.Fluid.Priorities
	return mrfluid.Priorities{
		EnergyRecovery:       pr.EnergyRecovery,
		ResponseTime:         pr.ResponseTime,
		Durability:           pr.Durability,
		TemperatureStability: pr.TemperatureStability,
	}
}

func OptionsFor(cfg *config.Config) Options {
	return Options{
		StepInterval:    cfg.Rig.StepInterval,
		RealTime:        cfg.Rig.RealTime,
		LogCapacity:     cfg.Rig.LogCapacity,
		LogEvery:        cfg.Rig.LogEvery,
		HistoryCapacity: cfg.Rig.HistoryCapacity,
		InitialField:    cfg.Fluid.InitialField,
		Limits: Limits{
			MaxSpeed:        cfg.Safety.MaxSpeed,
			MaxAcceleration: cfg.Safety.MaxAcceleration,
			MaxForce:        cfg.Safety.MaxForce,
			EmergencyStop:   cfg.Safety.EmergencyStopThreshold,
		},
		Priorities: Priorities(cfg),
	}
}
