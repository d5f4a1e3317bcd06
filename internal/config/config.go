package config

import (
	"fmt"
	"os"

	"github.com/san-kum/regensim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStepInterval    = 0.1
	DefaultLogCapacity     = 36000
	DefaultHistoryCapacity = 50
	DefaultFormulation     = "mrf-standard"
	DefaultThermalCeiling  = 85.0
	DefaultEmergencyStop   = 120.0
)

type Config struct {
	Rig     RigConfig     `yaml:"rig"`
	Safety  SafetyConfig  `yaml:"safety"`
	Damper  DamperConfig  `yaml:"damper"`
	Fluid   FluidConfig   `yaml:"fluid"`
	Vehicle VehicleConfig `yaml:"vehicle"`
}

type RigConfig struct {
	StepInterval    float64 `yaml:"step_interval_s"`
	RealTime        bool    `yaml:"real_time"`
	LogCapacity     int     `yaml:"log_capacity"`
	LogEvery        int     `yaml:"log_every"`
	HistoryCapacity int     `yaml:"history_capacity"`
}

type SafetyConfig struct {
	MaxSpeed               float64 `yaml:"max_speed_kmh"`
	MaxAcceleration        float64 `yaml:"max_acceleration"`
	MaxForce               float64 `yaml:"max_force_n"`
	EmergencyStopThreshold float64 `yaml:"emergency_stop_c"`
}

type DamperConfig struct {
	Coefficient            float64 `yaml:"coefficient"`
	MaxForce               float64 `yaml:"max_force_n"`
	MaxVelocity            float64 `yaml:"max_velocity"`
	MaxStroke              float64 `yaml:"max_stroke_m"`
	Deadband               float64 `yaml:"deadband"`
	GeneratorEfficiency    float64 `yaml:"generator_efficiency"`
	NominalTemperature     float64 `yaml:"nominal_temperature_c"`
	TemperatureCoefficient float64 `yaml:"temperature_coefficient"`
}

type FluidConfig struct {
	Formulation     string           `yaml:"formulation"`
	CatalogPath     string           `yaml:"catalog,omitempty"`
	DeratingEnabled bool             `yaml:"derating"`
	ThermalCeiling  float64          `yaml:"thermal_ceiling_c"`
	AdaptiveField   bool             `yaml:"adaptive_field"`
	InitialField    float64          `yaml:"initial_field_kam"`
	GeometryFactor  float64          `yaml:"geometry_factor"`
	HistoryCapacity int              `yaml:"history_capacity"`
	Priorities      PrioritiesConfig `yaml:"priorities"`
}

type PrioritiesConfig struct {
	EnergyRecovery       float64 `yaml:"energy_recovery"`
	ResponseTime         float64 `yaml:"response_time"`
	Durability           float64 `yaml:"durability"`
	TemperatureStability float64 `yaml:"temperature_stability"`
}

type VehicleConfig struct {
	RoadAmplitude   float64 `yaml:"road_amplitude_m"`
	HeatCoefficient float64 `yaml:"heat_coefficient"`
	InitialSOC      float64 `yaml:"initial_soc"`
	SOCDecrement    float64 `yaml:"soc_decrement"`
	SOCFloor        float64 `yaml:"soc_floor"`
	Mass            float64 `yaml:"mass_kg"`
	Wheelbase       float64 `yaml:"wheelbase_m"`
	CGHeight        float64 `yaml:"cg_height_m"`
	CGToFront       float64 `yaml:"cg_to_front_m"`
}

func DefaultConfig() *Config {
	return &Config{
		Rig: RigConfig{
			StepInterval:    DefaultStepInterval,
			LogCapacity:     DefaultLogCapacity,
			LogEvery:        1,
			HistoryCapacity: DefaultHistoryCapacity,
		},
		Safety: SafetyConfig{
			MaxSpeed:               180,
			MaxAcceleration:        10,
			MaxForce:               8000,
			EmergencyStopThreshold: DefaultEmergencyStop,
		},
		Damper: DamperConfig{
			Coefficient:            2200,
			MaxForce:               6000,
			MaxVelocity:            2.0,
			MaxStroke:              0.12,
			Deadband:               0.002,
			GeneratorEfficiency:    0.78,
			NominalTemperature:     40,
			TemperatureCoefficient: 0.004,
		},
		Fluid: FluidConfig{
			Formulation:     DefaultFormulation,
			DeratingEnabled: true,
			ThermalCeiling:  DefaultThermalCeiling,
			AdaptiveField:   true,
			InitialField:    150,
			GeometryFactor:  4000,
			HistoryCapacity: 1000,
			Priorities: PrioritiesConfig{
				EnergyRecovery:       0.35,
				ResponseTime:         0.25,
				Durability:           0.2,
				TemperatureStability: 0.15,
			},
		},
		Vehicle: VehicleConfig{
			RoadAmplitude:   0.04,
			HeatCoefficient: 25,
			InitialSOC:      0.8,
			SOCDecrement:    0.0001,
			SOCFloor:        0.1,
			Mass:            1650,
			Wheelbase:       2.8,
			CGHeight:        0.55,
			CGToFront:       1.25,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Rig.StepInterval <= 0:
		return invalid("step_interval_s must be positive, got %g", c.Rig.StepInterval)
	case c.Rig.LogCapacity < 1:
		return invalid("log_capacity must be at least 1, got %d", c.Rig.LogCapacity)
	case c.Rig.LogEvery < 1:
		return invalid("log_every must be at least 1, got %d", c.Rig.LogEvery)
	case c.Rig.HistoryCapacity < 1:
		return invalid("history_capacity must be at least 1, got %d", c.Rig.HistoryCapacity)
	case c.Safety.EmergencyStopThreshold <= 0:
		return invalid("emergency_stop_c must be positive")
	case c.Damper.MaxForce <= 0 || c.Damper.MaxVelocity <= 0 || c.Damper.MaxStroke <= 0:
		return invalid("damper clamps must be positive")
	case c.Damper.GeneratorEfficiency < 0 || c.Damper.GeneratorEfficiency > 1:
		return invalid("generator_efficiency must be in [0,1], got %g", c.Damper.GeneratorEfficiency)
	case c.Fluid.Formulation == "":
		return invalid("fluid formulation must be set")
	case c.Fluid.ThermalCeiling <= 0:
		return invalid("thermal_ceiling_c must be positive")
	case c.Vehicle.InitialSOC < 0 || c.Vehicle.InitialSOC > 1:
		return invalid("initial_soc must be in [0,1], got %g", c.Vehicle.InitialSOC)
	case c.Vehicle.SOCFloor < 0 || c.Vehicle.SOCFloor > 1:
		return invalid("soc_floor must be in [0,1], got %g", c.Vehicle.SOCFloor)
	case c.Vehicle.Wheelbase <= 0:
		return invalid("wheelbase_m must be positive")
	}
	p := c.Fluid.Priorities
	if p.EnergyRecovery < 0 || p.ResponseTime < 0 || p.Durability < 0 || p.TemperatureStability < 0 {
		return invalid("priorities must be non-negative")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrConfiguration, fmt.Sprintf(format, args...))
}
