package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/mrfluid"
)

type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusCompleted
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	for _, c := range []Status{StatusIdle, StatusRunning, StatusCompleted, StatusStopped} {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Observer is notified after every step with the entry that step produced, logged or not.
// Observers run on the step loop and must not block.
type Observer interface {
	OnStep(e datalog.Entry)
}

type ObserverFunc func(e datalog.Entry)

func (f ObserverFunc) OnStep(e datalog.Entry) { f(e) }

// Limits are the safety thresholds checked after every step. Only EmergencyStop ends a run.
type Limits struct {
	MaxSpeed        float64 // km/h
	MaxAcceleration float64 // m/s²
	MaxForce        float64 // N per corner
	EmergencyStop   float64 // °C per corner
}

type WarningKind string

const (
	WarningSpeed        WarningKind = "speed"
	WarningAcceleration WarningKind = "acceleration"
	WarningForce        WarningKind = "force"
	WarningTemperature  WarningKind = "temperature"
)

type Warning struct {
	Step   int         `json:"step"`
	Time   float64     `json:"time_s"`
	Kind   WarningKind `json:"kind"`
	Corner string      `json:"corner,omitempty"`
	Value  float64     `json:"value"`
	Limit  float64     `json:"limit"`
}

type PerformanceResults struct {
	MeanForce         float64 `json:"mean_force_n"`
	MaxForce          float64 `json:"max_force_n"`
	RecoveredEnergy   float64 `json:"recovered_energy_j"`
	RecoveryRate      float64 `json:"recovery_rate_w"`
	DampingEfficiency float64 `json:"damping_efficiency_pct"`
	Reliability       float64 `json:"system_reliability_pct"`
}

type FluidResults struct {
	Formulation           string        `json:"formulation"`
	MeanViscosity         float64       `json:"mean_viscosity"`
	MinTemperature        float64       `json:"min_temperature_c"`
	MaxTemperature        float64       `json:"max_temperature_c"`
	FormulationEfficiency float64       `json:"formulation_efficiency_pct"`
	DeratedFraction       float64       `json:"derated_fraction"`
	Trend                 mrfluid.Trend `json:"trend"`
}

type DiagnosticResults struct {
	Health              mrfluid.Health `json:"health"`
	Issues              []string       `json:"issues"`
	Recommendations     []string       `json:"recommendations"`
	MaintenanceRequired bool           `json:"maintenance_required"`
	Recommended         string         `json:"recommended_formulation,omitempty"`
	RecommendationBand  mrfluid.Band   `json:"recommendation_band,omitempty"`
}

type TestResults struct {
	TestID           string             `json:"test_id"`
	ScenarioName     string             `json:"scenario"`
	Start            time.Time          `json:"start"`
	End              time.Time          `json:"end"`
	Status           Status             `json:"status"`
	EmergencyStop    bool               `json:"emergency_stop"`
	Steps            int                `json:"steps"`
	SamplesCollected int                `json:"samples_collected"`
	SamplesDropped   int                `json:"samples_dropped"`
	Performance      PerformanceResults `json:"performance"`
	Fluid            FluidResults       `json:"fluid"`
	Diagnostics      DiagnosticResults  `json:"diagnostics"`
	Warnings         []Warning          `json:"warnings"`
	WarningCount     int                `json:"warning_count"`
}
