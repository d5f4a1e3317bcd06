package mrfluid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

const (
	trendWindow    = 10
	trendThreshold = 0.05
)

// TrendOf compares the mean of the last 10 values with the mean of the 10 before them.
func TrendOf(values []float64) Trend {
	if len(values) < 2*trendWindow {
		return TrendStable
	}
	n := len(values)
	recent := stat.Mean(values[n-trendWindow:], nil)
	previous := stat.Mean(values[n-2*trendWindow:n-trendWindow], nil)
	if previous == 0 {
		return TrendStable
	}
	change := (recent - previous) / math.Abs(previous)
	switch {
	case change > trendThreshold:
		return TrendImproving
	case change < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

type Analytics struct {
	Formulation           string
	Samples               int
	MeanEfficiency        float64
	MeanRecovery          float64 // W
	MeanViscosity         float64
	PeakTemperature       float64
	DeratedFraction       float64
	FormulationEfficiency float64 // percent
	Trend                 Trend
}

func (i *Integration) Analytics() Analytics {
	return Summarize(i.current.ID, i.history.Slice())
}

// Summarize reduces recorded entries, oldest first, for formulation.
func Summarize(formulation string, h []HistoryEntry) Analytics {
	a := Analytics{Formulation: formulation, Samples: len(h), Trend: TrendStable}
	if len(h) == 0 {
		return a
	}

	eff := make([]float64, len(h))
	rec := make([]float64, len(h))
	visc := make([]float64, len(h))
	temp := make([]float64, len(h))
	derated := 0
	for k, e := range h {
		eff[k] = e.Efficiency
		rec[k] = e.TotalEnergyRecovery
		visc[k] = e.Viscosity
		temp[k] = e.FluidTemperature
		if e.DeratingFactor < 1 {
			derated++
		}
	}

	a.MeanEfficiency = stat.Mean(eff, nil)
	a.MeanRecovery = stat.Mean(rec, nil)
	a.MeanViscosity = stat.Mean(visc, nil)
	a.PeakTemperature = floats.Max(temp)
	a.DeratedFraction = float64(derated) / float64(len(h))
	a.FormulationEfficiency = a.MeanEfficiency * 100
	a.Trend = TrendOf(eff)
	return a
}

type Health string

const (
	HealthUnknown   Health = "unknown"
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthFair      Health = "fair"
	HealthPoor      Health = "poor"
)

type Diagnostics struct {
	Health          Health
	Issues          []string
	Recommendations []string
	Recommendation  Recommendation
}

// Diagnose inspects recorded history and the current formulation for maintenance issues.
func (i *Integration) Diagnose(p Priorities) Diagnostics {
	return i.DiagnoseFrom(i.Analytics(), p)
}

// DiagnoseFrom is Diagnose over analytics the caller reduced itself, e.g. from a full data log.
func (i *Integration) DiagnoseFrom(a Analytics, p Priorities) Diagnostics {
	d := Diagnostics{Health: HealthUnknown}
	d.Recommendation = Recommend(i.catalog, i.current, p)
	if a.Samples == 0 {
		return d
	}

	issue := func(msg, fix string) {
		d.Issues = append(d.Issues, msg)
		if fix != "" {
			d.Recommendations = append(d.Recommendations, fix)
		}
	}

	if i.params.ThermalCeiling > 0 && a.PeakTemperature > i.params.ThermalCeiling {
		issue(fmt.Sprintf("fluid temperature peaked at %.1f°C, above the %.1f°C ceiling", a.PeakTemperature, i.params.ThermalCeiling),
			"improve damper cooling or select a thermally stable formulation")
	}
	if a.DeratedFraction > 0.2 {
		issue(fmt.Sprintf("thermal derating active in %.0f%% of samples", a.DeratedFraction*100), "")
	}
	if a.MeanEfficiency < 0.6 {
		issue(fmt.Sprintf("low conversion efficiency (%.1f%%)", a.FormulationEfficiency),
			"raise field strength or enable adaptive field control")
	}
	if a.Trend == TrendDeclining {
		issue("conversion efficiency trending down", "inspect fluid for particle settling")
	}
	if s := i.current.Performance.SedimentationStability; s < 0.7 {
		issue(fmt.Sprintf("formulation %s has low sedimentation stability (%.2f)", i.current.ID, s),
			"schedule a fluid service interval")
	}

	switch d.Recommendation.Band {
	case BandHighlyRecommended, BandRecommended:
		d.Recommendations = append(d.Recommendations,
			fmt.Sprintf("switch formulation to %s (%s, +%.1f%% score)", d.Recommendation.Best, d.Recommendation.Band, d.Recommendation.Improvement*100))
	}

	switch len(d.Issues) {
	case 0:
		d.Health = HealthExcellent
	case 1:
		d.Health = HealthGood
	case 2:
		d.Health = HealthFair
	default:
		d.Health = HealthPoor
	}
	return d
}
