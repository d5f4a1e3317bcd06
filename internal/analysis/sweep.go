package analysis

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
)

// SweepPoint is one run of a parameter sweep.
type SweepPoint struct {
	Param   float64
	Results *sim.TestResults
}

// Apply writes a parameter value into a scenario copy.
type Apply func(sc *scenario.Scenario, v float64)

var sweepParams = map[string]Apply{
	"roughness":   func(sc *scenario.Scenario, v float64) { sc.Road.Roughness = v },
	"load":        func(sc *scenario.Scenario, v float64) { sc.LoadFactor = v },
	"ambient":     func(sc *scenario.Scenario, v float64) { sc.Ambient.Temperature = v },
	"incline":     func(sc *scenario.Scenario, v float64) { sc.Road.Incline = v },
	"speed-scale": scaleSpeed,
}

func scaleSpeed(sc *scenario.Scenario, v float64) {
	for i := range sc.SpeedProfile {
		sc.SpeedProfile[i].Speed *= v
	}
}

// SweepParam resolves a named scenario parameter.
func SweepParam(name string) (Apply, bool) {
	a, ok := sweepParams[name]
	return a, ok
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Sweep runs base once per value on a fresh simulator. The base scenario is not modified.
func Sweep(ctx context.Context, factory sim.Factory, base *scenario.Scenario, values []float64, apply Apply) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		sc := base.Clone()
		apply(sc, v)

		s, err := factory()
		if err != nil {
			return points, err
		}
		res, err := s.Start(ctx, sc)
		if err != nil {
			return points, fmt.Errorf("sweep at %g: %w", v, err)
		}
		points = append(points, SweepPoint{Param: v, Results: res})
	}
	return points, nil
}
