package mrfluid

import "math"

// CostWeight is the fixed weight of the cost sub-score.
const CostWeight = 0.05

// Saturation points of the sub-score curves.
const (
	saturatingConcentration = 0.4
	saturatingYieldStress   = 100.0 // kPa
	saturatingDynamicRange  = 200.0
	saturatingResponseTime  = 0.002 // s
)

type Priorities struct {
	EnergyRecovery       float64
	ResponseTime         float64
	Durability           float64
	TemperatureStability float64
}

func DefaultPriorities() Priorities {
	return Priorities{EnergyRecovery: 0.35, ResponseTime: 0.25, Durability: 0.2, TemperatureStability: 0.15}
}

// ScoreCard holds the normalized sub-scores and the weighted total.
type ScoreCard struct {
	Energy      float64
	Response    float64
	Durability  float64
	Temperature float64
	Cost        float64
	Total       float64
}

func Score(c Composition, p Priorities) ScoreCard {
	s := ScoreCard{
		Energy: (saturate(c.Particles.Concentration, saturatingConcentration) +
			saturate(c.Performance.YieldStress, saturatingYieldStress) +
			saturate(c.Performance.DynamicRange, saturatingDynamicRange)) / 3,
		Durability:  clamp(c.Performance.SedimentationStability, 0, 1),
		Temperature: clamp(c.Performance.TemperatureStability, 0, 1),
		Cost:        1 - clamp(c.RelativeCost, 0, 1),
	}
	if c.Performance.ResponseTime <= 0 {
		s.Response = 1
	} else {
		s.Response = math.Min(saturatingResponseTime/c.Performance.ResponseTime, 1)
	}
	s.Total = p.EnergyRecovery*s.Energy +
		p.ResponseTime*s.Response +
		p.Durability*s.Durability +
		p.TemperatureStability*s.Temperature +
		CostWeight*s.Cost
	return s
}

func saturate(v, at float64) float64 {
	if at <= 0 {
		return 0
	}
	return clamp(v/at, 0, 1)
}

type Band string

const (
	BandHighlyRecommended Band = "highly recommended"
	BandRecommended       Band = "recommended"
	BandOptional          Band = "optional"
	BandNotRecommended    Band = "not recommended"
)

// BandFor maps a relative score improvement to a recommendation band.
func BandFor(improvement float64) Band {
	switch {
	case improvement > 0.10:
		return BandHighlyRecommended
	case improvement > 0.05:
		return BandRecommended
	case improvement > 0:
		return BandOptional
	default:
		return BandNotRecommended
	}
}

type Recommendation struct {
	Current      string
	Best         string
	CurrentScore float64
	BestScore    float64
	Improvement  float64 // relative, (best-current)/current
	Band         Band
}

// Recommend compares current against the best-scoring catalog entry. Ties keep the earliest id.
func Recommend(catalog Catalog, current Composition, p Priorities) Recommendation {
	cur := Score(current, p).Total
	rec := Recommendation{Current: current.ID, Best: current.ID, CurrentScore: cur, BestScore: cur}

	all := catalog.All()
	for _, id := range IDs(catalog) {
		s := Score(all[id], p).Total
		if s > rec.BestScore {
			rec.Best = id
			rec.BestScore = s
		}
	}

	switch {
	case cur > 0:
		rec.Improvement = (rec.BestScore - cur) / cur
	case rec.BestScore > 0:
		rec.Improvement = 1
	}
	rec.Band = BandFor(rec.Improvement)
	return rec
}

// Optimize switches to the best formulation when the switch is highly recommended.
// It reports whether a switch happened.
func (i *Integration) Optimize(p Priorities) (Recommendation, bool, error) {
	rec := Recommend(i.catalog, i.current, p)
	if rec.Band != BandHighlyRecommended || rec.Best == i.current.ID {
		return rec, false, nil
	}
	if err := i.Switch(rec.Best); err != nil {
		return rec, false, err
	}
	return rec, true, nil
}
