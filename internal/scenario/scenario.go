package scenario

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/san-kum/regensim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted test drive. It is read-only while a run uses it.
type Scenario struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description,omitempty"`
	Duration      float64        `yaml:"duration_s"`
	Road          Road           `yaml:"road"`
	SpeedProfile  []SpeedSample  `yaml:"speed_profile"`
	LoadFactor    float64        `yaml:"load_factor"`
	Ambient       Ambient        `yaml:"ambient,omitempty"`
	BrakingEvents []BrakingEvent `yaml:"braking_events,omitempty"`
}

type Road struct {
	Type      string  `yaml:"type"`
	Roughness float64 `yaml:"roughness"`
	Incline   float64 `yaml:"incline_deg,omitempty"`
}

// SpeedSample is a (time, speed) point; samples need not be evenly spaced.
type SpeedSample struct {
	Time  float64 `yaml:"t"`
	Speed float64 `yaml:"speed_kmh"`
}

type Ambient struct {
	Temperature float64 `yaml:"temperature_c,omitempty"`
	Humidity    float64 `yaml:"humidity,omitempty"`
	WindSpeed   float64 `yaml:"wind_speed,omitempty"`
}

type BrakingEvent struct {
	Start     float64 `yaml:"start_s"`
	Duration  float64 `yaml:"duration_s"`
	Intensity float64 `yaml:"intensity"`
}

// Load reads a YAML scenario, checks it against the CUE schema and validates ranges.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(path, data)
}

func Parse(filename string, data []byte) (*Scenario, error) {
	if err := ValidateSchema(filename, data); err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	switch {
	case s.Duration < 0 || math.IsNaN(s.Duration):
		return invalid("duration must be non-negative, got %g", s.Duration)
	case s.Road.Roughness < 0 || s.Road.Roughness > 1:
		return invalid("roughness must be in [0,1], got %g", s.Road.Roughness)
	case s.LoadFactor < 0 || s.LoadFactor > 1:
		return invalid("load factor must be in [0,1], got %g", s.LoadFactor)
	}
	for i, p := range s.SpeedProfile {
		if p.Speed < 0 {
			return invalid("speed sample %d is negative", i)
		}
		if i > 0 && p.Time <= s.SpeedProfile[i-1].Time {
			return invalid("speed profile must be time-ascending at sample %d", i)
		}
	}
	for i, e := range s.BrakingEvents {
		if e.Intensity < 0 || e.Intensity > 1 {
			return invalid("braking event %d intensity must be in [0,1]", i)
		}
		if e.Duration <= 0 {
			return invalid("braking event %d duration must be positive", i)
		}
	}
	return nil
}

// Steps is the number of fixed steps of length dt that fit in the scenario.
func (s *Scenario) Steps(dt float64) int {
	if dt <= 0 || s.Duration <= 0 {
		return 0
	}
	return int(math.Floor(s.Duration/dt + 1e-9))
}

// SpeedAt is the profile speed at t in km/h.
func (s *Scenario) SpeedAt(t float64) float64 {
	return Interpolate(s.SpeedProfile, t)
}

// BrakingIntensity returns the strongest braking demand active at t.
func (s *Scenario) BrakingIntensity(t float64) float64 {
	peak := 0.0
	for _, e := range s.BrakingEvents {
		if t >= e.Start && t < e.Start+e.Duration && e.Intensity > peak {
			peak = e.Intensity
		}
	}
	return peak
}

// Interpolate linearly between speed samples, clamping to the first and last sample outside
// the covered range. An empty profile yields 0.
func Interpolate(samples []SpeedSample, t float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	if t <= samples[0].Time {
		return samples[0].Speed
	}
	if t >= samples[n-1].Time {
		return samples[n-1].Speed
	}
	i := sort.Search(n, func(k int) bool { return samples[k].Time > t })
	a, b := samples[i-1], samples[i]
	span := b.Time - a.Time
	if span <= 0 {
		return a.Speed
	}
	frac := (t - a.Time) / span
	return a.Speed + frac*(b.Speed-a.Speed)
}

// Clone copies the scenario including its slices.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.SpeedProfile = append([]SpeedSample(nil), s.SpeedProfile...)
	c.BrakingEvents = append([]BrakingEvent(nil), s.BrakingEvents...)
	return &c
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrInvalidScenario, fmt.Sprintf(format, args...))
}
