package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/regensim/internal/dynamo"
)

func profile() []SpeedSample {
	return []SpeedSample{{0, 10}, {2, 30}, {7, 30}, {10, 0}}
}

func TestInterpolateAtSamples(t *testing.T) {
	p := profile()
	for _, s := range p {
		if got := Interpolate(p, s.Time); got != s.Speed {
			t.Errorf("t=%f: expected %f, got %f", s.Time, s.Speed, got)
		}
	}
}

func TestInterpolateClamps(t *testing.T) {
	p := profile()
	if got := Interpolate(p, -5); got != 10 {
		t.Errorf("before first sample: expected 10, got %f", got)
	}
	if got := Interpolate(p, 99); got != 0 {
		t.Errorf("after last sample: expected 0, got %f", got)
	}
	if got := Interpolate(nil, 3); got != 0 {
		t.Errorf("empty profile: expected 0, got %f", got)
	}
}

func TestInterpolateLinear(t *testing.T) {
	tests := []struct {
		t, want float64
	}{
		{1, 20},
		{4.5, 30},
		{8.5, 15},
	}
	for _, tt := range tests {
		if got := Interpolate(profile(), tt.t); got != tt.want {
			t.Errorf("t=%f: expected %f, got %f", tt.t, tt.want, got)
		}
	}
}

func TestBrakingIntensity(t *testing.T) {
	s := &Scenario{BrakingEvents: []BrakingEvent{
		{Start: 1, Duration: 2, Intensity: 0.3},
		{Start: 2, Duration: 2, Intensity: 0.8},
	}}
	tests := map[float64]float64{0.5: 0, 1.5: 0.3, 2.5: 0.8, 3.5: 0.8, 4: 0}
	for at, want := range tests {
		if got := s.BrakingIntensity(at); got != want {
			t.Errorf("t=%f: expected %f, got %f", at, want, got)
		}
	}
}

func TestSteps(t *testing.T) {
	s := &Scenario{Duration: 1}
	if got := s.Steps(0.1); got != 10 {
		t.Errorf("expected 10 steps, got %d", got)
	}
	s.Duration = 0
	if got := s.Steps(0.1); got != 0 {
		t.Errorf("expected 0 steps, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		s    Scenario
	}{
		{"negative duration", Scenario{Duration: -1}},
		{"roughness above one", Scenario{Road: Road{Roughness: 1.5}}},
		{"descending profile", Scenario{SpeedProfile: []SpeedSample{{5, 10}, {2, 20}}}},
		{"negative speed", Scenario{SpeedProfile: []SpeedSample{{0, -1}}}},
		{"braking too strong", Scenario{BrakingEvents: []BrakingEvent{{Start: 0, Duration: 1, Intensity: 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if !errors.Is(err, dynamo.ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		s, ok := Preset(name)
		if !ok {
			t.Fatalf("preset %s missing", name)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestPresetReturnsCopy(t *testing.T) {
	a, _ := Preset("urban")
	a.SpeedProfile[0].Speed = 999
	b, _ := Preset("urban")
	if b.SpeedProfile[0].Speed == 999 {
		t.Error("preset mutation leaked into the registry")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `
name: test-loop
duration_s: 20
road:
  type: asphalt
  roughness: 0.4
speed_profile:
  - t: 0
    speed_kmh: 0
  - t: 10
    speed_kmh: 50
load_factor: 0.5
ambient:
  temperature_c: 21
braking_events:
  - start_s: 15
    duration_s: 2
    intensity: 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Name != "test-loop" || len(s.SpeedProfile) != 2 {
		t.Errorf("unexpected scenario: %+v", s)
	}
	if s.SpeedAt(5) != 25 {
		t.Errorf("expected 25 km/h at t=5, got %f", s.SpeedAt(5))
	}
}

func TestValidateSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "name: x\nduration_s: 1\nroad: {type: a, roughness: 0.1}\nspeed_profile: []\nload_factor: 0.1\nturbo: true\n"},
		{"roughness out of range", "name: x\nduration_s: 1\nroad: {type: a, roughness: 3}\nspeed_profile: []\nload_factor: 0.1\n"},
		{"missing road", "name: x\nduration_s: 1\nspeed_profile: []\nload_factor: 0.1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema("inline.yaml", []byte(tt.data))
			if !errors.Is(err, dynamo.ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}
