package scenario

import "sort"

var Presets = map[string]*Scenario{
	"urban": {
		Name: "urban", Description: "stop-and-go city loop",
		Duration: 120,
		Road:     Road{Type: "asphalt", Roughness: 0.3},
		SpeedProfile: []SpeedSample{
			{0, 0}, {10, 40}, {30, 50}, {45, 0}, {60, 30}, {90, 50}, {110, 20}, {120, 0},
		},
		LoadFactor: 0.5,
		Ambient:    Ambient{Temperature: 22, Humidity: 0.5, WindSpeed: 2},
		BrakingEvents: []BrakingEvent{
			{Start: 38, Duration: 7, Intensity: 0.4},
			{Start: 105, Duration: 15, Intensity: 0.3},
		},
	},
	"highway": {
		Name: "highway", Description: "motorway cruise with a lane-change slowdown",
		Duration: 300,
		Road:     Road{Type: "asphalt", Roughness: 0.15},
		SpeedProfile: []SpeedSample{
			{0, 60}, {30, 110}, {240, 120}, {260, 90}, {300, 110},
		},
		LoadFactor: 0.6,
		Ambient:    Ambient{Temperature: 25, Humidity: 0.4, WindSpeed: 5},
		BrakingEvents: []BrakingEvent{
			{Start: 240, Duration: 20, Intensity: 0.2},
		},
	},
	"rough-road": {
		Name: "rough-road", Description: "loaded vehicle on broken gravel",
		Duration: 180,
		Road:     Road{Type: "gravel", Roughness: 0.85, Incline: 4},
		SpeedProfile: []SpeedSample{
			{0, 20}, {60, 45}, {120, 35}, {180, 25},
		},
		LoadFactor: 0.8,
		Ambient:    Ambient{Temperature: 18, Humidity: 0.7, WindSpeed: 3},
	},
	"emergency-braking": {
		Name: "emergency-braking", Description: "full stop from 100 km/h",
		Duration: 30,
		Road:     Road{Type: "asphalt", Roughness: 0.2},
		SpeedProfile: []SpeedSample{
			{0, 100}, {10, 100}, {14, 0}, {30, 0},
		},
		LoadFactor: 0.5,
		Ambient:    Ambient{Temperature: 20, Humidity: 0.5},
		BrakingEvents: []BrakingEvent{
			{Start: 10, Duration: 4, Intensity: 1.0},
		},
	},
	"thermal-stress": {
		Name: "thermal-stress", Description: "fully loaded desert washboard run",
		Duration: 600,
		Road:     Road{Type: "washboard", Roughness: 0.7},
		SpeedProfile: []SpeedSample{
			{0, 40}, {120, 70}, {300, 80}, {480, 60}, {600, 50},
		},
		LoadFactor: 1.0,
		Ambient:    Ambient{Temperature: 45, Humidity: 0.1, WindSpeed: 1},
		BrakingEvents: []BrakingEvent{
			{Start: 150, Duration: 10, Intensity: 0.6},
			{Start: 450, Duration: 10, Intensity: 0.6},
		},
	},
}

// Preset returns a copy of the named preset.
func Preset(name string) (*Scenario, bool) {
	s, ok := Presets[name]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
