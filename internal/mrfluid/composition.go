package mrfluid

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/regensim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

type BaseFluid struct {
	Viscosity           float64 `yaml:"viscosity_pas"`
	ThermalConductivity float64 `yaml:"thermal_conductivity"`
	Density             float64 `yaml:"density"`
}

type Particles struct {
	Concentration           float64 `yaml:"concentration"`
	SaturationMagnetization float64 `yaml:"saturation_magnetization_kam"`
	Size                    float64 `yaml:"size_um"`
}

type Performance struct {
	ResponseTime           float64 `yaml:"response_time_s"`
	YieldStress            float64 `yaml:"yield_stress_kpa"`
	DynamicRange           float64 `yaml:"dynamic_range"`
	SedimentationStability float64 `yaml:"sedimentation_stability"`
	TemperatureStability   float64 `yaml:"temperature_stability"`
}

// Composition is an immutable catalog entry. Integrations hold it by value.
type Composition struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	BaseFluid    BaseFluid   `yaml:"base_fluid"`
	Particles    Particles   `yaml:"particles"`
	Performance  Performance `yaml:"performance"`
	RelativeCost float64     `yaml:"relative_cost"`
}

// Catalog resolves formulation ids to compositions.
type Catalog interface {
	Lookup(id string) (Composition, bool)
	All() map[string]Composition
}

// MapCatalog is an in-memory catalog keyed by formulation id.
type MapCatalog map[string]Composition

func (m MapCatalog) Lookup(id string) (Composition, bool) {
	c, ok := m[id]
	return c, ok
}

func (m MapCatalog) All() map[string]Composition {
	out := make(map[string]Composition, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IDs returns the catalog ids in sorted order.
func IDs(c Catalog) []string {
	all := c.All()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Builtin returns the stock formulations shipped with the rig.
func Builtin() MapCatalog {
	list := []Composition{
		{
			ID: "mrf-standard", Name: "Standard hydrocarbon MRF",
			BaseFluid:    BaseFluid{Viscosity: 0.10, ThermalConductivity: 0.20, Density: 2950},
			Particles:    Particles{Concentration: 0.32, SaturationMagnetization: 400, Size: 4},
			Performance:  Performance{ResponseTime: 0.008, YieldStress: 50, DynamicRange: 120, SedimentationStability: 0.75, TemperatureStability: 0.70},
			RelativeCost: 0.40,
		},
		{
			ID: "mrf-high-yield", Name: "High-yield carbonyl iron MRF",
			BaseFluid:    BaseFluid{Viscosity: 0.15, ThermalConductivity: 0.18, Density: 3450},
			Particles:    Particles{Concentration: 0.40, SaturationMagnetization: 480, Size: 6},
			Performance:  Performance{ResponseTime: 0.012, YieldStress: 95, DynamicRange: 190, SedimentationStability: 0.65, TemperatureStability: 0.60},
			RelativeCost: 0.70,
		},
		{
			ID: "mrf-thermal", Name: "Silicone-base thermal MRF",
			BaseFluid:    BaseFluid{Viscosity: 0.12, ThermalConductivity: 0.32, Density: 3100},
			Particles:    Particles{Concentration: 0.30, SaturationMagnetization: 420, Size: 5},
			Performance:  Performance{ResponseTime: 0.010, YieldStress: 60, DynamicRange: 140, SedimentationStability: 0.85, TemperatureStability: 0.95},
			RelativeCost: 0.60,
		},
		{
			ID: "mrf-fast", Name: "Low-viscosity fast-response MRF",
			BaseFluid:    BaseFluid{Viscosity: 0.08, ThermalConductivity: 0.22, Density: 2700},
			Particles:    Particles{Concentration: 0.26, SaturationMagnetization: 380, Size: 2},
			Performance:  Performance{ResponseTime: 0.003, YieldStress: 40, DynamicRange: 100, SedimentationStability: 0.70, TemperatureStability: 0.65},
			RelativeCost: 0.55,
		},
		{
			ID: "mrf-eco", Name: "Economy glycol MRF",
			BaseFluid:    BaseFluid{Viscosity: 0.09, ThermalConductivity: 0.20, Density: 2500},
			Particles:    Particles{Concentration: 0.22, SaturationMagnetization: 350, Size: 8},
			Performance:  Performance{ResponseTime: 0.015, YieldStress: 30, DynamicRange: 80, SedimentationStability: 0.60, TemperatureStability: 0.60},
			RelativeCost: 0.15,
		},
	}
	m := make(MapCatalog, len(list))
	for _, c := range list {
		m[c.ID] = c
	}
	return m
}

type catalogFile struct {
	Formulations []Composition `yaml:"formulations"`
}

// LoadCatalog reads a YAML list of formulations.
func LoadCatalog(path string) (MapCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Formulations) == 0 {
		return nil, dynamo.ErrEmptyCatalog
	}
	m := make(MapCatalog, len(f.Formulations))
	for _, c := range f.Formulations {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: formulation without id", dynamo.ErrConfiguration)
		}
		if c.Particles.SaturationMagnetization <= 0 || c.Performance.ResponseTime <= 0 {
			return nil, &dynamo.ConfigurationError{Formulation: c.ID, Reason: "saturation magnetization and response time must be positive"}
		}
		m[c.ID] = c
	}
	return m, nil
}
