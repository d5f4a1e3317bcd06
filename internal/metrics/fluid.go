package metrics

import (
	"math"

	"github.com/san-kum/regensim/internal/datalog"
)

type MeanViscosity struct {
	name    string
	sum     float64
	samples int
}

func NewMeanViscosity() *MeanViscosity {
	return &MeanViscosity{name: "mean_viscosity"}
}

func (m *MeanViscosity) Name() string { return m.name }

func (m *MeanViscosity) Observe(e datalog.Entry) {
	m.sum += e.Fluid.Viscosity
	m.samples++
}

func (m *MeanViscosity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanViscosity) Reset() {
	m.sum = 0
	m.samples = 0
}

// FluidTemperature tracks either the minimum or the maximum fluid temperature.
type FluidTemperature struct {
	name    string
	max     bool
	value   float64
	samples int
}

func NewMinFluidTemperature() *FluidTemperature {
	return &FluidTemperature{name: "min_fluid_temperature"}
}

func NewMaxFluidTemperature() *FluidTemperature {
	return &FluidTemperature{name: "max_fluid_temperature", max: true}
}

func (m *FluidTemperature) Name() string { return m.name }

func (m *FluidTemperature) Observe(e datalog.Entry) {
	t := e.Fluid.FluidTemperature
	switch {
	case m.samples == 0:
		m.value = t
	case m.max:
		m.value = math.Max(m.value, t)
	default:
		m.value = math.Min(m.value, t)
	}
	m.samples++
}

func (m *FluidTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.value
}

func (m *FluidTemperature) Reset() {
	m.value = 0
	m.samples = 0
}
