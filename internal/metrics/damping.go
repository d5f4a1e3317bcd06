package metrics

import (
	"math"

	"github.com/san-kum/regensim/internal/datalog"
)

type MeanForce struct {
	name    string
	sum     float64
	samples int
}

func NewMeanForce() *MeanForce {
	return &MeanForce{name: "mean_force"}
}

func (m *MeanForce) Name() string { return m.name }

func (m *MeanForce) Observe(e datalog.Entry) {
	for _, d := range e.Dampers {
		m.sum += math.Abs(d.DampingForce)
		m.samples++
	}
}

func (m *MeanForce) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanForce) Reset() {
	m.sum = 0
	m.samples = 0
}

type MaxForce struct {
	name string
	max  float64
}

func NewMaxForce() *MaxForce {
	return &MaxForce{name: "max_force"}
}

func (m *MaxForce) Name() string { return m.name }

func (m *MaxForce) Observe(e datalog.Entry) {
	for _, d := range e.Dampers {
		m.max = math.Max(m.max, math.Abs(d.DampingForce))
	}
}

func (m *MaxForce) Value() float64 { return m.max }
func (m *MaxForce) Reset()         { m.max = 0 }

// DampingEfficiency is the mean over steps of the mean per-damper efficiency, in percent.
type DampingEfficiency struct {
	name    string
	sum     float64
	samples int
}

func NewDampingEfficiency() *DampingEfficiency {
	return &DampingEfficiency{name: "damping_efficiency"}
}

func (m *DampingEfficiency) Name() string { return m.name }

func (m *DampingEfficiency) Observe(e datalog.Entry) {
	if len(e.Dampers) == 0 {
		return
	}
	step := 0.0
	for _, d := range e.Dampers {
		step += d.EnergyEfficiency
	}
	m.sum += step / float64(len(e.Dampers))
	m.samples++
}

func (m *DampingEfficiency) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples) * 100
}

func (m *DampingEfficiency) Reset() {
	m.sum = 0
	m.samples = 0
}

// Reliability is the percentage of per-damper samples that are not idle.
type Reliability struct {
	name    string
	active  int
	samples int
}

func NewReliability() *Reliability {
	return &Reliability{name: "reliability"}
}

func (m *Reliability) Name() string { return m.name }

func (m *Reliability) Observe(e datalog.Entry) {
	for _, d := range e.Dampers {
		if !d.Idle() {
			m.active++
		}
		m.samples++
	}
}

func (m *Reliability) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.active) / float64(m.samples) * 100
}

func (m *Reliability) Reset() {
	m.active = 0
	m.samples = 0
}
