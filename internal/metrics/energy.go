package metrics

import "github.com/san-kum/regensim/internal/datalog"

// RecoveredEnergy integrates recovered power over the interval each entry represents, in J.
type RecoveredEnergy struct {
	name     string
	interval float64
	total    float64
}

func NewRecoveredEnergy(interval float64) *RecoveredEnergy {
	return &RecoveredEnergy{name: "recovered_energy", interval: interval}
}

func (m *RecoveredEnergy) Name() string { return m.name }

func (m *RecoveredEnergy) Observe(e datalog.Entry) {
	m.total += e.RecoveredPower() * m.interval
}

func (m *RecoveredEnergy) Value() float64 { return m.total }
func (m *RecoveredEnergy) Reset()         { m.total = 0 }

// RecoveryRate is the mean recovered power in W.
type RecoveryRate struct {
	name    string
	sum     float64
	samples int
}

func NewRecoveryRate() *RecoveryRate {
	return &RecoveryRate{name: "recovery_rate"}
}

func (m *RecoveryRate) Name() string { return m.name }

func (m *RecoveryRate) Observe(e datalog.Entry) {
	m.sum += e.RecoveredPower()
	m.samples++
}

func (m *RecoveryRate) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *RecoveryRate) Reset() {
	m.sum = 0
	m.samples = 0
}
