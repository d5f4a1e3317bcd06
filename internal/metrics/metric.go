package metrics

import "github.com/san-kum/regensim/internal/datalog"

// Metric reduces a stream of log entries to one value.
type Metric interface {
	Name() string
	Observe(e datalog.Entry)
	Value() float64
	Reset()
}

// Reduce resets each metric, feeds it every entry and collects the values by name.
func Reduce(entries []datalog.Entry, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for _, e := range entries {
			m.Observe(e)
		}
		out[m.Name()] = m.Value()
	}
	return out
}
