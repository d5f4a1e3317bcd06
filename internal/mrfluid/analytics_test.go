package mrfluid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = start + float64(k)*step
	}
	return out
}

func TestTrendOf(t *testing.T) {
	assert.Equal(t, TrendStable, TrendOf(ramp(19, 0.5, 0.1)), "too few samples")
	assert.Equal(t, TrendImproving, TrendOf(ramp(20, 0.5, 0.01)))
	assert.Equal(t, TrendDeclining, TrendOf(ramp(30, 0.9, -0.01)))
	assert.Equal(t, TrendStable, TrendOf(ramp(20, 0.8, 0.0001)))
	assert.Equal(t, TrendStable, TrendOf(make([]float64, 25)), "zero baseline")
}

func TestAnalyticsEmpty(t *testing.T) {
	in := newTestIntegration(t, DefaultParams())
	a := in.Analytics()
	assert.Equal(t, 0, a.Samples)
	assert.Equal(t, 0.0, a.FormulationEfficiency)
	assert.Equal(t, TrendStable, a.Trend)

	d := in.Diagnose(DefaultPriorities())
	assert.Equal(t, HealthUnknown, d.Health)
	assert.Empty(t, d.Issues)
}

func TestAnalyticsAndDiagnoseHotRun(t *testing.T) {
	in := newTestIntegration(t, DefaultParams())
	for k := 0; k < 12; k++ {
		in.Compute(hot())
	}

	a := in.Analytics()
	require.Equal(t, 12, a.Samples)
	assert.Equal(t, 1.0, a.DeratedFraction)
	assert.Greater(t, a.PeakTemperature, DefaultParams().ThermalCeiling)
	assert.InDelta(t, a.MeanEfficiency*100, a.FormulationEfficiency, 1e-9)

	d := in.Diagnose(DefaultPriorities())
	assert.NotEmpty(t, d.Issues)
	assert.NotEqual(t, HealthExcellent, d.Health)
	assert.NotEmpty(t, d.Recommendations)
}

func TestSummarizeMatchesIntegrationAnalytics(t *testing.T) {
	in := newTestIntegration(t, DefaultParams())
	var h []HistoryEntry
	for k := 0; k < 25; k++ {
		op := cruise()
		op.SuspensionVelocity = 0.1 + 0.02*float64(k)
		out := in.Compute(op)
		h = append(h, NewHistoryEntry(in.History()[k].Timestamp, "mrf-standard", out))
	}

	want := in.Analytics()
	got := Summarize("mrf-standard", h)
	assert.Equal(t, want, got)

	d := in.DiagnoseFrom(got, DefaultPriorities())
	assert.Equal(t, in.Diagnose(DefaultPriorities()), d)
}
