package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
	"github.com/san-kum/regensim/internal/vehicle"
)

type fakeSender struct{ msgs []tea.Msg }

func (f *fakeSender) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestBridgeThrottles(t *testing.T) {
	fs := &fakeSender{}
	b := NewBridge(fs, 3)
	for i := 0; i < 7; i++ {
		b.OnStep(datalog.Entry{Step: i})
	}
	if len(fs.msgs) != 3 {
		t.Fatalf("expected steps 0, 3 and 6, got %d messages", len(fs.msgs))
	}
	if got := datalog.Entry(fs.msgs[2].(StepMsg)).Step; got != 6 {
		t.Errorf("expected step 6, got %d", got)
	}
}

func newModel(stop func()) Model {
	sc, _ := scenario.Preset("urban")
	return NewModel(sc, sim.DefaultOptions(), stop)
}

func step(i int, temp float64) StepMsg {
	e := datalog.Entry{Step: i, Elapsed: float64(i+1) * 0.1}
	e.State.Motion.Speed = 42
	for _, c := range vehicle.Corners() {
		e.State.Corners[c] = vehicle.SuspensionCorner{ID: c, Temperature: temp}
	}
	e.Fluid = mrfluid.Output{TotalEnergyRecovery: float64(10 * i), Viscosity: 0.25}
	return StepMsg(e)
}

func TestModelRendersSteps(t *testing.T) {
	m := newModel(nil)
	if !strings.Contains(m.View(), "waiting") {
		t.Error("expected a waiting message before the first step")
	}

	var tm tea.Model = m
	for i := 0; i < 5; i++ {
		tm, _ = tm.Update(step(i, 30))
	}
	view := tm.View()
	for _, want := range []string{"URBAN", "42.0 km/h", "front-left", "rear-right", "0.250 Pa·s", "5/1200", "recovered power"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelKeys(t *testing.T) {
	stopped := 0
	var tm tea.Model = newModel(func() { stopped++ })

	tm, cmd := tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if stopped != 1 || cmd != nil {
		t.Errorf("s should stop without quitting, stopped=%d", stopped)
	}

	_, cmd = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if stopped != 2 || cmd == nil {
		t.Errorf("q should stop and quit, stopped=%d", stopped)
	}
}

func TestModelDone(t *testing.T) {
	var tm tea.Model = newModel(nil)
	res := &sim.TestResults{TestID: "abc", ScenarioName: "urban", Status: sim.StatusCompleted}
	tm, _ = tm.Update(DoneMsg{Results: res})
	if !strings.Contains(tm.View(), "completed") {
		t.Errorf("expected summary after completion:\n%s", tm.View())
	}
	got, err := tm.(Model).Results()
	if got != res || err != nil {
		t.Error("expected the results to be retained")
	}

	tm, _ = newModel(nil).Update(DoneMsg{Err: errors.New("boom")})
	if !strings.Contains(tm.View(), "boom") {
		t.Error("expected the error in the view")
	}
}

func TestProgress(t *testing.T) {
	if got := progress(10, 0); strings.Contains(got, "=") {
		t.Errorf("zero total should render an empty bar, got %q", got)
	}
	if got := progress(20, 10); !strings.Contains(got, strings.Repeat("=", barWidth)) {
		t.Errorf("overflow should clamp to a full bar, got %q", got)
	}
}
