// Package tui is the live terminal monitor for a running test.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/report"
	"github.com/san-kum/regensim/internal/ringbuf"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
	"github.com/san-kum/regensim/internal/vehicle"
)

const (
	historyLen = 60
	barWidth   = 30
)

type StepMsg datalog.Entry

type DoneMsg struct {
	Results *sim.TestResults
	Err     error
}

// Model renders the latest step and short power and temperature histories.
type Model struct {
	scenario   string
	totalSteps int
	stop       func()

	latest  datalog.Entry
	started bool
	power   *ringbuf.Buffer[float64]
	temp    *ringbuf.Buffer[float64]
	limit   float64

	done    bool
	results *sim.TestResults
	err     error
}

// NewModel builds a monitor for sc. stop is invoked when the user aborts.
func NewModel(sc *scenario.Scenario, opts sim.Options, stop func()) Model {
	if stop == nil {
		stop = func() {}
	}
	return Model{
		scenario:   sc.Name,
		totalSteps: sc.Steps(opts.StepInterval),
		stop:       stop,
		power:      ringbuf.New[float64](historyLen),
		temp:       ringbuf.New[float64](historyLen),
		limit:      opts.Limits.EmergencyStop,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stop()
			return m, tea.Quit
		case "s":
			m.stop()
		}
	case StepMsg:
		e := datalog.Entry(msg)
		m.latest = e
		m.started = true
		m.power.Push(e.RecoveredPower())
		_, hottest := e.State.MaxCornerTemperature()
		m.temp.Push(hottest)
	case DoneMsg:
		m.done = true
		m.results = msg.Results
		m.err = msg.Err
	}
	return m, nil
}

func (m Model) Results() (*sim.TestResults, error) { return m.results, m.err }

func (m Model) View() string {
	if m.done {
		if m.err != nil {
			return red.Render("test failed: "+m.err.Error()) + "\n"
		}
		if m.results != nil {
			return report.Summary(m.results) + dim.Render("\npress q to exit") + "\n"
		}
	}

	var sb strings.Builder
	sb.WriteString(cyan.Render("REGENSIM LIVE  ") + white.Render(strings.ToUpper(m.scenario)) + "\n\n")
	if !m.started {
		sb.WriteString(dim.Render("waiting for first step...") + "\n")
		return sb.String()
	}

	e := m.latest
	sb.WriteString(progress(e.Step+1, m.totalSteps) + fmt.Sprintf("  %.1fs\n\n", e.Elapsed))

	motion := fmt.Sprintf("speed %6.1f km/h   accel %5.2f m/s²   soc %5.1f%%   braking %3.0f%%",
		e.State.Motion.Speed, e.State.Motion.Acceleration, e.State.Status.BatterySOC*100, e.BrakingIntensity*100)
	sb.WriteString(motion + "\n\n")

	var corners strings.Builder
	corners.WriteString(dim.Render(fmt.Sprintf("%-12s %9s %9s %8s %8s", "corner", "disp mm", "force N", "power W", "temp °C")) + "\n")
	for _, c := range vehicle.Corners() {
		corner := e.State.Corners[c]
		line := fmt.Sprintf("%-12s %9.2f %9.1f %8.1f ", c.String(), corner.Displacement*1000, corner.Force, e.Dampers[c].GeneratedPower)
		corners.WriteString(line + m.tempStyle(corner.Temperature).Render(fmt.Sprintf("%8.1f", corner.Temperature)) + "\n")
	}

	fl := e.Fluid
	fluid := fmt.Sprintf("viscosity %.3f Pa·s\ntemperature %.1f °C\nfield %.0f kA/m\nrecovery %.1f W\nderating %.2f",
		fl.Viscosity, fl.FluidTemperature, fl.RequiredField, fl.TotalEnergyRecovery, fl.DeratingFactor)
	if fl.Derated {
		fluid += yellow.Render("  derated")
	}

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panel.Render(corners.String()), panel.Render(fluid)) + "\n")

	if m.power.Len() > 1 {
		chart := asciigraph.Plot(m.power.Slice(), asciigraph.Height(5), asciigraph.Width(historyLen), asciigraph.Caption("recovered power (W)"))
		sb.WriteString(chart + "\n")
	}
	sb.WriteString(dim.Render("s stop  q quit") + "\n")
	return sb.String()
}

func (m Model) tempStyle(t float64) lipgloss.Style {
	switch {
	case m.limit > 0 && t > m.limit:
		return red
	case m.limit > 0 && t > 0.8*m.limit:
		return yellow
	default:
		return green
	}
}

func progress(step, total int) string {
	if total <= 0 {
		return "[" + strings.Repeat("-", barWidth) + "]"
	}
	filled := step * barWidth / total
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + green.Render(strings.Repeat("=", filled)) + strings.Repeat("-", barWidth-filled) + fmt.Sprintf("] %d/%d", step, total)
}

// Run starts sc on s and shows the monitor until the user quits. Quitting stops the test at
// the next step boundary; Run still waits for the results.
func Run(ctx context.Context, s *sim.Simulator, sc *scenario.Scenario, every int) (*sim.TestResults, error) {
	m := NewModel(sc, s.Options(), s.Stop)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	s.AddObserver(NewBridge(p, every))

	done := make(chan DoneMsg, 1)
	go func() {
		res, err := s.Start(ctx, sc)
		msg := DoneMsg{Results: res, Err: err}
		done <- msg
		p.Send(msg)
	}()

	_, err := p.Run()
	s.Stop()
	msg := <-done
	if err != nil {
		return msg.Results, err
	}
	return msg.Results, msg.Err
}
