package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Width(24)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
}

func statusStyle(res *sim.TestResults) lipgloss.Style {
	switch {
	case res.EmergencyStop:
		return errStyle
	case res.Status == sim.StatusCompleted:
		return okStyle
	default:
		return warnStyle
	}
}

func healthStyle(h mrfluid.Health) lipgloss.Style {
	switch h {
	case mrfluid.HealthExcellent, mrfluid.HealthGood:
		return okStyle
	case mrfluid.HealthPoor:
		return errStyle
	default:
		return warnStyle
	}
}

// Summary formats results for the terminal.
func Summary(res *sim.TestResults) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("TEST %s  %s", strings.ToUpper(res.ScenarioName), res.TestID)) + "\n")

	status := res.Status.String()
	if res.EmergencyStop {
		status += " (emergency stop)"
	}
	sb.WriteString(labelStyle.Render("status") + statusStyle(res).Render(status) + "\n")
	row(&sb, "duration", res.End.Sub(res.Start).String())
	row(&sb, "steps", fmt.Sprintf("%d (%d samples, %d dropped)", res.Steps, res.SamplesCollected, res.SamplesDropped))

	p := res.Performance
	sb.WriteString("\n" + titleStyle.Render("PERFORMANCE") + "\n")
	row(&sb, "mean / max force", fmt.Sprintf("%.1f N / %.1f N", p.MeanForce, p.MaxForce))
	row(&sb, "recovered energy", fmt.Sprintf("%.1f J (%.1f W mean)", p.RecoveredEnergy, p.RecoveryRate))
	row(&sb, "damping efficiency", fmt.Sprintf("%.1f%%", p.DampingEfficiency))
	row(&sb, "system reliability", fmt.Sprintf("%.1f%%", p.Reliability))

	fl := res.Fluid
	sb.WriteString("\n" + titleStyle.Render("MR FLUID") + "\n")
	row(&sb, "formulation", fl.Formulation)
	row(&sb, "mean viscosity", fmt.Sprintf("%.3f Pa·s", fl.MeanViscosity))
	row(&sb, "temperature", fmt.Sprintf("%.1f to %.1f °C", fl.MinTemperature, fl.MaxTemperature))
	row(&sb, "efficiency", fmt.Sprintf("%.1f%% (%s)", fl.FormulationEfficiency, fl.Trend))

	d := res.Diagnostics
	sb.WriteString("\n" + titleStyle.Render("DIAGNOSTICS") + "\n")
	sb.WriteString(labelStyle.Render("health") + healthStyle(d.Health).Render(string(d.Health)) + "\n")
	if d.Recommended != "" && d.Recommended != fl.Formulation {
		row(&sb, "suggested formulation", fmt.Sprintf("%s (%s)", d.Recommended, d.RecommendationBand))
	}
	for _, issue := range d.Issues {
		sb.WriteString(warnStyle.Render("  ! "+issue) + "\n")
	}
	for _, rec := range d.Recommendations {
		sb.WriteString("  → " + rec + "\n")
	}

	if res.WarningCount > 0 {
		sb.WriteString("\n" + titleStyle.Render("WARNINGS") + "\n")
		counts := map[sim.WarningKind]int{}
		for _, w := range res.Warnings {
			counts[w.Kind]++
		}
		for _, k := range []sim.WarningKind{sim.WarningSpeed, sim.WarningAcceleration, sim.WarningForce, sim.WarningTemperature} {
			if counts[k] > 0 {
				row(&sb, string(k), fmt.Sprintf("%d", counts[k]))
			}
		}
		if res.WarningCount > len(res.Warnings) {
			row(&sb, "not recorded", fmt.Sprintf("%d", res.WarningCount-len(res.Warnings)))
		}
	}
	return sb.String()
}
