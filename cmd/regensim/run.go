package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/regensim/internal/analysis"
	"github.com/san-kum/regensim/internal/config"
	"github.com/san-kum/regensim/internal/datalog"
	"github.com/san-kum/regensim/internal/logging"
	"github.com/san-kum/regensim/internal/report"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
	"github.com/san-kum/regensim/internal/tui"
)

func newSimulator(cmd *cobra.Command) (*sim.Simulator, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("realtime") || cmd.Name() == "live" {
		cfg.Rig.RealTime = realTime
	}
	if logEvery > 0 {
		cfg.Rig.LogEvery = logEvery
	}
	s, err := sim.FromConfig(cfg, nil, nil)
	return s, cfg, err
}

func runTest(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	s, _, err := newSimulator(cmd)
	if err != nil {
		return err
	}

	if !jsonOut {
		fmt.Printf("running %s (%d steps, formulation %s)...\n",
			sc.Name, sc.Steps(s.Options().StepInterval), s.Fluid().Current().ID)
	}
	began := time.Now()
	res, err := s.Start(cmd.Context(), sc)
	if err != nil {
		return err
	}
	entries := s.Log()

	dir := outDir
	if dir == "" {
		dir = dataDir
	}
	st := report.NewStore(dir)
	if err := st.Init(); err != nil {
		return err
	}
	runDir, err := st.Save(res, entries)
	if err != nil {
		return err
	}

	if chartDir != "" {
		if err := saveCharts(chartDir, entries); err != nil {
			return err
		}
	}

	if jsonOut {
		return report.ExportJSON(os.Stdout, res)
	}

	fmt.Println(report.Summary(res))
	if showPlot {
		power := make([]float64, len(entries))
		for i, e := range entries {
			power[i] = e.RecoveredPower()
		}
		fmt.Println(report.Plot(power, "recovered power (W)", 80, 10))
	}
	fmt.Printf("completed in %v\n", time.Since(began).Round(time.Millisecond))
	fmt.Printf("stored in %s\n", runDir)
	return nil
}

func saveCharts(dir string, entries []datalog.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for name, chart := range report.LogCharts(entries) {
		if err := report.SaveChart(filepath.Join(dir, name+".png"), chart, 8, 5); err != nil {
			return err
		}
	}
	fmt.Printf("charts written to %s\n", dir)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	s, _, err := newSimulator(cmd)
	if err != nil {
		return err
	}

	// Log records would tear the full-screen view.
	ctx := logging.NewContext(cmd.Context(), logging.Discard())
	res, err := tui.Run(ctx, s, sc, frameEvery)
	if err != nil {
		return err
	}
	if res != nil {
		fmt.Println(report.Summary(res))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = scenario.ListPresets()
	}
	scenarios := make([]*scenario.Scenario, 0, len(names))
	for _, n := range names {
		sc, err := loadScenario(n)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, sc)
	}

	s, _, err := newSimulator(cmd)
	if err != nil {
		return err
	}

	results, err := sim.NewBatch(s).Run(cmd.Context(), scenarios)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTATUS\tSTEPS\tENERGY\tEFFICIENCY\tRELIABILITY\tHEALTH\tWARNINGS")
	for _, r := range results {
		status := r.Status.String()
		if r.EmergencyStop {
			status = "e-stop"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0f J\t%.1f%%\t%.1f%%\t%s\t%d\n",
			r.ScenarioName, status, r.Steps,
			r.Performance.RecoveredEnergy, r.Performance.DampingEfficiency, r.Performance.Reliability,
			r.Diagnostics.Health, r.WarningCount)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadScenario(args[0])
	if err != nil {
		return err
	}
	applyFn, ok := analysis.SweepParam(sweepParam)
	if !ok {
		return fmt.Errorf("unknown sweep parameter %q", sweepParam)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	factory := func() (*sim.Simulator, error) { return sim.FromConfig(cfg, nil, nil) }

	points, err := analysis.Sweep(cmd.Context(), factory, base, analysis.Linspace(sweepFrom, sweepTo, sweepPoints), applyFn)
	if err != nil {
		return err
	}

	energy := make([]float64, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENERGY\tMEAN FORCE\tEFFICIENCY\tMAX FLUID TEMP\n", sweepParam)
	for i, p := range points {
		r := p.Results
		energy[i] = r.Performance.RecoveredEnergy
		fmt.Fprintf(w, "%.3f\t%.0f J\t%.1f N\t%.1f%%\t%.1f °C\n",
			p.Param, r.Performance.RecoveredEnergy, r.Performance.MeanForce,
			r.Performance.DampingEfficiency, r.Fluid.MaxTemperature)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(energy) > 1 {
		fmt.Println()
		fmt.Println(report.Plot(energy, "recovered energy (J) vs "+sweepParam, 60, 8))
	}
	return nil
}
