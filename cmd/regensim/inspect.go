package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/regensim/internal/analysis"
	"github.com/san-kum/regensim/internal/config"
	"github.com/san-kum/regensim/internal/logging"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/report"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
	"github.com/san-kum/regensim/internal/vehicle"
)

func listFormulations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := sim.CatalogFor(cfg)
	if err != nil {
		return err
	}
	p := priorities(cfg)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPARTICLES\tYIELD\tRESPONSE\tTEMP STABILITY\tCOST\tSCORE")
	for _, id := range mrfluid.IDs(catalog) {
		c, _ := catalog.Lookup(id)
		marker := ""
		if id == cfg.Fluid.Formulation {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%.0f%%\t%.0f kPa\t%.1f ms\t%.2f\t%.2f\t%.3f\n",
			id, marker, c.Name, c.Particles.Concentration*100, c.Performance.YieldStress,
			c.Performance.ResponseTime*1000, c.Performance.TemperatureStability, c.RelativeCost,
			mrfluid.Score(c, p).Total)
	}
	return w.Flush()
}

func optimizeFormulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := sim.CatalogFor(cfg)
	if err != nil {
		return err
	}
	integ, err := mrfluid.NewIntegration(catalog, cfg.Fluid.Formulation, sim.FluidParams(cfg), nil)
	if err != nil {
		return err
	}

	p := priorities(cfg)
	if !apply {
		rec := mrfluid.Recommend(catalog, integ.Current(), p)
		printRecommendation(rec)
		return nil
	}

	if configFile == "" {
		return errors.New("--apply needs --config to write the change to")
	}
	rec, switched, err := integ.Optimize(p)
	if err != nil {
		return err
	}
	printRecommendation(rec)
	if !switched {
		fmt.Println("current formulation kept")
		return nil
	}
	cfg.Fluid.Formulation = integ.Current().ID
	if err := config.Save(configFile, cfg); err != nil {
		return err
	}
	logging.FromContext(cmd.Context()).Info("formulation switched", "from", rec.Current, "to", rec.Best, "config", configFile)
	return nil
}

func printRecommendation(rec mrfluid.Recommendation) {
	fmt.Printf("current:     %s (score %.3f)\n", rec.Current, rec.CurrentScore)
	fmt.Printf("best:        %s (score %.3f)\n", rec.Best, rec.BestScore)
	fmt.Printf("improvement: %.1f%% (%s)\n", rec.Improvement*100, rec.Band)
}

func validateFiles(cmd *cobra.Command, args []string) error {
	failed := 0
	if configFile != "" {
		if _, err := loadConfig(); err != nil {
			fmt.Printf("FAIL %s: %v\n", configFile, err)
			failed++
		} else {
			fmt.Printf("ok   %s\n", configFile)
		}
	}
	for _, path := range args {
		sc, err := scenario.Load(path)
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("ok   %s (%s, %.0fs, %d speed samples, %d braking events)\n",
			path, sc.Name, sc.Duration, len(sc.SpeedProfile), len(sc.BrakingEvents))
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed validation", failed)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := report.NewStore(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTARTED\tSTATUS\tSTEPS\tENERGY")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f J\n",
			r.TestID, r.Scenario, r.Start.Format("2006-01-02 15:04:05"), r.Status, r.Steps, r.Energy)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := report.NewStore(dataDir)
	res, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadLog(args[0])
	if err != nil {
		return err
	}
	if table.Rows() < 2 {
		return fmt.Errorf("run %s has too few samples to analyze", args[0])
	}

	elapsed, _ := table.Column("elapsed_s")
	dt := elapsed[1] - elapsed[0]

	fmt.Printf("run: %s (%s)\n", res.TestID, res.ScenarioName)
	fmt.Printf("samples: %d at %.3fs\n\n", table.Rows(), dt)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CORNER\tDOMINANT\tRMS TRAVEL\tRMS VELOCITY\tMEAN POWER")
	for _, c := range vehicle.Corners() {
		disp, _ := table.Column(report.ColumnName(c, "displacement"))
		vel, _ := table.Column(report.ColumnName(c, "velocity"))
		power, _ := table.Column(report.ColumnName(c, "power"))
		mean := 0.0
		for _, p := range power {
			mean += p
		}
		mean /= float64(len(power))
		fmt.Fprintf(w, "%s\t%.2f Hz\t%.2f mm\t%.3f m/s\t%.1f W\n",
			c, analysis.DominantFrequency(disp, dt), analysis.RMS(disp)*1000, analysis.RMS(vel), mean)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, col := range []struct{ name, caption string }{
		{"recovered_power_w", "recovered power (W)"},
		{"fluid_temperature", "fluid temperature (°C)"},
	} {
		data, _ := table.Column(col.name)
		fmt.Println()
		fmt.Println(report.Plot(data, col.caption, 80, 8))
	}

	if chartDir == "" {
		return nil
	}
	var travel []report.Series
	for _, c := range vehicle.Corners() {
		disp, _ := table.Column(report.ColumnName(c, "displacement"))
		travel = append(travel, report.Series{Name: c.String(), X: elapsed, Y: disp})
	}
	chart := report.Chart{Title: "Suspension travel " + res.ScenarioName, XLabel: "time (s)", YLabel: "displacement (m)", Series: travel}
	path := filepath.Join(chartDir, res.TestID+"_travel.png")
	if err := report.SaveChart(path, chart, 8, 5); err != nil {
		return err
	}
	fmt.Printf("\nchart written to %s\n", path)
	return nil
}
