package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/regensim/internal/config"
	"github.com/san-kum/regensim/internal/logging"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/scenario"
	"github.com/san-kum/regensim/internal/sim"
)

var (
	configFile  string
	logLevel    string
	dataDir     string
	formulation string
	realTime    bool
	logEvery    int
	outDir      string
	chartDir    string
	jsonOut     bool
	showPlot    bool
	frameEvery  int

	energyWeight   float64
	responseWeight float64
	durableWeight  float64
	thermalWeight  float64
	apply          bool

	sweepParam  string
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "regensim",
		Short:         "regenerative damper and MR fluid test rig",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(os.Stderr, logging.ParseLevel(logLevel))
			cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".regensim", "directory for stored runs")
	rootCmd.PersistentFlags().StringVar(&formulation, "formulation", "", "override the configured MR fluid formulation")

	runCmd := &cobra.Command{
		Use:   "run [preset|scenario.yaml]",
		Short: "run a test scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runTest,
	}
	runCmd.Flags().BoolVar(&realTime, "realtime", false, "pace steps in wall-clock time")
	runCmd.Flags().IntVar(&logEvery, "log-every", 0, "log every Nth step (0 keeps the config value)")
	runCmd.Flags().StringVar(&outDir, "out", "", "store results and log under this directory (default --data)")
	runCmd.Flags().StringVar(&chartDir, "charts", "", "write PNG charts to this directory")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot recovered power in the terminal")

	liveCmd := &cobra.Command{
		Use:   "live [preset|scenario.yaml]",
		Short: "run a test with the live monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&realTime, "realtime", true, "pace steps in wall-clock time")
	liveCmd.Flags().IntVar(&frameEvery, "every", 1, "refresh the monitor every Nth step")

	batchCmd := &cobra.Command{
		Use:   "batch [preset|scenario.yaml]...",
		Short: "run several scenarios one after another (all presets by default)",
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset|scenario.yaml]",
		Short: "repeat a scenario across a parameter range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "roughness", "roughness, load, ambient, incline or speed-scale")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")

	formulationsCmd := &cobra.Command{
		Use:   "formulations",
		Short: "list MR fluid formulations with their scores",
		RunE:  listFormulations,
	}

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "recommend a formulation for the given priorities",
		RunE:  optimizeFormulation,
	}
	for _, c := range []*cobra.Command{formulationsCmd, optimizeCmd} {
		c.Flags().Float64Var(&energyWeight, "energy", -1, "energy recovery priority (default from config)")
		c.Flags().Float64Var(&responseWeight, "response", -1, "response time priority")
		c.Flags().Float64Var(&durableWeight, "durability", -1, "durability priority")
		c.Flags().Float64Var(&thermalWeight, "thermal", -1, "temperature stability priority")
	}
	optimizeCmd.Flags().BoolVar(&apply, "apply", false, "write the recommendation into --config when highly recommended")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.ListPresets() {
				sc, _ := scenario.Preset(name)
				fmt.Printf("  %-18s %6.0fs  %s\n", name, sc.Duration, sc.Description)
			}
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate [scenario.yaml]...",
		Short: "validate scenario files and the config",
		RunE:  validateFiles,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [test_id]",
		Short: "spectrum and plots of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&chartDir, "charts", "", "write PNG charts to this directory")

	initCmd := &cobra.Command{
		Use:   "init [config.yaml]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, batchCmd, sweepCmd, formulationsCmd, optimizeCmd,
		presetsCmd, validateCmd, listCmd, analyzeCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads --config over the defaults and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if formulation != "" {
		cfg.Fluid.Formulation = formulation
	}
	return cfg, cfg.Validate()
}

// loadScenario resolves a preset name or reads a scenario file.
func loadScenario(arg string) (*scenario.Scenario, error) {
	if sc, ok := scenario.Preset(arg); ok {
		return sc, nil
	}
	if _, err := os.Stat(arg); err != nil {
		return nil, fmt.Errorf("unknown preset or file %q (presets: %v)", arg, scenario.ListPresets())
	}
	return scenario.Load(arg)
}

func priorities(cfg *config.Config) mrfluid.Priorities {
	p := sim.Priorities(cfg)
	if energyWeight >= 0 {
		p.EnergyRecovery = energyWeight
	}
	if responseWeight >= 0 {
		p.ResponseTime = responseWeight
	}
	if durableWeight >= 0 {
		p.Durability = durableWeight
	}
	if thermalWeight >= 0 {
		p.TemperatureStability = thermalWeight
	}
	return p
}
