package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/san-kum/rhythms/internal/bridge"
	"github.com/san-kum/rhythms/internal/config"
	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/logging"
	"github.com/san-kum/rhythms/internal/sim"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	seed       int64

	// serve
	addr string
	// watch
	frameRate int
	theme     string
	// sample
	sampleDt    float64
	sampleSteps int
	// step
	stepDt    float64
	stepSteps int
	// record
	recordDt       float64
	duration       float64
	recordRealtime bool
	// plot, analyze
	plotChannel      int
	analyzeChannel   int
	analyzeThreshold float64
	// export, presets
	outFile   string
	presetOut string
)

// main registers commands and flags and executes the root command. It exits
// with status 1 if the command returns an error.
func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "rhythms",
		Short:         "stochastic cognitive rhythm engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWatch,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml); defaults to $"+config.EnvConfig)
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&dataDir, "data", "", "recordings directory")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.Int64Var(&seed, "seed", 0, "seed the rhythms for a reproducible run")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve rhythm commands over http",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "serve rhythm commands as mcp tools on stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live terminal dashboard",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	for _, c := range []*cobra.Command{rootCmd, watchCmd} {
		c.Flags().IntVar(&frameRate, "fps", 0, "frames per second")
		c.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [rhythm...]",
		Short: "print snapshots as json",
		RunE:  runSample,
	}
	sampleCmd.Flags().Float64Var(&sampleDt, "dt", 1.0/60, "warm-up step")
	sampleCmd.Flags().IntVar(&sampleSteps, "steps", 0, "warm-up steps before sampling")

	stepCmd := &cobra.Command{
		Use:   "step [rhythm]",
		Short: "advance one rhythm and print every step",
		Args:  cobra.ExactArgs(1),
		RunE:  runStep,
	}
	stepCmd.Flags().Float64Var(&stepDt, "dt", 0.1, "step")
	stepCmd.Flags().IntVar(&stepSteps, "steps", 20, "number of steps")

	recordCmd := &cobra.Command{
		Use:   "record [rhythm...]",
		Short: "drive rhythms and save the series",
		RunE:  runRecord,
	}
	recordCmd.Flags().Float64Var(&recordDt, "dt", 0, "timestep (defaults to config)")
	recordCmd.Flags().Float64Var(&duration, "time", 0, "duration in seconds (defaults to config)")
	recordCmd.Flags().BoolVar(&recordRealtime, "realtime", false, "pace steps on the wall clock with measured deltas")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotChannel, "channel", -1, "plot only this value channel")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&analyzeChannel, "channel", 0, "value channel to analyze")
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "report where the channel rises through this level")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recording as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVarP(&presetOut, "out", "o", "", "write the preset to this config file")

	rootCmd.AddCommand(serveCmd, mcpCmd, watchCmd, sampleCmd, stepCmd, recordCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd)

	// Interrupts cancel the command context so record can save a partial run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves preset, then config file, then flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	path := configFile
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	return cfg, nil
}

type env struct {
	cfg    *config.Config
	logger *zap.Logger
	reg    *sim.Registry
	disp   *bridge.Dispatcher
}

// setup builds the config, logger, registry and dispatcher shared by every
// command.
func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Server.LogLevel, cfg.Server.Development)
	if err != nil {
		return nil, err
	}

	var noise sim.NoiseFactory
	if seed != 0 {
		noise = func(k dynamo.Kind) dynamo.Noise { return dynamo.NewRandNoise(seed + int64(k)) }
		logger.Debug("seeded rhythms", zap.Int64("seed", seed))
	}

	reg := sim.NewRegistry(cfg.Rhythms, noise)
	return &env{
		cfg:    cfg,
		logger: logger,
		reg:    reg,
		disp:   bridge.NewDispatcher(reg, logger),
	}, nil
}

// parseKinds resolves rhythm names; none means all.
func parseKinds(args []string) ([]dynamo.Kind, error) {
	if len(args) == 0 {
		return dynamo.Kinds(), nil
	}
	kinds := make([]dynamo.Kind, 0, len(args))
	for _, a := range args {
		k, err := dynamo.ParseKind(a)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
