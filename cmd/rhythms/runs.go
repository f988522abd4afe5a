package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rhythms/internal/analysis"
	"github.com/san-kum/rhythms/internal/config"
	"github.com/san-kum/rhythms/internal/dynamo"
	"github.com/san-kum/rhythms/internal/metrics"
	"github.com/san-kum/rhythms/internal/sim"
	"github.com/san-kum/rhythms/internal/storage"
	"github.com/san-kum/rhythms/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// channelNames label the value channels of each rhythm.
var channelNames = map[dynamo.Kind][]string{
	dynamo.OscillatorNetwork: {"oscillator 1", "oscillator 2", "oscillator 3"},
	dynamo.Criticality:       {"phi"},
	dynamo.TensionRelease:    {"tension", "release intensity"},
	dynamo.VortexField:       {"x", "y", "z", "speed"},
	dynamo.Attention:         {"x", "y", "boredom", "focus strength"},
}

func channelName(k dynamo.Kind, i int) string {
	if names := channelNames[k]; i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("v%d", i)
}

func runSample(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	ctx := cmd.Context()
	for i := 0; i < sampleSteps; i++ {
		if err := e.reg.UpdateAll(ctx, sampleDt); err != nil {
			return err
		}
	}

	out := make([]dynamo.Snapshot, 0, len(kinds))
	for _, k := range kinds {
		snap, err := e.disp.GetRhythmData(k.String())
		if err != nil {
			return err
		}
		out = append(out, snap)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if len(out) == 1 {
		return enc.Encode(out[0])
	}
	return enc.Encode(out)
}

func runStep(cmd *cobra.Command, args []string) error {
	k, err := dynamo.ParseKind(args[0])
	if err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "STEP\tT")
	for i := range channelNames[k] {
		fmt.Fprintf(w, "\t%s", channelName(k, i))
	}
	fmt.Fprintln(w)

	for i := 1; i <= stepSteps; i++ {
		snap, err := e.reg.Step(k, stepDt, float64(i)*stepDt)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%.3f", i, snap.Timestamp)
		for _, v := range snap.Values {
			fmt.Fprintf(w, "\t%+.5f", v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func runRecord(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	runCfg := sim.DefaultConfig()
	runCfg.Kinds = kinds
	runCfg.Dt = e.cfg.Driver.Dt
	runCfg.Duration = e.cfg.Driver.Duration
	if cmd.Flags().Changed("dt") {
		runCfg.Dt = recordDt
	}
	if cmd.Flags().Changed("time") {
		runCfg.Duration = duration
	}
	runCfg.Realtime = recordRealtime

	driver := sim.NewDriver(e.reg)
	for _, m := range metrics.ForKinds(kinds) {
		driver.AddMetric(m)
	}

	result, err := driver.Run(cmd.Context(), runCfg)
	if err != nil && !isCancel(err) {
		return err
	}
	for _, fault := range result.Errors {
		e.logger.Warn("run fault", zap.Error(fault))
	}

	st := storage.New(e.cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("steps: %d (dt %.4fs)\n", result.StepsTaken, runCfg.Dt)
	for _, k := range kinds {
		runID, err := st.Save(storage.Recording{
			Rhythm:   k,
			Dt:       runCfg.Dt,
			Duration: runCfg.Duration,
			Series:   result.Series[k],
			Metrics:  metricsFor(k, result.Metrics),
		})
		if err != nil {
			return err
		}
		e.logger.Info("saved run", zap.String("id", runID), zap.Int("samples", len(result.Series[k])))
		fmt.Printf("saved %s\n", runID)
	}
	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// metricsFor keeps the metrics whose name is prefixed with k.
func metricsFor(k dynamo.Kind, all map[string]float64) map[string]float64 {
	prefix := k.String() + "."
	out := make(map[string]float64)
	for name, v := range all {
		if strings.HasPrefix(name, prefix) {
			out[name] = v
		}
	}
	return out
}

func openStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRHYTHM\tTIME\tDURATION\tDT\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Rhythm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Samples,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, _, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("rhythm: %s\n", meta.Rhythm)
	fmt.Printf("samples: %d\n\n", len(rows))

	for i := 0; i < meta.Channels; i++ {
		if plotChannel >= 0 && i != plotChannel {
			continue
		}
		graph := asciigraph.Plot(storage.Channel(rows, i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(channelName(meta.Rhythm, i)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if meta.Rhythm == dynamo.VortexField || meta.Rhythm == dynamo.Attention {
		fmt.Println("x/y projection")
		fmt.Println(viz.Scatter(analysis.PhasePortraitFromRows(rows, 0, 1).Pairs(), 40, 12))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, _, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	channel := analyzeChannel
	if channel < 0 || channel >= meta.Channels {
		return fmt.Errorf("channel %d out of range (run has %d)", channel, meta.Channels)
	}

	data := storage.Channel(rows, channel)
	if len(data) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("rhythm: %s, channel: %s\n\n", meta.Rhythm, channelName(meta.Rhythm, channel))

	s := analysis.Summarize(data)
	fmt.Printf("mean %.5f  std %.5f  min %.5f  max %.5f\n", s.Mean, s.StdDev, s.Min, s.Max)
	for name, v := range meta.Metrics {
		fmt.Printf("%s: %.4f\n", name, v)
	}
	fmt.Println()

	ps := analysis.PowerSpectrum(data)
	if len(ps) >= 4 {
		graph := asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+channelName(meta.Rhythm, channel)+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, 1/meta.Dt)
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if cmd.Flags().Changed("threshold") {
		printCrossings(meta, rows, channel)
	}
	return nil
}

// printCrossings reports where channel rises through the threshold and plots
// the first two channels at those instants.
func printCrossings(meta *storage.RunMetadata, rows [][]float64, channel int) {
	x, y := 0, 1
	if meta.Channels < 2 {
		y = 0
	}
	section := analysis.Crossings(rows, channel, analyzeThreshold, x, y)

	fmt.Printf("\ncrossings of %.4f: %d", analyzeThreshold, len(section.Points))
	if n := len(section.Points); n > 0 && meta.Duration > 0 {
		fmt.Printf(" (%.3f per s)", float64(n)/meta.Duration)
	}
	fmt.Println()
	if len(section.Points) > 0 {
		fmt.Printf("%s vs %s at each crossing\n", channelName(meta.Rhythm, y), channelName(meta.Rhythm, x))
		fmt.Println(viz.Scatter(section.Pairs(), 40, 10))
	}
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.ExportJSONStdout(data)
	}
	if err := storage.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %s to %s\n", args[0], outFile)
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if presetOut != "" {
		if err := config.Save(presetOut, cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote preset %s to %s\n", args[0], presetOut)
		return nil
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
