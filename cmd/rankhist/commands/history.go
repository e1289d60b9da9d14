// Package commands implements the rankhist CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rankhist/internal/config"
	"github.com/Sumatoshi-tech/rankhist/internal/dispatch"
	"github.com/Sumatoshi-tech/rankhist/internal/history"
	"github.com/Sumatoshi-tech/rankhist/internal/observability"
	"github.com/Sumatoshi-tech/rankhist/internal/oracle"
	"github.com/Sumatoshi-tech/rankhist/internal/overrides"
	"github.com/Sumatoshi-tech/rankhist/internal/plot"
	"github.com/Sumatoshi-tech/rankhist/internal/report"
	"github.com/Sumatoshi-tech/rankhist/internal/stats"
)

// Sentinel errors for the history command.
var (
	ErrMissingBenchmark  = errors.New("no benchmark specified. Use --benchmark or set 'benchmark' in .rankhist.yaml")
	ErrMissingOraclePath = errors.New("no rank calculator specified. Use --oracle or set 'oracle.path' in .rankhist.yaml")
	ErrMissingStatsDir   = errors.New("no stats directory specified. Use --stats-dir or set 'stats_dir' in .rankhist.yaml")
	ErrNoScenarios       = errors.New("benchmark structure contains no scenarios")
	ErrNoObservations    = errors.New("no dated sessions found in the stats directory")
)

// HistoryCommand holds the flag state for the history command.
type HistoryCommand struct {
	configPath    string
	format        string
	output        string
	metricsListen string
}

// NewHistoryCommand creates and configures the history command.
func NewHistoryCommand() *cobra.Command {
	hc := &HistoryCommand{}

	cobraCmd := &cobra.Command{
		Use:   "history",
		Short: "Reconstruct the full rank history for a benchmark",
		Long: `Reconstruct rank history by scanning the local stats directory and
replaying the best-known score vector for every session date through the
rank calculator.

Output formats:
  yaml   Chronological history as YAML (default)
  json   Chronological history as JSON
  table  Plain text table
  plot   Standalone HTML progression chart`,
		RunE: hc.run,
	}

	cobraCmd.Flags().StringVar(&hc.configPath, "config", "", "Config file path (default: .rankhist.yaml in CWD or $HOME)")
	cobraCmd.Flags().StringVarP(&hc.format, "format", "f", history.FormatYAML, "Output format (yaml, json, table, plot)")
	cobraCmd.Flags().StringVarP(&hc.output, "output", "o", "", "Output file (default: stdout)")
	cobraCmd.Flags().StringVar(&hc.metricsListen, "metrics-listen", "", "Serve Prometheus run metrics on this address (e.g. :9090)")

	registerRunFlags(cobraCmd)

	return cobraCmd
}

// registerRunFlags registers the flags shared by history and structure.
func registerRunFlags(cobraCmd *cobra.Command) {
	cobraCmd.Flags().String("stats-dir", "", "Stats directory holding the per-session score logs")
	cobraCmd.Flags().String("steam-id", "", "Steam ID passed to the rank calculator")
	cobraCmd.Flags().String("benchmark", "", "Benchmark name (e.g. 'Voltaic S5')")
	cobraCmd.Flags().String("difficulty", "", "Benchmark difficulty (e.g. 'Advanced')")
	cobraCmd.Flags().String("oracle", "", "Path to the rank calculator executable")
	cobraCmd.Flags().Duration("timeout", 0, "Per-call rank calculator timeout (0 = config default)")
	cobraCmd.Flags().Int("batch-size", 0, "Dates per rank calculator call (0 = config default)")
	cobraCmd.Flags().Int("workers", 0, "Concurrent rank calculator calls (0 = config default)")
}

// run executes the full reconstruction pipeline.
func (hc *HistoryCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, hc.configPath)
	if err != nil {
		return err
	}

	validateErr := validateRunConfig(cfg, true)
	if validateErr != nil {
		return validateErr
	}

	metrics := observability.NewMetrics()
	if hc.metricsListen != "" {
		metrics.Serve(hc.metricsListen)
	}

	rankOracle := oracle.NewProcess(cfg.Oracle.Path, cfg.SteamID, cfg.Benchmark, cfg.Difficulty, cfg.OracleTimeout())

	dispatchCfg := dispatch.Config{
		BatchSize: cfg.Dispatch.BatchSize,
		Workers:   cfg.Dispatch.Workers,
		OnCallDuration: func(d time.Duration) {
			metrics.OracleDuration.Observe(d.Seconds())
		},
	}

	run, err := reconstruct(cmd.Context(), rankOracle, cfg.StatsDir, dispatchCfg, metrics)
	if err != nil {
		return err
	}

	outputErr := hc.writeOutput(run, cfg.Benchmark, cfg.Difficulty)
	if outputErr != nil {
		return outputErr
	}

	run.Summary.Print(os.Stderr)

	return nil
}

// writeOutput renders the assembled history in the selected format.
func (hc *HistoryCommand) writeOutput(run *reconstructionRun, benchmark, difficulty string) error {
	out := os.Stdout

	if hc.output != "" {
		file, err := os.Create(hc.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()

		out = file
	}

	switch hc.format {
	case history.FormatTable:
		report.HistoryTable(out, run.Points)

		return nil
	case history.FormatPlot:
		rankNames := make([]string, len(run.Structure.Ranks))
		for i, rank := range run.Structure.Ranks {
			rankNames[i] = rank.Name
		}

		title := fmt.Sprintf("Rank History: %s - %s", benchmark, difficulty)

		return plot.Render(out, run.Points, rankNames, title)
	default:
		return history.Serialize(run.Points, hc.format, out)
	}
}

// resolveConfig loads the config file and applies flag overrides on top.
func resolveConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	applyStringFlag(cmd, "stats-dir", &cfg.StatsDir)
	applyStringFlag(cmd, "steam-id", &cfg.SteamID)
	applyStringFlag(cmd, "benchmark", &cfg.Benchmark)
	applyStringFlag(cmd, "difficulty", &cfg.Difficulty)
	applyStringFlag(cmd, "oracle", &cfg.Oracle.Path)

	if cmd.Flags().Changed("timeout") {
		timeout, flagErr := cmd.Flags().GetDuration("timeout")
		if flagErr == nil && timeout > 0 {
			cfg.Oracle.Timeout = timeout.String()
		}
	}

	applyIntFlag(cmd, "batch-size", &cfg.Dispatch.BatchSize)
	applyIntFlag(cmd, "workers", &cfg.Dispatch.Workers)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// applyStringFlag overrides target when the flag was set on the command line.
func applyStringFlag(cmd *cobra.Command, name string, target *string) {
	if !cmd.Flags().Changed(name) {
		return
	}

	value, err := cmd.Flags().GetString(name)
	if err == nil {
		*target = value
	}
}

// applyIntFlag overrides target when the flag was set to a positive value.
func applyIntFlag(cmd *cobra.Command, name string, target *int) {
	if !cmd.Flags().Changed(name) {
		return
	}

	value, err := cmd.Flags().GetInt(name)
	if err == nil && value > 0 {
		*target = value
	}
}

// validateRunConfig checks the settings a reconstruction run requires.
// needStats is false for structure-only fetches.
func validateRunConfig(cfg *config.Config, needStats bool) error {
	if cfg.Benchmark == "" {
		return ErrMissingBenchmark
	}

	if cfg.Oracle.Path == "" {
		return ErrMissingOraclePath
	}

	if needStats && cfg.StatsDir == "" {
		return ErrMissingStatsDir
	}

	return nil
}

// reconstructionRun bundles everything a completed run produced.
type reconstructionRun struct {
	Points    []history.Point
	Structure *oracle.Structure
	Summary   report.Summary
}

// reconstruct executes the engine end to end: structure fetch, stats scan,
// override building, batched dispatch, and assembly.
func reconstruct(
	ctx context.Context,
	rankOracle oracle.Oracle,
	statsDir string,
	dispatchCfg dispatch.Config,
	metrics *observability.Metrics,
) (*reconstructionRun, error) {
	start := time.Now()

	structure, err := rankOracle.FetchStructure(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch benchmark structure: %w", err)
	}

	if len(structure.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	log.Printf("structure: %d scenarios, %d ranks", len(structure.Scenarios), len(structure.Ranks))

	timeline, scanStats, scanErr := stats.Scan(statsDir, structure.Scenarios)
	if scanErr != nil {
		return nil, scanErr
	}

	metrics.FilesScanned.Add(float64(scanStats.FilesSeen))
	metrics.FilesSkipped.Add(float64(scanStats.Skipped()))
	metrics.ScoresParsed.Add(float64(scanStats.ScoresFound))

	dates := timeline.Dates()
	if len(dates) == 0 {
		return nil, ErrNoObservations
	}

	log.Printf("scan: %d files, %d scores, %d unique dates", scanStats.FilesSeen, scanStats.ScoresFound, len(dates))

	items := buildOverrideItems(timeline, structure.Scenarios, dates)

	dispatchResult := dispatch.Run(ctx, rankOracle, items, dispatchCfg)

	metrics.BatchesTotal.Add(float64(dispatchResult.BatchesTotal))
	metrics.BatchesFailed.Add(float64(dispatchResult.BatchesFailed))

	points := history.Assemble(dispatchResult.Points)

	summary := report.Summary{
		FilesSeen:     scanStats.FilesSeen,
		ScoresFound:   scanStats.ScoresFound,
		SkippedFiles:  scanStats.Skipped(),
		UniqueDates:   len(dates),
		Scenarios:     len(structure.Scenarios),
		BatchesTotal:  dispatchResult.BatchesTotal,
		BatchesFailed: dispatchResult.BatchesFailed,
		Elapsed:       time.Since(start),
	}

	return &reconstructionRun{Points: points, Structure: structure, Summary: summary}, nil
}

// buildOverrideItems computes one dated score vector per date, walking each
// scenario's sorted timeline once with a running maximum.
func buildOverrideItems(timeline *stats.Timeline, order []string, dates []string) []oracle.BatchOverride {
	builder := overrides.NewBuilder(timeline, order)

	items := make([]oracle.BatchOverride, len(dates))
	for i, date := range dates {
		items[i] = oracle.BatchOverride{
			Date:           date,
			ScoreOverrides: builder.At(date).Scores(),
		}
	}

	return items
}
