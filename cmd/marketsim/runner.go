package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AtharvaBeesen/MarketSim/internal/agent"
	"github.com/AtharvaBeesen/MarketSim/internal/eventlog"
	"github.com/AtharvaBeesen/MarketSim/internal/metrics"
	"github.com/AtharvaBeesen/MarketSim/internal/report"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
	"github.com/AtharvaBeesen/MarketSim/internal/scheduler"
)

// runOutcome bundles everything a completed run produces, enough to
// drive reporting, cross-scenario comparison, and replay verification.
type runOutcome struct {
	config   *scenario.Config
	metrics  map[string]*metrics.AgentMetrics
	outDir   string
	logHash  string
	tradeCnt int
}

// runID derives the directory name a scenario+seed pair runs into.
func runID(cfg *scenario.Config) string {
	return fmt.Sprintf("%s_seed%d", cfg.Name, cfg.Seed)
}

// runScenario executes one full scheduler run for cfg, writing its
// artifacts (event log, metrics CSV, report) under <runsDir>/<runID>.
func runScenario(ctx context.Context, cfg *scenario.Config) (*runOutcome, error) {
	outDir := filepath.Join(runsDir, runID(cfg))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	sched, err := scheduler.New(cfg, agent.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("build scheduler: %w", err)
	}
	sched.WithLogger(logger)

	logPath := filepath.Join(outDir, "events.jsonl")
	logWriter, err := eventlog.NewWriter(logPath)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	sched.WithEventLog(logWriter)

	runErr := sched.Run(ctx)
	closeErr := logWriter.Close()
	if runErr != nil {
		return nil, fmt.Errorf("run: %w", runErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close event log: %w", closeErr)
	}

	if err := sched.Recorder().WriteCSV(filepath.Join(outDir, "metrics.csv")); err != nil {
		return nil, fmt.Errorf("write metrics csv: %w", err)
	}

	execMetrics := sched.ExecMetrics().Compute()
	if err := report.NewReport(cfg, execMetrics, outDir).Generate(); err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	if err := writeConfig(outDir, cfg); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}

	hash, err := hashFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("hash event log: %w", err)
	}

	if err := os.WriteFile(filepath.Join(runsDir, "last-run"), []byte(runID(cfg)), 0644); err != nil {
		logger.Warn().Err(err).Msg("could not record last-run pointer")
	}

	return &runOutcome{
		config:   cfg,
		metrics:  execMetrics,
		outDir:   outDir,
		logHash:  hash,
		tradeCnt: len(sched.Trades),
	}, nil
}

func writeConfig(outDir string, cfg *scenario.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "config.json"), data, 0644)
}

func readConfig(outDir string) (*scenario.Config, error) {
	data, err := os.ReadFile(filepath.Join(outDir, "config.json"))
	if err != nil {
		return nil, err
	}
	var cfg scenario.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// resolveRunDir applies the common --run-dir / --run-id / last-run
// fallback chain shared by the report and replay subcommands.
func resolveRunDir(explicitDir, id string) (string, error) {
	if explicitDir != "" {
		return explicitDir, nil
	}
	if id != "" {
		return filepath.Join(runsDir, id), nil
	}
	data, err := os.ReadFile(filepath.Join(runsDir, "last-run"))
	if err != nil {
		return "", fmt.Errorf("no --run-dir or --run-id given, and no last run recorded: %w", err)
	}
	return filepath.Join(runsDir, string(data)), nil
}
