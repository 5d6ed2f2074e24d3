package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AtharvaBeesen/MarketSim/internal/report"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

var demoScenarios = []string{"calm", "volatile", "sparse"}

func newDemoCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run every preset scenario and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var results []report.ScenarioResult

			for _, name := range demoScenarios {
				cfg := scenario.GetPreset(name, seed)
				logger.Info().Str("preset", name).Msg("running demo scenario")
				outcome, err := runScenario(ctx, cfg)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", name, err)
				}
				results = append(results, report.ScenarioResult{
					Config: outcome.config, Metrics: outcome.metrics, RunDir: outcome.outDir,
				})
			}

			report.PrintCrossSummary(results)

			cross := report.NewCrossReport(results, runsDir)
			if err := cross.Generate(); err != nil {
				return fmt.Errorf("generate cross report: %w", err)
			}
			fmt.Printf("\nCross-scenario report: %s/cross-scenario-report.md\n", runsDir)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed shared by every demo scenario")
	return cmd
}
