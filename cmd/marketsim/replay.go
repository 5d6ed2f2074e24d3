package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	var (
		runDirFlag string
		runIDFlag  string
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run a saved scenario and verify the event log matches bit-for-bit",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveRunDir(runDirFlag, runIDFlag)
			if err != nil {
				return err
			}

			cfg, err := readConfig(dir)
			if err != nil {
				return fmt.Errorf("read saved config: %w", err)
			}

			wantHash, err := hashFile(filepath.Join(dir, "events.jsonl"))
			if err != nil {
				return fmt.Errorf("hash original event log: %w", err)
			}

			replayDir, err := os.MkdirTemp("", "marketsim-replay-*")
			if err != nil {
				return fmt.Errorf("create replay dir: %w", err)
			}
			defer os.RemoveAll(replayDir)

			originalRunsDir := runsDir
			runsDir = replayDir
			outcome, err := runScenario(context.Background(), cfg)
			runsDir = originalRunsDir
			if err != nil {
				return fmt.Errorf("replay run: %w", err)
			}

			if outcome.logHash == wantHash {
				fmt.Printf("replay OK: scenario %q seed %d reproduces hash %s\n",
					cfg.Name, cfg.Seed, wantHash[:16])
				return nil
			}

			return fmt.Errorf("replay MISMATCH: original %s, replay %s", wantHash[:16], outcome.logHash[:16])
		},
	}

	cmd.Flags().StringVar(&runDirFlag, "run-dir", "", "explicit run output directory to replay")
	cmd.Flags().StringVar(&runIDFlag, "run-id", "", "run id under --runs-dir to replay (defaults to the last run)")
	return cmd
}
