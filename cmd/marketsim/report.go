package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		runDirFlag string
		runIDFlag  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a previously generated run's report",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveRunDir(runDirFlag, runIDFlag)
			if err != nil {
				return err
			}

			for _, name := range []string{"report.md", "plots.txt"} {
				data, err := os.ReadFile(filepath.Join(dir, name))
				if err != nil {
					return fmt.Errorf("read %s: %w", name, err)
				}
				fmt.Printf("=== %s ===\n%s\n", name, data)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runDirFlag, "run-dir", "", "explicit run output directory")
	cmd.Flags().StringVar(&runIDFlag, "run-id", "", "run id under --runs-dir (defaults to the last run)")
	return cmd
}
