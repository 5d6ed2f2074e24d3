// Package report — cross-scenario consolidated comparison, generalized
// from the original fixed fast/slow pairing to arbitrary agent sets.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AtharvaBeesen/MarketSim/internal/metrics"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

// ScenarioResult bundles a config with its computed metrics and output dir.
type ScenarioResult struct {
	Config  *scenario.Config
	Metrics map[string]*metrics.AgentMetrics
	RunDir  string
}

// CrossReport generates a consolidated report comparing metrics across
// several scenario runs.
type CrossReport struct {
	results []ScenarioResult
	outDir  string
}

// NewCrossReport creates a cross-scenario report.
func NewCrossReport(results []ScenarioResult, outDir string) *CrossReport {
	return &CrossReport{results: results, outDir: outDir}
}

// Generate writes cross-scenario-report.md and cross-scenario-metrics.json.
func (cr *CrossReport) Generate() error {
	if err := os.MkdirAll(cr.outDir, 0755); err != nil {
		return fmt.Errorf("cross report: create output dir: %w", err)
	}

	reportPath := filepath.Join(cr.outDir, "cross-scenario-report.md")
	if err := os.WriteFile(reportPath, []byte(cr.renderMarkdown()), 0644); err != nil {
		return fmt.Errorf("cross report: write report: %w", err)
	}

	dataPath := filepath.Join(cr.outDir, "cross-scenario-metrics.json")
	data, _ := json.MarshalIndent(cr.results, "", "  ")
	return os.WriteFile(dataPath, data, 0644)
}

// sharedAgentIDs returns client ids present in every scenario result,
// sorted, so the comparison table has a stable, common row set.
func (cr *CrossReport) sharedAgentIDs() []string {
	if len(cr.results) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, r := range cr.results {
		for id := range r.Metrics {
			counts[id]++
		}
	}
	var shared []string
	for id, n := range counts {
		if n == len(cr.results) {
			shared = append(shared, id)
		}
	}
	sort.Strings(shared)
	return shared
}

func (cr *CrossReport) renderMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# Cross-Scenario Execution Quality Comparison\n\n")
	sb.WriteString("Consolidates fill rate, slippage, and time-to-fill across multiple scenario runs for every agent tracked in all of them.\n\n")

	agents := cr.sharedAgentIDs()
	if len(agents) == 0 {
		sb.WriteString("No agent is common to every scenario result; nothing to compare.\n")
		return sb.String()
	}

	sb.WriteString("## Fill Rate (%)\n\n")
	sb.WriteString(cr.metricTable(agents, func(m *metrics.AgentMetrics) float64 { return m.FillRate * 100 }, "%.1f"))

	sb.WriteString("## Slippage (bps)\n\n")
	sb.WriteString(cr.metricTable(agents, func(m *metrics.AgentMetrics) float64 { return m.SlippageBps }, "%.2f"))

	sb.WriteString("## Avg Time-to-Fill (ticks)\n\n")
	sb.WriteString(cr.metricTable(agents, func(m *metrics.AgentMetrics) float64 { return m.AvgTimeToFillTicks }, "%.2f"))

	return sb.String()
}

func (cr *CrossReport) metricTable(agents []string, get func(*metrics.AgentMetrics) float64, format string) string {
	var sb strings.Builder
	sb.WriteString("| Agent |")
	for _, r := range cr.results {
		sb.WriteString(fmt.Sprintf(" %s |", r.Config.Name))
	}
	sb.WriteString("\n|-------|")
	for range cr.results {
		sb.WriteString("--------|")
	}
	sb.WriteString("\n")

	for _, id := range agents {
		sb.WriteString(fmt.Sprintf("| %s |", id))
		for _, r := range cr.results {
			m, ok := r.Metrics[id]
			if !ok {
				sb.WriteString(" N/A |")
				continue
			}
			sb.WriteString(fmt.Sprintf(" "+format+" |", get(m)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

// PrintCrossSummary prints a condensed cross-scenario summary to stdout.
func PrintCrossSummary(results []ScenarioResult) {
	fmt.Println("\n=== Cross-Scenario Comparison ===")
	for _, r := range results {
		fmt.Printf("\n-- %s --\n", r.Config.Name)
		PrintSummary(r.Config, r.Metrics)
	}
}
