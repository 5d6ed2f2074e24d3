// Package report renders the execution-quality report: a markdown
// summary plus ASCII slippage/time-to-fill plots, generalized from the
// original two-trader comparison to an arbitrary list of agents.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AtharvaBeesen/MarketSim/internal/metrics"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

// Report renders one scenario run's execution-quality metrics.
type Report struct {
	config  *scenario.Config
	metrics map[string]*metrics.AgentMetrics
	outDir  string
}

// NewReport creates a report generator over every agent in metricsMap.
func NewReport(cfg *scenario.Config, metricsMap map[string]*metrics.AgentMetrics, outDir string) *Report {
	return &Report{config: cfg, metrics: metricsMap, outDir: outDir}
}

// clientIDs returns every tracked client id, sorted for stable output.
func (r *Report) clientIDs() []string {
	ids := make([]string, 0, len(r.metrics))
	for id := range r.metrics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generate writes metrics.json, report.md, and plots.txt into outDir.
func (r *Report) Generate() error {
	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}

	metricsPath := filepath.Join(r.outDir, "metrics.json")
	data, _ := json.MarshalIndent(r.metrics, "", "  ")
	if err := os.WriteFile(metricsPath, data, 0644); err != nil {
		return fmt.Errorf("report: write metrics: %w", err)
	}

	reportPath := filepath.Join(r.outDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(r.renderMarkdown()), 0644); err != nil {
		return fmt.Errorf("report: write report: %w", err)
	}

	plotPath := filepath.Join(r.outDir, "plots.txt")
	if err := os.WriteFile(plotPath, []byte(r.renderPlots()), 0644); err != nil {
		return fmt.Errorf("report: write plots: %w", err)
	}

	return nil
}

func (r *Report) renderMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# Execution Quality Report\n\n")
	sb.WriteString(fmt.Sprintf("**Scenario:** %s | **Seed:** %d | **Symbols:** %s\n\n",
		r.config.Name, r.config.Seed, strings.Join(r.config.Symbols, ", ")))

	ids := r.clientIDs()

	sb.WriteString("## Execution Metrics\n\n")
	sb.WriteString("| Agent | Orders | Fills | Fill Rate | Avg Exec Price | Slippage (bps) | Avg TTF (ticks) | Avg Queue Pos |\n")
	sb.WriteString("|-------|--------|-------|-----------|-----------------|-----------------|-------------------|----------------|\n")
	for _, id := range ids {
		m := r.metrics[id]
		sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.1f%% | %.4f | %.2f | %.2f | %.2f |\n",
			id, m.OrdersSent, m.TotalFills, m.FillRate*100, m.AvgExecPrice, m.SlippageBps,
			m.AvgTimeToFillTicks, m.AvgQueuePosPlace))
	}
	sb.WriteString("\n")

	sb.WriteString("## Time-to-Fill Distribution (ticks)\n\n")
	sb.WriteString("| Agent | P25 | P50 | P75 | P90 | P99 |\n")
	sb.WriteString("|-------|-----|-----|-----|-----|-----|\n")
	for _, id := range ids {
		m := r.metrics[id]
		sb.WriteString(fmt.Sprintf("| %s |", id))
		for _, p := range []float64{0.25, 0.50, 0.75, 0.90, 0.99} {
			sb.WriteString(fmt.Sprintf(" %.2f |", percentile(m.TimeToFillDist, p)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Fairness Notes\n\n")
	sb.WriteString(r.fairnessNotes(ids))

	return sb.String()
}

// fairnessNotes highlights the widest per-metric gap across tracked
// agents — the generalization of the original fast/slow delta narrative
// to an arbitrary agent population.
func (r *Report) fairnessNotes(ids []string) string {
	if len(ids) < 2 {
		return "Fewer than two tracked agents; no cross-agent comparison available.\n"
	}

	var sb strings.Builder

	best, worst := ids[0], ids[0]
	for _, id := range ids[1:] {
		if r.metrics[id].FillRate > r.metrics[best].FillRate {
			best = id
		}
		if r.metrics[id].FillRate < r.metrics[worst].FillRate {
			worst = id
		}
	}
	sb.WriteString(fmt.Sprintf("- **Fill rate spread**: %s leads at %.1f%%, %s trails at %.1f%%. ",
		best, r.metrics[best].FillRate*100, worst, r.metrics[worst].FillRate*100))
	sb.WriteString("Differences largely reflect each agent's quoting aggressiveness and its latency draw's effect on queue position.\n")

	slipBest, slipWorst := ids[0], ids[0]
	for _, id := range ids[1:] {
		if r.metrics[id].SlippageBps < r.metrics[slipBest].SlippageBps {
			slipBest = id
		}
		if r.metrics[id].SlippageBps > r.metrics[slipWorst].SlippageBps {
			slipWorst = id
		}
	}
	sb.WriteString(fmt.Sprintf("- **Slippage spread**: %s trades closest to mid (%.2f bps), %s furthest (%.2f bps).\n",
		slipBest, r.metrics[slipBest].SlippageBps, slipWorst, r.metrics[slipWorst].SlippageBps))

	return sb.String()
}

func (r *Report) renderPlots() string {
	var sb strings.Builder
	sb.WriteString("=== Slippage Distribution (ASCII Histogram) ===\n\n")
	for _, id := range r.clientIDs() {
		m := r.metrics[id]
		if len(m.SlippageValues) == 0 {
			continue
		}
		sb.WriteString(id + ":\n")
		sb.WriteString(asciiHistogram(m.SlippageValues, 20))
		sb.WriteString("\n")
	}

	sb.WriteString("=== Time-to-Fill CDF (ASCII) ===\n\n")
	for _, id := range r.clientIDs() {
		m := r.metrics[id]
		if len(m.TimeToFillDist) == 0 {
			continue
		}
		sb.WriteString(id + ":\n")
		sb.WriteString(asciiCDF(m.TimeToFillDist))
		sb.WriteString("\n")
	}
	return sb.String()
}

func asciiHistogram(values []float64, bins int) string {
	if len(values) == 0 {
		return "  (no data)\n"
	}
	minV, maxV := values[0], values[0]
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV == maxV {
		return fmt.Sprintf("  all values = %.4f\n", minV)
	}

	binWidth := (maxV - minV) / float64(bins)
	counts := make([]int, bins)
	maxCount := 0
	for _, v := range values {
		idx := int((v - minV) / binWidth)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
		if counts[idx] > maxCount {
			maxCount = counts[idx]
		}
	}

	var sb strings.Builder
	const barMax = 40
	for i, c := range counts {
		lo := minV + float64(i)*binWidth
		hi := lo + binWidth
		barLen := 0
		if maxCount > 0 {
			barLen = c * barMax / maxCount
		}
		sb.WriteString(fmt.Sprintf("  %+8.4f to %+8.4f | %s (%d)\n", lo, hi, strings.Repeat("█", barLen), c))
	}
	return sb.String()
}

func asciiCDF(sorted []float64) string {
	if len(sorted) == 0 {
		return "  (no data)\n"
	}
	cp := append([]float64(nil), sorted...)
	sort.Float64s(cp)

	var sb strings.Builder
	const steps = 10
	for i := 1; i <= steps; i++ {
		p := float64(i) / float64(steps)
		val := percentile(cp, p)
		barLen := int(p * 40)
		sb.WriteString(fmt.Sprintf("  P%3.0f: %8.2f | %s\n", p*100, val, strings.Repeat("▓", barLen)))
	}
	return sb.String()
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	cp := append([]float64(nil), sorted...)
	sort.Float64s(cp)
	idx := p * float64(len(cp)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(cp) {
		return cp[lower]
	}
	frac := idx - float64(lower)
	return cp[lower]*(1-frac) + cp[upper]*frac
}

// PrintSummary writes a brief per-agent summary to stdout.
func PrintSummary(cfg *scenario.Config, m map[string]*metrics.AgentMetrics) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-12s %10s %10s %12s %14s\n", "Agent", "FillRate%", "Fills", "Slip(bps)", "AvgTTF(ticks)")
	fmt.Printf("  %-12s %10s %10s %12s %14s\n", strings.Repeat("-", 12), strings.Repeat("-", 10), strings.Repeat("-", 10), strings.Repeat("-", 12), strings.Repeat("-", 14))
	for _, id := range ids {
		a := m[id]
		fmt.Printf("  %-12s %10.1f %10d %12.2f %14.2f\n", id, a.FillRate*100, a.TotalFills, a.SlippageBps, a.AvgTimeToFillTicks)
	}
}
