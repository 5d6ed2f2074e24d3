package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/metrics"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

func sampleMetrics() map[string]*metrics.AgentMetrics {
	return map[string]*metrics.AgentMetrics{
		"MM-0": {ClientID: "MM-0", OrdersSent: 10, TotalFills: 8, FillRate: 0.8, SlippageBps: 1.2, AvgTimeToFillTicks: 2.5, TimeToFillDist: []float64{1, 2, 3, 4, 5}},
		"TF-0": {ClientID: "TF-0", OrdersSent: 5, TotalFills: 5, FillRate: 1.0, SlippageBps: 3.4, AvgTimeToFillTicks: 1.1, TimeToFillDist: []float64{1, 1, 2}},
	}
}

func TestGenerateWritesAllArtifacts(t *testing.T) {
	cfg := scenario.DefaultCalm(1)
	dir := t.TempDir()
	r := NewReport(cfg, sampleMetrics(), dir)
	require.NoError(t, r.Generate())

	for _, f := range []string{"metrics.json", "report.md", "plots.txt"} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, f)
	}
}

func TestFairnessNotesNeedsTwoAgents(t *testing.T) {
	cfg := scenario.DefaultCalm(1)
	r := NewReport(cfg, map[string]*metrics.AgentMetrics{"MM-0": {ClientID: "MM-0"}}, t.TempDir())
	require.Contains(t, r.fairnessNotes(r.clientIDs()), "Fewer than two")
}

func TestPercentileInterpolates(t *testing.T) {
	require.InDelta(t, 3.0, percentile([]float64{1, 2, 3, 4, 5}, 0.5), 1e-9)
	require.Equal(t, 0.0, percentile(nil, 0.5))
}
