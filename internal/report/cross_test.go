package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/metrics"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

func TestCrossReportGeneratesSharedAgentTable(t *testing.T) {
	calm := scenario.DefaultCalm(1)
	volatile := scenario.DefaultVolatile(1)

	results := []ScenarioResult{
		{Config: calm, Metrics: map[string]*metrics.AgentMetrics{"MM-0": {ClientID: "MM-0", FillRate: 0.6}}},
		{Config: volatile, Metrics: map[string]*metrics.AgentMetrics{"MM-0": {ClientID: "MM-0", FillRate: 0.4}}},
	}

	dir := t.TempDir()
	cr := NewCrossReport(results, dir)
	require.NoError(t, cr.Generate())

	content, err := os.ReadFile(filepath.Join(dir, "cross-scenario-report.md"))
	require.NoError(t, err)
	require.Contains(t, string(content), "MM-0")
	require.Contains(t, string(content), "calm")
	require.Contains(t, string(content), "volatile")
}

func TestSharedAgentIDsRequiresPresenceInEveryResult(t *testing.T) {
	results := []ScenarioResult{
		{Config: scenario.DefaultCalm(1), Metrics: map[string]*metrics.AgentMetrics{"MM-0": {}, "TF-0": {}}},
		{Config: scenario.DefaultVolatile(1), Metrics: map[string]*metrics.AgentMetrics{"MM-0": {}}},
	}
	cr := NewCrossReport(results, t.TempDir())
	require.Equal(t, []string{"MM-0"}, cr.sharedAgentIDs())
}
