package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/agent"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

func smallConfig(seed int64) *scenario.Config {
	cfg := scenario.DefaultCalm(seed)
	cfg.NumSteps = 25
	cfg.Symbols = []string{"ABC"}
	for i := range cfg.Agents {
		cfg.Agents[i].Count = 1
	}
	return cfg
}

func TestRunProducesTradesAndSamples(t *testing.T) {
	sched, err := New(smallConfig(7), agent.NewRegistry())
	require.NoError(t, err)

	require.NoError(t, sched.Run(context.Background()))
	require.NotEmpty(t, sched.Trades)
	require.NotEmpty(t, sched.History)

	for _, id := range sched.AgentIDs() {
		require.NotNil(t, sched.Ledger().Position(id))
	}
}

func TestRunIsDeterministic(t *testing.T) {
	s1, err := New(smallConfig(11), agent.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, s1.Run(context.Background()))

	s2, err := New(smallConfig(11), agent.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, s2.Run(context.Background()))

	require.Equal(t, len(s1.Trades), len(s2.Trades))
	for i := range s1.Trades {
		require.Equal(t, s1.Trades[i].Price, s2.Trades[i].Price)
		require.Equal(t, s1.Trades[i].Qty, s2.Trades[i].Qty)
		require.Equal(t, s1.Trades[i].BuyClientID, s2.Trades[i].BuyClientID)
		require.Equal(t, s1.Trades[i].SellClientID, s2.Trades[i].SellClientID)
	}
	require.Equal(t, s1.History, s2.History)
}

func TestDifferentSeedsDiverge(t *testing.T) {
	s1, err := New(smallConfig(1), agent.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, s1.Run(context.Background()))

	s2, err := New(smallConfig(2), agent.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, s2.Run(context.Background()))

	require.NotEqual(t, s1.History, s2.History)
}

func TestCurrentTimeTracksStepAndDT(t *testing.T) {
	cfg := smallConfig(3)
	cfg.NumSteps = 5
	cfg.DT = 0.5
	sched, err := New(cfg, agent.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, sched.Run(context.Background()))

	require.InDelta(t, float64(cfg.NumSteps-1)*cfg.DT, sched.CurrentTime(), 1e-9)
}
