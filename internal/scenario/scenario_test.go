package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresetsValidate(t *testing.T) {
	for _, name := range []string{"calm", "volatile", "sparse"} {
		cfg := GetPreset(name, 42)
		require.NotNil(t, cfg, name)
		require.NoError(t, cfg.Validate(), name)
	}
}

func TestUnknownPresetIsNil(t *testing.T) {
	require.Nil(t, GetPreset("nope", 1))
}

func TestVolatileWidensFundamentalDrift(t *testing.T) {
	calm := DefaultCalm(1)
	volatile := DefaultVolatile(1)
	require.Greater(t, volatile.Fundamental.Volatility, calm.Fundamental.Volatility)
}

func TestSparseThinsBookAndAgents(t *testing.T) {
	calm := DefaultCalm(1)
	sparse := DefaultSparse(1)
	require.Less(t, sparse.Seeding.Levels, calm.Seeding.Levels)
	for _, spec := range sparse.Agents {
		require.Equal(t, 1, spec.Count)
	}
}

func TestValidateRejectsEmptySymbols(t *testing.T) {
	cfg := DefaultCalm(1)
	cfg.Symbols = nil
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadAgentSpec(t *testing.T) {
	cfg := DefaultCalm(1)
	cfg.Agents[0].Class = ""
	require.Error(t, cfg.Validate())
}
