package latency

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
)

func TestModelDeterminism(t *testing.T) {
	m1 := NewModel(5, 2, 42)
	m2 := NewModel(5, 2, 42)

	for i := 0; i < 1000; i++ {
		require.Equal(t, m1.Sample(), m2.Sample())
	}
}

func TestModelClampsNegativeSamples(t *testing.T) {
	// Large negative mean, zero std: every sample would be negative
	// without clamping.
	m := NewModel(-100, 0, 7)
	for i := 0; i < 100; i++ {
		require.GreaterOrEqual(t, m.Sample(), int64(0))
	}
}

func TestModelZeroStdIsConstant(t *testing.T) {
	m := NewModel(10, 0, 1)
	for i := 0; i < 50; i++ {
		require.EqualValues(t, 10, m.Sample())
	}
}

func TestQueueDrainsInReleaseOrder(t *testing.T) {
	q := NewQueue()
	q.Push(5, "a", &domain.Order{ID: "a1"})
	q.Push(3, "b", &domain.Order{ID: "b1"})
	q.Push(3, "c", &domain.Order{ID: "c1"})

	require.Empty(t, q.DrainDue(2))

	due := q.DrainDue(3)
	require.Len(t, due, 2)
	require.Equal(t, "b1", due[0].Order.ID)
	require.Equal(t, "c1", due[1].Order.ID)

	require.Equal(t, 1, q.Len())
	due = q.DrainDue(10)
	require.Len(t, due, 1)
	require.Equal(t, "a1", due[0].Order.ID)
	require.Equal(t, 0, q.Len())
}

func TestQueueTieBreaksByInsertionOrder(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(1, "x", &domain.Order{ID: string(rune('a' + i))})
	}
	due := q.DrainDue(1)
	require.Len(t, due, 5)
	for i, p := range due {
		require.Equal(t, string(rune('a'+i)), p.Order.ID)
	}
}
