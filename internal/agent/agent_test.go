package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/accounting"
	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/latency"
	"github.com/AtharvaBeesen/MarketSim/internal/manager"
	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
)

func newTestProxy(t *testing.T, clientID, symbol string) (*proxy.ManagerProxy, *manager.BookManager) {
	t.Helper()
	mgr := manager.New()
	mgr.AddBook(symbol, 1)
	require.NoError(t, mgr.PlaceOrder(&domain.Order{
		ID: "seed-b", ClientID: domain.OwnerSeeder, Symbol: symbol,
		Side: domain.Buy, Type: domain.LimitOrder, Price: 99 * domain.PriceScale, Qty: 100,
	}))
	require.NoError(t, mgr.PlaceOrder(&domain.Order{
		ID: "seed-s", ClientID: domain.OwnerSeeder, Symbol: symbol,
		Side: domain.Sell, Type: domain.LimitOrder, Price: 101 * domain.PriceScale, Qty: 100,
	}))
	mgr.ProcessOrders()

	ledger := accounting.NewLedger()
	ledger.Register(clientID)
	queue := latency.NewQueue()
	model := latency.NewModel(0, 0, 1)

	var tick int64
	p := proxy.New(clientID, mgr, queue, model, ledger, 0, func() int64 { return tick })
	return p, mgr
}

func TestRegistryBuildsKnownClasses(t *testing.T) {
	r := NewRegistry()
	for _, class := range []string{"market_maker", "trend_follower", "mean_reverter", "liquidity_taker"} {
		a, err := r.Build(Spec{Class: class}, "x-0", "ABC", 1)
		require.NoError(t, err)
		require.Equal(t, "x-0", a.ID())
	}
}

func TestRegistryRejectsUnknownClass(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build(Spec{Class: "nope"}, "x-0", "ABC", 1)
	require.Error(t, err)
}

func TestMarketMakerQuotesAreLatencyDelayed(t *testing.T) {
	p, mgr := newTestProxy(t, "mm-0", "ABC")
	mm, err := NewMarketMaker("mm-0", "ABC", 1, map[string]any{"spread": 1.0, "size": 1})
	require.NoError(t, err)

	mm.Step(context.Background(), p)

	// mm's quotes are latency-delayed (not yet released into the book);
	// only the seeded liquidity is visible so far.
	require.EqualValues(t, 99*domain.PriceScale, mgr.BestBid("ABC"))
}

func TestLiquidityTakerDeterministic(t *testing.T) {
	a1, _ := NewLiquidityTaker("lt-0", "ABC", 42, nil)
	a2, _ := NewLiquidityTaker("lt-0", "ABC", 42, nil)

	p1, _ := newTestProxy(t, "lt-0", "ABC")
	p2, _ := newTestProxy(t, "lt-0", "ABC")

	for i := 0; i < 20; i++ {
		a1.Step(context.Background(), p1)
		a2.Step(context.Background(), p2)
	}

	// Same seed, same book: both agents made the same number of random
	// draws and minted the same number of order ids.
	lt1, lt2 := a1.(*LiquidityTaker), a2.(*LiquidityTaker)
	require.Equal(t, lt1.rng.Int63(), lt2.rng.Int63())
	require.Equal(t, lt1.orderIDs.Next(), lt2.orderIDs.Next())
}
