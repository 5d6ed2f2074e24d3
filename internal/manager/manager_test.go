package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/orderbook"
)

func TestTradesBufferedUntilProcessOrders(t *testing.T) {
	m := New()
	m.AddBook("ABC", 1)

	require.NoError(t, m.PlaceOrder(&domain.Order{
		ID: "s1", ClientID: "a", Symbol: "ABC", Side: domain.Sell,
		Type: domain.LimitOrder, Price: 100, Qty: 10,
	}))

	err := m.PlaceOrder(&domain.Order{
		ID: "b1", ClientID: "b", Symbol: "ABC", Side: domain.Buy,
		Type: domain.MarketOrder, Qty: 5,
	})
	require.NoError(t, err)

	// Trades already happened against the book (BestAsk reflects the
	// partial fill) but are not yet returned to the caller.
	require.EqualValues(t, 100, m.BestAsk("ABC"))

	trades := m.ProcessOrders()
	require.Len(t, trades, 1)
	require.EqualValues(t, 5, trades[0].Qty)

	require.Empty(t, m.ProcessOrders())
}

func TestUnknownSymbolRejected(t *testing.T) {
	m := New()
	err := m.PlaceOrder(&domain.Order{ID: "x", Symbol: "NOPE", Side: domain.Buy, Type: domain.LimitOrder, Price: 1, Qty: 1})
	require.True(t, errors.Is(err, ErrUnknownSymbol))

	err = m.CancelOrder("NOPE", "x")
	require.True(t, errors.Is(err, ErrUnknownSymbol))
}

func TestInsufficientLiquiditySurfacedWithBufferedPartialFill(t *testing.T) {
	m := New()
	m.AddBook("ABC", 2)

	require.NoError(t, m.PlaceOrder(&domain.Order{
		ID: "s1", ClientID: "a", Symbol: "ABC", Side: domain.Sell,
		Type: domain.LimitOrder, Price: 100, Qty: 3,
	}))

	err := m.PlaceOrder(&domain.Order{
		ID: "b1", ClientID: "b", Symbol: "ABC", Side: domain.Buy,
		Type: domain.MarketOrder, Qty: 10,
	})
	var insufficient *orderbook.InsufficientLiquidityError
	require.True(t, errors.As(err, &insufficient))
	require.EqualValues(t, 3, insufficient.Filled)

	trades := m.ProcessOrders()
	require.Len(t, trades, 1)
	require.EqualValues(t, 3, trades[0].Qty)
}

func TestCancelOrder(t *testing.T) {
	m := New()
	m.AddBook("ABC", 3)
	require.NoError(t, m.PlaceOrder(&domain.Order{
		ID: "s1", ClientID: "a", Symbol: "ABC", Side: domain.Sell,
		Type: domain.LimitOrder, Price: 100, Qty: 3,
	}))
	require.NoError(t, m.CancelOrder("ABC", "s1"))
	require.Zero(t, m.BestAsk("ABC"))
}
