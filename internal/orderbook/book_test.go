package orderbook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
)

func makeLimit(id string, side domain.Side, price, qty int64) *domain.Order {
	return &domain.Order{
		ID:       id,
		ClientID: "test",
		Symbol:   "TEST",
		Side:     side,
		Type:     domain.LimitOrder,
		Price:    price,
		Qty:      qty,
	}
}

func makeMarket(id string, side domain.Side, qty int64) *domain.Order {
	return &domain.Order{
		ID:       id,
		ClientID: "test",
		Symbol:   "TEST",
		Side:     side,
		Type:     domain.MarketOrder,
		Qty:      qty,
	}
}

func TestFIFOWithinPriceLevel(t *testing.T) {
	book := New("TEST", 1)

	_, err := book.Submit(makeLimit("s1", domain.Sell, 1000, 10))
	require.NoError(t, err)
	_, err = book.Submit(makeLimit("s2", domain.Sell, 1000, 10))
	require.NoError(t, err)
	_, err = book.Submit(makeLimit("s3", domain.Sell, 1000, 10))
	require.NoError(t, err)
	book.AssertInvariants()

	trades, err := book.Submit(makeMarket("b1", domain.Buy, 15))
	require.NoError(t, err)
	book.AssertInvariants()

	require.Len(t, trades, 2)
	require.Equal(t, "s1", trades[0].SellOrderID)
	require.EqualValues(t, 10, trades[0].Qty)
	require.Equal(t, "s2", trades[1].SellOrderID)
	require.EqualValues(t, 5, trades[1].Qty)

	require.Equal(t, 1, book.QueuePosition("s2"))
	require.Equal(t, 2, book.QueuePosition("s3"))
}

func TestMarketOrderSweepsMultipleLevels(t *testing.T) {
	book := New("TEST", 2)

	mustSubmit(t, book, makeLimit("s1", domain.Sell, 100, 5))
	mustSubmit(t, book, makeLimit("s2", domain.Sell, 101, 5))
	mustSubmit(t, book, makeLimit("s3", domain.Sell, 102, 5))
	book.AssertInvariants()

	trades, err := book.Submit(makeMarket("b1", domain.Buy, 12))
	require.NoError(t, err)
	book.AssertInvariants()

	require.Len(t, trades, 3)
	require.EqualValues(t, 100, trades[0].Price)
	require.EqualValues(t, 5, trades[0].Qty)
	require.EqualValues(t, 101, trades[1].Price)
	require.EqualValues(t, 5, trades[1].Qty)
	require.EqualValues(t, 102, trades[2].Price)
	require.EqualValues(t, 2, trades[2].Qty)

	bbo := book.BBO()
	require.EqualValues(t, 102, bbo.AskPrice)
	require.EqualValues(t, 3, bbo.AskQty)
}

func TestCancelRemovesRemainingOnly(t *testing.T) {
	book := New("TEST", 3)

	mustSubmit(t, book, makeLimit("s1", domain.Sell, 100, 10))
	book.AssertInvariants()

	trades, err := book.Submit(makeMarket("b1", domain.Buy, 3))
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.EqualValues(t, 3, trades[0].Qty)
	book.AssertInvariants()

	require.NoError(t, book.Cancel("s1"))
	book.AssertInvariants()

	require.Empty(t, book.Depth(domain.Sell))
	require.Empty(t, book.Depth(domain.Buy))
}

func TestCancelUnknownOrderIsNotFound(t *testing.T) {
	book := New("TEST", 4)
	mustSubmit(t, book, makeLimit("s1", domain.Sell, 100, 10))
	book.AssertInvariants()

	err := book.Cancel("nope")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))

	require.Len(t, book.Depth(domain.Sell), 1)
}

func TestCrossedLimitOrderMatchesImmediately(t *testing.T) {
	book := New("TEST", 5)

	mustSubmit(t, book, makeLimit("s1", domain.Sell, 100, 10))
	book.AssertInvariants()

	trades, err := book.Submit(makeLimit("b1", domain.Buy, 101, 5))
	require.NoError(t, err)
	book.AssertInvariants()

	require.Len(t, trades, 1)
	require.EqualValues(t, 100, trades[0].Price)
	require.EqualValues(t, 5, trades[0].Qty)
}

func TestBBOUpdates(t *testing.T) {
	book := New("TEST", 6)

	bbo := book.BBO()
	require.Zero(t, bbo.BidPrice)
	require.Zero(t, bbo.AskPrice)

	mustSubmit(t, book, makeLimit("b1", domain.Buy, 99, 10))
	mustSubmit(t, book, makeLimit("s1", domain.Sell, 101, 10))
	book.AssertInvariants()

	bbo = book.BBO()
	require.EqualValues(t, 99, bbo.BidPrice)
	require.EqualValues(t, 101, bbo.AskPrice)
	require.EqualValues(t, 100, bbo.Mid())

	mustSubmit(t, book, makeLimit("b2", domain.Buy, 100, 5))
	book.AssertInvariants()
	bbo = book.BBO()
	require.EqualValues(t, 100, bbo.BidPrice)
}

func TestPartialFillKeepsOrderOnBook(t *testing.T) {
	book := New("TEST", 7)

	mustSubmit(t, book, makeLimit("s1", domain.Sell, 100, 10))
	_, err := book.Submit(makeMarket("b1", domain.Buy, 3))
	require.NoError(t, err)
	book.AssertInvariants()

	bbo := book.BBO()
	require.EqualValues(t, 7, bbo.AskQty)
}

func TestEmptyBookMarketOrderIsInsufficientLiquidity(t *testing.T) {
	book := New("TEST", 8)

	trades, err := book.Submit(makeMarket("b1", domain.Buy, 10))
	book.AssertInvariants()

	require.Empty(t, trades)
	require.Error(t, err)
	var insufficient *InsufficientLiquidityError
	require.True(t, errors.As(err, &insufficient))
	require.EqualValues(t, 0, insufficient.Filled)
	require.EqualValues(t, 10, insufficient.Requested)
}

func TestMultipleBidLevels(t *testing.T) {
	book := New("TEST", 9)

	mustSubmit(t, book, makeLimit("b1", domain.Buy, 98, 10))
	mustSubmit(t, book, makeLimit("b2", domain.Buy, 100, 5))
	mustSubmit(t, book, makeLimit("b3", domain.Buy, 99, 8))
	book.AssertInvariants()

	bbo := book.BBO()
	require.EqualValues(t, 100, bbo.BidPrice)

	trades, err := book.Submit(makeMarket("s1", domain.Sell, 7))
	require.NoError(t, err)
	book.AssertInvariants()

	require.Len(t, trades, 2)
	require.EqualValues(t, 100, trades[0].Price)
	require.EqualValues(t, 5, trades[0].Qty)
	require.EqualValues(t, 99, trades[1].Price)
	require.EqualValues(t, 2, trades[1].Qty)
}

func TestQueuePosition(t *testing.T) {
	book := New("TEST", 10)

	mustSubmit(t, book, makeLimit("b1", domain.Buy, 100, 10))
	mustSubmit(t, book, makeLimit("b2", domain.Buy, 100, 5))
	mustSubmit(t, book, makeLimit("b3", domain.Buy, 100, 8))
	book.AssertInvariants()

	require.Equal(t, 1, book.QueuePosition("b1"))
	require.Equal(t, 2, book.QueuePosition("b2"))
	require.Equal(t, 3, book.QueuePosition("b3"))
	require.Equal(t, 0, book.QueuePosition("nope"))
}

func TestDuplicateOrderIDRejected(t *testing.T) {
	book := New("TEST", 11)
	mustSubmit(t, book, makeLimit("b1", domain.Buy, 100, 10))

	_, err := book.Submit(makeLimit("b1", domain.Buy, 100, 5))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateID))
}

func TestCancelledIDNeverReused(t *testing.T) {
	book := New("TEST", 12)
	mustSubmit(t, book, makeLimit("b1", domain.Buy, 100, 10))
	require.NoError(t, book.Cancel("b1"))

	_, err := book.Submit(makeLimit("b1", domain.Buy, 100, 5))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateID))
}

func TestBadOrderRejected(t *testing.T) {
	book := New("TEST", 13)

	_, err := book.Submit(makeLimit("b1", domain.Buy, 0, 10))
	require.True(t, errors.Is(err, ErrBadOrder))

	_, err = book.Submit(makeLimit("b2", domain.Buy, 100, 0))
	require.True(t, errors.Is(err, ErrBadOrder))
}

func mustSubmit(t *testing.T, book *Book, order *domain.Order) []domain.Trade {
	t.Helper()
	trades, err := book.Submit(order)
	require.NoError(t, err)
	return trades
}
