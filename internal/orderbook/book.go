// Package orderbook implements a single-symbol limit order book with
// price-time priority matching.
package orderbook

import (
	"fmt"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/idgen"
)

// descendingInt64 orders a red-black tree so its left-most (minimum) node
// holds the largest key — used for the bid ladder, where the best price
// is the highest one.
func descendingInt64(a, b interface{}) int {
	return utils.Int64Comparator(b, a)
}

// Book is a single-symbol limit order book.
type Book struct {
	Symbol string

	bids *redblacktree.Tree // price -> *PriceLevel, best (highest) price first
	asks *redblacktree.Tree // price -> *PriceLevel, best (lowest) price first

	// orderIndex maps order ID to the resting order pointer for cancel
	// lookup. Entries are removed once an order fully fills or is
	// cancelled; knownIDs separately tracks every ID ever admitted so a
	// cancelled or filled ID can never be resubmitted.
	orderIndex map[string]*domain.Order
	knownIDs   map[string]struct{}

	nextSequence uint64
	tradeIDs     *idgen.Source
}

// New creates an empty order book for symbol, with trade IDs generated
// deterministically from seed.
func New(symbol string, seed int64) *Book {
	return &Book{
		Symbol:     symbol,
		bids:       redblacktree.NewWith(descendingInt64),
		asks:       redblacktree.NewWith(utils.Int64Comparator),
		orderIndex: make(map[string]*domain.Order),
		knownIDs:   make(map[string]struct{}),
		tradeIDs:   idgen.New(seed),
	}
}

// Submit admits order, attempts to match it, and rests any LIMIT
// remainder. It returns the trades generated by this submission.
//
// A non-nil *InsufficientLiquidityError is the non-fatal signal: the
// returned trades are still valid fills, the error just reports that a
// MARKET order could not be fully executed. Any other non-nil error
// (ErrDuplicateID, ErrBadOrder) means the order was rejected outright —
// trades is nil.
func (b *Book) Submit(order *domain.Order) ([]domain.Trade, error) {
	if order.Qty <= 0 || (order.Type == domain.LimitOrder && order.Price <= 0) {
		return nil, fmt.Errorf("order %s: %w", order.ID, ErrBadOrder)
	}
	if _, seen := b.knownIDs[order.ID]; seen {
		return nil, fmt.Errorf("order %s: %w", order.ID, ErrDuplicateID)
	}
	b.knownIDs[order.ID] = struct{}{}

	order.RemainingQty = order.Qty
	trades := b.match(order)

	if order.Type == domain.LimitOrder {
		if order.RemainingQty > 0 {
			b.insert(order)
		}
		return trades, nil
	}

	// MARKET: never rests.
	if order.RemainingQty > 0 {
		return trades, &InsufficientLiquidityError{
			OrderID:   order.ID,
			Requested: order.Qty,
			Filled:    order.Qty - order.RemainingQty,
		}
	}
	return trades, nil
}

// match walks the opposite ladder in price-time priority, filling as
// much of incoming as the book allows. Trades always print at the
// resting (passive) order's price.
func (b *Book) match(incoming *domain.Order) []domain.Trade {
	var trades []domain.Trade

	opposite := b.asks
	if incoming.Side == domain.Sell {
		opposite = b.bids
	}

	for incoming.RemainingQty > 0 && !opposite.Empty() {
		node := opposite.Left()
		level := node.Value.(*PriceLevel)

		if incoming.Type == domain.LimitOrder {
			if incoming.Side == domain.Buy && level.Price > incoming.Price {
				break
			}
			if incoming.Side == domain.Sell && level.Price < incoming.Price {
				break
			}
		}

		for i := 0; i < len(level.Orders) && incoming.RemainingQty > 0; {
			resting := level.Orders[i]
			fill := min64(incoming.RemainingQty, resting.RemainingQty)

			incoming.RemainingQty -= fill
			resting.RemainingQty -= fill

			trade := domain.Trade{
				ID:               b.tradeIDs.Next(),
				Symbol:           b.Symbol,
				Price:            level.Price,
				Qty:              fill,
				PassiveOrderID:   resting.ID,
				AggressorOrderID: incoming.ID,
				RestingQueuePos:  i + 1,
			}
			if incoming.Side == domain.Buy {
				trade.BuyOrderID, trade.SellOrderID = incoming.ID, resting.ID
				trade.BuyClientID, trade.SellClientID = incoming.ClientID, resting.ClientID
			} else {
				trade.SellOrderID, trade.BuyOrderID = incoming.ID, resting.ID
				trade.SellClientID, trade.BuyClientID = incoming.ClientID, resting.ClientID
			}
			trades = append(trades, trade)

			if resting.RemainingQty <= 0 {
				delete(b.orderIndex, resting.ID)
				level.removeAt(i)
			} else {
				i++
			}
		}

		if len(level.Orders) == 0 {
			opposite.Remove(node.Key)
		}
	}

	return trades
}

// insert places a LIMIT remainder onto the book at the tail of its level.
func (b *Book) insert(order *domain.Order) {
	order.Sequence = b.nextSequence
	b.nextSequence++
	b.orderIndex[order.ID] = order

	ladder := b.asks
	if order.Side == domain.Buy {
		ladder = b.bids
	}

	if v, found := ladder.Get(order.Price); found {
		level := v.(*PriceLevel)
		level.Orders = append(level.Orders, order)
		order.QueuePosAtRest = len(level.Orders)
		return
	}

	level := &PriceLevel{Price: order.Price, Orders: []*domain.Order{order}}
	order.QueuePosAtRest = 1
	ladder.Put(order.Price, level)
}

// Cancel removes a resting order. ErrNotFound covers both an unknown id
// and one that has already fully filled.
func (b *Book) Cancel(orderID string) error {
	order, ok := b.orderIndex[orderID]
	if !ok || order.RemainingQty <= 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}

	ladder := b.asks
	if order.Side == domain.Buy {
		ladder = b.bids
	}

	v, found := ladder.Get(order.Price)
	if !found {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	level := v.(*PriceLevel)
	idx := level.indexOf(orderID)
	if idx < 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}

	order.RemainingQty = 0
	level.removeAt(idx)
	if len(level.Orders) == 0 {
		ladder.Remove(order.Price)
	}
	delete(b.orderIndex, orderID)
	return nil
}

// BestBid returns the highest resting bid price, or 0 if the side is empty.
func (b *Book) BestBid() int64 {
	if b.bids.Empty() {
		return 0
	}
	return b.bids.Left().Value.(*PriceLevel).Price
}

// BestAsk returns the lowest resting ask price, or 0 if the side is empty.
func (b *Book) BestAsk() int64 {
	if b.asks.Empty() {
		return 0
	}
	return b.asks.Left().Value.(*PriceLevel).Price
}

// BBO returns the current best bid/offer snapshot.
func (b *Book) BBO() domain.BBO {
	var bbo domain.BBO
	if !b.bids.Empty() {
		top := b.bids.Left().Value.(*PriceLevel)
		bbo.BidPrice, bbo.BidQty = top.Price, top.TotalQty()
	}
	if !b.asks.Empty() {
		top := b.asks.Left().Value.(*PriceLevel)
		bbo.AskPrice, bbo.AskQty = top.Price, top.TotalQty()
	}
	return bbo
}

// DepthEntry is one aggregated price level for observation.
type DepthEntry struct {
	Price int64
	Qty   int64
}

// Depth returns the aggregate resting quantity at each price level on
// side, best price first.
func (b *Book) Depth(side domain.Side) []DepthEntry {
	ladder := b.asks
	if side == domain.Buy {
		ladder = b.bids
	}

	it := ladder.Iterator()
	entries := make([]DepthEntry, 0, ladder.Size())
	for it.Next() {
		level := it.Value().(*PriceLevel)
		entries = append(entries, DepthEntry{Price: level.Price, Qty: level.TotalQty()})
	}
	return entries
}

// QueuePosition returns the 1-based FIFO position of orderID at its price
// level, or 0 if the order is not currently resting.
func (b *Book) QueuePosition(orderID string) int {
	order, ok := b.orderIndex[orderID]
	if !ok {
		return 0
	}
	ladder := b.asks
	if order.Side == domain.Buy {
		ladder = b.bids
	}
	v, found := ladder.Get(order.Price)
	if !found {
		return 0
	}
	idx := v.(*PriceLevel).indexOf(orderID)
	if idx < 0 {
		return 0
	}
	return idx + 1
}

// AssertInvariants checks the book's structural invariants: the book
// never crosses, every resting level is non-empty, and every resting
// order has positive remaining quantity. Panics on violation; intended
// for tests and scheduler sanity passes, not the hot path.
func (b *Book) AssertInvariants() {
	if !b.bids.Empty() && !b.asks.Empty() {
		bestBid := b.bids.Left().Value.(*PriceLevel).Price
		bestAsk := b.asks.Left().Value.(*PriceLevel).Price
		if bestBid >= bestAsk {
			panic(fmt.Sprintf("orderbook %s: crossed book: bid %d >= ask %d", b.Symbol, bestBid, bestAsk))
		}
	}

	checkSide := func(ladder *redblacktree.Tree) {
		it := ladder.Iterator()
		for it.Next() {
			level := it.Value().(*PriceLevel)
			if len(level.Orders) == 0 {
				panic(fmt.Sprintf("orderbook %s: empty level at price %d", b.Symbol, level.Price))
			}
			for _, o := range level.Orders {
				if o.RemainingQty <= 0 {
					panic(fmt.Sprintf("orderbook %s: non-positive remaining qty on resting order %s", b.Symbol, o.ID))
				}
			}
		}
	}
	checkSide(b.bids)
	checkSide(b.asks)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
