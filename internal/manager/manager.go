// Package manager provides the keyed façade over per-symbol order
// books that the rest of the simulation talks to.
package manager

import (
	"errors"
	"fmt"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/orderbook"
)

// ErrUnknownSymbol is returned when an operation names a symbol that was
// never added to the manager.
var ErrUnknownSymbol = errors.New("manager: unknown symbol")

// BookManager routes orders to the correct per-symbol book and batches
// the trades each produces until the scheduler asks for them.
//
// PlaceOrder matches eagerly against the book so best_bid/best_ask stay
// current for any agent reading them later in the same tick, but the
// resulting trades are buffered rather than returned immediately —
// ProcessOrders flushes the buffer. This satisfies the contract that all
// trades for a tick become observable only after process_orders runs.
type BookManager struct {
	books   map[string]*orderbook.Book
	pending []domain.Trade
}

// New creates an empty BookManager.
func New() *BookManager {
	return &BookManager{books: make(map[string]*orderbook.Book)}
}

// AddBook registers a new symbol with its own order book. seed controls
// that book's trade ID stream.
func (m *BookManager) AddBook(symbol string, seed int64) {
	m.books[symbol] = orderbook.New(symbol, seed)
}

// Book returns the underlying book for symbol, or nil if unknown. Used
// by read-only callers (reporting, seeding) that need direct access.
func (m *BookManager) Book(symbol string) *orderbook.Book {
	return m.books[symbol]
}

// PlaceOrder routes order to its symbol's book and buffers any trades
// produced. A non-nil *orderbook.InsufficientLiquidityError is returned
// alongside the (already-buffered) trades, matching Book.Submit.
func (m *BookManager) PlaceOrder(order *domain.Order) error {
	book, ok := m.books[order.Symbol]
	if !ok {
		return fmt.Errorf("symbol %s: %w", order.Symbol, ErrUnknownSymbol)
	}

	trades, err := book.Submit(order)
	m.pending = append(m.pending, trades...)

	var insufficient *orderbook.InsufficientLiquidityError
	if err != nil && !errors.As(err, &insufficient) {
		return err
	}
	return err
}

// CancelOrder cancels a resting order on symbol's book.
func (m *BookManager) CancelOrder(symbol, orderID string) error {
	book, ok := m.books[symbol]
	if !ok {
		return fmt.Errorf("symbol %s: %w", symbol, ErrUnknownSymbol)
	}
	return book.Cancel(orderID)
}

// BestBid returns the best bid on symbol, or 0 if the symbol is unknown
// or the side is empty.
func (m *BookManager) BestBid(symbol string) int64 {
	book, ok := m.books[symbol]
	if !ok {
		return 0
	}
	return book.BestBid()
}

// BestAsk returns the best ask on symbol, or 0 if the symbol is unknown
// or the side is empty.
func (m *BookManager) BestAsk(symbol string) int64 {
	book, ok := m.books[symbol]
	if !ok {
		return 0
	}
	return book.BestAsk()
}

// BBO returns the best bid/offer snapshot for symbol.
func (m *BookManager) BBO(symbol string) domain.BBO {
	book, ok := m.books[symbol]
	if !ok {
		return domain.BBO{}
	}
	return book.BBO()
}

// Depth returns the aggregate resting quantity at each price level for
// symbol/side, best price first.
func (m *BookManager) Depth(symbol string, side domain.Side) []orderbook.DepthEntry {
	book, ok := m.books[symbol]
	if !ok {
		return nil
	}
	return book.Depth(side)
}

// Symbols returns every registered symbol. Order is not significant;
// callers that need deterministic iteration should sort it themselves.
func (m *BookManager) Symbols() []string {
	symbols := make([]string, 0, len(m.books))
	for s := range m.books {
		symbols = append(symbols, s)
	}
	return symbols
}

// ProcessOrders flushes and returns every trade buffered since the last
// call, in the order they were generated.
func (m *BookManager) ProcessOrders() []domain.Trade {
	trades := m.pending
	m.pending = nil
	return trades
}

// AssertInvariants checks every book's structural invariants.
func (m *BookManager) AssertInvariants() {
	for _, book := range m.books {
		book.AssertInvariants()
	}
}
