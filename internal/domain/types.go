// Package domain defines the core types shared across the simulation:
// orders, trades, sides, and the book's best-bid/offer snapshot.
package domain

import (
	"fmt"
	"strings"
)

// --- Price representation ---
// Prices are fixed-point int64 with 4 decimal places
// e.g. $100.0050 is stored as 1_000_050

const PriceScale = 10_000

// PriceToFloat converts a fixed-point price to float64 for display
func PriceToFloat(p int64) float64 {
	return float64(p) / float64(PriceScale)
}

// FloatToPrice converts a float64 to fixed-point price
func FloatToPrice(f float64) int64 {
	return int64(f * float64(PriceScale))
}

// FormatPrice returns a human-readable price string
func FormatPrice(p int64) string {
	return fmt.Sprintf("%.4f", PriceToFloat(p))
}

// --- Enums ---

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	return -s
}

// MarshalJSON serializes Side as a human-readable string
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON deserializes Side from a string or integer
func (s *Side) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	switch str {
	case "BUY", "1":
		*s = Buy
	case "SELL", "-1":
		*s = Sell
	default:
		return fmt.Errorf("unknown Side: %s", str)
	}
	return nil
}

// OrderType distinguishes LIMIT orders, which may rest, from MARKET
// orders, which never do. Cancellation is a book operation (Book.Cancel),
// not an order type, and never flows through the latency queue.
type OrderType int8

const (
	LimitOrder OrderType = iota
	MarketOrder
)

func (t OrderType) String() string {
	switch t {
	case LimitOrder:
		return "LIMIT"
	case MarketOrder:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON serializes OrderType as a human-readable string
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON deserializes OrderType from a string or integer
func (t *OrderType) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	switch str {
	case "LIMIT", "0":
		*t = LimitOrder
	case "MARKET", "1":
		*t = MarketOrder
	default:
		return fmt.Errorf("unknown OrderType: %s", str)
	}
	return nil
}

// --- Core structures ---

// Once submitted to a book, an Order changes only in RemainingQty,
// Sequence and QueuePosAtRest, all set by that book.
type Order struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"` // issuing agent, or "seeder"/"fund"
	Symbol       string    `json:"symbol"`
	Side         Side      `json:"side"`
	Type         OrderType `json:"type"`
	Price        int64     `json:"price"` // ignored when Type == MarketOrder
	Qty          int64     `json:"qty"`
	RemainingQty int64     `json:"remaining_qty"`
	Sequence     uint64    `json:"sequence"`      // assigned on admission; defines time priority
	DecisionTime int64     `json:"decision_time"` // tick at which the issuer decided to place it
	ArrivalTime  int64     `json:"arrival_time"`  // tick at which latency resolved and it reached the book

	// QueuePosAtRest is the 1-based FIFO position within its price level
	// at the moment it rested, recorded for execution-quality reporting.
	QueuePosAtRest int `json:"queue_pos,omitempty"`
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQty <= 0
}

// Trade is emitted by the matching engine and never mutated afterward.
type Trade struct {
	ID           string `json:"trade_id"`
	BuyOrderID   string `json:"buy_order_id"`
	SellOrderID  string `json:"sell_order_id"`
	BuyClientID  string `json:"buy_client_id"`
	SellClientID string `json:"sell_client_id"`
	Symbol       string `json:"symbol"`
	Price        int64  `json:"price"`
	Qty          int64  `json:"qty"`
	Timestamp    int64  `json:"timestamp"`

	// Identifies which side was passive (resting) vs aggressive (incoming);
	// trades always print at the passive order's price.
	PassiveOrderID   string `json:"passive_order_id"`
	AggressorOrderID string `json:"aggressor_order_id"`
	RestingQueuePos  int    `json:"resting_queue_pos,omitempty"`
}

// BBO is the best bid and offer snapshot for one symbol.
type BBO struct {
	BidPrice int64 `json:"bid_price"`
	BidQty   int64 `json:"bid_qty"`
	AskPrice int64 `json:"ask_price"`
	AskQty   int64 `json:"ask_qty"`
}

// Mid returns (bid+ask)/2, or 0 if either side is empty.
func (b BBO) Mid() int64 {
	if b.BidPrice == 0 || b.AskPrice == 0 {
		return 0
	}
	return (b.BidPrice + b.AskPrice) / 2
}

const (
	// OwnerSeeder marks initial-liquidity orders placed before tick 0.
	OwnerSeeder = "seeder"
	// OwnerFund marks per-tick fundamental-drift orders.
	OwnerFund = "fund"
)

// IsInfrastructure reports whether a client id belongs to the simulation's
// own liquidity-seeding machinery rather than a tracked trading agent.
func IsInfrastructure(clientID string) bool {
	return clientID == OwnerSeeder || clientID == OwnerFund
}
