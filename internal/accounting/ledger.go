// Package accounting tracks each agent's pnl, inventory, and trade
// count, and derives net asset value from them.
package accounting

import "github.com/AtharvaBeesen/MarketSim/internal/domain"

// Position holds one agent's running book.
type Position struct {
	PnL        int64 // fixed-point, same scale as domain.PriceScale
	Inventory  int64
	TradeCount int64
}

// Ledger tracks Positions for every tracked agent, keyed by client id.
// Infrastructure owners (domain.OwnerSeeder, domain.OwnerFund) are never
// given a Position; trades against them only move the agent side.
type Ledger struct {
	positions map[string]*Position
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

// Register creates a zeroed Position for clientID if one does not
// already exist. Called once per agent at scheduler setup so every
// registered agent appears in reports even with zero trades.
func (l *Ledger) Register(clientID string) {
	if domain.IsInfrastructure(clientID) {
		return
	}
	if _, ok := l.positions[clientID]; !ok {
		l.positions[clientID] = &Position{}
	}
}

// Position returns the Position for clientID, or nil if it is not a
// tracked agent.
func (l *Ledger) Position(clientID string) *Position {
	return l.positions[clientID]
}

// DebitFee immediately subtracts fee from clientID's pnl. Used for the
// per-order fee charged at submission, not at execution.
func (l *Ledger) DebitFee(clientID string, fee int64) {
	pos := l.positions[clientID]
	if pos == nil {
		return
	}
	pos.PnL -= fee
}

// ApplyTrade updates both sides of a trade per the accounting rules:
// the buyer pays price*qty plus the per-share fee and gains inventory;
// the seller receives price*qty minus the per-share fee and loses
// inventory. feePerShare is charged to both sides independently.
func (l *Ledger) ApplyTrade(t domain.Trade, feePerShare int64) {
	// qty is a plain share count; price and feePerShare are already
	// fixed-point (scaled by domain.PriceScale), so the products below
	// are fixed-point too — no extra scaling needed.
	notional := t.Qty * t.Price
	fee := feePerShare * t.Qty

	if buyer := l.positions[t.BuyClientID]; buyer != nil {
		buyer.PnL -= notional + fee
		buyer.Inventory += t.Qty
		buyer.TradeCount++
	}
	if seller := l.positions[t.SellClientID]; seller != nil {
		seller.PnL += notional - fee
		seller.Inventory -= t.Qty
		seller.TradeCount++
	}
}

// NAV returns pnl + inventory*mid for clientID, or 0 if untracked.
func (l *Ledger) NAV(clientID string, mid int64) int64 {
	pos := l.positions[clientID]
	if pos == nil {
		return 0
	}
	return pos.PnL + pos.Inventory*mid
}

// ClientIDs returns every tracked agent id. Order is not significant;
// callers needing determinism should sort it.
func (l *Ledger) ClientIDs() []string {
	ids := make([]string, 0, len(l.positions))
	for id := range l.positions {
		ids = append(ids, id)
	}
	return ids
}
