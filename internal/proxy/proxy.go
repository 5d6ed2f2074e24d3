// Package proxy implements the per-agent view of the book manager:
// every placement is latency-stamped and fee-debited, every cancel is
// forwarded with NotFound swallowed, and reads pass straight through.
package proxy

import (
	"errors"

	"github.com/AtharvaBeesen/MarketSim/internal/accounting"
	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/latency"
	"github.com/AtharvaBeesen/MarketSim/internal/manager"
	"github.com/AtharvaBeesen/MarketSim/internal/orderbook"
)

// ManagerProxy is the sole interface an agent has to the simulation.
// One is constructed per agent and closes over that agent's owner id,
// latency model, and fee schedule.
type ManagerProxy struct {
	owner   string
	mgr     *manager.BookManager
	queue   *latency.Queue
	latency *latency.Model
	ledger  *accounting.Ledger
	feePer  int64

	now func() int64
}

// New builds a proxy for owner. now must return the scheduler's current
// tick; it is called, not snapshotted, so the same proxy instance stays
// valid across ticks.
func New(owner string, mgr *manager.BookManager, queue *latency.Queue, model *latency.Model, ledger *accounting.Ledger, feePerOrder int64, now func() int64) *ManagerProxy {
	return &ManagerProxy{
		owner:   owner,
		mgr:     mgr,
		queue:   queue,
		latency: model,
		ledger:  ledger,
		feePer:  feePerOrder,
		now:     now,
	}
}

// PlaceOrder stamps order with a sampled latency delay, enqueues it for
// release, and immediately debits the per-order fee. The order does not
// reach the book until the scheduler drains the latency queue at its
// release tick.
func (p *ManagerProxy) PlaceOrder(order *domain.Order) {
	order.ClientID = p.owner
	order.DecisionTime = p.now()

	delay := p.latency.Sample()
	release := order.DecisionTime + delay
	order.ArrivalTime = release

	p.queue.Push(release, p.owner, order)
	p.ledger.DebitFee(p.owner, p.feePer)
}

// CancelOrder forwards to the manager. A NotFound error is swallowed:
// from the agent's perspective, cancelling an order that is already
// gone or unknown is a harmless no-op.
func (p *ManagerProxy) CancelOrder(symbol, orderID string) error {
	err := p.mgr.CancelOrder(symbol, orderID)
	if errors.Is(err, orderbook.ErrNotFound) {
		return nil
	}
	return err
}

// BestBid passes through to the manager.
func (p *ManagerProxy) BestBid(symbol string) int64 { return p.mgr.BestBid(symbol) }

// BestAsk passes through to the manager.
func (p *ManagerProxy) BestAsk(symbol string) int64 { return p.mgr.BestAsk(symbol) }

// BBO passes through to the manager.
func (p *ManagerProxy) BBO(symbol string) domain.BBO { return p.mgr.BBO(symbol) }

// Depth passes through to the manager.
func (p *ManagerProxy) Depth(symbol string, side domain.Side) []orderbook.DepthEntry {
	return p.mgr.Depth(symbol, side)
}

// Now returns the current tick, for agents that need to stamp their own
// decision bookkeeping.
func (p *ManagerProxy) Now() int64 { return p.now() }
