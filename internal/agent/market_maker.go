package agent

import (
	"context"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/idgen"
	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
)

// MarketMaker cancels its resting quotes each step and re-quotes
// symmetrically around mid, but only when the half-spread net of the
// per-share fee still clears the per-order fee — it will go quiet in a
// tight or fee-unfavorable market rather than quote at a loss.
type MarketMaker struct {
	clientID string
	symbol   string
	spread   int64
	size     int64
	feePerOrder int64
	feePerShare int64

	orderIDs *idgen.Source
	bidID    string
	askID    string
}

// NewMarketMaker builds a MarketMaker from spec args: "spread" and
// "size" override the defaults, "fee_per_order"/"fee_per_share" are
// injected by the scheduler from the run's fee schedule.
func NewMarketMaker(clientID, symbol string, seed int64, args map[string]any) (Agent, error) {
	return &MarketMaker{
		clientID:    clientID,
		symbol:      symbol,
		spread:      int64(argFloat(args, "spread", 1.0) * domain.PriceScale),
		size:        int64(argInt(args, "size", 1)),
		feePerOrder: int64(argFloat(args, "fee_per_order", 0) * domain.PriceScale),
		feePerShare: int64(argFloat(args, "fee_per_share", 0) * domain.PriceScale),
		orderIDs:    idgen.New(seed),
	}, nil
}

func (m *MarketMaker) ID() string { return m.clientID }

func (m *MarketMaker) Step(_ context.Context, p *proxy.ManagerProxy) {
	if m.bidID != "" {
		_ = p.CancelOrder(m.symbol, m.bidID)
	}
	if m.askID != "" {
		_ = p.CancelOrder(m.symbol, m.askID)
	}
	m.bidID, m.askID = "", ""

	bid, ask := p.BestBid(m.symbol), p.BestAsk(m.symbol)
	if bid == 0 || ask == 0 {
		return
	}
	mid := (bid + ask) / 2

	halfSpread := m.spread / 2
	grossEdge := halfSpread * m.size
	costShares := m.feePerShare * m.size
	netEdge := grossEdge - costShares

	if netEdge < m.feePerOrder || mid <= halfSpread {
		return
	}

	bidID := m.orderIDs.Prefixed(m.clientID + "-bid")
	askID := m.orderIDs.Prefixed(m.clientID + "-ask")

	bidOrder := &domain.Order{
		ID: bidID, Symbol: m.symbol, Side: domain.Buy, Type: domain.LimitOrder,
		Price: mid - halfSpread, Qty: m.size,
	}
	askOrder := &domain.Order{
		ID: askID, Symbol: m.symbol, Side: domain.Sell, Type: domain.LimitOrder,
		Price: mid + halfSpread, Qty: m.size,
	}

	p.PlaceOrder(bidOrder)
	p.PlaceOrder(askOrder)

	m.bidID, m.askID = bidID, askID
}
