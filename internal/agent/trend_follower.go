package agent

import (
	"context"
	"math"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/idgen"
	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
)

// TrendFollower tracks a rolling mid-price history and fires a MARKET
// order in the direction of the recent return, but only once |return|
// reaches the threshold and the expected edge (|return| * mid * size)
// clears the fee cost of that one order (per-share fee * size plus the
// per-order fee).
type TrendFollower struct {
	clientID  string
	symbol    string
	lookback  int
	threshold float64
	size      int64

	feePerOrder int64
	feePerShare int64

	orderIDs *idgen.Source
	history  []int64
}

func NewTrendFollower(clientID, symbol string, seed int64, args map[string]any) (Agent, error) {
	return &TrendFollower{
		clientID:    clientID,
		symbol:      symbol,
		lookback:    argInt(args, "lookback", 3),
		threshold:   argFloat(args, "threshold", 0.002),
		size:        int64(argInt(args, "size", 1)),
		feePerOrder: int64(argFloat(args, "fee_per_order", 0) * domain.PriceScale),
		feePerShare: int64(argFloat(args, "fee_per_share", 0) * domain.PriceScale),
		orderIDs:    idgen.New(seed),
	}, nil
}

func (t *TrendFollower) ID() string { return t.clientID }

func (t *TrendFollower) Step(_ context.Context, p *proxy.ManagerProxy) {
	bid, ask := p.BestBid(t.symbol), p.BestAsk(t.symbol)
	mid := (bid + ask) / 2
	t.history = append(t.history, mid)

	if len(t.history) <= t.lookback {
		return
	}

	prev := t.history[len(t.history)-1-t.lookback]
	if prev <= 0 {
		return
	}
	ret := float64(mid-prev) / float64(prev)

	grossEdge := math.Abs(ret) * float64(mid) * float64(t.size)
	totalCost := float64(t.feePerShare*t.size + t.feePerOrder)
	if math.Abs(ret) < t.threshold || grossEdge < totalCost {
		return
	}

	side := domain.Sell
	if ret > 0 {
		side = domain.Buy
	}

	oid := t.orderIDs.Prefixed(t.clientID)

	order := &domain.Order{ID: oid, Symbol: t.symbol, Side: side, Type: domain.MarketOrder, Qty: t.size}
	p.PlaceOrder(order)
}
