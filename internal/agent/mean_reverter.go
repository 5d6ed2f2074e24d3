package agent

import (
	"context"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/idgen"
	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
)

// MeanReverter trades MARKET against the sign of mid minus its rolling
// average once the deviation clears threshold*average plus fees. It
// wants immediacy over price, hence market rather than limit orders.
type MeanReverter struct {
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

func NewMeanReverter(clientID, symbol string, seed int64, args map[string]any) (Agent, error) {
	return &MeanReverter{
		clientID:    clientID,
		symbol:      symbol,
		lookback:    argInt(args, "lookback", 10),
		threshold:   argFloat(args, "threshold", 0.005),
		size:        int64(argInt(args, "size", 1)),
		feePerOrder: int64(argFloat(args, "fee_per_order", 0) * domain.PriceScale),
		feePerShare: int64(argFloat(args, "fee_per_share", 0) * domain.PriceScale),
		orderIDs:    idgen.New(seed),
	}, nil
}

func (mr *MeanReverter) ID() string { return mr.clientID }

func (mr *MeanReverter) Step(_ context.Context, p *proxy.ManagerProxy) {
	bid, ask := p.BestBid(mr.symbol), p.BestAsk(mr.symbol)
	mid := (bid + ask) / 2

	mr.history = append(mr.history, mid)
	if len(mr.history) > mr.lookback+1 {
		mr.history = mr.history[len(mr.history)-(mr.lookback+1):]
	}
	if len(mr.history) < mr.lookback+1 {
		return
	}

	past := mr.history[:len(mr.history)-1]
	var sum int64
	for _, v := range past {
		sum += v
	}
	avg := sum / int64(len(past))

	deviation := mid - avg
	if deviation < 0 {
		deviation = -deviation
	}

	costPerShare := mr.feePerShare
	var costPerOrder int64
	if mr.size > 0 {
		costPerOrder = mr.feePerOrder / mr.size
	}
	totalCost := costPerShare + costPerOrder

	threshAmount := int64(mr.threshold*float64(avg)) + totalCost
	if deviation < threshAmount {
		return
	}

	side := domain.Buy
	if mid > avg {
		side = domain.Sell
	}

	oid := mr.orderIDs.Prefixed(mr.clientID)

	order := &domain.Order{ID: oid, Symbol: mr.symbol, Side: side, Type: domain.MarketOrder, Qty: mr.size}
	p.PlaceOrder(order)
}
