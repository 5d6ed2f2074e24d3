package agent

import (
	"context"
	"math/rand"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/idgen"
	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
)

// LiquidityTaker probabilistically fires a MARKET order of random size
// when the spread is wide enough to clear its amortized fee cost. It is
// the only reference policy that needs its own RNG, seeded for
// reproducibility like every other randomness source in the run.
type LiquidityTaker struct {
	clientID  string
	symbol    string
	orderProb float64
	minSize   int
	maxSize   int

	feePerOrder int64
	feePerShare int64

	orderIDs *idgen.Source
	rng      *rand.Rand
}

func NewLiquidityTaker(clientID, symbol string, seed int64, args map[string]any) (Agent, error) {
	return &LiquidityTaker{
		clientID:    clientID,
		symbol:      symbol,
		orderProb:   argFloat(args, "order_prob", 0.1),
		minSize:     argInt(args, "min_size", 1),
		maxSize:     argInt(args, "max_size", 5),
		feePerOrder: int64(argFloat(args, "fee_per_order", 0) * domain.PriceScale),
		feePerShare: int64(argFloat(args, "fee_per_share", 0) * domain.PriceScale),
		rng:         rand.New(rand.NewSource(seed)),
		orderIDs:    idgen.New(seed),
	}, nil
}

func (lt *LiquidityTaker) ID() string { return lt.clientID }

func (lt *LiquidityTaker) Step(_ context.Context, p *proxy.ManagerProxy) {
	if lt.rng.Float64() > lt.orderProb {
		return
	}

	bestBid, bestAsk := p.BestBid(lt.symbol), p.BestAsk(lt.symbol)
	if bestBid == 0 || bestAsk == 0 {
		return
	}
	halfSpread := (bestAsk - bestBid) / 2

	size := int64(lt.minSize)
	if lt.maxSize > lt.minSize {
		size = int64(lt.minSize + lt.rng.Intn(lt.maxSize-lt.minSize+1))
	}

	costPerShare := lt.feePerShare
	var costPerOrder int64
	if size > 0 {
		costPerOrder = lt.feePerOrder / size
	}
	totalCost := costPerShare + costPerOrder

	if halfSpread < totalCost {
		return
	}

	side := domain.Buy
	if lt.rng.Intn(2) == 1 {
		side = domain.Sell
	}

	oid := lt.orderIDs.Prefixed(lt.clientID)

	order := &domain.Order{ID: oid, Symbol: lt.symbol, Side: side, Type: domain.MarketOrder, Qty: size}
	p.PlaceOrder(order)
}
