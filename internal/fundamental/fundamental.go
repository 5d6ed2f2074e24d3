// Package fundamental drives each symbol's reference mid-price with a
// random walk and injects the thin resting liquidity that keeps the
// book from drying up, under the infrastructure owners "fund" and
// "seeder".
package fundamental

import (
	"fmt"
	"math/rand"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/manager"
)

// Driver tracks the per-symbol base mid and emits the drift orders each
// tick asks for.
type Driver struct {
	volatility float64
	tickWidth  int64 // half-width of the fund quote around base mid
	rng        *rand.Rand

	baseMid map[string]int64
	step    int
}

// NewDriver creates a Driver seeded for reproducible drift, starting
// every symbol at startMid.
func NewDriver(symbols []string, startMid int64, volatility float64, tickWidth int64, seed int64) *Driver {
	d := &Driver{
		volatility: volatility,
		tickWidth:  tickWidth,
		rng:        rand.New(rand.NewSource(seed)),
		baseMid:    make(map[string]int64, len(symbols)),
	}
	for _, s := range symbols {
		d.baseMid[s] = startMid
	}
	return d
}

// Advance perturbs every symbol's base mid by Normal(0, volatility) and
// submits a 1-share fund BUY below and SELL above it, so the book always
// has a fundamental anchor even if every agent goes quiet.
func (d *Driver) Advance(mgr *manager.BookManager, symbols []string) error {
	for _, sym := range symbols {
		delta := int64(d.rng.NormFloat64() * d.volatility * float64(domain.PriceScale))
		d.baseMid[sym] += delta
		mid := d.baseMid[sym]

		buy := &domain.Order{
			ID:     fmt.Sprintf("fund-b-%s-%d", sym, d.step),
			ClientID: domain.OwnerFund,
			Symbol: sym,
			Side:   domain.Buy,
			Type:   domain.LimitOrder,
			Price:  mid - d.tickWidth,
			Qty:    1,
		}
		sell := &domain.Order{
			ID:     fmt.Sprintf("fund-s-%s-%d", sym, d.step),
			ClientID: domain.OwnerFund,
			Symbol: sym,
			Side:   domain.Sell,
			Type:   domain.LimitOrder,
			Price:  mid + d.tickWidth,
			Qty:    1,
		}

		if err := mgr.PlaceOrder(buy); err != nil {
			return fmt.Errorf("fundamental: place buy: %w", err)
		}
		if err := mgr.PlaceOrder(sell); err != nil {
			return fmt.Errorf("fundamental: place sell: %w", err)
		}
	}
	d.step++
	return nil
}

// BaseMid returns the current fundamental mid for sym.
func (d *Driver) BaseMid(sym string) int64 { return d.baseMid[sym] }

// Seed places an initial ladder of resting liquidity around 100.0 on
// every symbol's book, under owner "seeder", so the very first tick has
// a usable BBO instead of an empty book waiting on fundamental drift.
// This restores the original prototype's seed_order_book step, which
// the distilled spec omits but a complete implementation needs: without
// it, agents that only read best_bid/best_ask would see all-zero
// quotes until enough drift orders accumulate.
func Seed(mgr *manager.BookManager, symbols []string, levels int, size int64, tick int64) error {
	startMid := int64(100) * domain.PriceScale
	for _, sym := range symbols {
		for i := 1; i <= levels; i++ {
			buy := &domain.Order{
				ID:     fmt.Sprintf("seed-b-%s-%d", sym, i),
				ClientID: domain.OwnerSeeder,
				Symbol: sym,
				Side:   domain.Buy,
				Type:   domain.LimitOrder,
				Price:  startMid - int64(i)*tick,
				Qty:    size,
			}
			sell := &domain.Order{
				ID:     fmt.Sprintf("seed-s-%s-%d", sym, i),
				ClientID: domain.OwnerSeeder,
				Symbol: sym,
				Side:   domain.Sell,
				Type:   domain.LimitOrder,
				Price:  startMid + int64(i)*tick,
				Qty:    size,
			}
			if err := mgr.PlaceOrder(buy); err != nil {
				return fmt.Errorf("fundamental: seed buy: %w", err)
			}
			if err := mgr.PlaceOrder(sell); err != nil {
				return fmt.Errorf("fundamental: seed sell: %w", err)
			}
		}
	}
	mgr.ProcessOrders() // seeding never crosses; discard the empty trade batch
	return nil
}
