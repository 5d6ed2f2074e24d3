// Package agent defines the Agent contract the scheduler steps each
// tick, plus a small registry of fee-aware reference policies ported
// from the project's original prototype.
package agent

import (
	"context"
	"fmt"

	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
)

// Agent is anything the scheduler can step once per tick. Implementations
// interact with the simulation exclusively through the proxy handed to
// Step; they must not reach into the book manager or another agent's
// state directly.
type Agent interface {
	ID() string
	Step(ctx context.Context, p *proxy.ManagerProxy)
}

// Spec names one entry in an agent plan: Count instances of Class are
// constructed, registered under "{Tag}-{i}", and round-robined across
// the configured symbols in overall registration order.
type Spec struct {
	Tag   string
	Count int
	Class string
	Args  map[string]any
}

// Constructor builds one agent instance for clientID trading symbol,
// configured from args (the Spec's Args map).
type Constructor func(clientID, symbol string, seed int64, args map[string]any) (Agent, error)

// Registry maps a Spec's Class name to the Constructor that builds it.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns a Registry pre-populated with the four built-in
// reference policies.
func NewRegistry() *Registry {
	r := &Registry{ctors: make(map[string]Constructor)}
	r.Register("market_maker", NewMarketMaker)
	r.Register("trend_follower", NewTrendFollower)
	r.Register("mean_reverter", NewMeanReverter)
	r.Register("liquidity_taker", NewLiquidityTaker)
	return r
}

// Register adds or overrides the constructor for class.
func (r *Registry) Register(class string, ctor Constructor) {
	r.ctors[class] = ctor
}

// Build constructs one agent from spec for clientID/symbol.
func (r *Registry) Build(spec Spec, clientID, symbol string, seed int64) (Agent, error) {
	ctor, ok := r.ctors[spec.Class]
	if !ok {
		return nil, fmt.Errorf("agent: unknown class %q", spec.Class)
	}
	return ctor(clientID, symbol, seed, spec.Args)
}

// argFloat reads a float64 arg with a default.
func argFloat(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

// argInt reads an int arg with a default.
func argInt(args map[string]any, key string, def int) int {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		}
	}
	return def
}
