// Package scheduler drives the fixed-tick simulation loop: fundamental
// drift, latency release, agent stepping, matching, and accounting, in
// that order, every tick.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AtharvaBeesen/MarketSim/internal/accounting"
	"github.com/AtharvaBeesen/MarketSim/internal/agent"
	"github.com/AtharvaBeesen/MarketSim/internal/domain"
	"github.com/AtharvaBeesen/MarketSim/internal/eventlog"
	"github.com/AtharvaBeesen/MarketSim/internal/fundamental"
	"github.com/AtharvaBeesen/MarketSim/internal/latency"
	"github.com/AtharvaBeesen/MarketSim/internal/manager"
	"github.com/AtharvaBeesen/MarketSim/internal/metrics"
	"github.com/AtharvaBeesen/MarketSim/internal/orderbook"
	"github.com/AtharvaBeesen/MarketSim/internal/proxy"
	"github.com/AtharvaBeesen/MarketSim/internal/scenario"
)

// Sample is one tick's recorded snapshot for one agent.
type Sample struct {
	Step      int
	ClientID  string
	PnL       int64
	Inventory int64
	NAV       int64
}

// registeredAgent pairs an agent with the symbol it trades and the
// proxy that mediates its access to the manager.
type registeredAgent struct {
	impl   agent.Agent
	symbol string
	proxy  *proxy.ManagerProxy
}

// Scheduler owns every piece of mutable simulation state: the book
// manager, the latency queue, the fundamental driver, agent accounting,
// and the registered agents themselves. Exactly one goroutine ever
// touches a Scheduler — the model is single-threaded cooperative, never
// concurrent.
type Scheduler struct {
	cfg *scenario.Config

	mgr      *manager.BookManager
	queue    *latency.Queue
	ledger   *accounting.Ledger
	driver   *fundamental.Driver
	agents   []registeredAgent
	orderMap map[string]string // order id -> owning client id

	tick int64

	History []Sample
	Trades  []domain.Trade

	recorder *metrics.Recorder
	exec     *metrics.Collector
	eventLog *eventlog.Writer
	log      zerolog.Logger
}

// New builds a Scheduler from cfg: it registers one book per symbol,
// seeds initial liquidity, and constructs every agent named in the
// plan, assigning client ids and symbols in registration order.
func New(cfg *scenario.Config, registry *agent.Registry) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr := manager.New()
	for i, sym := range cfg.Symbols {
		mgr.AddBook(sym, cfg.Seed+int64(i)+1)
	}

	seedTick := int64(cfg.Seeding.Tick * domain.PriceScale)
	if err := fundamental.Seed(mgr, cfg.Symbols, cfg.Seeding.Levels, cfg.Seeding.Size, seedTick); err != nil {
		return nil, fmt.Errorf("scheduler: seed book: %w", err)
	}

	startMid := domain.FloatToPrice(100.0)
	tickWidth := int64(cfg.Fundamental.TickWidth * domain.PriceScale)
	driver := fundamental.NewDriver(cfg.Symbols, startMid, cfg.Fundamental.Volatility, tickWidth, cfg.Seed+1000)

	s := &Scheduler{
		cfg:      cfg,
		mgr:      mgr,
		queue:    latency.NewQueue(),
		ledger:   accounting.NewLedger(),
		driver:   driver,
		orderMap: make(map[string]string),
		recorder: metrics.NewRecorder(),
		exec:     metrics.NewCollector(),
		log:      zerolog.Nop(),
	}

	feeArgs := map[string]any{
		"fee_per_order": cfg.Fees.PerOrder,
		"fee_per_share": cfg.Fees.PerShare,
	}

	var count int
	for _, spec := range cfg.Agents {
		for i := 0; i < spec.Count; i++ {
			clientID := fmt.Sprintf("%s-%d", spec.Tag, i)
			symbol := cfg.Symbols[count%len(cfg.Symbols)]
			count++

			built := spec
			built.Args = mergeArgs(spec.Args, feeArgs)
			impl, err := registry.Build(built, clientID, symbol, cfg.Seed+int64(count))
			if err != nil {
				return nil, fmt.Errorf("scheduler: build agent %s: %w", clientID, err)
			}

			latModel := latency.NewModel(cfg.Latency.Mean, cfg.Latency.Std, cfg.Seed+int64(count)+500_000)
			s.ledger.Register(clientID)
			now := s.currentTime
			p := proxy.New(clientID, mgr, s.queue, latModel, s.ledger, int64(cfg.Fees.PerOrder*domain.PriceScale), now)

			s.agents = append(s.agents, registeredAgent{impl: impl, symbol: symbol, proxy: p})
		}
	}

	s.log.Info().Int64("seed", cfg.Seed).Strs("symbols", cfg.Symbols).Int("agents", len(s.agents)).Msg("scheduler built")
	return s, nil
}

func mergeArgs(base map[string]any, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (s *Scheduler) currentTime() int64 { return s.tick }

// Run executes cfg.NumSteps ticks of the scheduling algorithm, stopping
// at the first tick that fails. Per-agent samples accumulate in History
// and trades in Trades.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Int("num_steps", s.cfg.NumSteps).Msg("run starting")
	for step := 0; step < s.cfg.NumSteps; step++ {
		if err := s.step(ctx, step); err != nil {
			s.log.Error().Int("step", step).Err(err).Msg("tick failed")
			return fmt.Errorf("scheduler: tick %d: %w", step, err)
		}
	}
	s.log.Info().Int("trades", len(s.Trades)).Msg("run complete")
	return nil
}

// step executes the six-stage per-tick algorithm: drift, release,
// step agents, match, account, sample.
func (s *Scheduler) step(ctx context.Context, step int) error {
	s.tick = int64(step)

	if err := s.driver.Advance(s.mgr, s.cfg.Symbols); err != nil {
		return fmt.Errorf("fundamental drift: %w", err)
	}

	if err := s.releaseDue(); err != nil {
		return err
	}

	for _, ra := range s.agents {
		ra.impl.Step(ctx, ra.proxy)
	}

	trades := s.mgr.ProcessOrders()
	for i := range trades {
		trades[i].Timestamp = s.tick
	}
	s.Trades = append(s.Trades, trades...)
	for _, t := range trades {
		s.ledger.ApplyTrade(t, int64(s.cfg.Fees.PerShare*domain.PriceScale))
		s.exec.RecordTrade(t)
		if s.eventLog != nil {
			if err := s.eventLog.WriteTrade(s.tick, t); err != nil {
				return fmt.Errorf("event log: %w", err)
			}
		}
	}

	for _, sym := range s.cfg.Symbols {
		bbo := s.mgr.BBO(sym)
		s.exec.RecordBBO(s.tick, sym, bbo)
		if s.eventLog != nil {
			if err := s.eventLog.WriteBBO(s.tick, sym, bbo); err != nil {
				return fmt.Errorf("event log: %w", err)
			}
		}
	}

	s.sample(step)
	return nil
}

// releaseDue drains every latency-delayed order due at the current
// tick and submits it to the book, recording ownership for accounting.
// InsufficientLiquidity is swallowed per policy; any other failure is
// fatal to the tick.
func (s *Scheduler) releaseDue() error {
	due := s.queue.DrainDue(s.tick)
	for _, p := range due {
		err := s.mgr.PlaceOrder(p.Order)
		s.orderMap[p.Order.ID] = p.Owner
		s.exec.RecordOrder(p.Order, p.Order.Symbol)
		if s.eventLog != nil {
			if logErr := s.eventLog.WriteOrderReleased(s.tick, p.Order); logErr != nil {
				return fmt.Errorf("event log: %w", logErr)
			}
		}

		var insufficient *orderbook.InsufficientLiquidityError
		if err != nil {
			if !errors.As(err, &insufficient) {
				return fmt.Errorf("release order %s: %w", p.Order.ID, err)
			}
			s.log.Debug().Str("order_id", p.Order.ID).Int64("requested", insufficient.Requested).
				Int64("filled", insufficient.Filled).Msg("insufficient liquidity")
		}
	}
	return nil
}

// sample records pnl/inventory/nav for every tracked agent at step.
func (s *Scheduler) sample(step int) {
	for _, ra := range s.agents {
		cid := ra.impl.ID()
		pos := s.ledger.Position(cid)
		if pos == nil {
			continue
		}
		bbo := s.mgr.BBO(ra.symbol)
		nav := s.ledger.NAV(cid, bbo.Mid())
		s.History = append(s.History, Sample{
			Step: step, ClientID: cid,
			PnL: pos.PnL, Inventory: pos.Inventory, NAV: nav,
		})
		s.recorder.Append(step, cid, pos.PnL, pos.Inventory, nav)
	}
}

// WithEventLog attaches an event log writer; every subsequent tick's
// order releases, trades, and BBO snapshots are appended to it. Callers
// own the writer's lifecycle (Close after Run returns).
func (s *Scheduler) WithEventLog(w *eventlog.Writer) {
	s.eventLog = w
}

// WithLogger attaches a structured logger for tick boundaries and
// non-fatal matching errors. The zero value leaves logging disabled.
func (s *Scheduler) WithLogger(l zerolog.Logger) {
	s.log = l.With().Str("component", "scheduler").Str("scenario", s.cfg.Name).Logger()
}

// Recorder exposes the per-tick pnl/inventory/nav recorder for CSV export.
func (s *Scheduler) Recorder() *metrics.Recorder { return s.recorder }

// ExecMetrics exposes the execution-quality collector for reporting.
func (s *Scheduler) ExecMetrics() *metrics.Collector { return s.exec }

// Ledger exposes the final accounting state for reporting.
func (s *Scheduler) Ledger() *accounting.Ledger { return s.ledger }

// Manager exposes the book manager for reporting and diagnostics.
func (s *Scheduler) Manager() *manager.BookManager { return s.mgr }

// AgentIDs returns every registered agent's client id, in registration
// order.
func (s *Scheduler) AgentIDs() []string {
	ids := make([]string, len(s.agents))
	for i, ra := range s.agents {
		ids[i] = ra.impl.ID()
	}
	return ids
}

// CurrentTime returns step*DT, the logical wall-clock time of the tick
// most recently processed. Internally every model (latency, drift) is
// parameterized in whole ticks; this is for display only.
func (s *Scheduler) CurrentTime() float64 {
	return float64(s.tick) * s.cfg.DT
}
