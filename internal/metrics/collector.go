package metrics

import "github.com/AtharvaBeesen/MarketSim/internal/domain"

// AgentMetrics holds computed execution-quality metrics for one agent.
type AgentMetrics struct {
	ClientID string `json:"client_id"`

	OrdersSent   int `json:"orders_sent"`
	LimitOrders  int `json:"limit_orders"`
	MarketOrders int `json:"market_orders"`

	TotalFills     int     `json:"total_fills"`
	TotalQtyFilled int64   `json:"total_qty_filled"`
	FillRate       float64 `json:"fill_rate"` // orders with >=1 fill / orders sent

	AvgExecPrice float64 `json:"avg_exec_price"`
	AvgSlippage  float64 `json:"avg_slippage"` // vs mid at decision time, signed against the agent
	SlippageBps  float64 `json:"slippage_bps"`

	AvgTimeToFillTicks float64   `json:"avg_time_to_fill_ticks"`
	TimeToFillDist     []float64 `json:"time_to_fill_dist"`

	AvgQueuePosPlace float64 `json:"avg_queue_pos_place"`

	SlippageValues []float64 `json:"slippage_values,omitempty"`
}

// Collector accumulates per-order and per-trade observations and
// derives AgentMetrics for every client id it has seen. Infrastructure
// owners (domain.IsInfrastructure) are never tracked.
type Collector struct {
	agents      map[string]*agentAccum
	bboBySymbol map[string][]bboSnapshot
}

type agentAccum struct {
	ordersSent, limitOrders, marketOrders int
	orderInfo                             map[string]orderInfo // order id -> info
	filled                                map[string]bool
	fills                                 []fillInfo
}

type orderInfo struct {
	decisionTime  int64
	side          domain.Side
	midAtDecision int64
	queuePosPlace int
}

type fillInfo struct {
	price         int64
	qty           int64
	decisionTime  int64
	fillTime      int64
	midAtDecision int64
	side          domain.Side
}

type bboSnapshot struct {
	tick int64
	bbo  domain.BBO
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		agents:      make(map[string]*agentAccum),
		bboBySymbol: make(map[string][]bboSnapshot),
	}
}

func (c *Collector) accum(clientID string) *agentAccum {
	a, ok := c.agents[clientID]
	if !ok {
		a = &agentAccum{orderInfo: make(map[string]orderInfo), filled: make(map[string]bool)}
		c.agents[clientID] = a
	}
	return a
}

// RecordBBO records symbol's best-bid/offer snapshot at tick, used to
// look up the mid price an agent observed at decision time.
func (c *Collector) RecordBBO(tick int64, symbol string, bbo domain.BBO) {
	c.bboBySymbol[symbol] = append(c.bboBySymbol[symbol], bboSnapshot{tick: tick, bbo: bbo})
}

// RecordOrder records order's release, keyed by symbol for mid lookup.
// Call this after the order has been submitted to the book, so
// order.QueuePosAtRest reflects where it landed if it rested.
func (c *Collector) RecordOrder(order *domain.Order, symbol string) {
	if domain.IsInfrastructure(order.ClientID) {
		return
	}
	a := c.accum(order.ClientID)
	a.ordersSent++
	switch order.Type {
	case domain.LimitOrder:
		a.limitOrders++
	case domain.MarketOrder:
		a.marketOrders++
	}
	a.orderInfo[order.ID] = orderInfo{
		decisionTime:  order.DecisionTime,
		side:          order.Side,
		midAtDecision: c.midAtTick(symbol, order.DecisionTime),
		queuePosPlace: order.QueuePosAtRest,
	}
}

// RecordTrade records one executed trade against both its buy and sell
// client ids.
func (c *Collector) RecordTrade(trade domain.Trade) {
	c.recordFill(trade.BuyClientID, trade.BuyOrderID, trade, domain.Buy)
	c.recordFill(trade.SellClientID, trade.SellOrderID, trade, domain.Sell)
}

func (c *Collector) recordFill(clientID, orderID string, trade domain.Trade, side domain.Side) {
	if domain.IsInfrastructure(clientID) || clientID == "" {
		return
	}
	a := c.accum(clientID)
	a.filled[orderID] = true

	info := a.orderInfo[orderID]
	a.fills = append(a.fills, fillInfo{
		price:         trade.Price,
		qty:           trade.Qty,
		decisionTime:  info.decisionTime,
		fillTime:      trade.Timestamp,
		midAtDecision: info.midAtDecision,
		side:          side,
	})
}

// midAtTick returns the latest BBO mid recorded at or before tick for
// symbol, or 0 if no snapshot exists yet.
func (c *Collector) midAtTick(symbol string, tick int64) int64 {
	snaps := c.bboBySymbol[symbol]
	var mid int64
	for _, s := range snaps {
		if s.tick > tick {
			break
		}
		mid = s.bbo.Mid()
	}
	return mid
}

// Compute derives final AgentMetrics for every tracked client id.
func (c *Collector) Compute() map[string]*AgentMetrics {
	result := make(map[string]*AgentMetrics, len(c.agents))

	for clientID, a := range c.agents {
		m := &AgentMetrics{
			ClientID:     clientID,
			OrdersSent:   a.ordersSent,
			LimitOrders:  a.limitOrders,
			MarketOrders: a.marketOrders,
			TotalFills:   len(a.fills),
		}

		if len(a.orderInfo) > 0 {
			filled := 0
			var queueSum float64
			var queueCount int
			for id, info := range a.orderInfo {
				if a.filled[id] {
					filled++
				}
				if info.queuePosPlace > 0 {
					queueSum += float64(info.queuePosPlace)
					queueCount++
				}
			}
			m.FillRate = float64(filled) / float64(len(a.orderInfo))
			if queueCount > 0 {
				m.AvgQueuePosPlace = queueSum / float64(queueCount)
			}
		}

		var totalNotional, totalSlippage, totalTTF float64
		var totalQty int64
		for _, f := range a.fills {
			totalQty += f.qty
			totalNotional += domain.PriceToFloat(f.price) * float64(f.qty)

			if f.midAtDecision > 0 {
				var slip float64
				if f.side == domain.Buy {
					slip = domain.PriceToFloat(f.price) - domain.PriceToFloat(f.midAtDecision)
				} else {
					slip = domain.PriceToFloat(f.midAtDecision) - domain.PriceToFloat(f.price)
				}
				totalSlippage += slip * float64(f.qty)
				m.SlippageValues = append(m.SlippageValues, slip)
			}

			if f.decisionTime > 0 {
				ttf := float64(f.fillTime - f.decisionTime)
				totalTTF += ttf
				m.TimeToFillDist = append(m.TimeToFillDist, ttf)
			}
		}

		m.TotalQtyFilled = totalQty
		if totalQty > 0 {
			m.AvgExecPrice = totalNotional / float64(totalQty)
			m.AvgSlippage = totalSlippage / float64(totalQty)
			if m.AvgExecPrice > 0 {
				m.SlippageBps = (m.AvgSlippage / m.AvgExecPrice) * 10000
			}
		}
		if len(m.TimeToFillDist) > 0 {
			m.AvgTimeToFillTicks = totalTTF / float64(len(m.TimeToFillDist))
		}

		result[clientID] = m
	}

	return result
}
