// Package metrics accumulates the simulation's two observability
// surfaces: a per-tick pnl/inventory/nav Recorder, and a generalized
// execution-quality Collector (fill rate, slippage, time-to-fill, queue
// position) over an arbitrary list of agents.
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
)

// Row is one tick's recorded pnl/inventory/nav for one agent.
type Row struct {
	Step      int
	ClientID  string
	PnL       int64
	Inventory int64
	NAV       int64
}

// Recorder accumulates per-tick Rows for later CSV export.
type Recorder struct {
	rows []Row
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append records one agent's pnl/inventory/nav at step.
func (r *Recorder) Append(step int, clientID string, pnl, inventory, nav int64) {
	r.rows = append(r.rows, Row{Step: step, ClientID: clientID, PnL: pnl, Inventory: inventory, NAV: nav})
}

// Rows returns every recorded row, in append order.
func (r *Recorder) Rows() []Row { return r.rows }

// WriteCSV writes the accumulated rows to path in wide format: one
// column triple ({cid}_pnl, {cid}_inv, {cid}_nav) per agent, one row per
// step. Agents are ordered alphabetically by client id for a stable
// column layout across runs. PnL and NAV are fixed-point, scaled by
// domain.PriceScale, so they are converted back to plain decimal before
// being written; Inventory is a raw share count and needs no conversion.
func (r *Recorder) WriteCSV(path string) error {
	byStep := make(map[int]map[string]Row)
	clientSet := make(map[string]struct{})
	for _, row := range r.rows {
		if byStep[row.Step] == nil {
			byStep[row.Step] = make(map[string]Row)
		}
		byStep[row.Step][row.ClientID] = row
		clientSet[row.ClientID] = struct{}{}
	}

	clients := make([]string, 0, len(clientSet))
	for c := range clientSet {
		clients = append(clients, c)
	}
	sort.Strings(clients)

	steps := make([]int, 0, len(byStep))
	for s := range byStep {
		steps = append(steps, s)
	}
	sort.Ints(steps)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("metrics: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"step"}
	for _, c := range clients {
		header = append(header, c+"_pnl", c+"_inv", c+"_nav")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, step := range steps {
		record := []string{strconv.Itoa(step)}
		rows := byStep[step]
		for _, c := range clients {
			row, ok := rows[c]
			if !ok {
				record = append(record, "", "", "")
				continue
			}
			record = append(record,
				strconv.FormatFloat(domain.PriceToFloat(row.PnL), 'f', 4, 64),
				strconv.FormatInt(row.Inventory, 10),
				strconv.FormatFloat(domain.PriceToFloat(row.NAV), 'f', 4, 64),
			)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
