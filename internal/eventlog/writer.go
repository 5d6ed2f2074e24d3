// Package eventlog provides an append-only JSON-lines audit trail of a
// run: every order release, trade, and BBO snapshot, in tick order. It
// backs the replay CLI verb and the P7 determinism check (two runs with
// the same seed must produce byte-identical logs).
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
)

// Kind discriminates the three record shapes a Record can carry.
type Kind string

const (
	KindOrderReleased Kind = "order_released"
	KindTrade         Kind = "trade"
	KindBBO           Kind = "bbo"
)

// Record is one line of the event log. Exactly one of Order, Trade, BBO
// is populated, matching Kind.
type Record struct {
	Tick   int64         `json:"tick"`
	Kind   Kind          `json:"kind"`
	Symbol string        `json:"symbol"`
	Order  *domain.Order `json:"order,omitempty"`
	Trade  *domain.Trade `json:"trade,omitempty"`
	BBO    *domain.BBO   `json:"bbo,omitempty"`
}

// Writer appends Records as JSON lines to a file.
type Writer struct {
	file   *os.File
	writer *bufio.Writer
	count  uint64
}

// NewWriter creates a new event log writer at path, truncating any
// existing file.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: create: %w", err)
	}
	return &Writer{file: f, writer: bufio.NewWriterSize(f, 64*1024)}, nil
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("eventlog: marshal: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return err
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// WriteOrderReleased logs an order's release from the latency queue.
func (w *Writer) WriteOrderReleased(tick int64, order *domain.Order) error {
	return w.Write(Record{Tick: tick, Kind: KindOrderReleased, Symbol: order.Symbol, Order: order})
}

// WriteTrade logs one executed trade.
func (w *Writer) WriteTrade(tick int64, trade domain.Trade) error {
	t := trade
	return w.Write(Record{Tick: tick, Kind: KindTrade, Symbol: trade.Symbol, Trade: &t})
}

// WriteBBO logs a post-tick best-bid/offer snapshot for symbol.
func (w *Writer) WriteBBO(tick int64, symbol string, bbo domain.BBO) error {
	b := bbo
	return w.Write(Record{Tick: tick, Kind: KindBBO, Symbol: symbol, BBO: &b})
}

// Count returns the number of records written so far.
func (w *Writer) Count() uint64 { return w.count }

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Reader reads Records back from a JSON-lines event log.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
}

// NewReader opens an event log for reading.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open: %w", err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 256*1024), 4*1024*1024)
	return &Reader{file: f, scanner: scanner}, nil
}

// Next reads the next record, or returns io.EOF at end of log.
func (r *Reader) Next() (Record, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return Record{}, err
		}
		return Record{}, io.EOF
	}
	var rec Record
	if err := json.Unmarshal(r.scanner.Bytes(), &rec); err != nil {
		return Record{}, fmt.Errorf("eventlog: unmarshal: %w", err)
	}
	return rec, nil
}

// ReadAll reads every record in the log.
func (r *Reader) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// Close closes the log file.
func (r *Reader) Close() error {
	return r.file.Close()
}
