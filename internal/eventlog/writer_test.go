package eventlog

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AtharvaBeesen/MarketSim/internal/domain"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)

	order := &domain.Order{ID: "o1", ClientID: "MM-0", Symbol: "ABC", Side: domain.Buy, Type: domain.LimitOrder, Price: 1000000, Qty: 5}
	trade := domain.Trade{ID: "t1", Symbol: "ABC", Price: 1000000, Qty: 5, BuyClientID: "MM-0", SellClientID: "TF-0"}
	bbo := domain.BBO{BidPrice: 999000, AskPrice: 1001000}

	require.NoError(t, w.WriteOrderReleased(0, order))
	require.NoError(t, w.WriteTrade(1, trade))
	require.NoError(t, w.WriteBBO(1, "ABC", bbo))
	require.Equal(t, uint64(3), w.Count())
	require.NoError(t, w.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, KindOrderReleased, records[0].Kind)
	require.Equal(t, "o1", records[0].Order.ID)
	require.Equal(t, KindTrade, records[1].Kind)
	require.Equal(t, "t1", records[1].Trade.ID)
	require.Equal(t, KindBBO, records[2].Kind)
	require.Equal(t, int64(999000), records[2].BBO.BidPrice)
}

func TestReaderReturnsEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	require.ErrorIs(t, err, io.EOF)
}
