package orderbook

import "github.com/AtharvaBeesen/MarketSim/internal/domain"

// PriceLevel holds all resting orders at a single price, in FIFO order.
type PriceLevel struct {
	Price  int64
	Orders []*domain.Order
}

// TotalQty returns the sum of remaining quantities at this level.
func (pl *PriceLevel) TotalQty() int64 {
	var total int64
	for _, o := range pl.Orders {
		total += o.RemainingQty
	}
	return total
}

// removeAt evicts the order at index i, preserving FIFO order of the rest.
func (pl *PriceLevel) removeAt(i int) {
	pl.Orders = append(pl.Orders[:i], pl.Orders[i+1:]...)
}

// indexOf returns the position of orderID in the FIFO queue, or -1.
func (pl *PriceLevel) indexOf(orderID string) int {
	for i, o := range pl.Orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}
