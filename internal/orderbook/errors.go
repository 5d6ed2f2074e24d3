package orderbook

import (
	"errors"
	"fmt"
)

// Sentinel errors for the hard-error cases in spec.md §7. ErrDuplicateID
// and ErrBadOrder are fatal to the submission: the order is rejected
// before matching or resting. ErrNotFound is returned by Cancel.
var (
	ErrDuplicateID = errors.New("orderbook: duplicate order id")
	ErrBadOrder    = errors.New("orderbook: invalid order")
	ErrNotFound    = errors.New("orderbook: order not found")
)

// InsufficientLiquidityError is the non-fatal signal §7 describes: a
// MARKET order exhausted the opposite side with quantity left unfilled.
// The trades already executed for the submission are still valid and are
// returned alongside this error, not discarded.
type InsufficientLiquidityError struct {
	OrderID   string
	Requested int64
	Filled    int64
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("orderbook: order %s filled %d of %d requested, book exhausted",
		e.OrderID, e.Filled, e.Requested)
}
