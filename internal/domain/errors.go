package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds is returned by coin selection when the owned coin
	// objects cannot cover the required amount. Callers should prefer a
	// balance pre-check first; its error carries better diagnostics.
	ErrInsufficientFunds = errors.New("insufficient coin balance to cover required amount")

	// ErrNoRoute is returned when the aggregator has no conversion path for
	// the requested pair and amount.
	ErrNoRoute = errors.New("aggregator returned no route")

	// ErrInsufficientLiquidity is returned when a route exists but its pools
	// cannot absorb the requested amount.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for selected swap path")
)

// RouterError is an explicit error reported by the aggregator alongside a
// route response.
type RouterError struct {
	Code    int
	Message string
}

func (e *RouterError) Error() string {
	return fmt.Sprintf("router error %d: %s", e.Code, e.Message)
}
