package interfaces

import (
	"context"

	"github.com/linagelabs/txos/internal/domain"
)

// LedgerClient is the read/submit capability against the ledger fullnode.
type LedgerClient interface {
	// GetCoins returns one page of coin objects of coinType owned by owner.
	GetCoins(ctx context.Context, owner, coinType string, cursor *string) (*domain.CoinPage, error)

	// GetObject fetches one object with its content.
	GetObject(ctx context.Context, objectID string) (*domain.ObjectData, error)

	// GetOwnedObjectsByType returns one page of objects of structType owned
	// by owner, entries in raw wire shape.
	GetOwnedObjectsByType(ctx context.Context, owner, structType string, cursor *string) (*domain.OwnedObjectPage, error)

	// GetBalance returns the total balance of coinType owned by owner.
	GetBalance(ctx context.Context, owner, coinType string) (uint64, error)

	// SubmitTransaction forwards a signed transaction and returns its digest.
	SubmitTransaction(ctx context.Context, txBytes, signature string) (string, error)
}

// AggregatorClient is the external swap-routing capability.
type AggregatorClient interface {
	// FindRoute asks for a conversion route. A nil route with a nil error
	// means the aggregator has no path for this pair and amount.
	FindRoute(ctx context.Context, from, target string, amount uint64, byAmountIn bool) (*domain.SwapRoute, error)

	// BuildSwapStep appends the route's swap instructions to tx, consuming
	// inputCoin, and returns the argument referencing the output coin.
	BuildSwapStep(tx *domain.Transaction, route *domain.SwapRoute, inputCoin domain.Argument, slippage float64) (domain.Argument, error)
}
