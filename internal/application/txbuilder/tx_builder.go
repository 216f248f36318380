package txbuilder

import (
	"context"

	"github.com/linagelabs/txos/internal/domain"
)

// MintParams describes a mint request. InputCoinType, InputAmount and
// Slippage are optional; zero values fall back to the configured defaults.
type MintParams struct {
	Owner         string
	ItemCode      string
	Tribute       string
	InputCoinType string
	InputAmount   uint64
	Slippage      float64
}

// BuyParams describes a purchase of an active listing. InputAmount is
// required; InputCoinType and Slippage fall back to configured defaults.
type BuyParams struct {
	Owner         string
	ListingID     string
	InputCoinType string
	InputAmount   uint64
	Slippage      float64
}

type ITxBuilderService interface {
	// BuildMintTransaction composes the full mint transaction: optional
	// conversion to the settlement coin, then the mint call. It performs
	// chain reads only and never submits.
	BuildMintTransaction(ctx context.Context, params MintParams) (*domain.Transaction, error)

	// BuildBuyTransaction composes the full purchase transaction for one
	// listing, with the same conversion behavior as minting.
	BuildBuyTransaction(ctx context.Context, params BuyParams) (*domain.Transaction, error)

	// SubmitSigned verifies the sender can cover the gas budget, then
	// forwards the signed transaction and returns its digest.
	SubmitSigned(ctx context.Context, owner, txBytes, signature string) (string, error)
}
