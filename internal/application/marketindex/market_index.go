package marketindex

import (
	"context"

	"github.com/linagelabs/txos/internal/domain"
)

type IMarketIndexService interface {
	// CheapestActiveListing fetches the marketplace object and returns the
	// cheapest active listing in the requested category, or found=false when
	// no listing qualifies.
	CheapestActiveListing(ctx context.Context, category int) (domain.ActiveListingRef, bool, error)
}
