package marketindex

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/internal/domain/interfaces"
	"github.com/linagelabs/txos/pkg/config"
)

type marketIndexService struct {
	ledger interfaces.LedgerClient
	cfg    config.SuiConfig
	logger zerolog.Logger
}

func New(ledger interfaces.LedgerClient, cfg config.SuiConfig, logger zerolog.Logger) IMarketIndexService {
	return &marketIndexService{
		ledger: ledger,
		cfg:    cfg,
		logger: logger.With().Str("component", "market_index").Logger(),
	}
}

func (s *marketIndexService) CheapestActiveListing(ctx context.Context, category int) (domain.ActiveListingRef, bool, error) {
	object, err := s.ledger.GetObject(ctx, s.cfg.MarketplaceID)
	if err != nil {
		return domain.ActiveListingRef{}, false, fmt.Errorf("failed to fetch marketplace object: %w", err)
	}
	if object == nil || object.Content == nil || object.Content.DataType != domain.MoveObjectDataType {
		return domain.ActiveListingRef{}, false, nil
	}

	ref, found := domain.PickCheapestActiveListing(object.Content.Fields, category)
	if found {
		s.logger.Debug().
			Str("listing_id", ref.ListingID).
			Int("category", category).
			Uint64("ask_amount", ref.AskAmount).
			Msg("Selected cheapest active listing")
	}
	return ref, found, nil
}
