package profileservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/internal/domain/interfaces"
	"github.com/linagelabs/txos/pkg/config"
)

type profileService struct {
	ledger interfaces.LedgerClient
	cfg    config.SuiConfig
	logger zerolog.Logger
}

func New(ledger interfaces.LedgerClient, cfg config.SuiConfig, logger zerolog.Logger) IProfileService {
	return &profileService{
		ledger: ledger,
		cfg:    cfg,
		logger: logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) Snapshot(ctx context.Context, owner string) (*domain.ProfileSnapshot, error) {
	collectibleType := s.cfg.PackageID + "::collectible::HeritageCollectible"
	productType := s.cfg.PackageID + "::merchant::ProductNFT"

	collectibleRaw, err := s.fetchAllOwnedObjects(ctx, owner, collectibleType)
	if err != nil {
		return nil, err
	}
	productRaw, err := s.fetchAllOwnedObjects(ctx, owner, productType)
	if err != nil {
		return nil, err
	}

	collectibles := make([]domain.OwnedCollectible, 0, len(collectibleRaw))
	for _, entry := range collectibleRaw {
		if collectible, ok := domain.ParseOwnedCollectible(entry, collectibleType); ok {
			collectibles = append(collectibles, collectible)
		}
	}

	products := make([]domain.OwnedProduct, 0, len(productRaw))
	for _, entry := range productRaw {
		if product, ok := domain.ParseOwnedProduct(entry, productType); ok {
			products = append(products, product)
		}
	}

	snapshot := &domain.ProfileSnapshot{
		TeaItemCodes:     distinctItemCodes(collectibles),
		CollectibleCount: len(collectibles),
		ProductCount:     len(products),
		Collectibles:     collectibles,
		Products:         products,
	}

	s.logger.Debug().
		Str("owner", owner).
		Int("collectibles", snapshot.CollectibleCount).
		Int("products", snapshot.ProductCount).
		Msg("Built profile snapshot")
	return snapshot, nil
}

// fetchAllOwnedObjects pages through the owned-objects query. The reported
// has-more flag is authoritative: a page may carry a stale cursor alongside
// hasNextPage=false, and the cursor must never keep the loop going on its
// own. A cursor that fails to advance also ends the loop.
func (s *profileService) fetchAllOwnedObjects(ctx context.Context, owner, structType string) ([]map[string]interface{}, error) {
	var entries []map[string]interface{}
	var cursor *string

	for {
		page, err := s.ledger.GetOwnedObjectsByType(ctx, owner, structType, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list owned objects of %s: %w", structType, err)
		}
		entries = append(entries, page.Entries...)

		if !page.HasNextPage {
			break
		}
		if page.NextCursor == nil || (cursor != nil && *page.NextCursor == *cursor) {
			break
		}
		cursor = page.NextCursor
	}
	return entries, nil
}

// distinctItemCodes de-duplicates collectible item codes preserving
// first-seen order.
func distinctItemCodes(collectibles []domain.OwnedCollectible) []string {
	seen := make(map[string]struct{}, len(collectibles))
	codes := make([]string, 0, len(collectibles))
	for _, collectible := range collectibles {
		if _, exists := seen[collectible.ItemCode]; exists {
			continue
		}
		seen[collectible.ItemCode] = struct{}{}
		codes = append(codes, collectible.ItemCode)
	}
	return codes
}
