package txbuilder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/internal/domain/interfaces"
	"github.com/linagelabs/txos/pkg/cointype"
	"github.com/linagelabs/txos/pkg/config"
	"github.com/linagelabs/txos/pkg/currency"
)

type txBuilderService struct {
	ledger     interfaces.LedgerClient
	aggregator interfaces.AggregatorClient
	cfg        config.SuiConfig
	logger     zerolog.Logger
}

func New(
	ledger interfaces.LedgerClient,
	aggregator interfaces.AggregatorClient,
	cfg config.SuiConfig,
	logger zerolog.Logger,
) ITxBuilderService {
	return &txBuilderService{
		ledger:     ledger,
		aggregator: aggregator,
		cfg:        cfg,
		logger:     logger.With().Str("component", "tx_builder").Logger(),
	}
}

func (s *txBuilderService) BuildMintTransaction(ctx context.Context, params MintParams) (*domain.Transaction, error) {
	if params.Owner == "" {
		return nil, fmt.Errorf("owner address is required")
	}
	if params.ItemCode == "" {
		return nil, fmt.Errorf("item code is required")
	}

	inputCoinType := params.InputCoinType
	if inputCoinType == "" {
		inputCoinType = s.cfg.DefaultInputCoinType
	}
	inputAmount := params.InputAmount
	if inputAmount == 0 {
		inputAmount = s.cfg.DefaultMintInputAmount
	}
	slippage := s.slippageOrDefault(params.Slippage)

	settlementType, tx := s.begin(ctx, params.Owner)
	settlementCoin, err := s.swapToSettlement(ctx, tx, params.Owner, inputCoinType, inputAmount, slippage, settlementType)
	if err != nil {
		return nil, err
	}

	tx.MoveCall(
		s.cfg.PackageID+"::collectible::mint_collectible_usdc",
		[]string{settlementType},
		[]domain.Argument{
			domain.ObjectArg(s.cfg.PlatformConfigID),
			domain.ObjectArg(s.cfg.CollectibleRegistryID),
			domain.PureArg(params.ItemCode),
			domain.PureArg(params.Tribute),
			settlementCoin,
		},
	)

	s.logger.Info().
		Str("owner", params.Owner).
		Str("item_code", params.ItemCode).
		Str("input_coin_type", inputCoinType).
		Uint64("input_amount", inputAmount).
		Msg("Built mint transaction")
	return tx, nil
}

func (s *txBuilderService) BuildBuyTransaction(ctx context.Context, params BuyParams) (*domain.Transaction, error) {
	if params.Owner == "" {
		return nil, fmt.Errorf("owner address is required")
	}
	if params.ListingID == "" {
		return nil, fmt.Errorf("listing id is required")
	}
	if params.InputAmount == 0 {
		return nil, fmt.Errorf("input amount is required")
	}

	inputCoinType := params.InputCoinType
	if inputCoinType == "" {
		inputCoinType = s.cfg.DefaultInputCoinType
	}
	slippage := s.slippageOrDefault(params.Slippage)

	settlementType, tx := s.begin(ctx, params.Owner)
	settlementCoin, err := s.swapToSettlement(ctx, tx, params.Owner, inputCoinType, params.InputAmount, slippage, settlementType)
	if err != nil {
		return nil, err
	}

	tx.MoveCall(
		s.cfg.PackageID+"::market::buy_listing_usdc",
		[]string{settlementType},
		[]domain.Argument{
			domain.ObjectArg(s.cfg.PlatformConfigID),
			domain.ObjectArg(s.cfg.MarketplaceID),
			domain.ObjectArg(params.ListingID),
			settlementCoin,
		},
	)

	s.logger.Info().
		Str("owner", params.Owner).
		Str("listing_id", params.ListingID).
		Str("input_coin_type", inputCoinType).
		Uint64("input_amount", params.InputAmount).
		Msg("Built buy transaction")
	return tx, nil
}

// SubmitSigned guards against the late gas failure mode: the wallet signs
// happily even when the address cannot fund the gas budget, and the abort
// then only surfaces at execution. Check the spendable base-asset balance
// up front with a readable message instead.
func (s *txBuilderService) SubmitSigned(ctx context.Context, owner, txBytes, signature string) (string, error) {
	gasBalance, err := s.ledger.GetBalance(ctx, owner, cointype.SuiCoinType)
	if err != nil {
		return "", fmt.Errorf("failed to check gas balance: %w", err)
	}
	if gasBalance < s.cfg.DefaultTxGasBudget {
		return "", fmt.Errorf("insufficient SUI for gas: address %s has %s spendable, minimum required is %s",
			owner,
			currency.FormatForDisplay(cointype.SuiCoinType, gasBalance),
			currency.FormatForDisplay(cointype.SuiCoinType, s.cfg.DefaultTxGasBudget),
		)
	}
	return s.ledger.SubmitTransaction(ctx, txBytes, signature)
}

// begin resolves the settlement coin type and opens an empty transaction.
func (s *txBuilderService) begin(ctx context.Context, owner string) (string, *domain.Transaction) {
	settlementType := s.resolveSettlementCoinType(ctx)
	return settlementType, domain.NewTransaction(owner, s.cfg.DefaultTxGasBudget)
}

// resolveSettlementCoinType prefers the settlement coin registered in the
// on-chain platform config over the locally configured value, which can go
// stale after an on-chain admin update. Any failure to read or recognize the
// on-chain shape degrades to the configured fallback rather than blocking
// the whole flow.
func (s *txBuilderService) resolveSettlementCoinType(ctx context.Context) string {
	fallback := cointype.Canonical(s.cfg.USDCCoinType)

	object, err := s.ledger.GetObject(ctx, s.cfg.PlatformConfigID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Platform config fetch failed, using configured settlement coin")
		return fallback
	}
	if object == nil || object.Content == nil || object.Content.DataType != domain.MoveObjectDataType {
		return fallback
	}

	usdcType, ok := domain.AsRecord(object.Content.Fields["usdc_type"])
	if !ok {
		return fallback
	}
	typeFields, ok := domain.AsRecord(usdcType["fields"])
	if !ok {
		return fallback
	}
	name, ok := domain.AsString(typeFields["name"])
	if !ok {
		return fallback
	}

	resolved := cointype.Canonical(name)
	if resolved != fallback {
		s.logger.Info().
			Str("configured", fallback).
			Str("on_chain", resolved).
			Msg("On-chain settlement coin differs from configuration, preferring on-chain value")
	}
	return resolved
}

// swapToSettlement produces the settlement-coin argument for the domain call.
// It is the single code path carrying both the plain balance pre-check and
// the gas-budget margin: whenever the input coin is the base asset, gas for
// this same transaction competes with the payment, so the requirement is
// amount plus gas budget.
func (s *txBuilderService) swapToSettlement(
	ctx context.Context,
	tx *domain.Transaction,
	owner string,
	inputCoinType string,
	amount uint64,
	slippage float64,
	settlementType string,
) (domain.Argument, error) {
	inputIsSui := cointype.Same(inputCoinType, cointype.SuiCoinType)
	bypass := cointype.Same(inputCoinType, settlementType)

	required := amount
	if inputIsSui {
		required += s.cfg.DefaultTxGasBudget
	}

	if bypass && inputIsSui {
		// Settlement in the base asset: the coin comes straight from the gas
		// pool, so a single balance read replaces the coin listing.
		balance, err := s.ledger.GetBalance(ctx, owner, inputCoinType)
		if err != nil {
			return domain.Argument{}, fmt.Errorf("failed to fetch balance: %w", err)
		}
		if err := currency.EnsureSufficientBalance(inputCoinType, balance, required, owner); err != nil {
			return domain.Argument{}, err
		}
		return tx.SplitCoins(domain.GasCoinArg(), []uint64{amount}), nil
	}

	coins, err := s.loadAllCoins(ctx, owner, inputCoinType)
	if err != nil {
		return domain.Argument{}, err
	}
	var available uint64
	for _, coin := range coins {
		available += coin.Balance
	}
	if err := currency.EnsureSufficientBalance(inputCoinType, available, required, owner); err != nil {
		return domain.Argument{}, err
	}

	inputCoin, err := s.buildInputCoin(tx, coins, amount)
	if err != nil {
		return domain.Argument{}, err
	}
	if bypass {
		return inputCoin, nil
	}

	route, err := s.aggregator.FindRoute(ctx, inputCoinType, settlementType, amount, true)
	if err != nil {
		return domain.Argument{}, fmt.Errorf("failed to find swap route: %w", err)
	}
	if route == nil {
		return domain.Argument{}, domain.ErrNoRoute
	}
	if route.Error != nil {
		return domain.Argument{}, route.Error
	}
	if route.InsufficientLiquidity {
		return domain.Argument{}, domain.ErrInsufficientLiquidity
	}

	return s.aggregator.BuildSwapStep(tx, route, inputCoin, slippage)
}

// buildInputCoin merges the selected coin objects into one and splits off
// exactly amount, returning the split result.
func (s *txBuilderService) buildInputCoin(tx *domain.Transaction, coins []domain.CoinRecord, amount uint64) (domain.Argument, error) {
	selected, err := domain.SelectCoinsForPayment(coins, amount)
	if err != nil {
		return domain.Argument{}, err
	}

	primary := domain.ObjectArg(selected[0].ObjectID)
	if len(selected) > 1 {
		sources := make([]domain.Argument, 0, len(selected)-1)
		for _, coin := range selected[1:] {
			sources = append(sources, domain.ObjectArg(coin.ObjectID))
		}
		tx.MergeCoins(primary, sources)
	}
	return tx.SplitCoins(primary, []uint64{amount}), nil
}

// loadAllCoins pages through the coin listing. The has-more flag is the only
// continuation signal; a cursor that fails to advance ends the loop rather
// than spinning on it.
func (s *txBuilderService) loadAllCoins(ctx context.Context, owner, coinType string) ([]domain.CoinRecord, error) {
	var coins []domain.CoinRecord
	var cursor *string

	for {
		page, err := s.ledger.GetCoins(ctx, owner, coinType, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list coins: %w", err)
		}
		coins = append(coins, page.Coins...)

		if !page.HasNextPage {
			break
		}
		if page.NextCursor == nil || (cursor != nil && *page.NextCursor == *cursor) {
			break
		}
		cursor = page.NextCursor
	}
	return coins, nil
}

func (s *txBuilderService) slippageOrDefault(slippage float64) float64 {
	if slippage <= 0 || slippage >= 1 {
		return s.cfg.DefaultSwapSlippage
	}
	return slippage
}
