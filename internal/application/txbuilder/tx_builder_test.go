package txbuilder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/pkg/config"
	"github.com/linagelabs/txos/pkg/currency"
)

const (
	testOwner     = "0x4444444444444444444444444444444444444444444444444444444444444444"
	testListingID = "0x5555555555555555555555555555555555555555555555555555555555555555"
	testUSDCType  = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee::usdc::USDC"
	suiType       = "0x2::sui::SUI"
)

// --- fakes ---

type fakeLedger struct {
	balances    map[string]uint64
	coinPages   map[string][]domain.CoinPage
	object      *domain.ObjectData
	objectErr   error
	digest      string
	submitErr   error
	getCoins    int
	getBalance  int
	getObject   int
	submits     int
	seenCursors []*string
}

func (f *fakeLedger) GetCoins(_ context.Context, _, coinType string, cursor *string) (*domain.CoinPage, error) {
	f.seenCursors = append(f.seenCursors, cursor)
	pages := f.coinPages[coinType]
	if len(pages) == 0 {
		return &domain.CoinPage{}, nil
	}
	idx := f.getCoins
	f.getCoins++
	if idx >= len(pages) {
		idx = len(pages) - 1
	}
	page := pages[idx]
	return &page, nil
}

func (f *fakeLedger) GetObject(_ context.Context, _ string) (*domain.ObjectData, error) {
	f.getObject++
	if f.objectErr != nil {
		return nil, f.objectErr
	}
	return f.object, nil
}

func (f *fakeLedger) GetOwnedObjectsByType(_ context.Context, _, _ string, _ *string) (*domain.OwnedObjectPage, error) {
	return &domain.OwnedObjectPage{}, nil
}

func (f *fakeLedger) GetBalance(_ context.Context, _, coinType string) (uint64, error) {
	f.getBalance++
	return f.balances[coinType], nil
}

func (f *fakeLedger) SubmitTransaction(_ context.Context, _, _ string) (string, error) {
	f.submits++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.digest, nil
}

type fakeAggregator struct {
	route      *domain.SwapRoute
	routeErr   error
	swapErr    error
	findRoutes int
	swapSteps  int
}

func (f *fakeAggregator) FindRoute(_ context.Context, _, _ string, _ uint64, _ bool) (*domain.SwapRoute, error) {
	f.findRoutes++
	return f.route, f.routeErr
}

func (f *fakeAggregator) BuildSwapStep(tx *domain.Transaction, _ *domain.SwapRoute, inputCoin domain.Argument, _ float64) (domain.Argument, error) {
	f.swapSteps++
	if f.swapErr != nil {
		return domain.Argument{}, f.swapErr
	}
	return tx.MoveCall("0xrouter::pool::swap", nil, []domain.Argument{inputCoin}), nil
}

// --- helpers ---

func testSuiConfig() config.SuiConfig {
	return config.SuiConfig{
		Network:                "testnet",
		RPCURLs:                map[string]string{"testnet": "http://localhost:9000"},
		PackageID:              "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		PlatformConfigID:       "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		MarketplaceID:          "0xcccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc",
		CollectibleRegistryID:  "0xdddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddddd",
		USDCCoinType:           testUSDCType,
		DefaultInputCoinType:   suiType,
		DefaultMintInputAmount: 100_000_000,
		DefaultSwapSlippage:    0.01,
		DefaultTxGasBudget:     100_000_000,
	}
}

func newService(ledger *fakeLedger, aggregator *fakeAggregator, cfg config.SuiConfig) ITxBuilderService {
	return New(ledger, aggregator, cfg, zerolog.Nop())
}

func platformConfigObject(typeName string) *domain.ObjectData {
	return &domain.ObjectData{
		ObjectID: "0xbbbb",
		Content: &domain.ObjectContent{
			DataType: domain.MoveObjectDataType,
			Fields: map[string]interface{}{
				"usdc_type": map[string]interface{}{
					"fields": map[string]interface{}{
						"name": typeName,
					},
				},
			},
		},
	}
}

func singleCoinPage(coinType, objectID string, balance uint64) map[string][]domain.CoinPage {
	return map[string][]domain.CoinPage{coinType: {{
		Coins: []domain.CoinRecord{{CoinType: coinType, ObjectID: objectID, Balance: balance}},
	}}}
}

func findGasSplit(tx *domain.Transaction) *domain.Command {
	for i, cmd := range tx.Commands {
		if cmd.Kind == domain.CmdSplitCoins && cmd.Coin != nil && cmd.Coin.Kind == domain.ArgGasCoin {
			return &tx.Commands[i]
		}
	}
	return nil
}

func findMoveCall(tx *domain.Transaction, target string) *domain.Command {
	for i, cmd := range tx.Commands {
		if cmd.Kind == domain.CmdMoveCall && cmd.Target == target {
			return &tx.Commands[i]
		}
	}
	return nil
}

// --- settlement resolution ---

func TestResolveSettlement_PrefersOnChainValue(t *testing.T) {
	// Config points at a stale USDC type; on-chain platform config says the
	// settlement coin is SUI. The build must bypass the aggregator entirely.
	ledger := &fakeLedger{
		balances: map[string]uint64{suiType: 500_000_000},
		object: platformConfigObject(
			"0000000000000000000000000000000000000000000000000000000000000002::sui::SUI",
		),
	}
	aggregator := &fakeAggregator{}
	svc := newService(ledger, aggregator, testSuiConfig())

	tx, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	require.NoError(t, err)

	assert.Zero(t, aggregator.findRoutes)
	assert.Zero(t, aggregator.swapSteps)

	buyCall := findMoveCall(tx, testSuiConfig().PackageID+"::market::buy_listing_usdc")
	require.NotNil(t, buyCall)
	assert.Equal(t, []string{"0x2::sui::SUI"}, buyCall.TypeArguments)
}

func TestResolveSettlement_FallsBackOnFetchError(t *testing.T) {
	ledger := &fakeLedger{
		objectErr: errors.New("rpc unavailable"),
		coinPages: singleCoinPage(testUSDCType, "0x1", 200_000_000),
	}
	aggregator := &fakeAggregator{}
	svc := newService(ledger, aggregator, testSuiConfig())

	// Paying directly in the configured settlement coin: resolver degrades to
	// the fallback and the aggregator is bypassed.
	tx, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:         testOwner,
		ListingID:     testListingID,
		InputCoinType: testUSDCType,
		InputAmount:   100_000_000,
	})
	require.NoError(t, err)
	assert.Zero(t, aggregator.findRoutes)

	buyCall := findMoveCall(tx, testSuiConfig().PackageID+"::market::buy_listing_usdc")
	require.NotNil(t, buyCall)
	assert.Equal(t, []string{"0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee::usdc::USDC"}, buyCall.TypeArguments)
}

func TestResolveSettlement_FallsBackOnUnexpectedShape(t *testing.T) {
	tests := []struct {
		name   string
		object *domain.ObjectData
	}{
		{"nil content", &domain.ObjectData{}},
		{"not a move object", &domain.ObjectData{Content: &domain.ObjectContent{DataType: "package"}}},
		{"missing usdc_type", &domain.ObjectData{Content: &domain.ObjectContent{
			DataType: domain.MoveObjectDataType,
			Fields:   map[string]interface{}{},
		}}},
		{"missing name", &domain.ObjectData{Content: &domain.ObjectContent{
			DataType: domain.MoveObjectDataType,
			Fields: map[string]interface{}{
				"usdc_type": map[string]interface{}{"fields": map[string]interface{}{}},
			},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &fakeLedger{
				object:    tt.object,
				coinPages: singleCoinPage(testUSDCType, "0x1", 200_000_000),
			}
			aggregator := &fakeAggregator{}
			svc := newService(ledger, aggregator, testSuiConfig())

			_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
				Owner:         testOwner,
				ListingID:     testListingID,
				InputCoinType: testUSDCType,
				InputAmount:   100_000_000,
			})
			require.NoError(t, err)
			assert.Zero(t, aggregator.findRoutes, "configured fallback must bypass the swap")
		})
	}
}

// --- bypass paths ---

func TestConvert_BaseAssetBypass_GasSplitOnly(t *testing.T) {
	// Input == settlement == SUI with balance covering amount + gas budget:
	// one balance read, a gas split, no coin listing, no aggregator calls.
	ledger := &fakeLedger{
		balances: map[string]uint64{suiType: 200_000_000},
		object:   platformConfigObject("0x2::sui::SUI"),
	}
	aggregator := &fakeAggregator{}
	svc := newService(ledger, aggregator, testSuiConfig())

	tx, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	require.NoError(t, err)

	gasSplit := findGasSplit(tx)
	require.NotNil(t, gasSplit, "expected a split from the gas coin")
	assert.Equal(t, []uint64{100_000_000}, gasSplit.Amounts)

	assert.Equal(t, 1, ledger.getBalance)
	assert.Zero(t, ledger.getCoins, "no coin-listing read beyond the balance check")
	assert.Zero(t, aggregator.findRoutes)
	assert.Zero(t, aggregator.swapSteps)
}

func TestConvert_BaseAssetBypass_RequiresAmountPlusGasBudget(t *testing.T) {
	// 150M balance cannot cover 100M amount + 100M gas budget.
	ledger := &fakeLedger{
		balances: map[string]uint64{suiType: 150_000_000},
		object:   platformConfigObject("0x2::sui::SUI"),
	}
	svc := newService(ledger, &fakeAggregator{}, testSuiConfig())

	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.2 SUI")
	assert.Contains(t, err.Error(), "0.15 SUI")
	assert.Contains(t, err.Error(), testOwner)

	var insufficient *currency.InsufficientBalanceError
	assert.ErrorAs(t, err, &insufficient)
}

func TestConvert_SettlementCoinBypass_MergesAndSplits(t *testing.T) {
	// Paying directly in a non-base settlement coin: selected coin objects
	// are merged and the exact amount split off, no aggregator involved.
	ledger := &fakeLedger{
		object: platformConfigObject(testUSDCType),
		coinPages: map[string][]domain.CoinPage{
			testUSDCType: {{
				Coins: []domain.CoinRecord{
					{CoinType: testUSDCType, ObjectID: "0x1", Balance: 300_000_000},
					{CoinType: testUSDCType, ObjectID: "0x2", Balance: 300_000_000},
				},
			}},
		},
	}
	aggregator := &fakeAggregator{}
	svc := newService(ledger, aggregator, testSuiConfig())

	tx, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:         testOwner,
		ListingID:     testListingID,
		InputCoinType: testUSDCType,
		InputAmount:   500_000_000,
	})
	require.NoError(t, err)
	assert.Zero(t, aggregator.findRoutes)
	assert.Zero(t, ledger.getBalance, "non-base bypass lists coins instead of reading the balance")

	var merges, splits int
	for _, cmd := range tx.Commands {
		switch cmd.Kind {
		case domain.CmdMergeCoins:
			merges++
		case domain.CmdSplitCoins:
			splits++
			assert.Equal(t, []uint64{500_000_000}, cmd.Amounts)
		}
	}
	assert.Equal(t, 1, merges)
	assert.Equal(t, 1, splits)
}

// --- routed swap path ---

func routedLedger(suiBalance uint64) *fakeLedger {
	return &fakeLedger{
		object: platformConfigObject(testUSDCType),
		coinPages: map[string][]domain.CoinPage{
			suiType: {{
				Coins: []domain.CoinRecord{{CoinType: suiType, ObjectID: "0x9", Balance: suiBalance}},
			}},
		},
	}
}

func TestConvert_RoutedSwap_Success(t *testing.T) {
	ledger := routedLedger(400_000_000)
	aggregator := &fakeAggregator{
		route: &domain.SwapRoute{AmountIn: 100_000_000, AmountOut: 95_000, Paths: []domain.SwapPath{{PoolID: "0xpool"}}},
	}
	svc := newService(ledger, aggregator, testSuiConfig())

	tx, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, aggregator.findRoutes)
	assert.Equal(t, 1, aggregator.swapSteps)

	buyCall := findMoveCall(tx, testSuiConfig().PackageID+"::market::buy_listing_usdc")
	require.NotNil(t, buyCall)
	require.Len(t, buyCall.Arguments, 4)
	assert.Equal(t, domain.ArgResult, buyCall.Arguments[3].Kind, "settlement coin comes from the swap step")
}

func TestConvert_RoutedSwap_GasMarginStillApplies(t *testing.T) {
	// Swapping SUI into USDC still competes with gas: 150M balance cannot
	// cover 100M input + 100M gas budget even though the swap itself could.
	ledger := routedLedger(150_000_000)
	aggregator := &fakeAggregator{
		route: &domain.SwapRoute{AmountIn: 100_000_000, AmountOut: 95_000, Paths: []domain.SwapPath{{PoolID: "0xpool"}}},
	}
	svc := newService(ledger, aggregator, testSuiConfig())

	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.2 SUI")
	assert.Contains(t, err.Error(), "0.15 SUI")
	assert.Zero(t, aggregator.findRoutes, "balance pre-check fails before any aggregator call")
}

func TestConvert_NoRoute(t *testing.T) {
	svc := newService(routedLedger(400_000_000), &fakeAggregator{route: nil}, testSuiConfig())

	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	assert.ErrorIs(t, err, domain.ErrNoRoute)
}

func TestConvert_RouterError(t *testing.T) {
	aggregator := &fakeAggregator{
		route: &domain.SwapRoute{Error: &domain.RouterError{Code: 1203, Message: "Slippage tolerance exceeded"}},
	}
	svc := newService(routedLedger(400_000_000), aggregator, testSuiConfig())

	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	require.Error(t, err)

	var routerErr *domain.RouterError
	require.ErrorAs(t, err, &routerErr)
	assert.Equal(t, 1203, routerErr.Code)
	assert.Equal(t, "router error 1203: Slippage tolerance exceeded", err.Error())
}

func TestConvert_InsufficientLiquidity(t *testing.T) {
	aggregator := &fakeAggregator{route: &domain.SwapRoute{InsufficientLiquidity: true}}
	svc := newService(routedLedger(400_000_000), aggregator, testSuiConfig())

	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:       testOwner,
		ListingID:   testListingID,
		InputAmount: 100_000_000,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientLiquidity)
}

// --- mint ---

func TestBuildMint_AppliesConfiguredDefaults(t *testing.T) {
	ledger := &fakeLedger{
		balances: map[string]uint64{suiType: 500_000_000},
		object:   platformConfigObject("0x2::sui::SUI"),
	}
	svc := newService(ledger, &fakeAggregator{}, testSuiConfig())

	tx, err := svc.BuildMintTransaction(context.Background(), MintParams{
		Owner:    testOwner,
		ItemCode: "TEA-LONGJING-001",
		Tribute:  "for the mountain mists",
	})
	require.NoError(t, err)
	assert.Equal(t, testOwner, tx.Sender)
	assert.Equal(t, uint64(100_000_000), tx.GasBudget)

	gasSplit := findGasSplit(tx)
	require.NotNil(t, gasSplit, "default input coin is the base asset")
	assert.Equal(t, []uint64{100_000_000}, gasSplit.Amounts, "default mint amount applied")

	mintCall := findMoveCall(tx, testSuiConfig().PackageID+"::collectible::mint_collectible_usdc")
	require.NotNil(t, mintCall)
	require.Len(t, mintCall.Arguments, 5)
	assert.Equal(t, testSuiConfig().PlatformConfigID, mintCall.Arguments[0].ObjectID)
	assert.Equal(t, testSuiConfig().CollectibleRegistryID, mintCall.Arguments[1].ObjectID)
	assert.Equal(t, "TEA-LONGJING-001", mintCall.Arguments[2].Pure)
	assert.Equal(t, "for the mountain mists", mintCall.Arguments[3].Pure)
}

func TestBuildMint_RequiresOwnerAndItemCode(t *testing.T) {
	svc := newService(&fakeLedger{}, &fakeAggregator{}, testSuiConfig())

	_, err := svc.BuildMintTransaction(context.Background(), MintParams{ItemCode: "X"})
	assert.Error(t, err)

	_, err = svc.BuildMintTransaction(context.Background(), MintParams{Owner: testOwner})
	assert.Error(t, err)
}

func TestBuildBuy_RequiresAmount(t *testing.T) {
	svc := newService(&fakeLedger{}, &fakeAggregator{}, testSuiConfig())

	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:     testOwner,
		ListingID: testListingID,
	})
	assert.Error(t, err)
}

// --- coin listing pagination ---

func TestLoadAllCoins_StopsOnHasNextPageFalse(t *testing.T) {
	sticky := "cursor-1"
	ledger := &fakeLedger{
		object: platformConfigObject(testUSDCType),
		coinPages: map[string][]domain.CoinPage{
			testUSDCType: {
				{
					Coins:       []domain.CoinRecord{{CoinType: testUSDCType, ObjectID: "0x1", Balance: 60_000_000}},
					NextCursor:  &sticky,
					HasNextPage: true,
				},
				{
					Coins: []domain.CoinRecord{{CoinType: testUSDCType, ObjectID: "0x2", Balance: 60_000_000}},
					// Stale cursor alongside hasNextPage=false: the flag wins.
					NextCursor:  &sticky,
					HasNextPage: false,
				},
			},
		},
	}
	aggregator := &fakeAggregator{}
	svc := newService(ledger, aggregator, testSuiConfig())

	tx, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:         testOwner,
		ListingID:     testListingID,
		InputCoinType: testUSDCType,
		InputAmount:   100_000_000,
	})
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, 2, ledger.getCoins, "exactly two pages fetched")
	require.Len(t, ledger.seenCursors, 2)
	assert.Nil(t, ledger.seenCursors[0])
	assert.Equal(t, "cursor-1", *ledger.seenCursors[1])
}

func TestLoadAllCoins_BreaksOnStuckCursor(t *testing.T) {
	sticky := "cursor-1"
	stuckPage := domain.CoinPage{
		Coins:       []domain.CoinRecord{{CoinType: testUSDCType, ObjectID: "0x1", Balance: 60_000_000}},
		NextCursor:  &sticky,
		HasNextPage: true,
	}
	ledger := &fakeLedger{
		object: platformConfigObject(testUSDCType),
		coinPages: map[string][]domain.CoinPage{
			testUSDCType: {stuckPage, stuckPage},
		},
	}
	svc := newService(ledger, &fakeAggregator{}, testSuiConfig())

	// A backend that keeps returning the same cursor with hasNextPage=true
	// must not spin; the second identical cursor ends the loop.
	_, err := svc.BuildBuyTransaction(context.Background(), BuyParams{
		Owner:         testOwner,
		ListingID:     testListingID,
		InputCoinType: testUSDCType,
		InputAmount:   100_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ledger.getCoins)
}

// --- submit ---

func TestSubmitSigned_GasPrecheck(t *testing.T) {
	ledger := &fakeLedger{
		balances: map[string]uint64{suiType: 50_000_000},
	}
	svc := newService(ledger, &fakeAggregator{}, testSuiConfig())

	_, err := svc.SubmitSigned(context.Background(), testOwner, "dHhieXRlcw==", "c2ln")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0.05 SUI")
	assert.Contains(t, err.Error(), "0.1 SUI")
	assert.Zero(t, ledger.submits, "transaction must not be forwarded")
}

func TestSubmitSigned_ForwardsAndReturnsDigest(t *testing.T) {
	ledger := &fakeLedger{
		balances: map[string]uint64{suiType: 500_000_000},
		digest:   "9zX3Dig3st",
	}
	svc := newService(ledger, &fakeAggregator{}, testSuiConfig())

	digest, err := svc.SubmitSigned(context.Background(), testOwner, "dHhieXRlcw==", "c2ln")
	require.NoError(t, err)
	assert.Equal(t, "9zX3Dig3st", digest)
	assert.Equal(t, 1, ledger.submits)
}

func TestSubmitSigned_PropagatesSubmitError(t *testing.T) {
	ledger := &fakeLedger{
		balances:  map[string]uint64{suiType: 500_000_000},
		submitErr: fmt.Errorf("execution failed: %s", `MoveAbort(... Identifier("market") ... function_name: Some("buy_listing_internal") ... }, 2)`),
	}
	svc := newService(ledger, &fakeAggregator{}, testSuiConfig())

	_, err := svc.SubmitSigned(context.Background(), testOwner, "dHhieXRlcw==", "c2ln")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buy_listing_internal")
}
