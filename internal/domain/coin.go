package domain

import (
	"fmt"
	"sort"
)

// CoinRecord is one spendable coin object owned by an address. Records become
// stale once consumed by a submitted transaction and must not be reused.
type CoinRecord struct {
	CoinType string
	ObjectID string
	Balance  uint64
}

// CoinPage is one page of a coin-listing query.
type CoinPage struct {
	Coins       []CoinRecord
	NextCursor  *string
	HasNextPage bool
}

// SelectCoinsForPayment picks a minimal covering subset of coins for the
// required amount: zero balances are discarded, the rest are sorted descending
// by balance and accumulated greedily. All coins must share one coin type;
// filtering is the caller's responsibility. Fewer input objects means a
// smaller signed transaction and fewer coin objects consumed.
func SelectCoinsForPayment(coins []CoinRecord, required uint64) ([]CoinRecord, error) {
	spendable := make([]CoinRecord, 0, len(coins))
	for _, coin := range coins {
		if coin.Balance > 0 {
			spendable = append(spendable, coin)
		}
	}
	sort.SliceStable(spendable, func(i, j int) bool {
		return spendable[i].Balance > spendable[j].Balance
	})

	var sum uint64
	for i, coin := range spendable {
		sum += coin.Balance
		if sum >= required {
			return spendable[:i+1], nil
		}
	}
	return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, required, sum)
}
