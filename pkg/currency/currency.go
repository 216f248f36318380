// Package currency converts between human-entered decimal amounts and the
// integer minor units used on-chain, and formats minor-unit amounts for
// user-facing messages. All arithmetic is exact; float64 never touches a
// monetary value in this package.
package currency

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/linagelabs/txos/pkg/cointype"
)

const (
	suiDecimals     = 9
	defaultDecimals = 6

	suiSymbol = "SUI"
)

var (
	ErrEmptyAmount     = errors.New("please enter an amount")
	ErrInvalidDecimals = errors.New("invalid asset decimals configuration")
	ErrInvalidFormat   = errors.New("amount format is invalid")
	ErrNonPositive     = errors.New("amount must be greater than 0")
	ErrAmountTooLarge  = errors.New("amount exceeds the maximum supported value")
)

// TooManyDecimalsError is returned when the fractional part of a display
// amount is longer than the asset supports.
type TooManyDecimalsError struct {
	Decimals int
}

func (e *TooManyDecimalsError) Error() string {
	return fmt.Sprintf("amount supports at most %d decimal places", e.Decimals)
}

// InsufficientBalanceError carries a user-facing message embedding both the
// required and the available amount in display form.
type InsufficientBalanceError struct {
	CoinType  string
	Required  uint64
	Available uint64
	Owner     string
}

func (e *InsufficientBalanceError) Error() string {
	msg := fmt.Sprintf("insufficient balance for %s. Required: %s, available: %s.",
		e.CoinType,
		FormatForDisplay(e.CoinType, e.Required),
		FormatForDisplay(e.CoinType, e.Available),
	)
	if e.Owner != "" {
		msg += fmt.Sprintf(" (owner: %s)", e.Owner)
	}
	return msg
}

// ParseDisplayAmount converts a user-entered decimal string into minor units
// for an asset with the given number of decimals. The fractional part is
// right-padded with zeros to exactly decimals digits; the result is
// whole*10^decimals + fraction, computed without floating point.
func ParseDisplayAmount(display string, decimals int) (uint64, error) {
	normalized := strings.TrimSpace(display)
	if normalized == "" {
		return 0, ErrEmptyAmount
	}
	if decimals < 0 {
		return 0, ErrInvalidDecimals
	}

	whole, fraction, hasFraction := strings.Cut(normalized, ".")
	if !isDigits(whole) || (hasFraction && !isDigits(fraction)) {
		return 0, ErrInvalidFormat
	}
	if len(fraction) > decimals {
		return 0, &TooManyDecimalsError{Decimals: decimals}
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, ErrInvalidFormat
	}

	minor := d.Shift(int32(decimals)).BigInt()
	if minor.Sign() <= 0 {
		return 0, ErrNonPositive
	}
	if !minor.IsUint64() {
		return 0, ErrAmountTooLarge
	}
	return minor.Uint64(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CoinDecimals returns the display decimals for a coin type. The base network
// asset uses 9; every other asset defaults to 6.
func CoinDecimals(coinType string) int {
	if cointype.Same(coinType, cointype.SuiCoinType) {
		return suiDecimals
	}
	return defaultDecimals
}

// CoinSymbol returns the display symbol for a coin type, derived from the
// trailing path segment for anything other than the base asset.
func CoinSymbol(coinType string) string {
	if cointype.Same(coinType, cointype.SuiCoinType) {
		return suiSymbol
	}
	if idx := strings.LastIndex(coinType, "::"); idx >= 0 && idx+2 < len(coinType) {
		return coinType[idx+2:]
	}
	return coinType
}

// FormatForDisplay renders a minor-unit amount as "whole[.fraction] SYMBOL"
// with trailing zeros stripped from the fraction.
func FormatForDisplay(coinType string, amount uint64) string {
	decimals := CoinDecimals(coinType)
	value := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
	return value.String() + " " + CoinSymbol(coinType)
}

// EnsureSufficientBalance returns an InsufficientBalanceError when available
// does not cover required. The owner address is optional and only used to
// enrich the message.
func EnsureSufficientBalance(coinType string, available, required uint64, owner string) error {
	if available >= required {
		return nil
	}
	return &InsufficientBalanceError{
		CoinType:  coinType,
		Required:  required,
		Available: available,
		Owner:     owner,
	}
}
