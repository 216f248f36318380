// Package chainerr translates low-level ledger abort text and aggregator
// error codes into actionable user-facing messages. The table is additive:
// new signatures are appended, existing entries are never replaced silently.
package chainerr

import "strings"

type signature struct {
	contains []string
	message  string
}

// Signatures are checked in order; the first full match wins. Each entry's
// substrings must all be present in the raw error text.
var signatures = []signature{
	{
		contains: []string{"Insufficient SUI balance for Gas Fee"},
		message:  "Insufficient SUI for gas on the connected account/network. Make sure the wallet is on the configured network and this address has spendable (not staked) SUI.",
	},
	{
		contains: []string{"Insufficient sponsored budget for Gas Fee"},
		message:  "Sponsored gas budget is exhausted. Switch the wallet to self-pay gas or top up SUI for gas.",
	},
	{
		contains: []string{`Identifier("market")`, `function_name: Some("buy_listing_internal")`, `}, 2)`},
		message:  "This listing is no longer active. Please refresh and choose an available item.",
	},
	{
		contains: []string{`Identifier("market")`, `function_name: Some("buy_listing_internal")`, `}, 4)`},
		message:  "Payment amount is below the listing price. Please increase the amount and try again.",
	},
	{
		contains: []string{`Identifier("admin")`, `function_name: Some("assert_usdc_token")`, `}, 7)`},
		message:  "Settlement coin configuration mismatch between the client and the on-chain platform config. Check sui.usdc_coin_type or re-register the settlement coin type on-chain.",
	},
	{
		contains: []string{"router error 1007:"},
		message:  "No aggregator route for this pair/amount right now. Try a larger amount or pay with the settlement coin directly.",
	},
}

// Classify maps a raised error onto a stable user-facing message. Errors
// matching no known signature pass through with their text unchanged.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	raw := err.Error()
	for _, sig := range signatures {
		if matchesAll(raw, sig.contains) {
			return sig.message
		}
	}
	return raw
}

func matchesAll(raw string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(raw, needle) {
			return false
		}
	}
	return true
}
