// Package cointype normalizes on-chain coin type identifiers so that equality
// checks are semantically correct. Addresses may arrive zero-padded to 64 hex
// digits in one context and shortened in another; raw string comparison of the
// two forms silently takes the wrong code path.
package cointype

import "strings"

// SuiCoinType is the base network gas asset.
const SuiCoinType = "0x2::sui::SUI"

const addressPrefix = "0x"

// Canonical returns the canonical form of a coin type: the address component
// lowercased with leading zeros stripped (down to a single "0" if all zero)
// and the "0x" prefix restored. The module path keeps its original case; it
// is significant on-chain and only compared case-insensitively.
func Canonical(coinType string) string {
	trimmed := strings.TrimSpace(coinType)
	parts := strings.SplitN(trimmed, "::", 2)

	address := strings.ToLower(parts[0])
	address = strings.TrimPrefix(address, addressPrefix)
	address = strings.TrimLeft(address, "0")
	if address == "" {
		address = "0"
	}

	if len(parts) == 1 {
		return addressPrefix + address
	}
	return addressPrefix + address + "::" + parts[1]
}

// Same reports whether two coin types denote the same asset.
func Same(a, b string) bool {
	return strings.EqualFold(Canonical(a), Canonical(b))
}
