package domain

import (
	"math"
	"strconv"
)

// ActiveListingRef is one row of the marketplace's active-listing table.
// Listings can be delisted at any time, so refs are reconstructed fresh on
// every index query and never cached.
type ActiveListingRef struct {
	ListingID string
	Category  int
	AskAmount uint64
}

// PickCheapestActiveListing scans the marketplace object's active_listings
// collection and returns the cheapest listing in the requested category.
// Entries may arrive flat or wrapped in an extra "fields" envelope depending
// on the serialization path; both shapes are accepted. Entries with an
// unresolvable category, listing id, or ask amount are skipped. Ties are
// broken by input order.
func PickCheapestActiveListing(marketplaceFields map[string]interface{}, category int) (ActiveListingRef, bool) {
	var best ActiveListingRef
	found := false

	if marketplaceFields == nil {
		return best, false
	}
	entries, ok := marketplaceFields["active_listings"].([]interface{})
	if !ok {
		return best, false
	}

	for _, entry := range entries {
		outer, ok := AsRecord(entry)
		if !ok {
			continue
		}
		listing := outer
		if inner, ok := AsRecord(outer["fields"]); ok {
			listing = inner
		}

		parsedCategory, ok := parseCategory(listing["category"])
		if !ok || parsedCategory != category {
			continue
		}
		listingID, ok := parseListingObjectID(listing["listing"])
		if !ok {
			continue
		}
		askAmount, ok := parseAskAmount(listing["ask_amount"])
		if !ok {
			// A listing with a corrupt price field must not rank as the
			// cheapest option, so it is disqualified outright.
			continue
		}

		if !found || askAmount < best.AskAmount {
			best = ActiveListingRef{
				ListingID: listingID,
				Category:  parsedCategory,
				AskAmount: askAmount,
			}
			found = true
		}
	}

	return best, found
}

// parseCategory accepts an integer or a numeric string.
func parseCategory(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case string:
		if v == "" {
			return 0, false
		}
		parsed, err := strconv.Atoi(v)
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// parseListingObjectID accepts a bare id string or an {id: string} wrapper.
func parseListingObjectID(value interface{}) (string, bool) {
	if id, ok := AsString(value); ok {
		return id, true
	}
	if record, ok := AsRecord(value); ok {
		return AsString(record["id"])
	}
	return "", false
}

func parseAskAmount(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return 0, false
		}
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case float64:
		if v >= 0 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	}
	return 0, false
}
