package domain

import (
	"math"
	"strconv"
)

// OwnedCollectible is a read-only projection of one heritage collectible
// object owned by an address.
type OwnedCollectible struct {
	ObjectID      string `json:"object_id"`
	CollectibleID string `json:"collectible_id"`
	ItemCode      string `json:"item_code"`
	Tribute       string `json:"tribute"`
}

// OwnedProduct is a read-only projection of one product object owned by an
// address.
type OwnedProduct struct {
	ObjectID string `json:"object_id"`
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Category int    `json:"category"`
}

// ProfileSnapshot aggregates everything one address owns at one point in
// time. Snapshots taken at different times are independent values.
type ProfileSnapshot struct {
	TeaItemCodes     []string           `json:"tea_item_codes"`
	CollectibleCount int                `json:"collectible_count"`
	ProductCount     int                `json:"product_count"`
	Collectibles     []OwnedCollectible `json:"collectibles"`
	Products         []OwnedProduct     `json:"products"`
}

// ParseOwnedCollectible normalizes one raw owned-object entry into an
// OwnedCollectible. Entries with the wrong declared type or a missing
// required field are reported as not ok, never as an error: a single
// malformed record must not abort a whole snapshot.
func ParseOwnedCollectible(entry map[string]interface{}, expectedType string) (OwnedCollectible, bool) {
	objectID, fields, ok := normalizeOwnedEntry(entry, expectedType)
	if !ok {
		return OwnedCollectible{}, false
	}

	collectibleID, ok := AsString(fields["collectible_id"])
	if !ok {
		return OwnedCollectible{}, false
	}
	itemCode, ok := AsString(fields["item_code"])
	if !ok {
		return OwnedCollectible{}, false
	}
	tribute, _ := fields["tribute"].(string)

	return OwnedCollectible{
		ObjectID:      objectID,
		CollectibleID: collectibleID,
		ItemCode:      itemCode,
		Tribute:       tribute,
	}, true
}

// ParseOwnedProduct normalizes one raw owned-object entry into an
// OwnedProduct, with the same drop-on-malformed policy as collectibles.
func ParseOwnedProduct(entry map[string]interface{}, expectedType string) (OwnedProduct, bool) {
	objectID, fields, ok := normalizeOwnedEntry(entry, expectedType)
	if !ok {
		return OwnedProduct{}, false
	}

	sku, ok := AsString(fields["sku"])
	if !ok {
		return OwnedProduct{}, false
	}
	title, ok := AsString(fields["title"])
	if !ok {
		return OwnedProduct{}, false
	}
	category, ok := parseProfileNumber(fields["category"])
	if !ok {
		return OwnedProduct{}, false
	}

	return OwnedProduct{
		ObjectID: objectID,
		SKU:      sku,
		Title:    title,
		Category: category,
	}, true
}

// normalizeOwnedEntry unwraps the data/content/fields envelope shared by
// owned-object entries and checks the declared type.
func normalizeOwnedEntry(entry map[string]interface{}, expectedType string) (string, map[string]interface{}, bool) {
	data, ok := AsRecord(entry["data"])
	if !ok {
		return "", nil, false
	}
	declaredType, _ := data["type"].(string)
	if declaredType != expectedType {
		return "", nil, false
	}
	objectID, ok := AsString(data["objectId"])
	if !ok {
		return "", nil, false
	}
	content, ok := AsRecord(data["content"])
	if !ok {
		return "", nil, false
	}
	fields, ok := AsRecord(content["fields"])
	if !ok {
		return "", nil, false
	}
	return objectID, fields, true
}

func parseProfileNumber(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
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
