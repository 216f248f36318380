package domain

// ObjectContent is the content envelope of an on-chain object as returned by
// the ledger RPC. Fields stays loosely typed: object layouts differ per type
// and are normalized by defensive parse helpers before any business logic.
type ObjectContent struct {
	DataType string                 `json:"dataType"`
	Type     string                 `json:"type"`
	Fields   map[string]interface{} `json:"fields"`
}

// ObjectData is one fetched ledger object.
type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Type     string         `json:"type"`
	Content  *ObjectContent `json:"content"`
}

// MoveObjectDataType marks object content deserialized from a Move struct.
const MoveObjectDataType = "moveObject"

// OwnedObjectPage is one page of an owned-objects query. Entries are kept in
// their raw wire shape; single malformed entries are dropped downstream, never
// failing a whole page.
type OwnedObjectPage struct {
	Entries     []map[string]interface{}
	NextCursor  *string
	HasNextPage bool
}

// AsRecord narrows an arbitrary decoded JSON value to an object record.
func AsRecord(value interface{}) (map[string]interface{}, bool) {
	record, ok := value.(map[string]interface{})
	if !ok || record == nil {
		return nil, false
	}
	return record, true
}

// AsString narrows a decoded JSON value to a non-empty string.
func AsString(value interface{}) (string, bool) {
	s, ok := value.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
