package prefsrepo

import (
	"context"
)

// Preference keys. These are the only values the UI persists server-side;
// both are whole-value JSON string arrays replaced on every change.
const (
	KeySavedExperienceIDs = "saved_experience_ids"
	KeyCollectedItemIDs   = "collected_item_ids"
)

// IPreferenceRepository stores per-address UI preferences.
type IPreferenceRepository interface {
	GetList(ctx context.Context, address, key string) ([]string, error)
	SetList(ctx context.Context, address, key string, values []string) error
}

// IsKnownKey reports whether key names a supported preference list.
func IsKnownKey(key string) bool {
	return key == KeySavedExperienceIDs || key == KeyCollectedItemIDs
}
