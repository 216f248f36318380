package prefsrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linagelabs/txos/internal/infrastructure/database"
)

type PreferenceRepository struct {
	db *sql.DB
}

func New(dbm *database.DBManager) IPreferenceRepository {
	return &PreferenceRepository{
		db: dbm.Db,
	}
}

func (r *PreferenceRepository) GetList(ctx context.Context, address, key string) ([]string, error) {
	if !IsKnownKey(key) {
		return nil, fmt.Errorf("unknown preference key: %s", key)
	}

	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM user_preferences WHERE address = $1 AND pref_key = $2`,
		address, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preference %s: %w", key, err)
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to decode preference %s: %w", key, err)
	}
	return values, nil
}

func (r *PreferenceRepository) SetList(ctx context.Context, address, key string, values []string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown preference key: %s", key)
	}
	if values == nil {
		values = []string{}
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode preference %s: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_preferences (address, pref_key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (address, pref_key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		address, key, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to store preference %s: %w", key, err)
	}
	return nil
}
