package settings

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLStore persists user settings in the user_setting table.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a SQL-backed settings store.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get returns the stored value for a user setting, or ErrNotFound.
func (s *SQLStore) Get(ctx context.Context, userID int64, key string) (string, error) {
	query := `SELECT value FROM user_setting WHERE user_id = $1 AND id = $2`

	var value string
	err := s.db.QueryRowContext(ctx, query, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return value, nil
}

// Set stores a value for a user setting, replacing any previous value.
func (s *SQLStore) Set(ctx context.Context, userID int64, key, value string) error {
	query := `
		INSERT INTO user_setting (user_id, id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, id) DO UPDATE SET value = EXCLUDED.value
	`

	if _, err := s.db.ExecContext(ctx, query, userID, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	return nil
}
