package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps every slot as one row of the local_storage table.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Save(ctx context.Context, key string, value any) error {
	payload, err := encode(key, value)
	if err != nil {
		return err
	}

	query := s.db.Rebind(`
		INSERT INTO local_storage (storage_key, storage_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (storage_key) DO UPDATE SET
			storage_value = excluded.storage_value,
			updated_at = excluded.updated_at
	`)

	_, err = s.db.ExecContext(ctx, query, key, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error saving %q: %w", key, err)
	}

	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	query := s.db.Rebind(`SELECT storage_value FROM local_storage WHERE storage_key = ?`)

	var payload string
	err := s.db.GetContext(ctx, &payload, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error reading %q: %w", key, err)
	}

	return decode([]byte(payload), dst), nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	query := s.db.Rebind(`DELETE FROM local_storage WHERE storage_key = ?`)

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("error removing %q: %w", key, err)
	}

	return nil
}
