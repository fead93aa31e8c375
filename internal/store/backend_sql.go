package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"life-server/internal/shared/database"
)

// SQLBackend persists collections to the collections table, one row per
// key, full value rewritten on every save.
type SQLBackend struct {
	db *database.DB
}

func NewSQLBackend(db *database.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query := b.db.Rebind(`SELECT data FROM collections WHERE key = $1`)

	var data []byte
	err := b.db.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load collection %q: %w", key, err)
	}

	return data, true, nil
}

func (b *SQLBackend) Save(ctx context.Context, key string, data []byte) error {
	query := b.db.Rebind(`
		INSERT INTO collections (key, data, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`)

	// Bind as text: lib/pq would otherwise send []byte as bytea, which
	// the jsonb column rejects.
	if _, err := b.db.ExecContext(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("failed to save collection %q: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	query := b.db.Rebind(`DELETE FROM collections WHERE key = $1`)

	if _, err := b.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", key, err)
	}
	return nil
}
