package content

import (
	"context"
	"database/sql"
	"fmt"
)

// Reader is the API read boundary used during context resolution: fetch an
// item or media by id, nothing more.
type Reader interface {
	// Item returns an item by id, or ErrNotFound.
	Item(ctx context.Context, id int64) (*Item, error)

	// Media returns a media by id, or ErrNotFound.
	Media(ctx context.Context, id int64) (*Media, error)
}

// SQLReader reads entities straight from the relational store.
type SQLReader struct {
	db *sql.DB
}

// NewSQLReader creates a reader over a database handle.
func NewSQLReader(db *sql.DB) *SQLReader {
	return &SQLReader{db: db}
}

// Item returns an item by id.
func (r *SQLReader) Item(ctx context.Context, id int64) (*Item, error) {
	query := `SELECT id, owner_id, title FROM item WHERE id = $1`

	item := &Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&item.ID, &item.OwnerID, &item.Title)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}

	return item, nil
}

// Media returns a media by id.
func (r *SQLReader) Media(ctx context.Context, id int64) (*Media, error) {
	query := `SELECT id, item_id, source FROM media WHERE id = $1`

	media := &Media{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&media.ID, &media.ItemID, &media.Source)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media %d: %w", id, err)
	}

	return media, nil
}
