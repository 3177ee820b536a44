package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lumiverse/internal/pack"
	"lumiverse/internal/store"
)

// LoadSettings returns the stored settings document, or nil when nothing
// has been saved yet.
func (c *Client) LoadSettings(ctx context.Context) (map[string]any, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT document FROM settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	doc := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return doc, nil
}

// SaveSettings writes doc and rebuilds the item index in one transaction.
func (c *Client) SaveSettings(ctx context.Context, doc map[string]any, packs []pack.Pack) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO settings (id, document, updated_at)
	VALUES (1, ?, datetime('now'))
	ON CONFLICT (id) DO UPDATE SET
		document = excluded.document,
		updated_at = datetime('now')
	`, string(payload))
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pack_items`); err != nil {
		return fmt.Errorf("clearing item index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pack_items (pack_name, item_name, kind, category, body)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range store.IndexRows(packs) {
		if _, err := stmt.ExecContext(ctx, row.PackName, row.ItemName, row.Kind, row.Category, row.Body); err != nil {
			return fmt.Errorf("indexing %s/%s: %w", row.PackName, row.ItemName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings: %w", err)
	}
	return nil
}
