package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lumiverse/internal/pack"
	"lumiverse/internal/store"
)

// LoadSettings returns the stored settings document, or nil when nothing
// has been saved yet.
func (c *Client) LoadSettings(ctx context.Context) (map[string]any, error) {
	var raw []byte
	err := c.pool.QueryRow(ctx, `SELECT document FROM settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	doc := make(map[string]any)
	if err := json.Unmarshal(raw, &doc); err != nil {
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

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO settings (id, document, updated_at) VALUES (1, $1::jsonb, now())
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM pack_items`); err != nil {
		return fmt.Errorf("clearing item index: %w", err)
	}

	rows := store.IndexRows(packs)
	if len(rows) > 0 {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(
				`INSERT INTO pack_items (pack_name, item_name, kind, category, body) VALUES ($1, $2, $3, $4, $5)`,
				row.PackName, row.ItemName, row.Kind, row.Category, row.Body,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("indexing items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
