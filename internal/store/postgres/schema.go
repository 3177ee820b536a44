package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema runs the DDL as a single implicit transaction. Every
// statement is idempotent.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS settings (
    id         SMALLINT PRIMARY KEY CHECK (id = 1),
    document   JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS pack_items (
    id        BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    pack_name TEXT NOT NULL,
    item_name TEXT NOT NULL,
    kind      TEXT NOT NULL,
    category  TEXT NOT NULL DEFAULT '',
    body      TEXT NOT NULL DEFAULT '',
    search_vector TSVECTOR GENERATED ALWAYS AS (
        setweight(to_tsvector('english', coalesce(item_name, '')), 'A') ||
        setweight(to_tsvector('english', coalesce(body, '')), 'B')
    ) STORED
);

CREATE INDEX IF NOT EXISTS idx_pack_items_search ON pack_items USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_pack_items_pack ON pack_items (pack_name);
CREATE INDEX IF NOT EXISTS idx_pack_items_kind ON pack_items (kind);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
