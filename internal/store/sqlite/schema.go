package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS settings (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		document   TEXT NOT NULL DEFAULT '{}',
		updated_at TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS pack_items (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		pack_name TEXT NOT NULL,
		item_name TEXT NOT NULL,
		kind      TEXT NOT NULL,
		category  TEXT NOT NULL DEFAULT '',
		body      TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_pack_items_pack ON pack_items (pack_name);
	CREATE INDEX IF NOT EXISTS idx_pack_items_kind ON pack_items (kind);

	CREATE VIRTUAL TABLE IF NOT EXISTS pack_items_fts USING fts5(
		item_name,
		body,
		content=pack_items,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS pack_items_ai AFTER INSERT ON pack_items BEGIN
		INSERT INTO pack_items_fts(rowid, item_name, body)
		VALUES (new.id, new.item_name, new.body);
	END;

	CREATE TRIGGER IF NOT EXISTS pack_items_ad AFTER DELETE ON pack_items BEGIN
		INSERT INTO pack_items_fts(pack_items_fts, rowid, item_name, body)
		VALUES ('delete', old.id, old.item_name, old.body);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	statements := splitStatements(ddl)
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits on lines ending in ";" so trigger bodies, whose
// inner statements end mid-block, stay attached to their END line.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	inTrigger := false

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasPrefix(strings.ToUpper(stripped), "CREATE TRIGGER") {
			inTrigger = true
		}
		if !strings.HasSuffix(stripped, ";") {
			continue
		}
		if inTrigger && !strings.EqualFold(stripped, "END;") {
			continue
		}
		inTrigger = false
		statements = append(statements, current.String())
		current.Reset()
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}

	return statements
}
