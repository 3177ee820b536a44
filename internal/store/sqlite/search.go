package sqlite

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"lumiverse/internal/store"
)

func (c *Client) Search(ctx context.Context, query, kind string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	ftsQuery := toFTSQuery(query)
	if ftsQuery == "" {
		return nil, fmt.Errorf("query has no searchable terms")
	}

	sqlQuery := `
	SELECT i.pack_name, i.item_name, i.kind, i.category,
		   -bm25(pack_items_fts, 10.0, 1.0) AS score,
		   snippet(pack_items_fts, 1, '**', '**', '...', 32) AS snippet
	FROM pack_items_fts
	JOIN pack_items i ON pack_items_fts.rowid = i.id
	WHERE pack_items_fts MATCH ?
	  AND (? = '' OR i.kind = ?)
	ORDER BY score DESC, i.item_name ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, ftsQuery, kind, kind)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	var results []store.SearchResult
	for rows.Next() {
		var r store.SearchResult
		if err := rows.Scan(&r.PackName, &r.ItemName, &r.Kind, &r.Category, &r.Score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	if results == nil {
		results = []store.SearchResult{}
	}

	return results, nil
}

// toFTSQuery turns websearch-style input into an FTS5 match expression.
// Adjacent terms are ANDed, "-term" becomes a binary NOT against the
// preceding expression, and terms with punctuation are quoted so item names
// such as "Fix-Pacing" do not trip the FTS5 parser.
func toFTSQuery(query string) string {
	var out []string
	needsOperand := true
	emit := func(term string) {
		if !needsOperand {
			out = append(out, "AND")
		}
		out = append(out, term)
		needsOperand = false
	}

	for _, tok := range tokenize(query) {
		if tok.phrase {
			emit(quoteTerm(tok.text))
			continue
		}
		switch upper := strings.ToUpper(tok.text); {
		case upper == "AND" || upper == "OR" || upper == "NOT":
			if needsOperand {
				continue
			}
			out = append(out, upper)
			needsOperand = true
		case strings.HasPrefix(tok.text, "-") && len(tok.text) > 1:
			if needsOperand {
				// Nothing to subtract from.
				continue
			}
			out = append(out, "NOT", bareTerm(tok.text[1:]))
		default:
			emit(bareTerm(tok.text))
		}
	}

	if needsOperand && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return strings.Join(out, " ")
}

type token struct {
	text   string
	phrase bool
}

func tokenize(query string) []token {
	var tokens []token
	var current strings.Builder
	inQuote := false

	flush := func(phrase bool) {
		if current.Len() > 0 {
			tokens = append(tokens, token{text: current.String(), phrase: phrase})
			current.Reset()
		}
	}

	for _, r := range query {
		switch {
		case r == '"':
			flush(inQuote)
			inQuote = !inQuote
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			flush(false)
		default:
			current.WriteRune(r)
		}
	}
	flush(inQuote)
	return tokens
}

func bareTerm(term string) string {
	prefix := strings.HasSuffix(term, "*")
	word := strings.TrimSuffix(term, "*")
	if word == "" {
		return quoteTerm(term)
	}
	out := word
	if !isPlainWord(word) {
		out = quoteTerm(word)
	}
	if prefix {
		out += "*"
	}
	return out
}

func isPlainWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

func quoteTerm(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
