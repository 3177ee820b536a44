package store

import (
	"context"

	"lumiverse/internal/pack"
)

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	LoadSettings(ctx context.Context) (map[string]any, error)
	SaveSettings(ctx context.Context, doc map[string]any, packs []pack.Pack) error

	Search(ctx context.Context, query, kind string) ([]SearchResult, error)
	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
