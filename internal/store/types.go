package store

import (
	"strings"

	"lumiverse/internal/pack"
)

const (
	KindLumia = "lumia"
	KindLoom  = "loom"
)

type SearchResult struct {
	PackName string
	ItemName string
	Kind     string
	Category string
	Score    float64
	Snippet  string
}

// ItemRow is one row of the derived item search index.
type ItemRow struct {
	PackName string
	ItemName string
	Kind     string
	Category string
	Body     string
}

// IndexRows flattens packs into search index rows in pack order.
func IndexRows(packs []pack.Pack) []ItemRow {
	var rows []ItemRow
	for _, p := range packs {
		for _, item := range p.LumiaItems {
			parts := make([]string, 0, 3)
			for _, text := range []*string{item.LumiaDefinition, item.LumiaPersonality, item.LumiaBehavior} {
				if text != nil && *text != "" {
					parts = append(parts, *text)
				}
			}
			rows = append(rows, ItemRow{
				PackName: p.PackName,
				ItemName: item.LumiaName,
				Kind:     KindLumia,
				Body:     strings.Join(parts, "\n\n"),
			})
		}
		for _, item := range p.LoomItems {
			rows = append(rows, ItemRow{
				PackName: p.PackName,
				ItemName: item.LoomName,
				Kind:     KindLoom,
				Category: string(item.LoomCategory),
				Body:     item.LoomContent,
			})
		}
	}
	return rows
}
