package ingest

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lumiverse/internal/pack"
)

// ErrUnsupportedFormat is returned when a payload matches none of the
// known shapes. No partial pack is produced in that case.
var ErrUnsupportedFormat = errors.New("unsupported format")

type Format string

const (
	FormatCanonical   Format = "canonical"
	FormatEntries     Format = "entries"
	FormatLegacyItems Format = "legacy-items"
)

type Options struct {
	Logger *zap.Logger
}

type Result struct {
	Pack       *pack.Pack
	Format     Format
	LumiaItems int
	LoomItems  int
	Skipped    int
}

// Convert turns any supported payload into a canonical pack named
// sourceName. A payload that is already canonical comes back unchanged.
func Convert(sourceName string, payload any, options Options) (*Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if m, ok := payload.(map[string]any); ok && (hasKey(m, "lumiaItems") || hasKey(m, "loomItems")) {
		p, err := pack.Decode(m)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return newResult(p, FormatCanonical, 0), nil
	}

	if entries, ok := entriesFromPayload(payload); ok {
		lumia, loom, skipped := ClassifyEntries(entries, logger)
		p := pack.New(sourceName)
		p.LumiaItems = lumia
		p.LoomItems = loom
		logger.Debug("classified knowledge entries",
			zap.String("pack", sourceName),
			zap.Int("entries", len(entries)),
			zap.Int("skipped", skipped),
		)
		return newResult(p, FormatEntries, skipped), nil
	}

	if m, ok := payload.(map[string]any); ok {
		if items, ok := m["items"].([]any); ok {
			lumia, loom, skipped := ConvertLegacyItems(items)
			p := pack.New(sourceName)
			p.LumiaItems = lumia
			p.LoomItems = loom
			return newResult(p, FormatLegacyItems, skipped), nil
		}
	}

	return nil, ErrUnsupportedFormat
}

// ClassifyEntries runs the classifier and aggregator over raw entries.
// Loom fragments are collected separately in input order.
func ClassifyEntries(entries []any, logger *zap.Logger) ([]pack.LumiaItem, []pack.LoomItem, int) {
	if logger == nil {
		logger = zap.NewNop()
	}
	agg := NewAggregator()
	loom := []pack.LoomItem{}
	skipped := 0

	for i, value := range entries {
		entry, ok := entryFromValue(value)
		if !ok {
			skipped++
			logger.Debug("skipping entry", zap.Int("index", i), zap.String("reason", "not an object"))
			continue
		}
		fragment := Classify(entry)
		switch fragment.Kind {
		case KindLoom:
			loom = append(loom, pack.LoomItem{
				LoomName:     fragment.Name,
				LoomContent:  fragment.Content,
				LoomCategory: fragment.Category,
				Version:      pack.CurrentVersion,
			})
		case KindLumia:
			agg.Add(fragment)
		default:
			skipped++
			logger.Debug("skipping entry",
				zap.Int("index", i),
				zap.String("comment", entry.Comment),
				zap.String("reason", fragment.Reason),
			)
		}
	}
	return agg.Items(), loom, skipped
}

func newResult(p *pack.Pack, format Format, skipped int) *Result {
	return &Result{
		Pack:       p,
		Format:     format,
		LumiaItems: len(p.LumiaItems),
		LoomItems:  len(p.LoomItems),
		Skipped:    skipped,
	}
}
