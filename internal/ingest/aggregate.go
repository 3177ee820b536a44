package ingest

import (
	"regexp"
	"strings"

	"lumiverse/internal/pack"
	"lumiverse/internal/parser"
)

var (
	behaviorMarkerPattern    = regexp.MustCompile(`(?is)\{\{\s*setvar::[^:}]*behavior[^:}]*::(.*?)\}\}`)
	personalityMarkerPattern = regexp.MustCompile(`(?is)\{\{\s*setglobalvar::[^:}]*personality[^:}]*::(.*?)\}\}`)
)

// Aggregator merges Lumia fragments that share a name into one item.
// Items keep the order in which their name was first seen.
type Aggregator struct {
	order []string
	items map[string]*pack.LumiaItem
}

func NewAggregator() *Aggregator {
	return &Aggregator{items: make(map[string]*pack.LumiaItem)}
}

func (a *Aggregator) Add(f Fragment) {
	if f.Kind != KindLumia {
		return
	}
	item := a.item(f.Name)

	switch f.Field {
	case FieldDefinition:
		meta := parser.ExtractMetadata(f.Content)
		item.LumiaDefinition = pack.String(meta.CleanContent)
		if meta.Image != nil {
			item.AvatarURL = meta.Image
		}
		if meta.Author != nil {
			item.AuthorName = meta.Author
		}
	case FieldBehavior:
		item.LumiaBehavior = pack.String(strings.TrimSpace(f.Content))
	case FieldPersonality:
		if m := behaviorMarkerPattern.FindStringSubmatch(f.Content); m != nil && item.LumiaBehavior == nil {
			item.LumiaBehavior = pack.String(strings.TrimSpace(m[1]))
		}
		if m := personalityMarkerPattern.FindStringSubmatch(f.Content); m != nil {
			item.LumiaPersonality = pack.String(strings.TrimSpace(m[1]))
		} else {
			item.LumiaPersonality = pack.String(f.Content)
		}
	}
}

func (a *Aggregator) item(name string) *pack.LumiaItem {
	if item, ok := a.items[name]; ok {
		return item
	}
	item := &pack.LumiaItem{LumiaName: name, Version: pack.CurrentVersion}
	a.items[name] = item
	a.order = append(a.order, name)
	return item
}

// Items returns every aggregated item, including ones with missing fields.
func (a *Aggregator) Items() []pack.LumiaItem {
	out := make([]pack.LumiaItem, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, *a.items[name])
	}
	return out
}

func (a *Aggregator) Len() int {
	return len(a.order)
}
