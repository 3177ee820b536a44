package ingest

import (
	"regexp"
	"strings"

	"lumiverse/internal/pack"
	"lumiverse/internal/parser"
)

type FragmentKind int

const (
	KindIgnore FragmentKind = iota
	KindLoom
	KindLumia
)

type LumiaField string

const (
	FieldDefinition  LumiaField = "definition"
	FieldBehavior    LumiaField = "behavior"
	FieldPersonality LumiaField = "personality"
)

const (
	OutletDescription = "Lumia_Description"
	OutletBehavior    = "Lumia_Behavior"
	OutletPersonality = "Lumia_Personality"
)

// Fragment is the classification decision for one entry.
type Fragment struct {
	Kind     FragmentKind
	Name     string
	Field    LumiaField
	Category pack.LoomCategory
	Content  string
	Reason   string
}

var (
	loomCommentPattern = regexp.MustCompile(`^(Loom Utilities|Retrofits|Narrative Style)\s*\((.+)\)\s*$`)
	namePattern        = regexp.MustCompile(`\(([^)]*)\)`)
)

type typeRule struct {
	name  string
	field LumiaField
	match func(e RawEntry, comment string) bool
}

// typeRules are evaluated top to bottom; the first match decides the
// field. The order is load-bearing for content written against the
// legacy heuristics.
var typeRules = []typeRule{
	{name: "outlet description", field: FieldDefinition, match: outlet(OutletDescription)},
	{name: "outlet behavior", field: FieldBehavior, match: outlet(OutletBehavior)},
	{name: "outlet personality", field: FieldPersonality, match: outlet(OutletPersonality)},
	{name: "keyword definition", field: FieldDefinition, match: keyword("definition")},
	{name: "keyword behavior", field: FieldBehavior, match: keyword("behavior")},
	{name: "keyword personality", field: FieldPersonality, match: keyword("personality")},
	{name: "lumia prefix", field: FieldDefinition, match: func(e RawEntry, comment string) bool {
		return strings.HasPrefix(comment, "Lumia")
	}},
	{name: "image tag", field: FieldDefinition, match: func(e RawEntry, comment string) bool {
		return e.Content != nil && strings.Contains(*e.Content, parser.ImageTagPrefix)
	}},
}

func outlet(id string) func(RawEntry, string) bool {
	return func(e RawEntry, comment string) bool {
		return strings.TrimSpace(e.OutletName) == id || strings.Contains(comment, id)
	}
}

func keyword(word string) func(RawEntry, string) bool {
	return func(e RawEntry, comment string) bool {
		return strings.Contains(strings.ToLower(comment), word)
	}
}

// Classify decides what a single entry contributes. Entries that cannot
// be classified come back as KindIgnore with a Reason; they are never an
// error.
func Classify(e RawEntry) Fragment {
	if e.Content == nil {
		return Fragment{Kind: KindIgnore, Reason: "content missing or not text"}
	}
	comment := strings.TrimSpace(e.Comment)

	if m := loomCommentPattern.FindStringSubmatch(comment); m != nil {
		name := strings.TrimSpace(m[2])
		if name == "" {
			return Fragment{Kind: KindIgnore, Reason: "no parenthesized name"}
		}
		return Fragment{
			Kind:     KindLoom,
			Name:     name,
			Category: pack.LoomCategory(m[1]),
			Content:  strings.TrimSpace(*e.Content),
		}
	}

	m := namePattern.FindStringSubmatch(comment)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return Fragment{Kind: KindIgnore, Reason: "no parenthesized name"}
	}
	name := strings.TrimSpace(m[1])

	for _, rule := range typeRules {
		if rule.match(e, comment) {
			return Fragment{
				Kind:    KindLumia,
				Name:    name,
				Field:   rule.field,
				Content: *e.Content,
				Reason:  rule.name,
			}
		}
	}
	return Fragment{Kind: KindIgnore, Name: name, Reason: "no determinable type"}
}
