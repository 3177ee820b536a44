package pack

import "strings"

// CurrentVersion is stamped on every freshly produced pack and item.
const CurrentVersion = 1

type GenderIdentity int

const (
	SheHer GenderIdentity = iota
	HeHim
	TheyThem
)

// ParseGender reads a gender identity from a decoded value. It accepts the
// numeric encoding and the SHE_HER / HE_HIM / THEY_THEM names. Anything
// else is SheHer.
func ParseGender(value any) GenderIdentity {
	var n int
	switch v := value.(type) {
	case GenderIdentity:
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			return SheHer
		}
		n = int(v)
	case string:
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "HE_HIM", "HE/HIM":
			return HeHim
		case "THEY_THEM", "THEY/THEM":
			return TheyThem
		default:
			return SheHer
		}
	default:
		return SheHer
	}
	if g := GenderIdentity(n); g >= SheHer && g <= TheyThem {
		return g
	}
	return SheHer
}

func (g GenderIdentity) String() string {
	switch g {
	case HeHim:
		return "he/him"
	case TheyThem:
		return "they/them"
	default:
		return "she/her"
	}
}

type LoomCategory string

const (
	CategoryNarrativeStyle LoomCategory = "Narrative Style"
	CategoryUtilities      LoomCategory = "Loom Utilities"
	CategoryRetrofits      LoomCategory = "Retrofits"
)

// Categories lists the Loom categories in the order they are matched.
var Categories = []LoomCategory{CategoryUtilities, CategoryRetrofits, CategoryNarrativeStyle}

func (c LoomCategory) IsValid() bool {
	switch c {
	case CategoryNarrativeStyle, CategoryUtilities, CategoryRetrofits:
		return true
	default:
		return false
	}
}

type LumiaItem struct {
	LumiaName        string         `json:"lumiaName"`
	LumiaDefinition  *string        `json:"lumiaDefinition,omitempty"`
	LumiaPersonality *string        `json:"lumiaPersonality,omitempty"`
	LumiaBehavior    *string        `json:"lumiaBehavior,omitempty"`
	AvatarURL        *string        `json:"avatarUrl,omitempty"`
	GenderIdentity   GenderIdentity `json:"genderIdentity"`
	AuthorName       *string        `json:"authorName,omitempty"`
	Version          int            `json:"version"`
	Extra            map[string]any `json:"-"`
}

type LoomItem struct {
	LoomName     string         `json:"loomName"`
	LoomContent  string         `json:"loomContent"`
	LoomCategory LoomCategory   `json:"loomCategory"`
	AuthorName   *string        `json:"authorName,omitempty"`
	Version      int            `json:"version"`
	Extra        map[string]any `json:"-"`
}

// Pack is the canonical unit of import. Extra holds payload keys outside
// the canonical field set; they are written back on encode.
type Pack struct {
	PackName   string         `json:"packName"`
	PackAuthor *string        `json:"packAuthor"`
	CoverURL   *string        `json:"coverUrl"`
	SourceURL  string         `json:"sourceUrl,omitempty"`
	Version    int            `json:"version"`
	PackExtras []any          `json:"packExtras"`
	LumiaItems []LumiaItem    `json:"lumiaItems"`
	LoomItems  []LoomItem     `json:"loomItems"`
	Extra      map[string]any `json:"-"`
}

// SelectionRef names a chosen item without owning it. It may dangle.
type SelectionRef struct {
	PackName string `json:"packName"`
	ItemName string `json:"itemName"`
}

func (r SelectionRef) IsZero() bool {
	return r.PackName == "" && r.ItemName == ""
}

// New returns an empty pack with the collections initialised so it
// encodes as [] rather than null.
func New(name string) *Pack {
	return &Pack{
		PackName:   name,
		Version:    CurrentVersion,
		PackExtras: []any{},
		LumiaItems: []LumiaItem{},
		LoomItems:  []LoomItem{},
	}
}

func (p *Pack) FindLumia(name string) (*LumiaItem, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.LumiaItems {
		if p.LumiaItems[i].LumiaName == name {
			return &p.LumiaItems[i], true
		}
	}
	return nil, false
}

func (p *Pack) FindLoom(name string, category LoomCategory) (*LoomItem, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.LoomItems {
		item := &p.LoomItems[i]
		if item.LoomName != name {
			continue
		}
		if category != "" && item.LoomCategory != category {
			continue
		}
		return item, true
	}
	return nil, false
}

// Clone returns a deep copy so callers can assemble a replacement pack
// without exposing partial state through the original.
func (p *Pack) Clone() *Pack {
	if p == nil {
		return nil
	}
	out := *p
	out.PackAuthor = cloneString(p.PackAuthor)
	out.CoverURL = cloneString(p.CoverURL)
	out.PackExtras = append([]any{}, p.PackExtras...)
	out.Extra = cloneExtra(p.Extra)
	out.LumiaItems = make([]LumiaItem, len(p.LumiaItems))
	for i, item := range p.LumiaItems {
		out.LumiaItems[i] = item.clone()
	}
	out.LoomItems = make([]LoomItem, len(p.LoomItems))
	for i, item := range p.LoomItems {
		item.AuthorName = cloneString(item.AuthorName)
		item.Extra = cloneExtra(item.Extra)
		out.LoomItems[i] = item
	}
	return &out
}

func (l LumiaItem) clone() LumiaItem {
	l.LumiaDefinition = cloneString(l.LumiaDefinition)
	l.LumiaPersonality = cloneString(l.LumiaPersonality)
	l.LumiaBehavior = cloneString(l.LumiaBehavior)
	l.AvatarURL = cloneString(l.AvatarURL)
	l.AuthorName = cloneString(l.AuthorName)
	l.Extra = cloneExtra(l.Extra)
	return l
}

func cloneExtra(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Value dereferences s, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
