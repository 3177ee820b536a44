package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"lumiverse/internal/pack"
)

const (
	KeyPacks                 = "packs"
	KeySelectedDefinition    = "selectedDefinition"
	KeySelectedBehaviors     = "selectedBehaviors"
	KeySelectedPersonalities = "selectedPersonalities"
	KeySelectedLoomStyles    = "selectedLoomStyle"
	KeySelectedLoomUtilities = "selectedLoomUtils"
	KeySelectedLoomRetrofits = "selectedLoomRetrofits"
	KeySchemaVersion         = "schemaVersion"
)

// SchemaVersion is written once legacy settings have been migrated.
const SchemaVersion = 2

var (
	ErrPackNotFound = errors.New("pack not found")
	ErrItemNotFound = errors.New("item not found")
	ErrUnknownSlot  = errors.New("unknown selection slot")
)

// State is the process-wide settings container. Keys this package does not
// own are carried through Extra untouched.
type State struct {
	Packs                 map[string]*pack.Pack `json:"packs"`
	SelectedDefinition    *pack.SelectionRef    `json:"selectedDefinition"`
	SelectedBehaviors     []pack.SelectionRef   `json:"selectedBehaviors"`
	SelectedPersonalities []pack.SelectionRef   `json:"selectedPersonalities"`
	SelectedLoomStyles    []pack.SelectionRef   `json:"selectedLoomStyle"`
	SelectedLoomUtilities []pack.SelectionRef   `json:"selectedLoomUtils"`
	SelectedLoomRetrofits []pack.SelectionRef   `json:"selectedLoomRetrofits"`
	SchemaVersion         int                   `json:"schemaVersion"`
	Extra                 map[string]any        `json:"-"`
}

func NewState() *State {
	return &State{
		Packs:                 map[string]*pack.Pack{},
		SelectedBehaviors:     []pack.SelectionRef{},
		SelectedPersonalities: []pack.SelectionRef{},
		SelectedLoomStyles:    []pack.SelectionRef{},
		SelectedLoomUtilities: []pack.SelectionRef{},
		SelectedLoomRetrofits: []pack.SelectionRef{},
		SchemaVersion:         SchemaVersion,
		Extra:                 map[string]any{},
	}
}

var ownedKeys = map[string]struct{}{
	KeyPacks:                 {},
	KeySelectedDefinition:    {},
	KeySelectedBehaviors:     {},
	KeySelectedPersonalities: {},
	KeySelectedLoomStyles:    {},
	KeySelectedLoomUtilities: {},
	KeySelectedLoomRetrofits: {},
	KeySchemaVersion:         {},
}

// FromDocument builds a State from an already-migrated settings document.
// Selection entries that are not name-based references are dropped.
func FromDocument(doc map[string]any) (*State, error) {
	s := NewState()
	if doc == nil {
		return s, nil
	}

	if raw, ok := doc[KeyPacks].(map[string]any); ok {
		for name, value := range raw {
			m, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("pack %q: expected an object", name)
			}
			p, err := pack.Decode(m)
			if err != nil {
				return nil, fmt.Errorf("pack %q: %w", name, err)
			}
			if p.PackName == "" {
				p.PackName = name
			}
			s.Packs[name] = p
		}
	}

	if ref, ok := pack.DecodeRef(doc[KeySelectedDefinition]); ok {
		s.SelectedDefinition = &ref
	}
	s.SelectedBehaviors = decodeRefs(doc[KeySelectedBehaviors])
	s.SelectedPersonalities = decodeRefs(doc[KeySelectedPersonalities])
	s.SelectedLoomStyles = decodeRefs(doc[KeySelectedLoomStyles])
	s.SelectedLoomUtilities = decodeRefs(doc[KeySelectedLoomUtilities])
	s.SelectedLoomRetrofits = decodeRefs(doc[KeySelectedLoomRetrofits])

	s.SchemaVersion = 0
	if v, ok := doc[KeySchemaVersion].(float64); ok {
		s.SchemaVersion = int(v)
	}

	for key, value := range doc {
		if _, owned := ownedKeys[key]; owned {
			continue
		}
		s.Extra[key] = value
	}
	return s, nil
}

func decodeRefs(value any) []pack.SelectionRef {
	refs := []pack.SelectionRef{}
	items, ok := value.([]any)
	if !ok {
		return refs
	}
	for _, item := range items {
		if ref, ok := pack.DecodeRef(item); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Document renders the state back into the generic shape the persistence
// layer stores verbatim.
func (s *State) Document() (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	doc := make(map[string]any)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	for key, value := range s.Extra {
		if _, exists := doc[key]; !exists {
			doc[key] = value
		}
	}
	return doc, nil
}

// Clone returns an independent copy by way of the stored document shape.
func (s *State) Clone() (*State, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// PackNames returns the pack names in lexical order.
func (s *State) PackNames() []string {
	names := make([]string, 0, len(s.Packs))
	for name := range s.Packs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedPacks returns the packs in PackNames order.
func (s *State) SortedPacks() []pack.Pack {
	out := make([]pack.Pack, 0, len(s.Packs))
	for _, name := range s.PackNames() {
		out = append(out, *s.Packs[name])
	}
	return out
}

func toDocument(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
