package settings

import (
	"fmt"
	"strings"

	"lumiverse/internal/ingest"
	"lumiverse/internal/pack"
)

type Slot string

const (
	SlotDefinition   Slot = "definition"
	SlotBehavior     Slot = "behavior"
	SlotPersonality  Slot = "personality"
	SlotLoomStyle    Slot = "loom-style"
	SlotLoomUtility  Slot = "loom-utility"
	SlotLoomRetrofit Slot = "loom-retrofit"
)

var slots = []Slot{SlotDefinition, SlotBehavior, SlotPersonality, SlotLoomStyle, SlotLoomUtility, SlotLoomRetrofit}

// ParseSlot accepts a slot name, or a Loom category label for the Loom
// slots.
func ParseSlot(value string) (Slot, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, slot := range slots {
		if string(slot) == normalized {
			return slot, nil
		}
	}
	if category, ok := ingest.ParseCategory(value); ok {
		for _, slot := range slots {
			if slot.Category() == category {
				return slot, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSlot, value)
}

// Category returns the Loom category a slot selects from, or "" for the
// Lumia slots.
func (s Slot) Category() pack.LoomCategory {
	switch s {
	case SlotLoomStyle:
		return pack.CategoryNarrativeStyle
	case SlotLoomUtility:
		return pack.CategoryUtilities
	case SlotLoomRetrofit:
		return pack.CategoryRetrofits
	default:
		return ""
	}
}

func (s *State) list(slot Slot) *[]pack.SelectionRef {
	switch slot {
	case SlotBehavior:
		return &s.SelectedBehaviors
	case SlotPersonality:
		return &s.SelectedPersonalities
	case SlotLoomStyle:
		return &s.SelectedLoomStyles
	case SlotLoomUtility:
		return &s.SelectedLoomUtilities
	case SlotLoomRetrofit:
		return &s.SelectedLoomRetrofits
	default:
		return nil
	}
}

// Select records ref in slot after checking that it currently resolves.
// Multi-selection slots ignore a ref that is already present.
func (s *State) Select(slot Slot, ref pack.SelectionRef) error {
	p, ok := s.Packs[ref.PackName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPackNotFound, ref.PackName)
	}
	if category := slot.Category(); category != "" {
		if _, ok := p.FindLoom(ref.ItemName, category); !ok {
			return fmt.Errorf("%w: %s/%s in %s", ErrItemNotFound, ref.PackName, ref.ItemName, category)
		}
	} else if _, ok := p.FindLumia(ref.ItemName); !ok {
		return fmt.Errorf("%w: %s/%s", ErrItemNotFound, ref.PackName, ref.ItemName)
	}

	if slot == SlotDefinition {
		s.SelectedDefinition = &ref
		return nil
	}
	list := s.list(slot)
	if list == nil {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	for _, existing := range *list {
		if existing == ref {
			return nil
		}
	}
	*list = append(*list, ref)
	return nil
}

// Deselect removes ref from slot and reports whether it was present.
func (s *State) Deselect(slot Slot, ref pack.SelectionRef) bool {
	if slot == SlotDefinition {
		if s.SelectedDefinition == nil || *s.SelectedDefinition != ref {
			return false
		}
		s.SelectedDefinition = nil
		return true
	}
	list := s.list(slot)
	if list == nil {
		return false
	}
	kept := (*list)[:0]
	removed := false
	for _, existing := range *list {
		if existing == ref {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	*list = kept
	return removed
}

// AddPack stores p under its name. If a pack of that name already exists
// the two are merged into a new value first: Lumia items replace by name,
// Loom items append. Readers only ever see a complete pack.
func (s *State) AddPack(p *pack.Pack) {
	if p == nil {
		return
	}
	if s.Packs == nil {
		s.Packs = map[string]*pack.Pack{}
	}
	existing, ok := s.Packs[p.PackName]
	if !ok {
		s.Packs[p.PackName] = p.Clone()
		return
	}
	s.Packs[p.PackName] = merge(existing, p)
}

// ReplacePack stores p under its name, discarding any previous contents.
// Selections are left alone and may dangle until the items reappear.
func (s *State) ReplacePack(p *pack.Pack) {
	if p == nil {
		return
	}
	if s.Packs == nil {
		s.Packs = map[string]*pack.Pack{}
	}
	s.Packs[p.PackName] = p.Clone()
}

func merge(existing, incoming *pack.Pack) *pack.Pack {
	out := existing.Clone()
	if incoming.PackAuthor != nil {
		out.PackAuthor = incoming.PackAuthor
	}
	if incoming.CoverURL != nil {
		out.CoverURL = incoming.CoverURL
	}
	if incoming.SourceURL != "" {
		out.SourceURL = incoming.SourceURL
	}
	out.PackExtras = append(out.PackExtras, incoming.PackExtras...)
	for key, value := range incoming.Extra {
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra[key] = value
	}

	added := incoming.Clone()
	for _, item := range added.LumiaItems {
		if current, ok := out.FindLumia(item.LumiaName); ok {
			*current = item
			continue
		}
		out.LumiaItems = append(out.LumiaItems, item)
	}
	out.LoomItems = append(out.LoomItems, added.LoomItems...)
	return out
}

// RemovePack deletes the named pack and prunes every selection naming it.
// Other packs' selections are left alone.
func (s *State) RemovePack(name string) bool {
	if _, ok := s.Packs[name]; !ok {
		return false
	}
	delete(s.Packs, name)

	if s.SelectedDefinition != nil && s.SelectedDefinition.PackName == name {
		s.SelectedDefinition = nil
	}
	for _, slot := range slots {
		list := s.list(slot)
		if list == nil {
			continue
		}
		kept := (*list)[:0]
		for _, ref := range *list {
			if ref.PackName != name {
				kept = append(kept, ref)
			}
		}
		*list = kept
	}
	return true
}
