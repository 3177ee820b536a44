package settings

import "lumiverse/internal/pack"

// ResolveLumia looks ref up in packs. A dangling reference yields nil.
func ResolveLumia(ref pack.SelectionRef, packs map[string]*pack.Pack) *pack.LumiaItem {
	p, ok := packs[ref.PackName]
	if !ok || p == nil {
		return nil
	}
	item, ok := p.FindLumia(ref.ItemName)
	if !ok {
		return nil
	}
	return item
}

// ResolveLoom looks ref up among the Loom items of the given category.
// An empty category matches any.
func ResolveLoom(ref pack.SelectionRef, category pack.LoomCategory, packs map[string]*pack.Pack) *pack.LoomItem {
	p, ok := packs[ref.PackName]
	if !ok || p == nil {
		return nil
	}
	item, ok := p.FindLoom(ref.ItemName, category)
	if !ok {
		return nil
	}
	return item
}

// ResolveLumiaList resolves refs in order, leaving out the ones that no
// longer resolve. refs itself is not modified.
func ResolveLumiaList(refs []pack.SelectionRef, packs map[string]*pack.Pack) []pack.LumiaItem {
	out := make([]pack.LumiaItem, 0, len(refs))
	for _, ref := range refs {
		if item := ResolveLumia(ref, packs); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func ResolveLoomList(refs []pack.SelectionRef, category pack.LoomCategory, packs map[string]*pack.Pack) []pack.LoomItem {
	out := make([]pack.LoomItem, 0, len(refs))
	for _, ref := range refs {
		if item := ResolveLoom(ref, category, packs); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// Resolved is a rendering snapshot of every selection that still resolves.
type Resolved struct {
	Definition    *pack.LumiaItem
	Behaviors     []pack.LumiaItem
	Personalities []pack.LumiaItem
	LoomStyles    []pack.LoomItem
	LoomUtilities []pack.LoomItem
	LoomRetrofits []pack.LoomItem
}

func (s *State) Resolve() Resolved {
	var r Resolved
	if s.SelectedDefinition != nil {
		r.Definition = ResolveLumia(*s.SelectedDefinition, s.Packs)
	}
	r.Behaviors = ResolveLumiaList(s.SelectedBehaviors, s.Packs)
	r.Personalities = ResolveLumiaList(s.SelectedPersonalities, s.Packs)
	r.LoomStyles = ResolveLoomList(s.SelectedLoomStyles, pack.CategoryNarrativeStyle, s.Packs)
	r.LoomUtilities = ResolveLoomList(s.SelectedLoomUtilities, pack.CategoryUtilities, s.Packs)
	r.LoomRetrofits = ResolveLoomList(s.SelectedLoomRetrofits, pack.CategoryRetrofits, s.Packs)
	return r
}
