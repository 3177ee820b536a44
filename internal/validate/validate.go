package validate

import (
	"fmt"
	"strings"

	"lumiverse/internal/pack"
	"lumiverse/internal/settings"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codePackKeyMismatch    = "pack_key_mismatch"
	codeUnnamedItem        = "unnamed_item"
	codeDuplicateName      = "duplicate_name"
	codeInvalidCategory    = "invalid_loom_category"
	codeDanglingSelection  = "dangling_selection"
	codeDuplicateSelection = "duplicate_selection"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Pack     string
	Item     string
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Run checks state for packs that cannot be addressed reliably and for
// selections that no longer resolve. Packs are visited in name order.
func Run(state *settings.State) (*Report, error) {
	if state == nil {
		return nil, fmt.Errorf("settings state is required")
	}

	issues := make([]Issue, 0)
	for _, name := range state.PackNames() {
		p := state.Packs[name]
		if p == nil {
			continue
		}
		if p.PackName != name {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codePackKeyMismatch,
				Message:  fmt.Sprintf("pack stored under %q is named %q", name, p.PackName),
				Pack:     name,
			})
		}
		issues = append(issues, validateLumia(name, p)...)
		issues = append(issues, validateLoom(name, p)...)
	}

	issues = append(issues, validateSelections(state)...)
	return &Report{Issues: issues}, nil
}

func validateLumia(packKey string, p *pack.Pack) []Issue {
	var issues []Issue
	seen := make(map[string]struct{})
	for i, item := range p.LumiaItems {
		if strings.TrimSpace(item.LumiaName) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnnamedItem,
				Message:  fmt.Sprintf("lumia item %d has no name and cannot be selected", i),
				Pack:     packKey,
			})
			continue
		}
		if _, dup := seen[item.LumiaName]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeDuplicateName,
				Message:  "duplicate lumia name in pack; only the first is reachable",
				Pack:     packKey,
				Item:     item.LumiaName,
			})
			continue
		}
		seen[item.LumiaName] = struct{}{}
	}
	return issues
}

func validateLoom(packKey string, p *pack.Pack) []Issue {
	var issues []Issue
	seen := make(map[string]struct{})
	for i, item := range p.LoomItems {
		if !item.LoomCategory.IsValid() {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeInvalidCategory,
				Message:  fmt.Sprintf("loom item has unknown category %q", item.LoomCategory),
				Pack:     packKey,
				Item:     item.LoomName,
			})
		}
		if strings.TrimSpace(item.LoomName) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnnamedItem,
				Message:  fmt.Sprintf("loom item %d has no name and cannot be selected", i),
				Pack:     packKey,
			})
			continue
		}
		key := string(item.LoomCategory) + "|" + item.LoomName
		if _, dup := seen[key]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDuplicateName,
				Message:  fmt.Sprintf("duplicate %s item in pack; only the first is reachable", item.LoomCategory),
				Pack:     packKey,
				Item:     item.LoomName,
			})
			continue
		}
		seen[key] = struct{}{}
	}
	return issues
}

func validateSelections(state *settings.State) []Issue {
	var issues []Issue
	if ref := state.SelectedDefinition; ref != nil && settings.ResolveLumia(*ref, state.Packs) == nil {
		issues = append(issues, danglingIssue(settings.SlotDefinition, *ref))
	}

	lumiaLists := []struct {
		slot settings.Slot
		refs []pack.SelectionRef
	}{
		{settings.SlotBehavior, state.SelectedBehaviors},
		{settings.SlotPersonality, state.SelectedPersonalities},
	}
	for _, list := range lumiaLists {
		issues = append(issues, duplicateRefs(list.slot, list.refs)...)
		for _, ref := range list.refs {
			if settings.ResolveLumia(ref, state.Packs) == nil {
				issues = append(issues, danglingIssue(list.slot, ref))
			}
		}
	}

	loomLists := []struct {
		slot settings.Slot
		refs []pack.SelectionRef
	}{
		{settings.SlotLoomStyle, state.SelectedLoomStyles},
		{settings.SlotLoomUtility, state.SelectedLoomUtilities},
		{settings.SlotLoomRetrofit, state.SelectedLoomRetrofits},
	}
	for _, list := range loomLists {
		issues = append(issues, duplicateRefs(list.slot, list.refs)...)
		for _, ref := range list.refs {
			if settings.ResolveLoom(ref, list.slot.Category(), state.Packs) == nil {
				issues = append(issues, danglingIssue(list.slot, ref))
			}
		}
	}
	return issues
}

func danglingIssue(slot settings.Slot, ref pack.SelectionRef) Issue {
	return Issue{
		Severity: SeverityWarn,
		Code:     codeDanglingSelection,
		Message:  fmt.Sprintf("%s selection no longer resolves", slot),
		Pack:     ref.PackName,
		Item:     ref.ItemName,
	}
}

func duplicateRefs(slot settings.Slot, refs []pack.SelectionRef) []Issue {
	var issues []Issue
	seen := make(map[pack.SelectionRef]struct{})
	for _, ref := range refs {
		if _, dup := seen[ref]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDuplicateSelection,
				Message:  fmt.Sprintf("%s selected more than once", slot),
				Pack:     ref.PackName,
				Item:     ref.ItemName,
			})
			continue
		}
		seen[ref] = struct{}{}
	}
	return issues
}
