package ingest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lumiverse/internal/pack"
	"lumiverse/internal/parser"
)

func loadFixture(t *testing.T, name string) any {
	t.Helper()
	payload, err := parser.ParseFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return payload
}

func TestConvert_Entries(t *testing.T) {
	result, err := Convert("World Book", loadFixture(t, "entries.json"), Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if result.Format != FormatEntries {
		t.Fatalf("expected entries format, got %q", result.Format)
	}

	p := result.Pack
	if p.PackName != "World Book" || p.Version != 1 || p.PackAuthor != nil || p.CoverURL != nil {
		t.Fatalf("unexpected pack header %#v", p)
	}
	if len(p.PackExtras) != 0 {
		t.Fatalf("expected no extras")
	}

	wantLumia := []pack.LumiaItem{
		{
			LumiaName:        "Aria",
			LumiaDefinition:  pack.String("A quiet librarian."),
			LumiaPersonality: pack.String("{{setvar::lumia_behavior_aria::Be brave}} Curious and kind."),
			LumiaBehavior:    pack.String("Be brave"),
			AvatarURL:        pack.String("http://x/img.png"),
			AuthorName:       pack.String("Bob"),
			Version:          1,
		},
		{
			LumiaName:     "Bryn",
			LumiaBehavior: pack.String("Speaks in riddles."),
			Version:       1,
		},
	}
	if diff := cmp.Diff(wantLumia, p.LumiaItems); diff != "" {
		t.Fatalf("unexpected lumia items (-want +got):\n%s", diff)
	}

	wantLoom := []pack.LoomItem{
		{LoomName: "Gothic", LoomContent: "Write in a dark tone.", LoomCategory: pack.CategoryNarrativeStyle, Version: 1},
		{LoomName: "Fix Pacing", LoomContent: "Slow down.", LoomCategory: pack.CategoryRetrofits, Version: 1},
	}
	if diff := cmp.Diff(wantLoom, p.LoomItems); diff != "" {
		t.Fatalf("unexpected loom items (-want +got):\n%s", diff)
	}

	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped entries, got %d", result.Skipped)
	}
	if result.LumiaItems != 2 || result.LoomItems != 2 {
		t.Fatalf("unexpected counts %d/%d", result.LumiaItems, result.LoomItems)
	}
}

func TestConvert_BareSequence(t *testing.T) {
	payload := []any{
		map[string]any{"comment": "Narrative Style (Gothic)", "content": "Write in a dark tone."},
		map[string]any{"comment": "no name here", "content": "ignored"},
	}
	result, err := Convert("Seq", payload, Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(result.Pack.LoomItems) != 1 || len(result.Pack.LumiaItems) != 0 {
		t.Fatalf("unexpected items %#v", result.Pack)
	}
	got := result.Pack.LoomItems[0]
	if got.LoomName != "Gothic" || got.LoomCategory != pack.CategoryNarrativeStyle || got.LoomContent != "Write in a dark tone." {
		t.Fatalf("unexpected loom item %#v", got)
	}
}

func TestConvert_UnnamedEntriesContributeNothing(t *testing.T) {
	payload := map[string]any{"entries": []any{
		map[string]any{"comment": "Lumia definition", "content": "x [lumia_img=a.png]"},
		map[string]any{"comment": "Narrative Style", "content": "y"},
		map[string]any{"comment": "", "content": "z"},
		map[string]any{"comment": "Narrative Style ( )", "content": "w"},
	}}
	result, err := Convert("Empty", payload, Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(result.Pack.LumiaItems) != 0 || len(result.Pack.LoomItems) != 0 {
		t.Fatalf("expected no items, got %#v", result.Pack)
	}
	if result.Skipped != 4 {
		t.Fatalf("expected 4 skipped, got %d", result.Skipped)
	}
}

func TestConvert_LegacyItems(t *testing.T) {
	result, err := Convert("Old Pack", loadFixture(t, "legacy_pack.json"), Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if result.Format != FormatLegacyItems {
		t.Fatalf("expected legacy format, got %q", result.Format)
	}

	wantLumia := []pack.LumiaItem{
		{LumiaName: "Aria", LumiaDefinition: pack.String("Librarian"), AvatarURL: pack.String("a.png"), Version: 1},
		{
			LumiaName:        "Bryn",
			LumiaDefinition:  pack.String("Riddler"),
			LumiaBehavior:    pack.String("Cryptic"),
			LumiaPersonality: pack.String("Sly"),
			AuthorName:       pack.String("Mo"),
			Version:          1,
		},
	}
	if diff := cmp.Diff(wantLumia, result.Pack.LumiaItems); diff != "" {
		t.Fatalf("unexpected lumia items (-want +got):\n%s", diff)
	}
	wantLoom := []pack.LoomItem{
		{LoomName: "Gothic", LoomContent: "Dark.", LoomCategory: pack.CategoryNarrativeStyle, Version: 1},
		{LoomName: "Dice", LoomContent: "Roll d20.", LoomCategory: pack.CategoryUtilities, Version: 1},
	}
	if diff := cmp.Diff(wantLoom, result.Pack.LoomItems); diff != "" {
		t.Fatalf("unexpected loom items (-want +got):\n%s", diff)
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 skipped, got %d", result.Skipped)
	}
}

func TestConvert_CanonicalIsIdempotent(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "canonical_pack.json"))
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	var original map[string]any
	if err := json.Unmarshal(raw, &original); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}

	first, err := Convert("ignored", loadFixture(t, "canonical_pack.json"), Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if first.Format != FormatCanonical {
		t.Fatalf("expected canonical format, got %q", first.Format)
	}
	if first.Pack.PackName != "Starter" {
		t.Fatalf("expected pack name to be preserved, got %q", first.Pack.PackName)
	}

	encoded, err := json.Marshal(first.Pack)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	var roundTrip map[string]any
	if err := json.Unmarshal(encoded, &roundTrip); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if diff := cmp.Diff(original, roundTrip); diff != "" {
		t.Fatalf("canonical pack changed (-want +got):\n%s", diff)
	}

	second, err := Convert("ignored", roundTrip, Options{})
	if err != nil {
		t.Fatalf("second convert: %v", err)
	}
	if diff := cmp.Diff(first.Pack, second.Pack); diff != "" {
		t.Fatalf("second conversion differs (-first +second):\n%s", diff)
	}
}

func TestConvert_CanonicalKeepsUnknownFields(t *testing.T) {
	payload := map[string]any{
		"packName":        "P",
		"packDescription": "kept",
		"lumiaItems": []any{
			map[string]any{"lumiaName": "A", "lumiaTags": []any{"x"}, "genderIdentity": "HE_HIM"},
			map[string]any{"lumiaName": "B", "genderIdentity": "THEY_THEM", "version": float64(3)},
		},
		"loomItems": []any{
			map[string]any{"loomName": "G", "loomContent": "Dark.", "loomCategory": "Narrative Style", "mood": "grim"},
		},
	}

	result, err := Convert("ignored", payload, Options{})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	items := result.Pack.LumiaItems
	if items[0].GenderIdentity != pack.HeHim || items[1].GenderIdentity != pack.TheyThem {
		t.Fatalf("unexpected genders %v, %v", items[0].GenderIdentity, items[1].GenderIdentity)
	}
	if items[0].Version != pack.CurrentVersion || items[1].Version != 3 {
		t.Fatalf("unexpected versions %d, %d", items[0].Version, items[1].Version)
	}

	encoded, err := json.Marshal(result.Pack)
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if got["packDescription"] != "kept" {
		t.Fatalf("expected packDescription to survive, got %s", encoded)
	}
	if got["version"] != float64(pack.CurrentVersion) {
		t.Fatalf("expected default pack version, got %v", got["version"])
	}
	lumia := got["lumiaItems"].([]any)[0].(map[string]any)
	if diff := cmp.Diff([]any{"x"}, lumia["lumiaTags"]); diff != "" {
		t.Fatalf("lumiaTags changed (-want +got):\n%s", diff)
	}
	loom := got["loomItems"].([]any)[0].(map[string]any)
	if loom["mood"] != "grim" {
		t.Fatalf("expected loom extra field to survive, got %s", encoded)
	}

	second, err := Convert("ignored", got, Options{})
	if err != nil {
		t.Fatalf("second convert: %v", err)
	}
	if diff := cmp.Diff(result.Pack, second.Pack); diff != "" {
		t.Fatalf("second conversion differs (-first +second):\n%s", diff)
	}
}

func TestConvert_UnsupportedFormat(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{name: "empty object", payload: map[string]any{}},
		{name: "string", payload: "hello"},
		{name: "items not a list", payload: map[string]any{"items": "x"}},
		{name: "entries not a collection", payload: map[string]any{"entries": 5}},
		{name: "malformed canonical", payload: map[string]any{"lumiaItems": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Convert("x", tt.payload, Options{})
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
			}
			if result != nil {
				t.Fatalf("expected no partial result")
			}
		})
	}
}

func TestOrderedValues(t *testing.T) {
	got := orderedValues(map[string]any{"10": "c", "2": "b", "b": "e", "a": "d", "0": "a"})
	want := []any{"a", "b", "c", "d", "e"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestParseCategory(t *testing.T) {
	cases := map[string]pack.LoomCategory{
		"Narrative Style": pack.CategoryNarrativeStyle,
		"narrative_style": pack.CategoryNarrativeStyle,
		"Loom Utilities":  pack.CategoryUtilities,
		"utilities":       pack.CategoryUtilities,
		"Retrofits":       pack.CategoryRetrofits,
	}
	for input, want := range cases {
		got, ok := ParseCategory(input)
		if !ok || got != want {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}
	if _, ok := ParseCategory("Lore"); ok {
		t.Errorf("expected unknown category to be rejected")
	}
}
