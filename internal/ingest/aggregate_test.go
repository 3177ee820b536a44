package ingest

import (
	"testing"

	"lumiverse/internal/pack"
)

func TestAggregator_Definition(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldDefinition,
		Content: "A quiet librarian. [lumia_img=http://x/img.png][lumia_author=Bob]"})

	items := agg.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.LumiaName != "Aria" {
		t.Fatalf("unexpected name %q", item.LumiaName)
	}
	if pack.Value(item.LumiaDefinition) != "A quiet librarian." {
		t.Fatalf("unexpected definition %q", pack.Value(item.LumiaDefinition))
	}
	if pack.Value(item.AvatarURL) != "http://x/img.png" {
		t.Fatalf("unexpected avatar %q", pack.Value(item.AvatarURL))
	}
	if pack.Value(item.AuthorName) != "Bob" {
		t.Fatalf("unexpected author %q", pack.Value(item.AuthorName))
	}
	if item.Version != pack.CurrentVersion {
		t.Fatalf("unexpected version %d", item.Version)
	}
}

func TestAggregator_RepeatedDefinitionKeepsMetadata(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldDefinition, Content: "First [lumia_img=a.png]"})
	agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldDefinition, Content: "Second"})

	item := agg.Items()[0]
	if pack.Value(item.LumiaDefinition) != "Second" {
		t.Fatalf("expected last definition to win, got %q", pack.Value(item.LumiaDefinition))
	}
	if pack.Value(item.AvatarURL) != "a.png" {
		t.Fatalf("expected avatar to survive a tagless definition, got %q", pack.Value(item.AvatarURL))
	}
}

func TestAggregator_MergesByName(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldDefinition, Content: "Def"})
	agg.Add(Fragment{Kind: KindLumia, Name: "Bryn", Field: FieldBehavior, Content: " Loud "})
	agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldBehavior, Content: "Calm"})
	agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldPersonality, Content: "Kind"})
	agg.Add(Fragment{Kind: KindLoom, Name: "Ignored"})

	items := agg.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].LumiaName != "Aria" || items[1].LumiaName != "Bryn" {
		t.Fatalf("expected first-seen order, got %q, %q", items[0].LumiaName, items[1].LumiaName)
	}
	aria := items[0]
	if pack.Value(aria.LumiaDefinition) != "Def" || pack.Value(aria.LumiaBehavior) != "Calm" || pack.Value(aria.LumiaPersonality) != "Kind" {
		t.Fatalf("unexpected merged item %#v", aria)
	}
	if pack.Value(items[1].LumiaBehavior) != "Loud" {
		t.Fatalf("expected trimmed behavior, got %q", pack.Value(items[1].LumiaBehavior))
	}
	if items[1].LumiaDefinition != nil {
		t.Fatalf("expected incomplete item to be kept without definition")
	}
}

func TestAggregator_PersonalityMarkers(t *testing.T) {
	t.Run("behavior marker without personality marker", func(t *testing.T) {
		raw := "Old style text {{setvar::lumia_behavior_aria::Be brave}} more"
		agg := NewAggregator()
		agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldPersonality, Content: raw})

		item := agg.Items()[0]
		if pack.Value(item.LumiaBehavior) != "Be brave" {
			t.Fatalf("unexpected behavior %q", pack.Value(item.LumiaBehavior))
		}
		if pack.Value(item.LumiaPersonality) != raw {
			t.Fatalf("expected whole content as personality, got %q", pack.Value(item.LumiaPersonality))
		}
	})

	t.Run("both markers", func(t *testing.T) {
		raw := "{{setvar::lumia_behavior_aria::Be brave}}{{setglobalvar::lumia_personality_aria:: Warm and wry }}"
		agg := NewAggregator()
		agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldPersonality, Content: raw})

		item := agg.Items()[0]
		if pack.Value(item.LumiaPersonality) != "Warm and wry" {
			t.Fatalf("unexpected personality %q", pack.Value(item.LumiaPersonality))
		}
	})

	t.Run("behavior marker does not overwrite explicit behavior", func(t *testing.T) {
		agg := NewAggregator()
		agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldBehavior, Content: "Explicit"})
		agg.Add(Fragment{Kind: KindLumia, Name: "Aria", Field: FieldPersonality, Content: "{{setvar::lumia_behavior_aria::Marker}}"})

		if got := pack.Value(agg.Items()[0].LumiaBehavior); got != "Explicit" {
			t.Fatalf("expected explicit behavior to win, got %q", got)
		}
	})
}
