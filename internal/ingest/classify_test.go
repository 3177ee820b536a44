package ingest

import (
	"testing"

	"lumiverse/internal/pack"
)

func entry(comment, content string) RawEntry {
	return RawEntry{Comment: comment, Content: &content}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		entry    RawEntry
		kind     FragmentKind
		field    LumiaField
		category pack.LoomCategory
		itemName string
	}{
		{
			name:     "loom narrative style",
			entry:    entry("Narrative Style (Gothic)", "Write in a dark tone."),
			kind:     KindLoom,
			category: pack.CategoryNarrativeStyle,
			itemName: "Gothic",
		},
		{
			name:     "loom utilities with padding",
			entry:    entry("  Loom Utilities   (Dice Roller) ", "Roll."),
			kind:     KindLoom,
			category: pack.CategoryUtilities,
			itemName: "Dice Roller",
		},
		{
			name:     "loom label with trailing text is not loom",
			entry:    entry("Retrofits (Fix) extra", "x"),
			kind:     KindIgnore,
			itemName: "Fix",
		},
		{
			name:  "loom label with blank name is ignored",
			entry: entry("Narrative Style ( )", "x"),
			kind:  KindIgnore,
		},
		{
			name:     "outlet identifier in comment",
			entry:    entry("Lumia_Behavior (Aria)", "Calm."),
			kind:     KindLumia,
			field:    FieldBehavior,
			itemName: "Aria",
		},
		{
			name:     "outlet name wins over keyword",
			entry:    RawEntry{Comment: "Aria personality (Aria)", Content: pack.String("x"), OutletName: "Lumia_Description"},
			kind:     KindLumia,
			field:    FieldDefinition,
			itemName: "Aria",
		},
		{
			name:     "keyword is case-insensitive",
			entry:    entry("Character PERSONALITY (Bryn)", "Bold."),
			kind:     KindLumia,
			field:    FieldPersonality,
			itemName: "Bryn",
		},
		{
			name:     "definition keyword beats behavior keyword",
			entry:    entry("definition and behavior (Cato)", "x"),
			kind:     KindLumia,
			field:    FieldDefinition,
			itemName: "Cato",
		},
		{
			name:     "lumia prefix implies definition",
			entry:    entry("Lumia (Dara)", "Tall."),
			kind:     KindLumia,
			field:    FieldDefinition,
			itemName: "Dara",
		},
		{
			name:     "image tag implies definition",
			entry:    entry("Character (Eve)", "Text [lumia_img=e.png]"),
			kind:     KindLumia,
			field:    FieldDefinition,
			itemName: "Eve",
		},
		{
			name:     "named entry without type is ignored",
			entry:    entry("Character (Fay)", "Text"),
			kind:     KindIgnore,
			itemName: "Fay",
		},
		{
			name:  "missing name is ignored",
			entry: entry("Lumia definition", "Text"),
			kind:  KindIgnore,
		},
		{
			name:  "missing content is ignored",
			entry: RawEntry{Comment: "Lumia (Gil)"},
			kind:  KindIgnore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.entry)
			if got.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v (reason %q)", got.Kind, tt.kind, got.Reason)
			}
			if tt.kind == KindIgnore {
				return
			}
			if got.Name != tt.itemName {
				t.Errorf("name = %q, want %q", got.Name, tt.itemName)
			}
			if got.Field != tt.field {
				t.Errorf("field = %q, want %q", got.Field, tt.field)
			}
			if got.Category != tt.category {
				t.Errorf("category = %q, want %q", got.Category, tt.category)
			}
		})
	}
}

func TestClassify_LoomContentTrimmed(t *testing.T) {
	got := Classify(entry("Narrative Style (Gothic)", "\n  Write in a dark tone.  \n"))
	if got.Content != "Write in a dark tone." {
		t.Fatalf("unexpected content %q", got.Content)
	}
}

func TestClassify_LumiaContentKeptRaw(t *testing.T) {
	got := Classify(entry("Lumia_Personality (Aria)", "  raw  "))
	if got.Content != "  raw  " {
		t.Fatalf("expected raw content to be preserved, got %q", got.Content)
	}
}
