package settings

import (
	"context"
	"errors"
	"testing"

	"lumiverse/internal/pack"
)

type mockPersister struct {
	doc       map[string]any
	saves     int
	lastPacks []pack.Pack
	failSave  bool
	loadErr   error
}

func (m *mockPersister) LoadSettings(ctx context.Context) (map[string]any, error) {
	return m.doc, m.loadErr
}

func (m *mockPersister) SaveSettings(ctx context.Context, doc map[string]any, packs []pack.Pack) error {
	if m.failSave {
		return errors.New("forced error")
	}
	m.doc = doc
	m.lastPacks = packs
	m.saves++
	return nil
}

func TestOpen_MigratesAndPersists(t *testing.T) {
	store := &mockPersister{doc: loadDocument(t, "legacy_settings.json")}

	svc, err := Open(context.Background(), store, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("expected migrated settings to be saved once, got %d", store.saves)
	}
	if _, ok := store.doc[LegacyKeyItems]; ok {
		t.Fatalf("expected stored document to be free of legacy keys")
	}
	if _, ok := svc.State().Packs[DefaultLegacyPackName]; !ok {
		t.Fatalf("expected legacy pack in state")
	}

	again, err := Open(context.Background(), store, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("expected no save on clean reopen, got %d", store.saves)
	}
	if again.State().SelectedDefinition == nil || again.State().SelectedDefinition.ItemName != "Cato" {
		t.Fatalf("unexpected definition after reopen %#v", again.State().SelectedDefinition)
	}
}

func TestOpen_LoadError(t *testing.T) {
	store := &mockPersister{loadErr: errors.New("disk gone")}
	if _, err := Open(context.Background(), store, Options{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_ImportSelectRemove(t *testing.T) {
	ctx := context.Background()
	store := &mockPersister{}
	svc, err := Open(ctx, store, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	payload := map[string]any{"entries": []any{
		map[string]any{"comment": "Lumia_Description (Aria)", "content": "Librarian"},
		map[string]any{"comment": "Narrative Style (Gothic)", "content": "Dark."},
	}}
	result, err := svc.Import(ctx, "", "book.json", payload)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Pack.PackName != "book.json" || result.LumiaItems != 1 || result.LoomItems != 1 {
		t.Fatalf("unexpected result %#v", result)
	}
	if len(store.lastPacks) != 1 {
		t.Fatalf("expected packs to be handed to the store")
	}

	if err := svc.Select(ctx, SlotDefinition, ref("book.json", "Aria")); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := svc.Select(ctx, SlotLoomStyle, ref("book.json", "Gothic")); err != nil {
		t.Fatalf("select loom: %v", err)
	}

	if err := svc.RemovePack(ctx, "book.json"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if store.doc[KeySelectedDefinition] != nil {
		t.Fatalf("expected stored definition to be pruned, got %#v", store.doc[KeySelectedDefinition])
	}
	if err := svc.RemovePack(ctx, "book.json"); !errors.Is(err, ErrPackNotFound) {
		t.Fatalf("expected ErrPackNotFound, got %v", err)
	}
}

func TestService_ImportNameOverride(t *testing.T) {
	ctx := context.Background()
	svc, err := Open(ctx, &mockPersister{}, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	payload := map[string]any{"packName": "Original", "lumiaItems": []any{}}
	result, err := svc.Import(ctx, "Renamed", "file.json", payload)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Pack.PackName != "Renamed" {
		t.Fatalf("expected override, got %q", result.Pack.PackName)
	}
	if _, ok := svc.State().Packs["Renamed"]; !ok {
		t.Fatalf("expected pack stored under override name")
	}
}

func TestService_ImportUnsupportedLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := &mockPersister{}
	svc, err := Open(ctx, store, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.Import(ctx, "", "x.json", map[string]any{"nothing": true}); err == nil {
		t.Fatalf("expected error")
	}
	if len(svc.State().Packs) != 0 || store.saves != 0 {
		t.Fatalf("expected no state change on failed import")
	}
}

func TestService_SaveFailure(t *testing.T) {
	ctx := context.Background()
	store := &mockPersister{}
	svc, err := Open(ctx, store, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store.failSave = true
	if err := svc.Save(ctx); err == nil {
		t.Fatalf("expected save error")
	}
}

func TestService_FailedSaveKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &mockPersister{}
	svc, err := Open(ctx, store, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	payload := map[string]any{"entries": []any{
		map[string]any{"comment": "Lumia_Description (Aria)", "content": "Librarian"},
	}}
	if _, err := svc.Import(ctx, "Book", "", payload); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := svc.Select(ctx, SlotDefinition, ref("Book", "Aria")); err != nil {
		t.Fatalf("select: %v", err)
	}

	store.failSave = true
	if _, err := svc.Import(ctx, "Other", "", payload); err == nil {
		t.Fatalf("expected import to fail")
	}
	if _, ok := svc.State().Packs["Other"]; ok {
		t.Fatalf("expected unsaved pack to stay out of state")
	}
	if _, err := svc.Replace(ctx, "Book", "", map[string]any{"entries": []any{}}); err == nil {
		t.Fatalf("expected replace to fail")
	}
	if got := len(svc.State().Packs["Book"].LumiaItems); got != 1 {
		t.Fatalf("expected original items to survive, got %d", got)
	}
	if err := svc.RemovePack(ctx, "Book"); err == nil {
		t.Fatalf("expected remove to fail")
	}
	if _, ok := svc.State().Packs["Book"]; !ok {
		t.Fatalf("expected pack to survive failed remove")
	}
	if removed, err := svc.Deselect(ctx, SlotDefinition, ref("Book", "Aria")); err == nil || removed {
		t.Fatalf("expected deselect to fail, got %v, %v", removed, err)
	}
	if def := svc.State().SelectedDefinition; def == nil || def.ItemName != "Aria" {
		t.Fatalf("expected selection to survive failed deselect, got %#v", def)
	}

	store.failSave = false
	if err := svc.RemovePack(ctx, "Book"); err != nil {
		t.Fatalf("remove after recovery: %v", err)
	}
	if store.doc[KeySelectedDefinition] != nil {
		t.Fatalf("expected stored definition to be pruned")
	}
}

func TestService_ReplaceKeepsSelections(t *testing.T) {
	ctx := context.Background()
	svc, err := Open(ctx, &mockPersister{}, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	first := map[string]any{"entries": []any{
		map[string]any{"comment": "Lumia_Description (Aria)", "content": "Librarian"},
		map[string]any{"comment": "Narrative Style (Gothic)", "content": "Dark."},
	}}
	if _, err := svc.Import(ctx, "Book", "", first); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := svc.Select(ctx, SlotDefinition, ref("Book", "Aria")); err != nil {
		t.Fatalf("select: %v", err)
	}

	second := map[string]any{"entries": []any{
		map[string]any{"comment": "Lumia_Description (Bryn)", "content": "Riddler"},
		map[string]any{"comment": "Narrative Style (Gothic)", "content": "Darker."},
	}}
	if _, err := svc.Replace(ctx, "Book", "", second); err != nil {
		t.Fatalf("replace: %v", err)
	}

	p := svc.State().Packs["Book"]
	if len(p.LumiaItems) != 1 || p.LumiaItems[0].LumiaName != "Bryn" {
		t.Fatalf("expected lumia items to be replaced, got %#v", p.LumiaItems)
	}
	if len(p.LoomItems) != 1 || p.LoomItems[0].LoomContent != "Darker." {
		t.Fatalf("expected loom items to be replaced, not appended, got %#v", p.LoomItems)
	}
	if def := svc.State().SelectedDefinition; def == nil || def.ItemName != "Aria" {
		t.Fatalf("expected dangling selection to be kept, got %#v", def)
	}
	if svc.State().Resolve().Definition != nil {
		t.Fatalf("expected dangling selection to resolve to nothing")
	}
}
