package settings

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"lumiverse/internal/ingest"
	"lumiverse/internal/pack"
)

// Keys used by the flat-library settings format.
const (
	LegacyKeyItems     = "lumiaItems"
	LegacyKeyPayload   = "worldBookData"
	LegacyKeySourceURL = "worldBookUrl"
)

var legacyKeys = []string{LegacyKeyItems, LegacyKeyPayload, LegacyKeySourceURL}

const (
	DefaultLegacyPackName = "Legacy Lumia"
	DefaultSourceMarker   = "legacy-settings"
)

type MigrateOptions struct {
	LegacyPackName string
	SourceMarker   string
	Logger         *zap.Logger
}

func (o MigrateOptions) withDefaults() MigrateOptions {
	if strings.TrimSpace(o.LegacyPackName) == "" {
		o.LegacyPackName = DefaultLegacyPackName
	}
	if strings.TrimSpace(o.SourceMarker) == "" {
		o.SourceMarker = DefaultSourceMarker
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// NeedsMigration reports whether doc still carries the flat-library shape
// and has not been migrated before.
func NeedsMigration(doc map[string]any) bool {
	if doc == nil {
		return false
	}
	if v, ok := doc[KeySchemaVersion].(float64); ok && int(v) >= SchemaVersion {
		return false
	}
	if !hasLegacyData(doc) {
		return false
	}
	packs, _ := doc[KeyPacks].(map[string]any)
	return len(packs) == 0
}

func hasLegacyData(doc map[string]any) bool {
	_, items := doc[LegacyKeyItems]
	_, payload := doc[LegacyKeyPayload]
	return items || payload
}

// Migrate rewrites a legacy settings document in place: derived items go
// into one synthetic pack and index-based selections become name-based.
// It reports whether anything was migrated.
func Migrate(doc map[string]any, options MigrateOptions) (bool, error) {
	if !NeedsMigration(doc) {
		return false, nil
	}
	options = options.withDefaults()
	label := options.LegacyPackName

	items, loom := legacyItems(doc, label, options.Logger)

	packs := map[string]any{}
	if len(items) > 0 || len(loom) > 0 {
		p := pack.New(label)
		p.LumiaItems = items
		p.LoomItems = loom
		p.SourceURL = options.SourceMarker
		if url, ok := doc[LegacyKeySourceURL].(string); ok && strings.TrimSpace(url) != "" {
			p.SourceURL = url
		}
		encoded, err := toDocument(p)
		if err != nil {
			return false, fmt.Errorf("encoding legacy pack: %w", err)
		}
		packs[label] = encoded
	}
	doc[KeyPacks] = packs

	if _, ok := doc[KeySelectedDefinition]; ok {
		doc[KeySelectedDefinition] = migrateSingle(doc[KeySelectedDefinition], items, label)
	}
	for _, key := range []string{KeySelectedBehaviors, KeySelectedPersonalities} {
		if _, ok := doc[key]; ok {
			doc[key] = migrateList(doc[key], items, label)
		}
	}

	// Legacy keys go even when nothing could be derived from them.
	for _, key := range legacyKeys {
		delete(doc, key)
	}
	doc[KeySchemaVersion] = float64(SchemaVersion)

	options.Logger.Info("migrated legacy settings",
		zap.String("pack", label),
		zap.Int("lumia_items", len(items)),
		zap.Int("loom_items", len(loom)),
	)
	return true, nil
}

// legacyItems returns the Lumia items in legacy index order. The flat list
// wins; the raw payload is only classified when the list is empty.
func legacyItems(doc map[string]any, label string, logger *zap.Logger) ([]pack.LumiaItem, []pack.LoomItem) {
	if list, ok := doc[LegacyKeyItems].([]any); ok && len(list) > 0 {
		items := make([]pack.LumiaItem, 0, len(list))
		for _, value := range list {
			m, ok := value.(map[string]any)
			if !ok {
				// Keeps indices aligned; an unnamed item never resolves.
				items = append(items, pack.LumiaItem{Version: pack.CurrentVersion})
				continue
			}
			items = append(items, ingest.ConvertLegacyLumia(m))
		}
		return items, []pack.LoomItem{}
	}

	payload, ok := doc[LegacyKeyPayload]
	if !ok || payload == nil {
		return []pack.LumiaItem{}, []pack.LoomItem{}
	}
	result, err := ingest.Convert(label, payload, ingest.Options{Logger: logger})
	if err != nil {
		logger.Warn("legacy payload not convertible", zap.Error(err))
		return []pack.LumiaItem{}, []pack.LoomItem{}
	}
	return result.Pack.LumiaItems, result.Pack.LoomItems
}

func migrateSingle(value any, items []pack.LumiaItem, label string) any {
	if _, isNumber := value.(float64); !isNumber {
		return value
	}
	ref, ok := resolveIndex(value, items, label)
	if !ok {
		return nil
	}
	return ref
}

func migrateList(value any, items []pack.LumiaItem, label string) any {
	list, ok := value.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(list))
	for _, element := range list {
		if _, isNumber := element.(float64); !isNumber {
			out = append(out, element)
			continue
		}
		if ref, ok := resolveIndex(element, items, label); ok {
			out = append(out, ref)
		}
	}
	return out
}

func resolveIndex(value any, items []pack.LumiaItem, label string) (map[string]any, bool) {
	f, ok := value.(float64)
	if !ok || f != math.Trunc(f) || f < 0 || f >= float64(len(items)) {
		return nil, false
	}
	name := items[int(f)].LumiaName
	if name == "" {
		return nil, false
	}
	return map[string]any{"packName": label, "itemName": name}, true
}

// Load migrates doc if needed and decodes the result.
func Load(doc map[string]any, options MigrateOptions) (*State, bool, error) {
	if doc == nil {
		return NewState(), false, nil
	}
	migrated, err := Migrate(doc, options)
	if err != nil {
		return nil, false, err
	}
	s, err := FromDocument(doc)
	if err != nil {
		return nil, false, fmt.Errorf("decoding settings: %w", err)
	}
	if !hasLegacyData(doc) {
		s.SchemaVersion = SchemaVersion
	}
	return s, migrated, nil
}
