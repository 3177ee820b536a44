package ingest

import (
	"strings"

	"lumiverse/internal/pack"
)

var (
	lumiaNameKeys        = []string{"lumiaName", "name"}
	lumiaDefinitionKeys  = []string{"lumiaDefinition", "definition", "description"}
	lumiaPersonalityKeys = []string{"lumiaPersonality", "personality"}
	lumiaBehaviorKeys    = []string{"lumiaBehavior", "behavior"}
	avatarKeys           = []string{"avatarUrl", "avatar", "image", "imageUrl"}
	authorKeys           = []string{"authorName", "author"}
	loomNameKeys         = []string{"loomName", "name"}
	loomContentKeys      = []string{"loomContent", "content"}
	loomCategoryKeys     = []string{"loomCategory", "category"}
)

// ConvertLegacyItems renames the fields of an older internal item list.
// No text classification happens here: each item is copied 1:1.
func ConvertLegacyItems(items []any) (lumia []pack.LumiaItem, loom []pack.LoomItem, skipped int) {
	lumia = []pack.LumiaItem{}
	loom = []pack.LoomItem{}
	for _, value := range items {
		m, ok := value.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		switch {
		case hasKey(m, "lumiaName"):
			lumia = append(lumia, ConvertLegacyLumia(m))
		case hasAnyKey(m, loomCategoryKeys):
			item, ok := convertLegacyLoom(m)
			if !ok {
				skipped++
				continue
			}
			loom = append(loom, item)
		case hasKey(m, "name"):
			lumia = append(lumia, ConvertLegacyLumia(m))
		default:
			skipped++
		}
	}
	return lumia, loom, skipped
}

// ConvertLegacyLumia copies one older item onto a LumiaItem, falling back
// to the pre-canonical field names.
func ConvertLegacyLumia(m map[string]any) pack.LumiaItem {
	item := pack.LumiaItem{
		LumiaName:        firstString(m, lumiaNameKeys),
		LumiaDefinition:  optionalString(m, lumiaDefinitionKeys),
		LumiaPersonality: optionalString(m, lumiaPersonalityKeys),
		LumiaBehavior:    optionalString(m, lumiaBehaviorKeys),
		AvatarURL:        optionalString(m, avatarKeys),
		AuthorName:       optionalString(m, authorKeys),
		GenderIdentity:   pack.ParseGender(m["genderIdentity"]),
		Version:          versionFrom(m["version"]),
	}
	return item
}

func convertLegacyLoom(m map[string]any) (pack.LoomItem, bool) {
	category, ok := ParseCategory(firstString(m, loomCategoryKeys))
	if !ok {
		return pack.LoomItem{}, false
	}
	return pack.LoomItem{
		LoomName:     firstString(m, loomNameKeys),
		LoomContent:  firstString(m, loomContentKeys),
		LoomCategory: category,
		AuthorName:   optionalString(m, authorKeys),
		Version:      versionFrom(m["version"]),
	}, true
}

// ParseCategory accepts the canonical labels plus the short forms older
// packs used.
func ParseCategory(value string) (pack.LoomCategory, bool) {
	normalized := strings.ToLower(strings.Join(strings.FieldsFunc(value, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	}), " "))
	switch normalized {
	case "narrative style", "narrativestyle", "style":
		return pack.CategoryNarrativeStyle, true
	case "loom utilities", "utilities", "utility", "utils":
		return pack.CategoryUtilities, true
	case "retrofits", "retrofit":
		return pack.CategoryRetrofits, true
	default:
		return "", false
	}
}

func versionFrom(value any) int {
	if v, ok := value.(float64); ok && v >= 1 {
		return int(v)
	}
	return pack.CurrentVersion
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func hasAnyKey(m map[string]any, keys []string) bool {
	for _, key := range keys {
		if hasKey(m, key) {
			return true
		}
	}
	return false
}

func firstString(m map[string]any, keys []string) string {
	if s := optionalString(m, keys); s != nil {
		return *s
	}
	return ""
}

func optionalString(m map[string]any, keys []string) *string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
