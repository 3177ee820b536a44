package ingest

import (
	"sort"
	"strconv"
)

// RawEntry is one knowledge entry from an external collection. Content is
// nil when the source value was missing or not text.
type RawEntry struct {
	Comment    string
	Content    *string
	OutletName string
}

func entryFromValue(value any) (RawEntry, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		return RawEntry{}, false
	}
	entry := RawEntry{
		Comment:    toString(m["comment"]),
		OutletName: toString(m["outletName"]),
	}
	if content, ok := m["content"].(string); ok {
		entry.Content = &content
	}
	return entry, true
}

// entriesFromPayload returns the entries of a knowledge-entry collection
// and whether the payload had that shape at all.
func entriesFromPayload(payload any) ([]any, bool) {
	switch v := payload.(type) {
	case []any:
		return v, true
	case map[string]any:
		switch entries := v["entries"].(type) {
		case map[string]any:
			return orderedValues(entries), true
		case []any:
			return entries, true
		}
	}
	return nil, false
}

// orderedValues lists map values with integer-like keys first in numeric
// order, then the remaining keys lexically.
func orderedValues(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ni, errI := strconv.ParseUint(keys[i], 10, 64)
		nj, errJ := strconv.ParseUint(keys[j], 10, 64)
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	values := make([]any, 0, len(keys))
	for _, key := range keys {
		values = append(values, m[key])
	}
	return values
}

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
