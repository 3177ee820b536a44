package pack

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// Decode maps a generic decoded payload onto a canonical Pack. Field
// names follow the JSON tags. Keys the structs do not know are kept in
// Extra so the pack encodes back with the same field set.
func Decode(input map[string]any) (*Pack, error) {
	top := make(map[string]any, len(input))
	for key, value := range input {
		if key == "lumiaItems" || key == "loomItems" {
			continue
		}
		top[key] = value
	}

	var p Pack
	extra, err := decodeInto(top, &p)
	if err != nil {
		return nil, fmt.Errorf("decoding pack: %w", err)
	}
	p.Extra = extra

	p.LumiaItems, err = decodeItems(input["lumiaItems"], "lumiaItems", func(item *LumiaItem, extra map[string]any) {
		item.Extra = extra
		item.Version = defaultVersion(item.Version)
	})
	if err != nil {
		return nil, fmt.Errorf("decoding pack: %w", err)
	}
	p.LoomItems, err = decodeItems(input["loomItems"], "loomItems", func(item *LoomItem, extra map[string]any) {
		item.Extra = extra
		item.Version = defaultVersion(item.Version)
	})
	if err != nil {
		return nil, fmt.Errorf("decoding pack: %w", err)
	}

	p.Version = defaultVersion(p.Version)
	if p.PackExtras == nil {
		p.PackExtras = []any{}
	}
	return &p, nil
}

// DecodeRef reads a SelectionRef from a generic value. Anything that is
// not a map with a pack name yields ok == false.
func DecodeRef(value any) (SelectionRef, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		return SelectionRef{}, false
	}
	var ref SelectionRef
	if _, err := decodeInto(m, &ref); err != nil {
		return SelectionRef{}, false
	}
	if ref.PackName == "" {
		return SelectionRef{}, false
	}
	return ref, true
}

func decodeItems[T any](value any, field string, finish func(*T, map[string]any)) ([]T, error) {
	out := []T{}
	if value == nil {
		return out, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", field, value)
	}
	for i, element := range list {
		m, ok := element.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected an object, got %T", field, i, element)
		}
		var item T
		extra, err := decodeInto(m, &item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		finish(&item, extra)
		out = append(out, item)
	}
	return out, nil
}

// decodeInto returns the input keys that matched no field, or nil.
func decodeInto(input map[string]any, out any) (map[string]any, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       genderHook,
		Metadata:         &md,
		Result:           out,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, err
	}

	var extra map[string]any
	for _, key := range md.Unused {
		value, ok := input[key]
		if !ok {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[key] = value
	}
	return extra, nil
}

var genderType = reflect.TypeOf(GenderIdentity(0))

func genderHook(_, to reflect.Type, data any) (any, error) {
	if to != genderType {
		return data, nil
	}
	return ParseGender(data), nil
}

func defaultVersion(v int) int {
	if v < 1 {
		return CurrentVersion
	}
	return v
}
