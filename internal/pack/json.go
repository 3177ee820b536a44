package pack

import (
	"bytes"
	"encoding/json"
	"sort"
)

func (p Pack) MarshalJSON() ([]byte, error) {
	type plain Pack
	return marshalWithExtra(plain(p), p.Extra)
}

func (l LumiaItem) MarshalJSON() ([]byte, error) {
	type plain LumiaItem
	return marshalWithExtra(plain(l), l.Extra)
}

func (l LoomItem) MarshalJSON() ([]byte, error) {
	type plain LoomItem
	return marshalWithExtra(plain(l), l.Extra)
}

// marshalWithExtra appends extra keys, sorted, after the struct fields.
// A key the struct already wrote is not repeated.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var written map[string]json.RawMessage
	if err := json.Unmarshal(data, &written); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(extra))
	for key := range extra {
		if _, ok := written[key]; !ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return data, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, key := range keys {
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		encodedValue, err := json.Marshal(extra[key])
		if err != nil {
			return nil, err
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
