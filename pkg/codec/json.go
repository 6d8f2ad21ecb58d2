package codec

import (
	"bytes"
	"encoding/json"
	"errors"
)

// JSON stores the whole session mapping as a single JSON document. Numbers
// decode as float64 and objects as map[string]any, per encoding/json.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Decode(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Join(ErrDataFormat, err)
	}
	return values, nil
}

func (JSON) Encode(values map[string]any) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	return json.Marshal(values)
}
