// FILE: lixenwraith/envdot/codec_json.go
package envdot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONAdapter handles .json files, keeping member order.
func JSONAdapter() *Adapter {
	return &Adapter{
		Format:     FormatJSON,
		Extensions: []string{".json"},
		Nested:     true,
		Parse:      parseJSON,
		Serialize: func(data any) ([]byte, error) {
			out, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal JSON: %w", err)
			}
			return append(out, '\n'), nil
		},
	}
}

func parseJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Object{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid JSON: trailing data", ErrParse)
	}
	return value, nil
}

// decodeJSONValue reads one value from the token stream. Objects become Object,
// arrays []any, numbers json.Number.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := Object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}
