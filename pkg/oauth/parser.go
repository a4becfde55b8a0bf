package oauth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// undefinedPrefix is emitted by some providers ahead of an otherwise valid
// JSON body.
var undefinedPrefix = []byte("undefined")

// TrimUndefinedPrefix strips a single leading "undefined" token from body.
func TrimUndefinedPrefix(body []byte) []byte {
	return bytes.TrimPrefix(body, undefinedPrefix)
}

// DecodeObject decodes a provider response body into a field map.
// With lenient set, a leading "undefined" token is stripped first.
// Numbers are kept as json.Number so large identifiers survive decoding.
func DecodeObject(body []byte, lenient bool) (map[string]any, error) {
	if lenient {
		body = TrimUndefinedPrefix(body)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, errors.Join(ErrDecodeFailed, err)
	}
	if fields == nil {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("body is not a JSON object"))
	}
	if dec.More() {
		return nil, errors.Join(ErrDecodeFailed, fmt.Errorf("unexpected data after JSON object"))
	}

	return fields, nil
}

// Decode decodes a provider response body into v, applying the same prefix
// handling as DecodeObject.
func Decode(body []byte, lenient bool, v any) error {
	if lenient {
		body = TrimUndefinedPrefix(body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Join(ErrDecodeFailed, err)
	}
	return nil
}
