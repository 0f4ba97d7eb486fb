package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// decodeDocument turns a schema or data document into a plain JSON value.
// Raw JSON is parsed directly; any other Go value is normalized through a
// JSON round trip so structs, typed maps and YAML values validate the same way.
func decodeDocument(doc any) (any, error) {
	switch v := doc.(type) {
	case json.RawMessage:
		return parseJSON(v)
	case []byte:
		return parseJSON(v)
	case string:
		return parseJSON([]byte(v))
	default:
		return normalize(v)
	}
}

func parseJSON(raw []byte) (any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// normalize converts a Go value into the JSON data model used by the engine
// (map[string]any, []any, json.Number, string, bool, nil)
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal value: %w", ErrInvalidDocument, err)
	}
	return parseJSON(data)
}

// documentID returns the $id of a decoded schema document without its fragment
func documentID(doc any) (string, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", ErrMissingID
	}
	id, ok := obj["$id"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", ErrMissingID
	}
	return baseID(id), nil
}

// baseID strips the fragment from a schema id:
// "http://example.com/s.json#/definitions/a" -> "http://example.com/s.json"
func baseID(id string) string {
	base, _, _ := strings.Cut(id, "#")
	return base
}
