package schema

import (
	"reflect"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

func TestValueAt(t *testing.T) {
	document := map[string]any{
		"a": map[string]any{
			"list": []any{"zero", map[string]any{"b": true}},
		},
	}

	tests := []struct {
		name     string
		location []string
		want     any
	}{
		{name: "root", location: nil, want: document},
		{name: "nested object", location: []string{"a", "list", "1", "b"}, want: true},
		{name: "array index", location: []string{"a", "list", "0"}, want: "zero"},
		{name: "missing key", location: []string{"a", "nope"}, want: nil},
		{name: "index out of range", location: []string{"a", "list", "5"}, want: nil},
		{name: "index into scalar", location: []string{"a", "list", "0", "x"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := valueAt(document, tt.location); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("valueAt(%v) = %#v, want %#v", tt.location, got, tt.want)
			}
		})
	}
}

func TestFindObjectWithKey(t *testing.T) {
	document := map[string]any{
		"b": map[string]any{"target": 1},
		"a": []any{map[string]any{"target": 2}},
	}

	got, ok := findObjectWithKey(document, nil, "target")
	if !ok {
		t.Fatal("expected key to be found")
	}
	if want := []string{"a", "0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("findObjectWithKey() = %v, want %v", got, want)
	}

	if _, ok := findObjectWithKey(document, nil, "absent"); ok {
		t.Error("expected absent key not to be found")
	}
}

func TestDataPath(t *testing.T) {
	tests := []struct {
		location []string
		want     string
	}{
		{location: nil, want: ""},
		{location: []string{"a"}, want: ".a"},
		{location: []string{"a", "0", "b"}, want: ".a.0.b"},
	}

	for _, tt := range tests {
		if got := dataPath(tt.location); got != tt.want {
			t.Errorf("dataPath(%v) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestSchemaPath(t *testing.T) {
	tests := []struct {
		name string
		verr *jsonschema.ValidationError
		want string
	}{
		{
			name: "property names enum",
			verr: &jsonschema.ValidationError{
				SchemaURL: "http://example.com/s.json#/properties/a/propertyNames",
				ErrorKind: &kind.Enum{Got: "d", Want: []any{"a"}},
			},
			want: "#/properties/a/propertyNames/enum",
		},
		{
			name: "root required",
			verr: &jsonschema.ValidationError{
				SchemaURL: "http://example.com/s.json#",
				ErrorKind: &kind.Required{Missing: []string{"a"}},
			},
			want: "#/required",
		},
		{
			name: "no kind",
			verr: &jsonschema.ValidationError{SchemaURL: "http://example.com/s.json"},
			want: "#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schemaPath(tt.verr); got != tt.want {
				t.Errorf("schemaPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
