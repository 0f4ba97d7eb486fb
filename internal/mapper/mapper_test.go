package mapper

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitField(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		expected []string
	}{
		{name: "empty field", field: "", expected: []string{}},
		{name: "root field", field: ".", expected: []string{}},
		{name: "simple path", field: ".jobs.build.steps.0.uses", expected: []string{"jobs", "build", "steps", "0", "uses"}},
		{name: "without leading dot", field: "valid", expected: []string{"valid"}},
		{name: "empty segment", field: ".a..b", expected: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitField(tt.field); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitField(%q) = %v, expected %v", tt.field, got, tt.expected)
			}
		})
	}
}

func TestIsIndex(t *testing.T) {
	tests := []struct {
		name     string
		segment  string
		expected bool
	}{
		{"zero", "0", true},
		{"positive integer", "123", true},
		{"negative integer", "-1", false},
		{"string", "name", false},
		{"empty", "", false},
		{"float", "1.5", false},
		{"mixed", "1a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := isIndex(tt.segment); result != tt.expected {
				t.Errorf("isIndex(%q) = %v, expected %v", tt.segment, result, tt.expected)
			}
		})
	}
}

func TestMapErrorToSpans(t *testing.T) {
	tests := []struct {
		name          string
		source        string
		field         string
		meta          ErrorMeta
		minConfidence float64
		wantLine      int // 0 skips the check
		shouldContain string
	}{
		{
			name: "type mismatch on simple value",
			source: `name: "test"
version: "1.0"
number: "should be int"`,
			field:         ".number",
			meta:          ErrorMeta{Kind: "type"},
			minConfidence: 0.8,
			wantLine:      3,
			shouldContain: "value mismatch",
		},
		{
			name: "missing required property at root",
			source: `name: "test"
version: "1.0"`,
			field:         ".",
			meta:          ErrorMeta{Kind: "required", Property: "required_field"},
			minConfidence: 0.5,
			wantLine:      3,
			shouldContain: "insertion anchor",
		},
		{
			name: "missing required property in nested object",
			source: `config:
  port: 8080
other: true`,
			field:         ".config",
			meta:          ErrorMeta{Kind: "required", Property: "host"},
			minConfidence: 0.5,
			wantLine:      3,
			shouldContain: "insertion anchor",
		},
		{
			name: "additional property",
			source: `config:
  port: 8080
  extra_setting: "not allowed"`,
			field:         ".config.extra_setting",
			meta:          ErrorMeta{Kind: "additionalProperties", Property: "extra_setting"},
			minConfidence: 0.9,
			wantLine:      3,
			shouldContain: "additional property key",
		},
		{
			name: "disallowed property name",
			source: `tags:
  a: 1
  d: 2`,
			field:         ".tags.d",
			meta:          ErrorMeta{Kind: "enum", Property: "d"},
			minConfidence: 0.9,
			wantLine:      3,
			shouldContain: "disallowed property name",
		},
		{
			name: "enum value",
			source: `level: high
mode: fast`,
			field:         ".mode",
			meta:          ErrorMeta{Kind: "enum"},
			minConfidence: 0.9,
			wantLine:      2,
			shouldContain: "value not allowed",
		},
		{
			name: "array index access",
			source: `items:
  - name: "first"
  - name: "second"
  - name: "third"`,
			field:         ".items.1.name",
			meta:          ErrorMeta{Kind: "format"},
			minConfidence: 0.8,
			wantLine:      3,
			shouldContain: "value mismatch",
		},
		{
			name: "array index out of range",
			source: `items:
  - name: "first"
  - name: "second"`,
			field:         ".items.5.name",
			meta:          ErrorMeta{Kind: "type"},
			minConfidence: 0.2,
			shouldContain: "parent context",
		},
		{
			name: "json source",
			source: `{
  "x": {
    "d": {}
  }
}`,
			field:         ".x.d",
			meta:          ErrorMeta{Kind: "additionalProperties", Property: "d"},
			minConfidence: 0.9,
			wantLine:      3,
		},
		{
			name:          "unknown keyword",
			source:        `count: 3`,
			field:         ".count",
			meta:          ErrorMeta{Kind: "unknown"},
			minConfidence: 0.8,
			wantLine:      1,
			shouldContain: "generic",
		},
		{
			name:          "empty document",
			source:        "",
			field:         ".any.path",
			meta:          ErrorMeta{Kind: "required"},
			minConfidence: 0.1,
			shouldContain: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans, err := MapErrorToSpans([]byte(tt.source), tt.field, tt.meta)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(spans) == 0 {
				t.Fatal("Expected at least one span")
			}

			firstSpan := spans[0]
			if firstSpan.Confidence < tt.minConfidence {
				t.Errorf("Expected confidence >= %f, got %f", tt.minConfidence, firstSpan.Confidence)
			}
			if tt.wantLine != 0 && firstSpan.StartLine != tt.wantLine {
				t.Errorf("Expected line %d, got %d (%s)", tt.wantLine, firstSpan.StartLine, firstSpan.Reason)
			}
			if tt.shouldContain != "" && !strings.Contains(firstSpan.Reason, tt.shouldContain) {
				t.Errorf("Expected reason to contain %q, got %q", tt.shouldContain, firstSpan.Reason)
			}
			if firstSpan.StartLine < 1 || firstSpan.StartCol < 1 {
				t.Errorf("Invalid span position: line %d, col %d", firstSpan.StartLine, firstSpan.StartCol)
			}
			if firstSpan.EndLine < firstSpan.StartLine {
				t.Errorf("End line (%d) before start line (%d)", firstSpan.EndLine, firstSpan.StartLine)
			}
		})
	}
}

func TestMapErrorToSpansInvalidSource(t *testing.T) {
	_, err := MapErrorToSpans([]byte("key: [unclosed"), ".key", ErrorMeta{Kind: "type"})
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if !strings.Contains(err.Error(), "yaml parse error") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestSearchPropertyInText(t *testing.T) {
	spans := searchPropertyInText([]byte("a: 1\nmissing_key: 2\n"), "missing_key")
	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].StartLine != 2 || spans[0].StartCol != 1 || spans[0].EndCol != len("missing_key")+1 {
		t.Errorf("Unexpected span %+v", spans[0])
	}
}
