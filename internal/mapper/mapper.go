package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// MapErrorToSpans maps a validation error (field + meta) to spans in a YAML or
// JSON source. It returns one or more candidate spans ordered by confidence.
func MapErrorToSpans(source []byte, field string, meta ErrorMeta) ([]Span, error) {
	segments := splitField(field)

	// JSON is a subset of YAML, so one parser covers both
	file, err := parser.ParseBytes(source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("yaml parse error: %w", err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return []Span{documentFallbackSpan()}, nil
	}

	root := file.Docs[0].Body
	node, parent := traverseBySegments(root, segments)

	switch meta.Kind {
	case "type", "const", "format":
		if node != nil {
			return []Span{valueSpan(node, "value mismatch: highlighting value")}, nil
		}

	case "additionalProperties":
		// the field already ends with the offending key
		if span, ok := keySpan(parent, segments, 0.98, "additional property key"); ok {
			return []Span{span}, nil
		}

	case "enum":
		if meta.Property != "" {
			if span, ok := keySpan(parent, segments, 0.95, "disallowed property name"); ok {
				return []Span{span}, nil
			}
		} else if node != nil {
			return []Span{valueSpan(node, "value not allowed: highlighting value")}, nil
		}

	case "required":
		// the field addresses the object that lacks the property
		if node != nil {
			return []Span{computeInsertionAnchor(node, meta.Property)}, nil
		}

	default:
		if node != nil {
			return []Span{nodeSpan(node, 0.8, "generic mapping")}, nil
		}
	}

	candidates := fallbackHeuristics(root, source, segments, meta)
	if len(candidates) > 0 {
		return candidates, nil
	}

	return []Span{documentFallbackSpan()}, nil
}

// traverseBySegments walks the AST using segments. It returns the node for the
// final segment (nil when missing) and the node that should contain it.
func traverseBySegments(root ast.Node, segments []string) (ast.Node, ast.Node) {
	current := root
	var parent ast.Node

	for _, segment := range segments {
		parent = current
		next := child(current, segment)
		if next == nil {
			return nil, parent
		}
		current = next
	}

	return current, parent
}

func child(node ast.Node, segment string) ast.Node {
	switch n := node.(type) {
	case *ast.MappingNode:
		for _, valueNode := range n.Values {
			if keyMatches(valueNode.Key, segment) {
				return valueNode.Value
			}
		}
	case *ast.MappingValueNode:
		if keyMatches(n.Key, segment) {
			return n.Value
		}
	case *ast.SequenceNode:
		if !isIndex(segment) {
			return nil
		}
		idx, err := strconv.Atoi(segment)
		if err != nil || idx >= len(n.Values) {
			return nil
		}
		return n.Values[idx]
	case *ast.TagNode:
		return child(n.Value, segment)
	case *ast.AnchorNode:
		return child(n.Value, segment)
	}
	return nil
}

// keyMatches checks if a mapping key node matches the expected segment string
func keyMatches(keyNode ast.MapKeyNode, segment string) bool {
	switch key := keyNode.(type) {
	case *ast.StringNode:
		return key.Value == segment
	case *ast.MappingKeyNode:
		return key.Value.GetToken().Value == segment
	default:
		if tk := key.GetToken(); tk != nil {
			return tk.Value == segment
		}
		return false
	}
}

// findKeyInMapping searches mapping children for key and returns the key node
func findKeyInMapping(parent ast.Node, key string) ast.Node {
	switch n := parent.(type) {
	case *ast.MappingNode:
		for _, valueNode := range n.Values {
			if keyMatches(valueNode.Key, key) {
				return valueNode.Key
			}
		}
	case *ast.MappingValueNode:
		if keyMatches(n.Key, key) {
			return n.Key
		}
	}
	return nil
}

// keySpan highlights the key named by the last segment inside parent
func keySpan(parent ast.Node, segments []string, conf float64, reason string) (Span, bool) {
	if parent == nil || len(segments) == 0 {
		return Span{}, false
	}
	keyNode := findKeyInMapping(parent, segments[len(segments)-1])
	if keyNode == nil {
		return Span{}, false
	}
	return nodeSpan(keyNode, conf, reason), true
}

func valueSpan(node ast.Node, reason string) Span {
	if tk := node.GetToken(); tk != nil {
		return tokenToSpan(tk, 0.95, reason)
	}
	return nodeSpan(node, 0.9, reason)
}

// nodeSpan builds a Span from AST node positions with confidence and reason.
func nodeSpan(node ast.Node, conf float64, reason string) Span {
	if tk := node.GetToken(); tk != nil {
		return tokenToSpan(tk, conf, reason)
	}
	return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: conf * 0.5, Reason: reason + " (no position)"}
}

func tokenToSpan(tk *token.Token, confidence float64, reason string) Span {
	pos := tk.Position
	width := len(tk.Value)
	if tk.Origin != "" {
		width = len(strings.TrimSpace(tk.Origin))
	}
	return Span{
		StartLine:  pos.Line,
		StartCol:   pos.Column,
		EndLine:    pos.Line,
		EndCol:     pos.Column + width,
		Confidence: confidence,
		Reason:     reason,
	}
}

// computeInsertionAnchor points after the last key of the mapping that misses propertyName
func computeInsertionAnchor(parent ast.Node, propertyName string) Span {
	switch n := parent.(type) {
	case *ast.MappingNode:
		if len(n.Values) > 0 {
			lastValue := n.Values[len(n.Values)-1]
			if tk := lastValue.Key.GetToken(); tk != nil {
				pos := tk.Position
				return Span{
					StartLine:  pos.Line + 1,
					StartCol:   pos.Column,
					EndLine:    pos.Line + 1,
					EndCol:     pos.Column,
					Confidence: 0.75,
					Reason:     fmt.Sprintf("insertion anchor for missing property '%s'", propertyName),
				}
			}
		}
		if tk := n.GetToken(); tk != nil {
			pos := tk.Position
			return Span{
				StartLine:  pos.Line,
				StartCol:   pos.Column + 1,
				EndLine:    pos.Line,
				EndCol:     pos.Column + 1,
				Confidence: 0.7,
				Reason:     fmt.Sprintf("empty mapping insertion anchor for '%s'", propertyName),
			}
		}
	case *ast.MappingValueNode:
		if tk := n.Key.GetToken(); tk != nil {
			pos := tk.Position
			return Span{
				StartLine:  pos.Line + 1,
				StartCol:   pos.Column,
				EndLine:    pos.Line + 1,
				EndCol:     pos.Column,
				Confidence: 0.75,
				Reason:     fmt.Sprintf("insertion anchor for missing property '%s'", propertyName),
			}
		}
	}

	return Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1, Confidence: 0.3, Reason: "insertion anchor fallback"}
}

// fallbackHeuristics searches the text for meta.Property and falls back to the
// closest existing ancestor of the field.
func fallbackHeuristics(root ast.Node, source []byte, segments []string, meta ErrorMeta) []Span {
	var candidates []Span

	if meta.Property != "" {
		candidates = append(candidates, searchPropertyInText(source, meta.Property)...)
	}

	for i := len(segments) - 1; i > 0; i-- {
		if ancestor, _ := traverseBySegments(root, segments[:i]); ancestor != nil {
			candidates = append(candidates, nodeSpan(ancestor, 0.4, fmt.Sprintf("parent context for missing segments at depth %d", i)))
			break
		}
	}

	return candidates
}

// searchPropertyInText returns a candidate span for every line mentioning property
func searchPropertyInText(source []byte, property string) []Span {
	var spans []Span
	for lineNum, line := range strings.Split(string(source), "\n") {
		if idx := strings.Index(line, property); idx != -1 {
			spans = append(spans, Span{
				StartLine:  lineNum + 1,
				StartCol:   idx + 1,
				EndLine:    lineNum + 1,
				EndCol:     idx + len(property) + 1,
				Confidence: 0.6,
				Reason:     fmt.Sprintf("text search match for property '%s'", property),
			})
		}
	}
	return spans
}

// documentFallbackSpan returns a low-confidence span at the start of the document
func documentFallbackSpan() Span {
	return Span{
		StartLine:  1,
		StartCol:   1,
		EndLine:    1,
		EndCol:     1,
		Confidence: 0.2,
		Reason:     "document-level fallback",
	}
}
