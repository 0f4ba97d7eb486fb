package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/amio-io/json-validations-lib/pkg/console"
)

// extractParseError extracts line and column information from a JSON or YAML
// decode error. It returns 0, 0 and the original message when the error
// carries no position.
func extractParseError(err error, source []byte) (line int, column int, message string) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, column = offsetToPosition(source, syntaxErr.Offset)
		return line, column, syntaxErr.Error()
	}

	// goccy/go-yaml reports "[line:column] message" followed by a source excerpt
	errStr := err.Error()
	if idx := strings.Index(errStr, "["); idx >= 0 {
		firstLine, _, _ := strings.Cut(errStr[idx:], "\n")
		var rest string
		if n, scanErr := fmt.Sscanf(firstLine, "[%d:%d]", &line, &column); scanErr == nil && n == 2 {
			_, rest, _ = strings.Cut(firstLine, "]")
			return line, column, strings.TrimSpace(rest)
		}
	}

	// Fallback: return original error message
	return 0, 0, errStr
}

// offsetToPosition converts the byte offset reported by encoding/json, which
// points just past the offending byte, into a 1-based line and column
func offsetToPosition(source []byte, offset int64) (line int, column int) {
	if offset < 1 {
		return 1, 1
	}
	if offset > int64(len(source)) {
		offset = int64(len(source))
	}

	prefix := source[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	column = len(prefix) - 1 - bytes.LastIndexByte(prefix, '\n')
	if column < 1 {
		column = 1
	}
	return line, column
}

// parseDiagnostic renders a decode failure at its position in the source
func parseDiagnostic(file string, source []byte, err error) (console.Diagnostic, bool) {
	line, column, message := extractParseError(err, source)
	if line == 0 {
		return console.Diagnostic{}, false
	}

	d := console.Diagnostic{
		Position: console.ErrorPosition{File: file, Line: line, Column: column},
		Type:     "error",
		Message:  "failed to parse: " + message,
	}
	d.Context, d.ContextStart = console.ContextLines(source, line, contextRadius)
	return d, true
}
