package cli

import (
	"fmt"

	"github.com/amio-io/json-validations-lib/internal/mapper"
	"github.com/amio-io/json-validations-lib/pkg/console"
	"github.com/amio-io/json-validations-lib/pkg/logging"
	"github.com/amio-io/json-validations-lib/pkg/validation"
)

const contextRadius = 2

// diagnosticFor locates a validation error in the file it came from
func diagnosticFor(file string, source []byte, verr *validation.Error) console.Diagnostic {
	d := console.Diagnostic{
		Position: console.ErrorPosition{File: file},
		Type:     "error",
		Message:  verr.Message(),
		Field:    verr.Field(),
		Hint:     hintFor(verr),
	}

	meta := mapper.ErrorMeta{Kind: verr.Keyword().String(), Property: verr.Property()}
	spans, err := mapper.MapErrorToSpans(source, verr.Field(), meta)
	if err != nil || len(spans) == 0 {
		logger := logging.WithFile("cli", file)
		logger.Debug().Err(err).Msg("could not locate error in source")
		return d
	}

	span := spans[0]
	d.Position.Line = span.StartLine
	d.Position.Column = span.StartCol
	if span.EndLine == span.StartLine && span.EndCol > span.StartCol {
		d.Position.Width = span.EndCol - span.StartCol
	}
	d.Context, d.ContextStart = console.ContextLines(source, span.StartLine, contextRadius)
	return d
}

func hintFor(verr *validation.Error) string {
	switch verr.Keyword() {
	case validation.KeywordRequired:
		return fmt.Sprintf("add the '%s' property", verr.Property())
	case validation.KeywordAdditionalProperties:
		return fmt.Sprintf("remove '%s' or check it for typos", verr.Property())
	}
	if value, ok := verr.RejectedValue(); ok {
		return fmt.Sprintf("rejected value: %v", value)
	}
	return ""
}
