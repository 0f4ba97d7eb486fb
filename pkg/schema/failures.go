package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/amio-io/json-validations-lib/pkg/validation"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var englishPrinter = message.NewPrinter(language.English)

// propertyNameContext is carried down a propertyNames subtree, where the
// engine reports locations relative to the property name being checked.
type propertyNameContext struct {
	property  string
	schemaURL string
}

// failureCollector flattens an engine error tree into raw failures, depth first.
// Siblings are visited in causeLess order; the engine's own order follows map iteration.
type failureCollector struct {
	root     *jsonschema.Schema
	document any
	failures []validation.RawFailure
}

func collectFailures(root *jsonschema.Schema, document any, verr *jsonschema.ValidationError) []validation.RawFailure {
	c := &failureCollector{root: root, document: document}
	c.walk(verr, nil)
	return c.failures
}

func (c *failureCollector) walk(verr *jsonschema.ValidationError, names *propertyNameContext) {
	if k, ok := verr.ErrorKind.(*kind.PropertyNames); ok {
		names = &propertyNameContext{property: k.Property, schemaURL: verr.SchemaURL}
	}

	if len(verr.Causes) > 0 {
		causes := append([]*jsonschema.ValidationError(nil), verr.Causes...)
		sort.SliceStable(causes, func(i, j int) bool {
			return causeLess(causes[i], causes[j])
		})
		for _, cause := range causes {
			c.walk(cause, names)
		}
		return
	}

	c.failures = append(c.failures, c.leafFailures(verr, names)...)
}

// causeLess orders sibling errors by instance location, then by the failing
// keyword's schema location, then by the property name a propertyNames error checks.
func causeLess(a, b *jsonschema.ValidationError) bool {
	if c := compareLocations(a.InstanceLocation, b.InstanceLocation); c != 0 {
		return c < 0
	}
	if pa, pb := schemaPath(a), schemaPath(b); pa != pb {
		return pa < pb
	}
	return propertyNameOf(a) < propertyNameOf(b)
}

// compareLocations compares instance locations segment by segment. Array
// indices compare numerically and a location sorts before its descendants.
func compareLocations(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareSegments(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareSegments(a, b string) int {
	ia, errA := strconv.Atoi(a)
	ib, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ia - ib
	}
	return strings.Compare(a, b)
}

func propertyNameOf(verr *jsonschema.ValidationError) string {
	if k, ok := verr.ErrorKind.(*kind.PropertyNames); ok {
		return k.Property
	}
	return ""
}

// leafFailures converts a single engine error; keywords listing several
// properties yield one failure per property.
func (c *failureCollector) leafFailures(verr *jsonschema.ValidationError, names *propertyNameContext) []validation.RawFailure {
	base := validation.RawFailure{
		DataPath:   dataPath(verr.InstanceLocation),
		Data:       valueAt(c.document, verr.InstanceLocation),
		SchemaPath: schemaPath(verr),
		Message:    engineMessage(verr.ErrorKind),
	}

	if names != nil {
		location := c.propertyNameLocation(names)
		base.DataPath = dataPath(location)
		base.Data = names.property
	}

	switch k := verr.ErrorKind.(type) {
	case *kind.Type:
		base.Keyword = validation.KeywordType
		base.Params.Type = strings.Join(k.Want, " or ")
		return []validation.RawFailure{base}

	case *kind.AdditionalProperties:
		properties := append([]string(nil), k.Properties...)
		sort.Strings(properties)
		failures := make([]validation.RawFailure, 0, len(properties))
		for _, property := range properties {
			failure := base
			failure.Keyword = validation.KeywordAdditionalProperties
			failure.Params.AdditionalProperty = property
			failures = append(failures, failure)
		}
		return failures

	case *kind.Required:
		failures := make([]validation.RawFailure, 0, len(k.Missing))
		for _, missing := range k.Missing {
			failure := base
			failure.Keyword = validation.KeywordRequired
			failure.Params.MissingProperty = missing
			failures = append(failures, failure)
		}
		return failures

	case *kind.Const:
		base.Keyword = validation.KeywordConst
		base.Params.AllowedValue = k.Want
		return []validation.RawFailure{base}

	case *kind.Enum:
		base.Keyword = validation.KeywordEnum
		for _, allowed := range k.Want {
			base.Params.AllowedValues = append(base.Params.AllowedValues, fmt.Sprintf("%v", allowed))
		}
		return []validation.RawFailure{base}

	case *kind.Format:
		base.Keyword = validation.KeywordFormat
		base.Params.Format = k.Want
		base.Message = fmt.Sprintf("should match format %q", k.Want)
		return []validation.RawFailure{base}

	default:
		base.Keyword = validation.KeywordUnknown
		return []validation.RawFailure{base}
	}
}

// propertyNameLocation finds the object whose key failed a propertyNames
// constraint. The engine validates the key as a standalone document and drops
// the object's location, so it is recovered from the compiled schema and the document.
func (c *failureCollector) propertyNameLocation(names *propertyNameContext) []string {
	if location, ok := locateObject(c.root, c.document, nil, names.schemaURL, names.property, map[visit]bool{}); ok {
		return location
	}
	if location, ok := findObjectWithKey(c.document, nil, names.property); ok {
		return location
	}
	return nil
}

// dataPath renders an instance location in dot notation: ["a","0"] -> ".a.0"
func dataPath(location []string) string {
	if len(location) == 0 {
		return ""
	}
	return "." + strings.Join(location, ".")
}

// schemaPath renders the failing keyword's location inside its schema document
func schemaPath(verr *jsonschema.ValidationError) string {
	path := "#" + fragment(verr.SchemaURL)
	if verr.ErrorKind != nil {
		if keywords := verr.ErrorKind.KeywordPath(); len(keywords) > 0 {
			path += "/" + strings.Join(keywords, "/")
		}
	}
	return path
}

// fragment returns the JSON pointer part of a schema location
func fragment(location string) string {
	_, frag, _ := strings.Cut(location, "#")
	return frag
}

func engineMessage(k jsonschema.ErrorKind) string {
	if k == nil {
		return "is invalid"
	}
	return k.LocalizedString(englishPrinter)
}
