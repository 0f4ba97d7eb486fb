package validation

import (
	"fmt"
	"strings"
)

// Convert normalizes the first raw failure into an Error.
// Only the first failure is reported, the rest are ignored.
func Convert(failures ...RawFailure) *Error {
	if len(failures) == 0 {
		return NewError("Validation failed.", "")
	}
	failure := failures[0]
	return convert(failure).withSource(failure.Keyword, sourceProperty(failure))
}

func convert(failure RawFailure) *Error {
	propName := lastSegment(failure.DataPath)
	params := failure.Params

	switch failure.Keyword {
	case KeywordType:
		// TODO: distinguish object and string expectations in the message
		return NewErrorWithValue(fmt.Sprintf("Property '%s' must be %s.", propName, params.Type), failure.DataPath, failure.Data)
	case KeywordAdditionalProperties:
		return NewError(fmt.Sprintf("Property '%s' is not supported.", params.AdditionalProperty),
			failure.DataPath+"."+params.AdditionalProperty)
	case KeywordRequired:
		return NewError(fmt.Sprintf("Missing property '%s'.", params.MissingProperty), orRoot(failure.DataPath))
	case KeywordConst:
		return NewErrorWithValue(fmt.Sprintf("Property '%s' must have value '%v'.", propName, params.AllowedValue), failure.DataPath, failure.Data)
	case KeywordEnum:
		return convertEnum(failure, propName)
	case KeywordKeysNotEqual:
		message := fmt.Sprintf("Provided keys do not match expected keys: %s.", strings.Join(params.OriginalKeys, ","))
		return NewErrorWithValue(message, failure.DataPath, failure.Data)
	case KeywordNotFound:
		message := fmt.Sprintf("Cannot find %s with id %v.", params.NotFoundPropName, failure.Data)
		return NewErrorWithValue(message, failure.DataPath, failure.Data)
	case KeywordFormat:
		if params.Format == FormatHTTPURL {
			message := fmt.Sprintf("Property '%s' must be a valid URL. Current value is \"%v\"", propName, failure.Data)
			return NewErrorWithValue(message, failure.DataPath, failure.Data)
		}
		return convertDefault(failure, propName)
	case KeywordUnknown:
		return convertDefault(failure, propName)
	default:
		return convertDefault(failure, propName)
	}
}

// sourceProperty names the property a failure is about when it is not the
// last segment of the data path
func sourceProperty(failure RawFailure) string {
	switch failure.Keyword {
	case KeywordAdditionalProperties:
		return failure.Params.AdditionalProperty
	case KeywordRequired:
		return failure.Params.MissingProperty
	case KeywordEnum:
		if schemaParent(failure.SchemaPath) == "propertyNames" {
			return fmt.Sprintf("%v", failure.Data)
		}
	}
	return ""
}

func convertDefault(failure RawFailure, propName string) *Error {
	return NewErrorWithValue(fmt.Sprintf("Property '%s' %s", propName, failure.Message), failure.DataPath, failure.Data)
}

// convertEnum tells a failing property name (schema path ending in
// propertyNames/enum) apart from a failing property value.
func convertEnum(failure RawFailure, propName string) *Error {
	allowed := strings.Join(failure.Params.AllowedValues, ", ")

	if schemaParent(failure.SchemaPath) == "propertyNames" {
		base := failure.DataPath
		if base == "." {
			base = ""
		}
		message := fmt.Sprintf("Property '%v' at '%s' does not match any allowed property: %s.", failure.Data, orRoot(failure.DataPath), allowed)
		return NewError(message, fmt.Sprintf("%s.%v", base, failure.Data))
	}

	message := fmt.Sprintf("Property '%s' with value '%v' does not match any allowed value: %s.", propName, failure.Data, allowed)
	return NewErrorWithValue(message, failure.DataPath, failure.Data)
}

// schemaParent returns the segment before the failing keyword:
// "#/properties/a/propertyNames/enum" -> "propertyNames"
func schemaParent(schemaPath string) string {
	segments := strings.Split(schemaPath, "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}

// lastSegment returns the last non-empty segment of a dot delimited path
func lastSegment(dataPath string) string {
	segments := strings.Split(dataPath, ".")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

func orRoot(dataPath string) string {
	if dataPath == "" {
		return "."
	}
	return dataPath
}
