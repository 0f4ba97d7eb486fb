package validation

import (
	"reflect"

	"github.com/goccy/go-json"
)

// Error is a normalized validation failure: a readable message, the path of the
// offending property and, when it is meaningful, the rejected value.
type Error struct {
	message          string
	field            string
	rejectedValue    any
	hasRejectedValue bool

	// not part of the wire shape
	keyword  Keyword
	property string
}

// NewError creates an error without a rejected value
func NewError(message, field string) *Error {
	return &Error{message: message, field: field}
}

// NewErrorWithValue creates an error carrying the value that failed validation
func NewErrorWithValue(message, field string, value any) *Error {
	return &Error{
		message:          message,
		field:            field,
		rejectedValue:    value,
		hasRejectedValue: true,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.message
}

// Message returns the human readable message
func (e *Error) Message() string {
	return e.message
}

// Field returns the canonical path of the offending property
func (e *Error) Field() string {
	return e.field
}

// RejectedValue returns the rejected value and whether one was recorded.
// Values reach the engine as decoded JSON, so a rejected number is a
// json.Number ("5"), not the Go int or float64 the caller passed.
func (e *Error) RejectedValue() (any, bool) {
	return e.rejectedValue, e.hasRejectedValue
}

// Keyword returns the constraint that produced the error, KeywordUnknown when
// the error was built directly
func (e *Error) Keyword() Keyword {
	return e.keyword
}

// Property returns the missing, unexpected or disallowed property name for
// required, additionalProperties and property name failures
func (e *Error) Property() string {
	return e.property
}

func (e *Error) withSource(keyword Keyword, property string) *Error {
	e.keyword = keyword
	e.property = property
	return e
}

// ToObject returns the wire shape of the error.
// rejected_value is only present when it was recorded.
func (e *Error) ToObject() map[string]any {
	obj := map[string]any{
		"message": e.message,
		"field":   e.field,
	}
	if e.hasRejectedValue {
		obj["rejected_value"] = e.rejectedValue
	}
	return obj
}

// MarshalJSON encodes the error in its wire shape
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToObject())
}

// Equal reports whether two errors carry the same message, field and rejected value
func (e *Error) Equal(other *Error) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.message == other.message &&
		e.field == other.field &&
		e.hasRejectedValue == other.hasRejectedValue &&
		reflect.DeepEqual(e.rejectedValue, other.rejectedValue)
}
