package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaNotFound is returned when a schema id does not match any supplied document
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrMissingID is returned for schema documents without a string $id
	ErrMissingID = errors.New("schema document has no $id")
	// ErrDuplicateID is returned when two schema documents share the same $id
	ErrDuplicateID = errors.New("duplicate schema $id")
	// ErrInvalidDocument is returned when data cannot be read as a JSON document
	ErrInvalidDocument = errors.New("invalid JSON document")
)

// ConfigurationError reports a schema setup problem found while building a validator.
// It is not a data validation failure and should not be retried.
type ConfigurationError struct {
	SchemaID string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if e.SchemaID == "" {
		return fmt.Sprintf("schema configuration error: %v", e.Err)
	}
	return fmt.Sprintf("schema configuration error for %s: %v", e.SchemaID, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
