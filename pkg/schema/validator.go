package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/amio-io/json-validations-lib/pkg/validation"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Observer is notified of every validation outcome.
// keyword is empty when the document is valid.
type Observer interface {
	ObserveValidation(schemaID, keyword string)
}

// Option configures a Validator
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	observer Observer
	formats  map[string]func(string) bool
}

// WithLogger sets the logger used for debug output of raw engine failures
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver reports validation outcomes to observer
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithFormat registers an additional string format. Failures of these formats
// are reported with the engine's generic message.
func WithFormat(name string, predicate func(string) bool) Option {
	return func(o *options) {
		o.formats[name] = predicate
	}
}

// Validator validates documents against one compiled schema.
// It is immutable after construction and safe for concurrent use.
type Validator struct {
	schemaID string
	schema   *jsonschema.Schema
	logger   zerolog.Logger
	observer Observer
}

// New compiles the schema identified by schemaID out of the supplied schema
// documents. Each document must carry a $id; documents may reference each
// other through $ref. Nothing is loaded from disk or network.
func New(schemaID string, documents []any, opts ...Option) (*Validator, error) {
	o := options{
		logger:  zerolog.Nop(),
		formats: map[string]func(string) bool{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	compiler.UseLoader(offlineLoader{})
	compiler.RegisterFormat(stringFormat(validation.FormatHTTPURL, IsValidHTTPURL))
	for name, predicate := range o.formats {
		compiler.RegisterFormat(stringFormat(name, predicate))
	}

	ids := make(map[string]bool, len(documents))
	for i, raw := range documents {
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, &ConfigurationError{SchemaID: schemaID, Err: fmt.Errorf("schema document %d: %w", i, err)}
		}
		id, err := documentID(doc)
		if err != nil {
			return nil, &ConfigurationError{SchemaID: schemaID, Err: fmt.Errorf("schema document %d: %w", i, err)}
		}
		if ids[id] {
			return nil, &ConfigurationError{SchemaID: schemaID, Err: fmt.Errorf("%w: %s", ErrDuplicateID, id)}
		}
		if err := compiler.AddResource(id, doc); err != nil {
			return nil, &ConfigurationError{SchemaID: schemaID, Err: fmt.Errorf("failed to add schema resource %s: %w", id, err)}
		}
		ids[id] = true
	}

	if !ids[baseID(schemaID)] {
		return nil, &ConfigurationError{SchemaID: schemaID, Err: ErrSchemaNotFound}
	}

	compiled, err := compiler.Compile(schemaID)
	if err != nil {
		return nil, &ConfigurationError{SchemaID: schemaID, Err: err}
	}

	return &Validator{
		schemaID: schemaID,
		schema:   compiled,
		logger:   o.logger,
		observer: o.observer,
	}, nil
}

// SchemaID returns the id of the compiled schema
func (v *Validator) SchemaID() string {
	return v.schemaID
}

// Validate checks data against the schema. It returns nil when data is valid,
// otherwise a *validation.Error describing the first failure the engine found.
// Data that cannot be represented as JSON yields ErrInvalidDocument.
func (v *Validator) Validate(data any) error {
	document, err := normalize(data)
	if err != nil {
		return err
	}
	return v.validateDocument(document)
}

// ValidateJSON decodes raw JSON and validates it
func (v *Validator) ValidateJSON(raw []byte) error {
	document, err := parseJSON(raw)
	if err != nil {
		return err
	}
	return v.validateDocument(document)
}

func (v *Validator) validateDocument(document any) error {
	err := v.schema.Validate(document)
	if err == nil {
		v.observe("")
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation error for %s: %w", v.schemaID, err)
	}

	failures := collectFailures(v.schema, document, verr)
	v.logger.Debug().
		Str("schemaId", v.schemaID).
		Int("failures", len(failures)).
		Interface("errors", failures).
		Msg("schema validation failed")

	keyword := validation.KeywordUnknown
	if len(failures) > 0 {
		keyword = failures[0].Keyword
	}
	v.observe(keyword.String())
	return validation.Convert(failures...)
}

func (v *Validator) observe(keyword string) {
	if v.observer != nil {
		v.observer.ObserveValidation(v.schemaID, keyword)
	}
}

// Async adapts a Validator to the validation.AsyncValidator interface so it
// can run in a validation.Chain next to custom validators.
func Async(v *Validator) validation.AsyncValidator {
	return validation.AsyncFunc(func(ctx context.Context, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return v.Validate(data)
	})
}
