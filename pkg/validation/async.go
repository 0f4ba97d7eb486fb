package validation

import (
	"context"
	"errors"
	"strings"

	"github.com/sourcegraph/conc/iter"
)

// ErrUnimplemented is returned by validators that did not implement Validate
var ErrUnimplemented = errors.New("validate() must be implemented")

// AsyncValidator validates data that may need I/O or other blocking work.
// A nil return means the data is valid; failures are returned as *Error.
type AsyncValidator interface {
	Validate(ctx context.Context, data any) error
}

// AsyncFunc adapts a function to the AsyncValidator interface
type AsyncFunc func(ctx context.Context, data any) error

// Validate calls f(ctx, data)
func (f AsyncFunc) Validate(ctx context.Context, data any) error {
	return f(ctx, data)
}

// UnimplementedAsyncValidator can be embedded to satisfy AsyncValidator before
// Validate is written. Calling it is a programming error.
type UnimplementedAsyncValidator struct{}

// Validate always returns ErrUnimplemented
func (UnimplementedAsyncValidator) Validate(context.Context, any) error {
	return ErrUnimplemented
}

// CreateError builds an error the same way schema failures are normalized,
// so custom validators report errors with the same shape.
func CreateError(path []string, keyword Keyword, data any, params Params) *Error {
	return Convert(RawFailure{
		Keyword:  keyword,
		DataPath: strings.Join(path, "."),
		Data:     data,
		Params:   params,
	})
}

// Chain runs several validators against the same data.
type Chain struct {
	validators []AsyncValidator
}

// NewChain creates a chain; validators are reported in the given order
func NewChain(validators ...AsyncValidator) *Chain {
	return &Chain{validators: validators}
}

// Validate runs every validator concurrently and returns the failure of the
// first failing validator in declaration order, or nil if all pass.
func (c *Chain) Validate(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	results := iter.Map(c.validators, func(v *AsyncValidator) error {
		return (*v).Validate(ctx, data)
	})

	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}
