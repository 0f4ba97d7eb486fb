package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amio-io/json-validations-lib/pkg/constants"
	"github.com/amio-io/json-validations-lib/pkg/logging"
	"github.com/amio-io/json-validations-lib/pkg/schema"
	"github.com/amio-io/json-validations-lib/pkg/validation"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidateToolInput is the argument of the validate MCP tool
type ValidateToolInput struct {
	SchemaID string `json:"schema_id,omitempty" jsonschema:"id of the schema to validate against, defaults to the configured schema id"`
	Document any    `json:"document" jsonschema:"the JSON document to validate"`
}

// ToolError is the wire shape of a validation error
type ToolError struct {
	Message       string `json:"message"`
	Field         string `json:"field"`
	RejectedValue any    `json:"rejected_value,omitempty"`
}

// ValidateToolOutput is the structured result of the validate MCP tool
type ValidateToolOutput struct {
	Valid bool       `json:"valid"`
	Error *ToolError `json:"error,omitempty"`
}

// ListSchemasOutput is the structured result of the list_schemas MCP tool
type ListSchemasOutput struct {
	SchemaIDs []string `json:"schema_ids"`
}

// validatorCache compiles each schema id once per store
type validatorCache struct {
	store *schema.Store

	mu         sync.Mutex
	validators map[string]*schema.Validator
}

func (c *validatorCache) get(id string) (*schema.Validator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.validators[id]; ok {
		return v, nil
	}
	v, err := c.store.Validator(id, schema.WithLogger(logging.WithComponent("schema")))
	if err != nil {
		return nil, err
	}
	c.validators[id] = v
	return v, nil
}

// NewMCPServer exposes the schemas in store as MCP tools.
// defaultSchemaID is used when a validate call does not name a schema.
func NewMCPServer(store *schema.Store, defaultSchemaID string) *mcp.Server {
	cache := &validatorCache{store: store, validators: make(map[string]*schema.Validator)}
	logger := logging.WithComponent("mcp")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    constants.CLIName,
		Version: GetVersion(),
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a JSON document against a schema and return the first error as {message, field, rejected_value}",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in ValidateToolInput) (*mcp.CallToolResult, ValidateToolOutput, error) {
		id := in.SchemaID
		if id == "" {
			id = defaultSchemaID
		}
		if id == "" {
			return nil, ValidateToolOutput{}, errors.New("schema_id is required")
		}

		validator, err := cache.get(id)
		if err != nil {
			return nil, ValidateToolOutput{}, err
		}

		err = validator.Validate(in.Document)
		logger.Debug().Str("schemaId", id).Bool("valid", err == nil).Msg("validate tool called")
		if err == nil {
			return nil, ValidateToolOutput{Valid: true}, nil
		}

		var verr *validation.Error
		if !errors.As(err, &verr) {
			return nil, ValidateToolOutput{}, fmt.Errorf("failed to validate document: %w", err)
		}
		out := ValidateToolOutput{Error: &ToolError{Message: verr.Message(), Field: verr.Field()}}
		if value, ok := verr.RejectedValue(); ok {
			out.Error.RejectedValue = value
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_schemas",
		Description: "List the ids of the available schemas",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, ListSchemasOutput, error) {
		return nil, ListSchemasOutput{SchemaIDs: store.IDs()}, nil
	})

	return server
}

// RunMCPServer serves the MCP tools over stdio until ctx is cancelled or the client disconnects
func RunMCPServer(ctx context.Context, schemaDir, defaultSchemaID string) error {
	store, err := schema.LoadDir(schemaDir)
	if err != nil {
		return err
	}

	logger := logging.WithComponent("mcp")
	logger.Info().Int("schemas", len(store.IDs())).Msg("starting MCP server on stdio")
	return NewMCPServer(store, defaultSchemaID).Run(ctx, &mcp.StdioTransport{})
}
