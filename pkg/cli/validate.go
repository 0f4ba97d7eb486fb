package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amio-io/json-validations-lib/pkg/config"
	"github.com/amio-io/json-validations-lib/pkg/console"
	"github.com/amio-io/json-validations-lib/pkg/logging"
	"github.com/amio-io/json-validations-lib/pkg/schema"
	"github.com/amio-io/json-validations-lib/pkg/validation"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/sourcegraph/conc/pool"
)

// ErrValidationFailed is returned when at least one file does not match its schema
var ErrValidationFailed = errors.New("validation failed")

// FileResult is the outcome of validating one data file
type FileResult struct {
	File   string
	Source []byte
	Err    error // *validation.Error for invalid data, anything else is a read or decode failure
}

// Valid reports whether the file matched the schema
func (r FileResult) Valid() bool {
	return r.Err == nil
}

// ValidationError returns the validation failure, if that is why the file is invalid
func (r FileResult) ValidationError() (*validation.Error, bool) {
	var verr *validation.Error
	if errors.As(r.Err, &verr) {
		return verr, true
	}
	return nil, false
}

// jsonResult is one line of --output json
type jsonResult struct {
	File  string            `json:"file"`
	Valid bool              `json:"valid"`
	Error *validation.Error `json:"error,omitempty"`
	Fault string            `json:"fault,omitempty"`
}

// ValidateFiles validates every file against cfg.SchemaID and reports the results to out.
// It returns ErrValidationFailed if any file is invalid.
func ValidateFiles(ctx context.Context, cfg *config.Config, files []string, out io.Writer, verbose bool) error {
	if cfg.SchemaID == "" {
		return errors.New("no schema id given, use --schema-id or JSONV_SCHEMA_ID")
	}
	if len(files) == 0 {
		return errors.New("no files to validate")
	}

	validator, err := loadValidator(cfg, nil)
	if err != nil {
		return err
	}
	if verbose && cfg.Output == config.OutputText {
		fmt.Fprintln(out, console.FormatVerboseMessage(fmt.Sprintf("Validating against schema %s from %s", cfg.SchemaID, cfg.SchemaDir)))
	}

	spinner := console.NewSpinner(fmt.Sprintf("Validating %d files...", len(files)))
	spinner.Start()
	results := validateConcurrently(ctx, validator, files, cfg.Concurrency)
	spinner.Stop()

	return reportResults(results, cfg.Output, out, verbose)
}

// loadValidator reads the schema directory and compiles cfg.SchemaID
func loadValidator(cfg *config.Config, observer schema.Observer) (*schema.Validator, error) {
	store, err := schema.LoadDir(cfg.SchemaDir)
	if err != nil {
		return nil, err
	}

	opts := []schema.Option{schema.WithLogger(logging.WithComponent("schema"))}
	if observer != nil {
		opts = append(opts, schema.WithObserver(observer))
	}
	return store.Validator(cfg.SchemaID, opts...)
}

// validateConcurrently validates files with at most concurrency workers.
// Results keep the order of files.
func validateConcurrently(ctx context.Context, validator *schema.Validator, files []string, concurrency int) []FileResult {
	type indexed struct {
		index  int
		result FileResult
	}

	p := pool.NewWithResults[indexed]().WithMaxGoroutines(max(1, concurrency))
	for i, file := range files {
		p.Go(func() indexed {
			return indexed{index: i, result: validateFile(ctx, validator, file)}
		})
	}

	results := make([]FileResult, len(files))
	for _, r := range p.Wait() {
		results[r.index] = r.result
	}
	return results
}

func validateFile(ctx context.Context, validator *schema.Validator, file string) FileResult {
	result := FileResult{File: file}
	logger := logging.WithFile("cli", file)

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	source, err := os.ReadFile(file)
	if err != nil {
		result.Err = fmt.Errorf("failed to read %s: %w", file, err)
		return result
	}
	result.Source = source

	if isYAMLFile(file) {
		var doc any
		if err := yaml.Unmarshal(source, &doc); err != nil {
			result.Err = fmt.Errorf("failed to parse %s: %w", file, err)
			return result
		}
		result.Err = validator.Validate(doc)
	} else {
		result.Err = validator.ValidateJSON(source)
	}

	logger.Debug().Bool("valid", result.Valid()).Msg("validated file")
	return result
}

func isYAMLFile(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func reportResults(results []FileResult, output string, out io.Writer, verbose bool) error {
	failed := 0
	for _, result := range results {
		if !result.Valid() {
			failed++
		}
	}

	if output == config.OutputJSON {
		enc := json.NewEncoder(out)
		for _, result := range results {
			line := jsonResult{File: result.File, Valid: result.Valid()}
			if verr, ok := result.ValidationError(); ok {
				line.Error = verr
			} else if result.Err != nil {
				line.Fault = result.Err.Error()
			}
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
	} else {
		for _, result := range results {
			fmt.Fprint(out, formatResult(result, verbose))
		}
		if verbose || failed > 0 {
			fmt.Fprintln(out, console.FormatCountMessage(fmt.Sprintf("%d of %d files valid", len(results)-failed, len(results))))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files invalid", ErrValidationFailed, failed, len(results))
	}
	return nil
}

func formatResult(result FileResult, verbose bool) string {
	if result.Valid() {
		if verbose {
			return console.FormatSuccessMessage(console.ToRelativePath(result.File)) + "\n"
		}
		return ""
	}

	if verr, ok := result.ValidationError(); ok {
		return console.FormatError(diagnosticFor(result.File, result.Source, verr))
	}
	if result.Source != nil {
		if d, ok := parseDiagnostic(result.File, result.Source, result.Err); ok {
			return console.FormatError(d)
		}
	}
	return console.FormatErrorMessage(result.Err.Error()) + "\n"
}
