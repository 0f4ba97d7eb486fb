package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/amio-io/json-validations-lib/pkg/config"
)

func TestValidateFilesText(t *testing.T) {
	cfg, dir := testConfig(t)

	valid := writeFile(t, dir, "valid.json", `{"name": "Ada", "age": 36}`)
	invalid := writeFile(t, dir, "invalid.json", "{\n  \"name\": \"Ada\",\n  \"age\": \"old\"\n}\n")
	yamlFile := writeFile(t, dir, "extra.yaml", "name: Ada\nnickname: ada\n")

	tests := []struct {
		name        string
		files       []string
		verbose     bool
		wantErr     bool
		contains    []string
		notContains []string
	}{
		{
			name:        "valid file is silent",
			files:       []string{valid},
			notContains: []string{"valid.json"},
		},
		{
			name:     "valid file in verbose mode",
			files:    []string{valid},
			verbose:  true,
			contains: []string{"valid.json", "1 of 1 files valid"},
		},
		{
			name:    "type mismatch",
			files:   []string{valid, invalid},
			wantErr: true,
			contains: []string{
				"invalid.json:3:",
				"Property 'age' must be integer.",
				"--> .age",
				"hint: rejected value: old",
				"1 of 2 files valid",
			},
		},
		{
			name:    "additional property in yaml",
			files:   []string{yamlFile},
			wantErr: true,
			contains: []string{
				"extra.yaml:2:",
				"Property 'nickname' is not supported.",
				"hint: remove 'nickname' or check it for typos",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := ValidateFiles(context.Background(), cfg, tt.files, &out, tt.verbose)

			if tt.wantErr {
				if !errors.Is(err, ErrValidationFailed) {
					t.Fatalf("expected ErrValidationFailed, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			output := out.String()
			for _, s := range tt.contains {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.notContains {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

func TestValidateFilesJSON(t *testing.T) {
	cfg, dir := testConfig(t)
	cfg.Output = config.OutputJSON
	cfg.Concurrency = 2

	files := []string{
		writeFile(t, dir, "a.json", `{"name": "Ada"}`),
		writeFile(t, dir, "b.json", `{"age": 3}`),
		writeFile(t, dir, "c.json", `{"name": "Ada", "homepage": "ftp://example.com"}`),
		writeFile(t, dir, "d.json", `{not json`),
		dir + "/missing.json",
	}

	var out bytes.Buffer
	err := ValidateFiles(context.Background(), cfg, files, &out, false)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "4 of 5 files invalid") {
		t.Errorf("unexpected error message: %v", err)
	}

	type line struct {
		File  string         `json:"file"`
		Valid bool           `json:"valid"`
		Error map[string]any `json:"error"`
		Fault string         `json:"fault"`
	}
	var lines []line
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var l line
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			t.Fatalf("output line is not JSON: %q: %v", scanner.Text(), err)
		}
		lines = append(lines, l)
	}

	if len(lines) != len(files) {
		t.Fatalf("expected %d result lines, got %d", len(files), len(lines))
	}
	for i, l := range lines {
		if l.File != files[i] {
			t.Errorf("line %d: expected file %s, got %s", i, files[i], l.File)
		}
	}

	if !lines[0].Valid || lines[0].Error != nil {
		t.Errorf("expected a.json to be valid, got %+v", lines[0])
	}

	if lines[1].Valid {
		t.Error("expected b.json to be invalid")
	}
	if got := lines[1].Error["message"]; got != "Missing property 'name'." {
		t.Errorf("b.json: unexpected message %v", got)
	}
	if got := lines[1].Error["field"]; got != "." {
		t.Errorf("b.json: unexpected field %v", got)
	}
	if _, ok := lines[1].Error["rejected_value"]; ok {
		t.Error("b.json: required failures carry no rejected value")
	}

	if got := lines[2].Error["message"]; got != `Property 'homepage' must be a valid URL. Current value is "ftp://example.com"` {
		t.Errorf("c.json: unexpected message %v", got)
	}
	if got := lines[2].Error["rejected_value"]; got != "ftp://example.com" {
		t.Errorf("c.json: unexpected rejected value %v", got)
	}

	for _, i := range []int{3, 4} {
		if lines[i].Valid || lines[i].Error != nil || lines[i].Fault == "" {
			t.Errorf("line %d: expected a fault, got %+v", i, lines[i])
		}
	}
}

func TestValidateFilesErrors(t *testing.T) {
	cfg, dir := testConfig(t)
	file := writeFile(t, dir, "a.json", `{}`)

	t.Run("no schema id", func(t *testing.T) {
		c := *cfg
		c.SchemaID = ""
		if err := ValidateFiles(context.Background(), &c, []string{file}, &bytes.Buffer{}, false); err == nil {
			t.Error("expected an error without a schema id")
		}
	})

	t.Run("no files", func(t *testing.T) {
		if err := ValidateFiles(context.Background(), cfg, nil, &bytes.Buffer{}, false); err == nil {
			t.Error("expected an error without files")
		}
	})

	t.Run("unknown schema id", func(t *testing.T) {
		c := *cfg
		c.SchemaID = "unknown"
		err := ValidateFiles(context.Background(), &c, []string{file}, &bytes.Buffer{}, false)
		if err == nil || errors.Is(err, ErrValidationFailed) {
			t.Errorf("expected a configuration error, got %v", err)
		}
	})
}

func TestValidateConcurrentlyCancelled(t *testing.T) {
	cfg, dir := testConfig(t)
	validator, err := loadValidator(cfg, nil)
	if err != nil {
		t.Fatalf("failed to load validator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := writeFile(t, dir, "a.json", `{"name": "Ada"}`)
	results := validateConcurrently(ctx, validator, []string{file, file}, 1)
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", r.Err)
		}
	}
}
