package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amio-io/json-validations-lib/pkg/config"
)

const personSchema = `{
  "$id": "person",
  "type": "object",
  "required": ["name"],
  "additionalProperties": false,
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer"},
    "homepage": {"type": "string", "format": "httpUrl"}
  }
}`

// writeFile writes content to name inside dir and returns the full path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// testConfig returns a config pointing at a temporary schema dir holding personSchema
func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	schemaDir := filepath.Join(dir, "schemas")
	writeFile(t, schemaDir, "person.json", personSchema)

	cfg := config.Default()
	cfg.SchemaDir = schemaDir
	cfg.SchemaID = "person"
	return cfg, dir
}
