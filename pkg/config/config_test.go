package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"JSONV_SCHEMA_DIR", "JSONV_SCHEMA_ID", "JSONV_OUTPUT", "JSONV_LOG_LEVEL",
	"JSONV_LOG_FORMAT", "JSONV_METRICS_ADDR", "JSONV_CONCURRENCY",
}

// clearEnv unsets every JSONV_ variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	configPath := writeFile(t, dir, "jsonv.yaml", `schema_dir: from-file
schema_id: http://example.com/file.json
output: json
concurrency: 2
`)
	envPath := writeFile(t, dir, "test.env", "JSONV_SCHEMA_ID=http://example.com/dotenv.json\nJSONV_LOG_LEVEL=warn\n")
	t.Setenv("JSONV_LOG_LEVEL", "debug")
	t.Setenv("JSONV_METRICS_ADDR", ":9090")

	cfg, err := Load(configPath, envPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "file value", got: cfg.SchemaDir, want: "from-file"},
		{name: "dotenv overrides file", got: cfg.SchemaID, want: "http://example.com/dotenv.json"},
		{name: "environment wins over dotenv", got: cfg.LogLevel, want: "debug"},
		{name: "environment only", got: cfg.MetricsAddr, want: ":9090"},
		{name: "file output", got: cfg.Output, want: OutputJSON},
		{name: "file concurrency", got: cfg.Concurrency, want: 2},
		{name: "default kept", got: cfg.LogFormat, want: "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for explicit missing config file")
	}

	bad := writeFile(t, dir, "bad.yaml", "schema_dir: [unclosed\n")
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}

	t.Setenv("JSONV_CONCURRENCY", "many")
	if _, err := Load("", filepath.Join(dir, "none.env")); err == nil || !strings.Contains(err.Error(), "JSONV_CONCURRENCY") {
		t.Errorf("expected concurrency error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "json output", mutate: func(c *Config) { c.Output = OutputJSON }},
		{name: "unknown output", mutate: func(c *Config) { c.Output = "xml" }, wantErr: "unsupported output format"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency must be positive"},
		{name: "empty schema dir", mutate: func(c *Config) { c.SchemaDir = "" }, wantErr: "schema directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
