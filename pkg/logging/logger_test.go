package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := WithFile("cli", "order.json")
	logger.Debug().Str("schemaId", "http://example.com/a.json").Msg("validated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	for key, want := range map[string]string{
		"level":     "debug",
		"component": "cli",
		"file":      "order.json",
		"schemaId":  "http://example.com/a.json",
		"message":   "validated",
	} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %s", key, entry[key], want)
		}
	}
}

func TestInitLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "debug", level: "debug", want: zerolog.DebugLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
		{name: "empty falls back to info", level: "", want: zerolog.InfoLevel},
		{name: "unknown falls back to info", level: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(Config{Level: tt.level, Format: "json", Output: &bytes.Buffer{}})
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("GlobalLevel() = %v, want %v", got, tt.want)
			}
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestInitConsole(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})

	logger := WithComponent("watch")
	logger.Info().Msg("watching schemas")

	if !strings.Contains(buf.String(), "watching schemas") || !strings.Contains(buf.String(), "component=") {
		t.Errorf("unexpected console output %q", buf.String())
	}
}
