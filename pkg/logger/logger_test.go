package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := std
	std = log.New(&buf, "", 0)
	t.Cleanup(func() { std = old })
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelWarn)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	Info("hidden")
	Warn("shown")
	Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message leaked through warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "also shown") {
		t.Errorf("warn/error messages missing: %s", out)
	}
}

func TestComponentAndFields(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	InfoCF("dispatch", "Delivered", map[string]interface{}{
		"channel": "email",
		"id":      "abc",
	})

	out := buf.String()
	for _, want := range []string{"INFO", "[dispatch]", "Delivered", "channel=email", "id=abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
	// Fields render in sorted key order for deterministic logs.
	if strings.Index(out, "channel=") > strings.Index(out, "id=") {
		t.Errorf("fields not sorted: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"gibberish", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
