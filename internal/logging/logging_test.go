package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"ERROR", log.ErrorLevel},
		{" fatal ", log.FatalLevel},
		{"", log.WarnLevel},
		{"verbose", log.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"text", log.TextFormatter},
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"JSON", log.JSONFormatter},
		{"", log.TextFormatter},
		{"xml", log.TextFormatter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidNames(t *testing.T) {
	if !ValidLevel("debug") || ValidLevel("loud") {
		t.Error("ValidLevel misclassified a level")
	}
	if !ValidFormat("logfmt") || ValidFormat("yaml") {
		t.Error("ValidFormat misclassified a format")
	}
}

func TestNewTextOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = log.DebugLevel
	logger := New(&buf, opts)

	logger.Warn("skipped invalid task", "index", 2)
	out := buf.String()

	for _, want := range []string{"WARN", "tasker", "skipped invalid task", "index=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNewLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, DefaultOptions())

	logger.Debug("tasks loaded")
	logger.Info("tasks saved")
	if buf.Len() != 0 {
		t.Errorf("expected debug and info to be filtered at warn level, got %q", buf.String())
	}
	logger.Error("save failed")
	if !strings.Contains(buf.String(), "save failed") {
		t.Errorf("expected error to be logged, got %q", buf.String())
	}
}

func TestFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, "info", "json", false, false)
	logger.Info("tasks saved", "count", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "tasks saved" {
		t.Errorf("msg: got %v, want %q", entry["msg"], "tasks saved")
	}
	if entry["count"] != float64(3) {
		t.Errorf("count: got %v, want 3", entry["count"])
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic.
	Discard().Error("dropped")
}
