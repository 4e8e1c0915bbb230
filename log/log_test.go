package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"text", FormatText},
		{" TEXT ", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if got := LevelTrace.String(); got != "trace" {
		t.Errorf("LevelTrace.String() = %q, want %q", got, "trace")
	}

	if got := LevelError.String(); got != "error" {
		t.Errorf("LevelError.String() = %q, want %q", got, "error")
	}
}

func TestLevels(t *testing.T) {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	if len(names) != 5 {
		t.Fatalf("Levels() yielded %d names, want 5", len(names))
	}

	if names[0] != "trace" || names[4] != "error" {
		t.Errorf("Levels() = %v, unexpected order", names)
	}
}

func TestMakeJSONOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON))
	logger.Info("hello", slog.String("key", "value"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want %q", record["msg"], "hello")
	}

	if record["key"] != "value" {
		t.Errorf("key = %v, want %q", record["key"], "value")
	}

	if record["level"] != "INFO" {
		t.Errorf("level = %v, want %q", record["level"], "INFO")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelWarn))

	logger.Debug("suppressed")
	logger.Info("suppressed")

	if buf.Len() != 0 {
		t.Fatalf("messages below level were written: %s", buf.String())
	}

	logger.Warn("kept")

	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn message missing from output: %s", buf.String())
	}
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace))
	logger.Trace("low level detail")

	if !strings.Contains(buf.String(), `"TRACE"`) {
		t.Errorf("trace record missing TRACE level name: %s", buf.String())
	}
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON))
	logger = logger.With(slog.String("component", "resolver"))
	logger.Info("attached")

	if !strings.Contains(buf.String(), `"component":"resolver"`) {
		t.Errorf("attribute missing from output: %s", buf.String())
	}
}

func TestWrapOverrides(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelInfo))
	wrapped := logger.Wrap(WithLevel(LevelError))

	if wrapped.Level() != LevelError {
		t.Errorf("wrapped level = %v, want %v", wrapped.Level(), LevelError)
	}

	if logger.Level() != LevelInfo {
		t.Errorf("original level changed to %v", logger.Level())
	}
}

func TestTimeLayoutNone(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	logger.Info("timeless")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("time field present with layout none: %s", buf.String())
	}
}

func TestZeroValueLogger(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("ignored")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v, want default", logger.Level())
	}
}
