package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsUnitFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger = WithComponent(logger, "extractor")
	logger = WithUnit(logger, "0026", "s1_all")

	logger.Info("stream decoded", slog.String(FieldModality, "masks"), slog.Int("frames", 60))

	line := buf.String()
	if !strings.Contains(line, "[extractor]") {
		t.Fatalf("expected component tag in output, got %q", line)
	}
	if !strings.Contains(line, "subject=0026") || !strings.Contains(line, "performance=s1_all") {
		t.Fatalf("expected unit fields in output, got %q", line)
	}
	// Identity fields come before free-form attributes.
	if strings.Index(line, "modality=masks") > strings.Index(line, "frames=60") {
		t.Fatalf("expected modality before frames, got %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("quiet")
	logger.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Fatalf("info record should have been suppressed: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestJSONHandlerRenamesCoreKeys(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl))

	logger.Error("fetch failed", Error(errSentinel))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if record["msg"] != "fetch failed" {
		t.Fatalf("expected msg key, got %v", record)
	}
	if record["level"] != "error" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

type sentinelError struct{}

func (sentinelError) Error() string { return "boom" }

var errSentinel = sentinelError{}
