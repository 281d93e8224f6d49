package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crqa/internal/config"
	"crqa/internal/logging"
	"crqa/internal/recurrence"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "error"

	var console bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &console)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("filtered out")
	logger.Error("analysis failed", logging.String(logging.FieldRunID, "run-1"))

	if !strings.Contains(console.String(), "analysis failed") {
		t.Fatalf("expected console copy, got %q", console.String())
	}

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record above level, got %q", content)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log file should hold JSON: %v", err)
	}
	if record["msg"] != "analysis failed" || record["level"] != "error" || record["run_id"] != "run-1" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersComponentAndDyad(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	base, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithDyadID(logging.WithRunID(context.Background(), "run-9"), "d07")
	logger := logging.WithContext(ctx, logging.NewComponentLogger(base, "pipeline"))
	logger.Info("dyad analyzed", logging.Float64("rr", 12.5), logging.String("state", "no recurrence"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{"INFO pipeline: [dyad d07] dyad analyzed", "run_id=run-9", "rr=12.5", `state="no recurrence"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as a prefix, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "dyad skipped", "dyad_invalid", logging.String(logging.FieldImpact, "dyad excluded from run"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record[logging.FieldEventType] != "dyad_invalid" {
		t.Fatalf("expected event_type, got %v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error_hint, got %v", record)
	}
	if record[logging.FieldImpact] != "dyad excluded from run" {
		t.Fatalf("explicit impact should be kept, got %v", record)
	}
}

func TestMetricAttrRendersNA(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("dyad analyzed",
		logging.Metric("rr", recurrence.Defined(12.5)),
		logging.Metric("det", recurrence.Metric{}),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["rr"] != 12.5 || record["det"] != "NA" {
		t.Fatalf("unexpected metric fields %v", record)
	}
}

func TestWithContextWithoutFieldsReturnsLogger(t *testing.T) {
	logger := logging.NewNop()
	if logging.WithContext(context.Background(), logger) != logger {
		t.Fatal("expected same logger when context carries no fields")
	}
	if _, ok := logging.RunIDFromContext(logging.WithRunID(context.Background(), " ")); ok {
		t.Fatal("blank run IDs should not be stored")
	}
}
