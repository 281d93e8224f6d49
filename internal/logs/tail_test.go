package logs_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crqa/internal/logs"
)

const sampleLog = `{"ts":"2026-03-01T10:00:00Z","level":"info","msg":"analysis started","component":"pipeline","run_id":"aaaa1111","dyads":3}
{"ts":"2026-03-01T10:00:01Z","level":"warn","msg":"dyad skipped","component":"pipeline","run_id":"aaaa1111","dyad_id":"broken","event_type":"dyad_failed"}
not json at all
{"ts":"2026-03-01T10:00:02Z","level":"info","msg":"analysis finished","component":"pipeline","run_id":"aaaa1111"}
{"ts":"2026-03-01T11:00:00Z","level":"info","msg":"analysis started","component":"pipeline","run_id":"bbbb2222"}
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crqa.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailLastRecords(t *testing.T) {
	path := writeLog(t, sampleLog)

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if len(result.Records) != 2 || result.Records[0].Message != "analysis finished" || result.Records[1].RunID != "bbbb2222" {
		t.Fatalf("unexpected records: %#v", result.Records)
	}
	if result.Offset != int64(len(sampleLog)) {
		t.Fatalf("expected offset at end of file, got %d", result.Offset)
	}
}

func TestTailFilters(t *testing.T) {
	path := writeLog(t, sampleLog)

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Filter: logs.Filter{RunID: "aaaa"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records for run aaaa, got %d", len(result.Records))
	}

	warn := slog.LevelWarn
	result, err = logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Filter: logs.Filter{MinLevel: &warn}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected one warning, got %#v", result.Records)
	}
	rec := result.Records[0]
	if rec.DyadID != "broken" || rec.EventType != "dyad_failed" || rec.Level != slog.LevelWarn {
		t.Fatalf("unexpected record %#v", rec)
	}
	line := rec.Format()
	if !strings.Contains(line, "WARN") || !strings.Contains(line, "pipeline: [dyad broken] dyad skipped") {
		t.Fatalf("unexpected formatted line %q", line)
	}
}

func TestTailKeepsDebugWithoutLevelFilter(t *testing.T) {
	path := writeLog(t, `{"ts":"2026-03-01T10:00:00Z","level":"debug","msg":"dyad analyzed","component":"pipeline","dyad_id":"toy"}
{"ts":"2026-03-01T10:00:01Z","level":"info","msg":"analysis finished","component":"pipeline"}
`)

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 2 || result.Records[0].Level != slog.LevelDebug {
		t.Fatalf("expected debug and info records, got %#v", result.Records)
	}

	info := slog.LevelInfo
	result, err = logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Filter: logs.Filter{MinLevel: &info}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 1 || result.Records[0].Message != "analysis finished" {
		t.Fatalf("expected only the info record, got %#v", result.Records)
	}
}

func TestTailMissingFile(t *testing.T) {
	result, err := logs.Tail(context.Background(), filepath.Join(t.TempDir(), "none.log"), logs.TailOptions{Offset: -1, Limit: 5})
	if err != nil || len(result.Records) != 0 || result.Offset != 0 {
		t.Fatalf("expected empty result, got %+v err=%v", result, err)
	}
}

func TestTailFollowWaits(t *testing.T) {
	path := writeLog(t, sampleLog)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		res, err := logs.Tail(ctx, path, logs.TailOptions{Offset: int64(len(sampleLog)), Follow: true, Wait: 5 * time.Second})
		if err != nil {
			t.Errorf("follow tail error: %v", err)
			return
		}
		if len(res.Records) != 1 || res.Records[0].Message != "later" {
			t.Errorf("unexpected follow records: %#v", res.Records)
		}
	}()

	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString(`{"level":"info","msg":"later"}` + "\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("tail follow did not return")
	}
}
