package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"crqa/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	good := testsupport.WriteFile(t, dir, "dyads.csv", testsupport.DyadsCSV)
	if result := CheckInputFile(good); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	empty := testsupport.WriteFile(t, dir, "empty.csv", "")
	if result := CheckInputFile(empty); result.Passed || !strings.Contains(result.Detail, "empty") {
		t.Fatalf("expected empty-file failure, got %+v", result)
	}
	if result := CheckInputFile(dir); result.Passed {
		t.Fatal("expected failure for a directory")
	}
	if result := CheckInputFile(filepath.Join(dir, "missing.csv")); result.Passed {
		t.Fatal("expected failure for a missing file")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	input := testsupport.WriteDyads(t)

	results := RunAll(context.Background(), cfg, input)
	if len(results) != 5 {
		t.Fatalf("expected 5 checks, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	if got := RunAll(context.Background(), cfg, ""); len(got) != 4 {
		t.Fatalf("expected input check to be skipped, got %d results", len(got))
	}
	if RunAll(context.Background(), nil, input) != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestCheckLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	if result := CheckLock(cfg); !result.Passed {
		t.Fatalf("expected free lock, got: %s", result.Detail)
	}

	held := flock.New(cfg.LockPath())
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock: locked=%v err=%v", locked, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	result := CheckLock(cfg)
	if result.Passed {
		t.Fatal("expected failure while another handle holds the lock")
	}
}
