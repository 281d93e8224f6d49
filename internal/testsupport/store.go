package testsupport

import (
	"context"
	"testing"

	"crqa/internal/config"
	"crqa/internal/recurrence"
	"crqa/internal/results"
)

// MustOpenStore opens a results.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *results.Store {
	t.Helper()

	store, err := results.Open(cfg)
	if err != nil {
		t.Fatalf("results.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedRun stores a completed run holding the given rows.
func SeedRun(t testing.TB, store *results.Store, inputPath string, rows ...results.DyadResult) *results.Run {
	t.Helper()

	ctx := context.Background()
	run, err := store.CreateRun(ctx, inputPath, recurrence.DefaultParams())
	if err != nil {
		t.Fatalf("store.CreateRun: %v", err)
	}
	if err := store.SaveResults(ctx, run.ID, rows); err != nil {
		t.Fatalf("store.SaveResults: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, results.RunCompleted, ""); err != nil {
		t.Fatalf("store.FinishRun: %v", err)
	}
	stored, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("store.GetRun: %v", err)
	}
	return stored
}
