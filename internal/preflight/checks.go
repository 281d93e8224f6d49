package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"crqa/internal/config"
	"crqa/internal/results"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckInputFile verifies that the dyad CSV exists, is a regular file and is readable.
func CheckInputFile(path string) Result {
	const name = "Input file"

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	if info.Size() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: empty file)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckStore opens the results database, which also verifies its schema version.
func CheckStore(ctx context.Context, cfg *config.Config) Result {
	const name = "Results store"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	store, err := results.Open(cfg)
	if err != nil {
		var schemaErr *results.SchemaError
		if errors.As(err, &schemaErr) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v; move the file aside to start a new store)", cfg.DatabasePath(), schemaErr)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.DatabasePath(), err)}
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.DatabasePath(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d runs)", cfg.DatabasePath(), len(runs))}
}

// CheckLock reports whether another crqa process currently holds the run lock.
func CheckLock(cfg *config.Config) Result {
	const name = "Run lock"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.LockPath(), err)}
	}
	if !locked {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another run)", cfg.LockPath())}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (free)", cfg.LockPath())}
}
