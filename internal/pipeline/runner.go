package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"crqa/internal/batch"
	"crqa/internal/config"
	"crqa/internal/dyad"
	"crqa/internal/logging"
	"crqa/internal/preflight"
	"crqa/internal/recurrence"
	"crqa/internal/results"
)

// ErrLocked is returned when another process holds the data directory lock.
var ErrLocked = errors.New("another crqa run is using the data directory")

// Options tunes a single Run.
type Options struct {
	// Workers overrides the configured worker count when > 0.
	Workers int
	// Params overrides the configured analysis parameters when set.
	Params *recurrence.Params
	// NoStore skips the results store and the lock; outcomes are only returned.
	NoStore bool
	// SkipPreflight disables the readiness checks.
	SkipPreflight bool
}

// Report is the outcome of one pipeline run.
type Report struct {
	// Run is nil when the run was not stored.
	Run      *results.Run
	Params   recurrence.Params
	Rows     []results.DyadResult
	Summary  batch.Summary
	Duration time.Duration
}

// Runner executes analyses against a config.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner constructs a Runner. A nil logger discards output.
func NewRunner(cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires a config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logging.NewComponentLogger(logger, "pipeline")}, nil
}

// Run analyzes every dyad in inputPath. Dyads that fail validation become
// error rows; the run itself fails only when the input cannot be read, the
// store is unusable, or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, inputPath string, opts Options) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	params, err := r.params(opts)
	if err != nil {
		return nil, err
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	if !opts.SkipPreflight {
		if err := r.runPreflightChecks(ctx, inputPath, opts.NoStore); err != nil {
			return nil, err
		}
	}

	var lock *flock.Flock
	if !opts.NoStore {
		lock = flock.New(r.cfg.LockPath())
		ok, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				r.logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	dyads, err := dyad.Load(inputPath)
	if err != nil {
		return nil, err
	}

	report := &Report{Params: params}
	var store *results.Store
	if !opts.NoStore {
		store, err = results.Open(r.cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		report.Run, err = store.CreateRun(ctx, inputPath, params)
		if err != nil {
			return nil, err
		}
		ctx = logging.WithRunID(ctx, report.Run.ID)
	}

	logger := logging.WithContext(ctx, r.logger)
	workers := opts.Workers
	if workers <= 0 {
		workers = r.cfg.Batch.Workers
	}
	logger.Info("analysis started",
		logging.String("input", inputPath),
		logging.Int("dyads", len(dyads)),
		logging.Int("workers", batch.Workers(workers)),
		logging.String(logging.FieldEventType, "run_started"),
	)

	outcomes := batch.Run(ctx, dyads, params, batch.Options{
		Workers:   workers,
		OnOutcome: func(out batch.Outcome) { r.logOutcome(ctx, out) },
	})

	report.Rows = make([]results.DyadResult, 0, len(outcomes))
	for _, out := range outcomes {
		row := results.NewDyadResult(out.DyadID, out.Length, out.Result, out.Err)
		if report.Run != nil {
			row.RunID = report.Run.ID
		}
		report.Rows = append(report.Rows, row)
	}
	report.Summary = batch.Summarize(outcomes)
	runErr := ctx.Err()

	if store != nil {
		// The run record is finalized even after cancellation.
		finishCtx := context.WithoutCancel(ctx)
		if err := store.SaveResults(finishCtx, report.Run.ID, report.Rows); err != nil {
			_ = store.FinishRun(finishCtx, report.Run.ID, results.RunFailed, err.Error())
			return nil, err
		}
		status, message := results.RunCompleted, ""
		if runErr != nil {
			status, message = results.RunFailed, runErr.Error()
		}
		if err := store.FinishRun(finishCtx, report.Run.ID, status, message); err != nil {
			return nil, err
		}
		if report.Run, err = store.GetRun(finishCtx, report.Run.ID); err != nil {
			return nil, err
		}
	}

	report.Duration = time.Since(start)
	if runErr != nil {
		logging.WarnWithContext(logger, "analysis cancelled", "run_cancelled",
			logging.Int("failed", report.Summary.Failed),
			logging.String(logging.FieldImpact, "dyads not yet analyzed were recorded as failed"),
			logging.String(logging.FieldErrorHint, "re-run the analysis"),
		)
		return report, runErr
	}
	logger.Info("analysis finished",
		logging.Int("dyads", report.Summary.Total),
		logging.Int("recurrent", report.Summary.Recurrent),
		logging.Int("no_recurrence", report.Summary.NoRecurrence),
		logging.Int("degenerate", report.Summary.Degenerate),
		logging.Int("failed", report.Summary.Failed),
		logging.Duration("duration", report.Duration),
		logging.String(logging.FieldEventType, "run_finished"),
	)
	return report, nil
}

func (r *Runner) params(opts Options) (recurrence.Params, error) {
	if opts.Params != nil {
		if err := opts.Params.Validate(); err != nil {
			return recurrence.Params{}, err
		}
		return *opts.Params, nil
	}
	return r.cfg.RecurrenceParams()
}

func (r *Runner) logOutcome(ctx context.Context, out batch.Outcome) {
	logger := logging.WithContext(logging.WithDyadID(ctx, out.DyadID), r.logger)
	if out.Failed() {
		if errors.Is(out.Err, context.Canceled) || errors.Is(out.Err, context.DeadlineExceeded) {
			return
		}
		logging.WarnWithContext(logger, "dyad skipped", "dyad_failed",
			logging.Error(out.Err),
			logging.Int("length", out.Length),
			logging.String(logging.FieldImpact, "dyad recorded with NA metrics"),
			logging.String(logging.FieldErrorHint, "fix the dyad's codes in the input file"),
		)
		return
	}
	logger.Debug("dyad analyzed",
		logging.Int("length", out.Length),
		logging.String("state", string(out.Result.State)),
		logging.Metric("rr", out.Result.RR),
		logging.Metric("det", out.Result.DET),
		logging.String(logging.FieldEventType, "dyad_analyzed"),
	)
}

// runPreflightChecks returns nil when all checks pass, or an error describing
// all failures. The lock check is left to TryLock.
func (r *Runner) runPreflightChecks(ctx context.Context, inputPath string, noStore bool) error {
	var checks []preflight.Result
	checks = append(checks, preflight.CheckInputFile(inputPath))
	if !noStore {
		checks = append(checks,
			preflight.CheckDirectoryAccess("Data directory", r.cfg.Paths.DataDir),
			preflight.CheckStore(ctx, r.cfg),
		)
	}

	var failures []string
	for _, c := range checks {
		if c.Passed {
			r.logger.Debug("preflight check passed",
				logging.String("check", c.Name),
				logging.String("detail", c.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logging.ErrorWithContext(r.logger, "preflight check failed", "preflight_failed",
			logging.String("check", c.Name),
			logging.String("detail", c.Detail),
			logging.String(logging.FieldErrorHint, "fix the reported issue and re-run"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", c.Name, c.Detail))
	}
	if len(failures) > 0 {
		return fmt.Errorf("preflight checks failed: %s", strings.Join(failures, "; "))
	}
	return nil
}
