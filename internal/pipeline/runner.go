package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slidegenius/slidegenius/internal/cache"
	"github.com/slidegenius/slidegenius/internal/generation"
	"github.com/slidegenius/slidegenius/internal/store"
	"github.com/slidegenius/slidegenius/pkg/models"
)

// statusCacheTTL bounds how long a mirrored job status lives in Redis.
const statusCacheTTL = 30 * time.Minute

// Runner executes the generation pipeline for one job at a time. It holds
// its own store and cache handles rather than borrowing a request's, since
// runs outlive the HTTP request that dispatched them.
type Runner struct {
	gen   *generation.Client
	store store.Store
	cache cache.Cache
}

func NewRunner(gen *generation.Client, s store.Store, c cache.Cache) *Runner {
	return &Runner{gen: gen, store: s, cache: c}
}

type stage struct {
	name string
	fn   func(context.Context, State) (State, error)
}

// Run drives a job through improve, render and persist, then records the
// terminal status. It never returns an error and never panics: any failure,
// including a panic inside a stage, is converted into a failed status on
// the presentation record. Exactly one terminal status is written per run.
func (r *Runner) Run(st State) {
	ctx := context.Background()
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("pipeline run panicked",
				slog.String("presentation_id", st.PresentationID.String()),
				slog.Any("panic", rec))
			r.markFailed(ctx, st, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	stages := []stage{
		{"improve", r.Improve},
		{"render", r.Render},
		{"persist", r.Persist},
	}
	for _, s := range stages {
		var err error
		st, err = s.fn(ctx, st)
		if err != nil {
			slog.Error("pipeline stage failed",
				slog.String("stage", s.name),
				slog.String("presentation_id", st.PresentationID.String()),
				slog.String("error", err.Error()))
			r.markFailed(ctx, st, fmt.Sprintf("%s: %v", s.name, err))
			return
		}
	}

	// A Nil id after persist means the record vanished mid-run and the
	// output was discarded; there is nothing left to report status on.
	if st.PresentationID == uuid.Nil {
		return
	}

	r.cacheStatus(ctx, st.PresentationID, models.StatusComplete)
	slog.Info("pipeline run complete",
		slog.String("presentation_id", st.PresentationID.String()),
		slog.String("theme", st.Theme),
		slog.Duration("duration", time.Since(start)))
}

// markFailed records the failed terminal status, locating the record by
// natural key when no id is carried. Errors here are logged and swallowed:
// a job whose failure cannot be recorded will simply read as stale pending.
func (r *Runner) markFailed(ctx context.Context, st State, msg string) {
	id := st.PresentationID
	if id == uuid.Nil {
		target, err := r.store.FindPendingPresentation(ctx, st.UserID, st.Title)
		if err != nil {
			slog.Error("failed to locate presentation for failure status",
				slog.String("user_id", st.UserID.String()),
				slog.String("title", st.Title),
				slog.String("error", err.Error()))
			return
		}
		id = target.ID
	}

	if err := r.store.UpdatePresentationStatus(ctx, id, models.StatusFailed, store.WithErrorMessage(msg)); err != nil {
		slog.Error("failed to record failure status",
			slog.String("presentation_id", id.String()),
			slog.String("error", err.Error()))
		return
	}
	r.cacheStatus(ctx, id, models.StatusFailed)
}

// cacheStatus mirrors a terminal status into Redis for cheap polling. The
// store is the source of truth; a cache write failure is only logged.
func (r *Runner) cacheStatus(ctx context.Context, id uuid.UUID, status string) {
	if err := r.cache.SetPresentationStatus(ctx, id, status, statusCacheTTL); err != nil {
		slog.Warn("failed to cache presentation status",
			slog.String("presentation_id", id.String()),
			slog.String("error", err.Error()))
	}
}
