package summary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/services/enrichment"
	"github.com/de-tools/sales-atlas/pkg/services/metrics"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/refresh"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb/summary"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SnapshotLoader reads a consistent snapshot of the source relations with
// transactions dated on or after since.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, since time.Time) (*store.Snapshot, error)
}

type Service interface {
	Refresh(ctx context.Context, asOf time.Time) (domain.RefreshRun, error)
	Rows(ctx context.Context, from, to time.Time) ([]domain.SummaryRow, error)
	Runs(ctx context.Context, limit int) ([]domain.RefreshRun, error)
}

// Refresher recomputes the dashboard summary wholesale. Refreshes are
// serialized; a second caller waits for the running one to finish.
type Refresher struct {
	loader    SnapshotLoader
	summaries summary.Store
	runs      refresh.Store
	years     int
	now       func() time.Time

	mu sync.Mutex
}

func NewRefresher(loader SnapshotLoader, summaries summary.Store, runs refresh.Store, years int) *Refresher {
	return &Refresher{
		loader:    loader,
		summaries: summaries,
		runs:      runs,
		years:     years,
		now:       time.Now,
	}
}

func (r *Refresher) Refresh(ctx context.Context, asOf time.Time) (domain.RefreshRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := zerolog.Ctx(ctx)
	w := domain.NewWindow(asOf, r.years)
	run := domain.RefreshRun{
		ID:        uuid.NewString(),
		AsOf:      w.End(),
		StartedAt: r.now().UTC(),
	}
	if err := r.runs.Start(ctx, adapters.MapDomainRefreshRunToStore(run)); err != nil {
		return run, fmt.Errorf("failed to record refresh start: %w", err)
	}

	count, err := r.rebuild(ctx, w)
	finished := r.now().UTC()
	run.FinishedAt = &finished
	run.RowCount = count

	var runErr *string
	if err != nil {
		msg := err.Error()
		runErr = &msg
		run.Error = runErr
		run.RowCount = 0
		metrics.SummaryRefreshes.WithLabelValues("error").Inc()
		logger.Error().Err(err).Str("run_id", run.ID).Msg("summary refresh failed")
	} else {
		metrics.SummaryRefreshes.WithLabelValues("ok").Inc()
		logger.Info().Str("run_id", run.ID).Int64("rows", count).Msg("summary refreshed")
	}

	if finishErr := r.runs.Finish(ctx, run.ID, finished, run.RowCount, runErr); finishErr != nil {
		logger.Warn().Err(finishErr).Str("run_id", run.ID).Msg("failed to record refresh finish")
	}

	return run, err
}

func (r *Refresher) rebuild(ctx context.Context, w domain.Window) (int64, error) {
	snap, err := r.loader.Snapshot(ctx, w.Start())
	if err != nil {
		return 0, fmt.Errorf("failed to load snapshot: %w", err)
	}

	rows := Build(enrichment.Enrich(ctx, snap).Sales, w)
	storeRows := make([]store.SummaryRow, 0, len(rows))
	for _, row := range rows {
		storeRows = append(storeRows, adapters.MapDomainSummaryRowToStore(row))
	}

	if err := r.summaries.Replace(ctx, storeRows); err != nil {
		return 0, fmt.Errorf("failed to replace summary: %w", err)
	}
	return int64(len(storeRows)), nil
}

// Rows returns the persisted projection between from and to, inclusive.
func (r *Refresher) Rows(ctx context.Context, from, to time.Time) ([]domain.SummaryRow, error) {
	rows, err := r.summaries.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SummaryRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, adapters.MapStoreSummaryRowToDomain(row))
	}
	return out, nil
}

func (r *Refresher) Runs(ctx context.Context, limit int) ([]domain.RefreshRun, error) {
	runs, err := r.runs.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RefreshRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, adapters.MapStoreRefreshRunToDomain(run))
	}
	return out, nil
}
