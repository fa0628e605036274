package refresh

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

// Store keeps the history of summary refresh runs.
type Store interface {
	Start(ctx context.Context, run store.RefreshRun) error
	Finish(ctx context.Context, id string, finishedAt time.Time, rowCount int64, runErr *string) error
	List(ctx context.Context, limit int) ([]store.RefreshRun, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) Start(ctx context.Context, run store.RefreshRun) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`INSERT INTO summary_refresh_runs (id, as_of, started_at) VALUES (?, ?, ?)`,
		run.ID, run.AsOf, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert refresh run: %w", err)
	}
	return nil
}

func (s *defaultStore) Finish(
	ctx context.Context,
	id string,
	finishedAt time.Time,
	rowCount int64,
	runErr *string,
) error {
	var errValue any
	if runErr != nil {
		errValue = *runErr
	}

	res, err := duckdb.Conn(ctx, s.db).ExecContext(ctx,
		`UPDATE summary_refresh_runs SET finished_at = ?, row_count = ?, error = ? WHERE id = ?`,
		finishedAt, rowCount, errValue, id,
	)
	if err != nil {
		return fmt.Errorf("update refresh run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update refresh run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("refresh run not found: %s", id)
	}
	return nil
}

func (s *defaultStore) List(ctx context.Context, limit int) ([]store.RefreshRun, error) {
	logger := zerolog.Ctx(ctx)
	if limit <= 0 {
		limit = 20
	}

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, `
		SELECT id, as_of, started_at, finished_at, row_count, error
		FROM summary_refresh_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query refresh runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close refresh runs rows")
		}
	}(rows)

	runs := make([]store.RefreshRun, 0)
	for rows.Next() {
		var (
			run      store.RefreshRun
			finished sql.NullTime
			runErr   sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.AsOf, &run.StartedAt, &finished, &run.RowCount, &runErr); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		if runErr.Valid {
			e := runErr.String
			run.Error = &e
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
