package summary

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

// Store persists the dashboard summary projection. The projection has no
// incremental update path: Replace swaps the whole table content.
type Store interface {
	Replace(ctx context.Context, rows []store.SummaryRow) error
	List(ctx context.Context, from, to time.Time) ([]store.SummaryRow, error)
	Count(ctx context.Context) (int64, error)
}

type summaryStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &summaryStore{db: db}, nil
}

// Replace deletes and re-inserts the projection. It joins the transaction
// bound to ctx, or runs in its own so readers never see a partial table.
func (s *summaryStore) Replace(ctx context.Context, rows []store.SummaryRow) error {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return s.replace(ctx, tx, rows)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin summary refresh: %w", err)
	}
	if err := s.replace(ctx, tx, rows); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary refresh: %w", err)
	}
	return nil
}

func (s *summaryStore) replace(ctx context.Context, tx *sql.Tx, rows []store.SummaryRow) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+duckdb.SummaryTable); err != nil {
		return fmt.Errorf("clear summary: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO `+duckdb.SummaryTable+` (
			summary_date, year, month, quarter, category, region,
			transaction_count, units_sold, revenue, profit, distinct_customers
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.ExecContext(ctx,
			r.Date,
			int32(r.Year),
			int32(r.Month),
			int32(r.Quarter),
			r.Category,
			r.Region,
			r.TransactionCount,
			r.UnitsSold,
			r.Revenue.String(),
			r.Profit.String(),
			r.DistinctCustomers,
		)
		if err != nil {
			return fmt.Errorf("insert summary row: %w", err)
		}
	}
	return nil
}

func (s *summaryStore) List(ctx context.Context, from, to time.Time) ([]store.SummaryRow, error) {
	logger := zerolog.Ctx(ctx)

	query := `
		SELECT summary_date, year, month, quarter, category, region,
			transaction_count, units_sold, revenue, profit, distinct_customers
		FROM ` + duckdb.SummaryTable + `
		WHERE summary_date >= ? AND summary_date <= ?
		ORDER BY summary_date DESC, category, region
	`
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close summary query rows")
		}
	}(rows)

	records := make([]store.SummaryRow, 0)
	for rows.Next() {
		var r store.SummaryRow
		if err := rows.Scan(
			&r.Date, &r.Year, &r.Month, &r.Quarter, &r.Category, &r.Region,
			&r.TransactionCount, &r.UnitsSold, &r.Revenue, &r.Profit, &r.DistinctCustomers,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *summaryStore) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM ` + duckdb.SummaryTable

	var row *sql.Row
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		row = tx.QueryRowContext(ctx, query)
	} else {
		row = s.db.QueryRowContext(ctx, query)
	}

	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count summary: %w", err)
	}
	return n, nil
}
