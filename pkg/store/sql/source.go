package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// ErrSourceUnavailable wraps every failed read of a source relation.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source is the read side of the sales schema: one transaction table and four
// dimension tables.
type Source interface {
	Snapshot(ctx context.Context, since time.Time) (*store.Snapshot, error)
	Transactions(ctx context.Context, since time.Time) ([]store.Transaction, error)
	Products(ctx context.Context) ([]store.Product, error)
	Customers(ctx context.Context) ([]store.Customer, error)
	SalesReps(ctx context.Context) ([]store.SalesRep, error)
	Regions(ctx context.Context) ([]store.Region, error)
}

type Placeholder int

const (
	// PlaceholderQuestion binds with `?` (duckdb, sqlite, snowflake, databricks).
	PlaceholderQuestion Placeholder = iota
	// PlaceholderDollar binds with `$1` (postgres).
	PlaceholderDollar
)

type Option func(*source)

func WithPlaceholder(p Placeholder) Option {
	return func(s *source) { s.placeholder = p }
}

// TxMode controls how Snapshot isolates its reads.
type TxMode int

const (
	// TxReadOnly reads every relation inside one read-only transaction.
	TxReadOnly TxMode = iota
	// TxDefault uses a plain transaction, for drivers that reject read-only ones (duckdb).
	TxDefault
	// TxNone reads without a transaction, for warehouses that have none.
	TxNone
)

func WithTxMode(mode TxMode) Option {
	return func(s *source) { s.txMode = mode }
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type source struct {
	db          *sql.DB
	placeholder Placeholder
	txMode      TxMode
}

func NewSource(db *sql.DB, opts ...Option) (Source, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	s := &source{
		db:          db,
		placeholder: PlaceholderQuestion,
		txMode:      TxReadOnly,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *source) Snapshot(ctx context.Context, since time.Time) (*store.Snapshot, error) {
	if s.txMode == TxNone {
		return s.snapshot(ctx, s.db, since)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: s.txMode == TxReadOnly})
	if err != nil {
		return nil, fmt.Errorf("%w: begin snapshot: %v", ErrSourceUnavailable, err)
	}
	snap, err := s.snapshot(ctx, tx, since)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit snapshot: %v", ErrSourceUnavailable, err)
	}
	return snap, nil
}

func (s *source) snapshot(ctx context.Context, q querier, since time.Time) (*store.Snapshot, error) {
	logger := zerolog.Ctx(ctx)

	txs, err := s.transactions(ctx, q, since)
	if err != nil {
		return nil, err
	}
	products, err := s.products(ctx, q)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers(ctx, q)
	if err != nil {
		return nil, err
	}
	reps, err := s.salesReps(ctx, q)
	if err != nil {
		return nil, err
	}
	regions, err := s.regions(ctx, q)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Time("since", since).
		Int("transactions", len(txs)).
		Int("products", len(products)).
		Int("customers", len(customers)).
		Int("sales_reps", len(reps)).
		Int("regions", len(regions)).
		Msg("loaded source snapshot")

	return &store.Snapshot{
		Since:        since,
		Transactions: txs,
		Products:     products,
		Customers:    customers,
		SalesReps:    reps,
		Regions:      regions,
	}, nil
}

func (s *source) Transactions(ctx context.Context, since time.Time) ([]store.Transaction, error) {
	return s.transactions(ctx, s.db, since)
}

func (s *source) Products(ctx context.Context) ([]store.Product, error) {
	return s.products(ctx, s.db)
}

func (s *source) Customers(ctx context.Context) ([]store.Customer, error) {
	return s.customers(ctx, s.db)
}

func (s *source) SalesReps(ctx context.Context) ([]store.SalesRep, error) {
	return s.salesReps(ctx, s.db)
}

func (s *source) Regions(ctx context.Context) ([]store.Region, error) {
	return s.regions(ctx, s.db)
}

func (s *source) transactions(ctx context.Context, q querier, since time.Time) ([]store.Transaction, error) {
	query := s.bind(`
		SELECT
			transaction_id,
			transaction_date,
			product_id,
			customer_id,
			sales_rep_id,
			quantity_sold,
			unit_price,
			total_amount
		FROM sales_transactions
		WHERE transaction_date >= ?
		ORDER BY transaction_date, transaction_id
	`)

	rows, err := q.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("%w: transactions query failed: %v", ErrSourceUnavailable, err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.Transaction, 0)
	for rows.Next() {
		var t store.Transaction
		if err := rows.Scan(
			&t.ID, &t.Date, &t.ProductID, &t.CustomerID, &t.SalesRepID,
			&t.Quantity, &t.UnitPrice, &t.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", ErrSourceUnavailable, err)
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read transactions: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

func (s *source) products(ctx context.Context, q querier) ([]store.Product, error) {
	query := `
		SELECT product_id, product_name, category, brand, cost_price
		FROM products
		ORDER BY product_id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: products query failed: %v", ErrSourceUnavailable, err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.Product, 0)
	for rows.Next() {
		var p store.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Brand, &p.CostPrice); err != nil {
			return nil, fmt.Errorf("%w: scan product: %v", ErrSourceUnavailable, err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read products: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

func (s *source) customers(ctx context.Context, q querier) ([]store.Customer, error) {
	query := `
		SELECT customer_id, customer_name, region_id, customer_type
		FROM customers
		ORDER BY customer_id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: customers query failed: %v", ErrSourceUnavailable, err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.Customer, 0)
	for rows.Next() {
		var c store.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.RegionID, &c.Type); err != nil {
			return nil, fmt.Errorf("%w: scan customer: %v", ErrSourceUnavailable, err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read customers: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

func (s *source) salesReps(ctx context.Context, q querier) ([]store.SalesRep, error) {
	query := `
		SELECT sales_rep_id, sales_rep_name, region_id
		FROM sales_reps
		ORDER BY sales_rep_id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: sales reps query failed: %v", ErrSourceUnavailable, err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.SalesRep, 0)
	for rows.Next() {
		var r store.SalesRep
		if err := rows.Scan(&r.ID, &r.Name, &r.RegionID); err != nil {
			return nil, fmt.Errorf("%w: scan sales rep: %v", ErrSourceUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read sales reps: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

func (s *source) regions(ctx context.Context, q querier) ([]store.Region, error) {
	query := `
		SELECT region_id, region_name
		FROM regions
		ORDER BY region_id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: regions query failed: %v", ErrSourceUnavailable, err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.Region, 0)
	for rows.Next() {
		var r store.Region
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("%w: scan region: %v", ErrSourceUnavailable, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read regions: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

// bind rewrites `?` placeholders for drivers that number their parameters.
func (s *source) bind(query string) string {
	if s.placeholder != PlaceholderDollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close source query rows")
	}
}
