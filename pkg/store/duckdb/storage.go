package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

// Source relations. The upstream ETL owns their content; they are created
// here so a local DuckDB file can act as a sales source. Source money is
// DOUBLE: go-duckdb hands DECIMAL back as its own type, which does not scan
// into decimal.Decimal. Measures are nullable, as they are upstream.
var SalesSchema = []string{
	`CREATE TABLE IF NOT EXISTS regions (
		region_id VARCHAR PRIMARY KEY,
		region_name VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id VARCHAR PRIMARY KEY,
		product_name VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		brand VARCHAR NOT NULL,
		cost_price DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id VARCHAR PRIMARY KEY,
		customer_name VARCHAR NOT NULL,
		region_id VARCHAR,
		customer_type VARCHAR NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales_reps (
		sales_rep_id VARCHAR PRIMARY KEY,
		sales_rep_name VARCHAR NOT NULL,
		region_id VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS sales_transactions (
		transaction_id VARCHAR PRIMARY KEY,
		transaction_date TIMESTAMP NOT NULL,
		product_id VARCHAR,
		customer_id VARCHAR,
		sales_rep_id VARCHAR,
		quantity_sold BIGINT,
		unit_price DOUBLE,
		total_amount DOUBLE
	)`,
}

// SummaryTable is the stable name of the materialized dashboard projection.
// Revenue and profit are kept as decimal text so they read back exactly.
const SummaryTable = "dashboard_summary"

const SummarySchema = `
	CREATE TABLE IF NOT EXISTS dashboard_summary (
		summary_date DATE NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		quarter INTEGER NOT NULL,
		category VARCHAR NOT NULL,
		region VARCHAR NOT NULL,
		transaction_count BIGINT NOT NULL,
		units_sold BIGINT NOT NULL,
		revenue VARCHAR NOT NULL,
		profit VARCHAR NOT NULL,
		distinct_customers BIGINT NOT NULL,
		PRIMARY KEY (summary_date, category, region)
	);
`

const RefreshRunsSchema = `
	CREATE TABLE IF NOT EXISTS summary_refresh_runs (
		id VARCHAR PRIMARY KEY,
		as_of TIMESTAMP NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NULL,
		row_count BIGINT NOT NULL DEFAULT 0,
		error VARCHAR NULL
	);
`

var bootQueries = append(append([]string{}, SalesSchema...), SummarySchema, RefreshRunsSchema)

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return fmt.Errorf("boot schema: %w", err)
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
