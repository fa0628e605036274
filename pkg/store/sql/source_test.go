package sql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	txColumns       = []string{"transaction_id", "transaction_date", "product_id", "customer_id", "sales_rep_id", "quantity_sold", "unit_price", "total_amount"}
	productColumns  = []string{"product_id", "product_name", "category", "brand", "cost_price"}
	customerColumns = []string{"customer_id", "customer_name", "region_id", "customer_type"}
	repColumns      = []string{"sales_rep_id", "sales_rep_name", "region_id"}
	regionColumns   = []string{"region_id", "region_name"}
)

func newMock(t *testing.T) (sqlmock.Sqlmock, func() Source, func(...Option) Source) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	build := func(opts ...Option) Source {
		src, err := NewSource(db, opts...)
		require.NoError(t, err)
		return src
	}
	return mock, func() Source { return build() }, build
}

func TestNewSource_NilDB(t *testing.T) {
	src, err := NewSource(nil)
	assert.Error(t, err)
	assert.Nil(t, src)
}

func TestSource_Snapshot(t *testing.T) {
	mock, newSource, _ := newMock(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM sales_transactions").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(txColumns).
			AddRow("t1", day, "p1", "c1", "r1", int64(2), 10.5, 21.0).
			AddRow("t2", day, nil, "c1", nil, int64(-1), 5.0, 0.0))
	mock.ExpectQuery("FROM products").
		WillReturnRows(sqlmock.NewRows(productColumns).AddRow("p1", "Widget", "Tools", "Acme", 4.25))
	mock.ExpectQuery("FROM customers").
		WillReturnRows(sqlmock.NewRows(customerColumns).AddRow("c1", "Jane", "north", "retail"))
	mock.ExpectQuery("FROM sales_reps").
		WillReturnRows(sqlmock.NewRows(repColumns).AddRow("r1", "Sam", "north"))
	mock.ExpectQuery("FROM regions").
		WillReturnRows(sqlmock.NewRows(regionColumns).AddRow("north", "North"))
	mock.ExpectCommit()

	snap, err := newSource().Snapshot(context.Background(), since)
	require.NoError(t, err)

	require.Len(t, snap.Transactions, 2)
	first := snap.Transactions[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, "p1", first.ProductID.String)
	assert.True(t, first.SalesRepID.Valid)
	assert.Equal(t, int64(2), first.Quantity.Int64)
	assert.True(t, decimal.RequireFromString("21").Equal(first.TotalAmount.Decimal))
	assert.True(t, first.Valid())

	second := snap.Transactions[1]
	assert.False(t, second.ProductID.Valid)
	assert.False(t, second.SalesRepID.Valid)
	assert.Equal(t, int64(-1), second.Quantity.Int64)
	assert.False(t, second.Valid())

	require.Len(t, snap.Products, 1)
	assert.True(t, decimal.RequireFromString("4.25").Equal(snap.Products[0].CostPrice))
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "north", snap.Customers[0].RegionID.String)
	require.Len(t, snap.SalesReps, 1)
	require.Len(t, snap.Regions, 1)
	assert.Equal(t, since, snap.Since)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Transactions_NullMeasures(t *testing.T) {
	mock, newSource, _ := newMock(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM sales_transactions").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(txColumns).
			AddRow("t1", day, "p1", "c1", nil, int64(2), 10.5, nil).
			AddRow("t2", day, "p1", "c1", nil, nil, nil, 12.0))

	txs, err := newSource().Transactions(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.True(t, txs[0].Quantity.Valid)
	assert.True(t, txs[0].UnitPrice.Valid)
	assert.False(t, txs[0].TotalAmount.Valid)
	assert.False(t, txs[0].Valid())

	assert.False(t, txs[1].Quantity.Valid)
	assert.False(t, txs[1].UnitPrice.Valid)
	assert.True(t, decimal.RequireFromString("12").Equal(txs[1].TotalAmount.Decimal))
	assert.False(t, txs[1].Valid())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Snapshot_FailureRollsBack(t *testing.T) {
	mock, newSource, _ := newMock(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM sales_transactions").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(txColumns))
	mock.ExpectQuery("FROM products").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	snap, err := newSource().Snapshot(context.Background(), since)
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "connection reset")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Snapshot_BeginFails(t *testing.T) {
	mock, newSource, _ := newMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("warehouse suspended"))

	_, err := newSource().Snapshot(context.Background(), time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Snapshot_WithoutTransaction(t *testing.T) {
	mock, _, build := newMock(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM sales_transactions").WithArgs(since).WillReturnRows(sqlmock.NewRows(txColumns))
	mock.ExpectQuery("FROM products").WillReturnRows(sqlmock.NewRows(productColumns))
	mock.ExpectQuery("FROM customers").WillReturnRows(sqlmock.NewRows(customerColumns))
	mock.ExpectQuery("FROM sales_reps").WillReturnRows(sqlmock.NewRows(repColumns))
	mock.ExpectQuery("FROM regions").WillReturnRows(sqlmock.NewRows(regionColumns))

	snap, err := build(WithTxMode(TxNone)).Snapshot(context.Background(), since)
	require.NoError(t, err)
	assert.Empty(t, snap.Transactions)
	assert.Empty(t, snap.Regions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_Transactions_ScanError(t *testing.T) {
	mock, newSource, _ := newMock(t)
	since := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM sales_transactions").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows(txColumns).
			AddRow("t1", "not-a-date", "p1", "c1", nil, int64(1), 1.0, 1.0))

	_, err := newSource().Transactions(context.Background(), since)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}

func TestSource_Bind(t *testing.T) {
	tests := []struct {
		name        string
		placeholder Placeholder
		query       string
		expected    string
	}{
		{
			name:        "question marks are kept",
			placeholder: PlaceholderQuestion,
			query:       "SELECT 1 WHERE a >= ? AND b < ?",
			expected:    "SELECT 1 WHERE a >= ? AND b < ?",
		},
		{
			name:        "dollar placeholders are numbered",
			placeholder: PlaceholderDollar,
			query:       "SELECT 1 WHERE a >= ? AND b < ?",
			expected:    "SELECT 1 WHERE a >= $1 AND b < $2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &source{placeholder: tt.placeholder}
			assert.Equal(t, tt.expected, s.bind(tt.query))
		})
	}
}
