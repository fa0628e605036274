package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type SummaryRow struct {
	Date              time.Time
	Year              int
	Month             int
	Quarter           int
	Category          string
	Region            string
	TransactionCount  int64
	UnitsSold         int64
	Revenue           decimal.Decimal
	Profit            decimal.Decimal
	DistinctCustomers int64
}

type RefreshRun struct {
	ID         string
	AsOf       time.Time
	StartedAt  time.Time
	FinishedAt *time.Time
	RowCount   int64
	Error      *string
}
