package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type SummaryRow struct {
	Date              string          `json:"date"`
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Quarter           int             `json:"quarter"`
	Category          string          `json:"category"`
	Region            string          `json:"region"`
	TransactionCount  int64           `json:"transaction_count"`
	UnitsSold         int64           `json:"units_sold"`
	Revenue           decimal.Decimal `json:"revenue"`
	Profit            decimal.Decimal `json:"profit"`
	DistinctCustomers int64           `json:"unique_customers"`
}

type Summary struct {
	Name string       `json:"name"`
	From string       `json:"from"`
	To   string       `json:"to"`
	Rows []SummaryRow `json:"rows"`
}

type RefreshRun struct {
	ID         string     `json:"id"`
	AsOf       string     `json:"as_of"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	RowCount   int64      `json:"row_count"`
	Error      *string    `json:"error"`
}

type TableProfile struct {
	Table        string         `json:"table"`
	RecordCount  int            `json:"record_count"`
	DuplicateIDs int            `json:"duplicate_ids"`
	NullCounts   map[string]int `json:"null_counts"`
}

type Error struct {
	Error string `json:"error"`
}
