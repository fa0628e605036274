package store

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of sales_transactions. References, quantity and
// amounts are nullable at the source so that quality checks can count the
// gaps instead of failing the read.
type Transaction struct {
	ID          string
	Date        time.Time
	ProductID   sql.NullString
	CustomerID  sql.NullString
	SalesRepID  sql.NullString
	Quantity    sql.NullInt64
	UnitPrice   decimal.NullDecimal
	TotalAmount decimal.NullDecimal
}

// Valid reports whether t may count towards revenue: a positive quantity,
// a known unit price and a positive total amount.
func (t Transaction) Valid() bool {
	return t.Quantity.Valid && t.Quantity.Int64 > 0 &&
		t.UnitPrice.Valid &&
		t.TotalAmount.Valid && t.TotalAmount.Decimal.IsPositive()
}

type Product struct {
	ID        string
	Name      string
	Category  string
	Brand     string
	CostPrice decimal.Decimal
}

type Customer struct {
	ID       string
	Name     string
	RegionID sql.NullString
	Type     string
}

type SalesRep struct {
	ID       string
	Name     string
	RegionID sql.NullString
}

type Region struct {
	ID   string
	Name string
}

// Snapshot is a consistent read of all source relations.
type Snapshot struct {
	Since        time.Time
	Transactions []Transaction
	Products     []Product
	Customers    []Customer
	SalesReps    []SalesRep
	Regions      []Region
}
