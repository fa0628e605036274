package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownRegion labels sales whose customer region does not resolve.
const UnknownRegion = "Unknown"

// Calendar holds the date parts derived from a transaction date.
// DayOfWeek follows ISO 8601: Monday = 1 ... Sunday = 7.
type Calendar struct {
	Year      int
	Month     int
	Quarter   int
	ISOWeek   int
	DayOfWeek int
}

type SalesRepRef struct {
	ID       string
	Name     string
	RegionID string
	Region   string
}

// EnrichedSale is a transaction joined to its product and customer (and
// optionally its sales rep) with per-row derived fields.
type EnrichedSale struct {
	TransactionID string
	Date          time.Time
	Calendar      Calendar

	ProductID   string
	ProductName string
	Category    string
	Brand       string

	CustomerID   string
	CustomerName string
	CustomerType string
	RegionID     string
	Region       string

	// SalesRep is nil when the transaction has no rep or the rep does not resolve.
	SalesRep *SalesRepRef

	Quantity     int64
	UnitPrice    decimal.Decimal
	TotalAmount  decimal.Decimal
	CostPrice    decimal.Decimal
	Revenue      decimal.Decimal
	ProfitMargin decimal.Decimal
}

// JoinStats counts source rows that fell out of (or degraded in) enrichment.
// The counts are independent: one transaction can be both invalid and miss
// its product.
type JoinStats struct {
	Transactions     int
	Enriched         int
	MissingProduct   int
	MissingCustomer  int
	Invalid          int
	UnresolvedRep    int
	UnresolvedRegion int
}

func (s JoinStats) Excluded() int {
	return s.Transactions - s.Enriched
}
