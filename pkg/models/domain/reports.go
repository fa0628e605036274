package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Segment string

const (
	SegmentVIP       Segment = "VIP"
	SegmentHighValue Segment = "High Value"
	SegmentRegular   Segment = "Regular"
	SegmentLowValue  Segment = "Low Value"
)

// Ratios below are decimal.NullDecimal: Valid is false when the denominator
// was zero (or, for growth, when there is no previous period).

type MonthlyRevenueRow struct {
	Year             int
	Month            int
	Region           string
	TransactionCount int64
	UnitsSold        int64
	TotalRevenue     decimal.Decimal
	AvgOrderValue    decimal.NullDecimal
	TotalProfit      decimal.Decimal
}

type ProductPerformanceRow struct {
	Category         string
	ProductID        string
	ProductName      string
	Brand            string
	TransactionCount int64
	UnitsSold        int64
	Revenue          decimal.Decimal
	AvgSale          decimal.NullDecimal
	Profit           decimal.Decimal
	ProfitMarginPct  decimal.NullDecimal
	RevenueRank      int
}

type CustomerSegmentRow struct {
	CustomerID    string
	CustomerName  string
	Frequency     int64
	LifetimeValue decimal.Decimal
	AvgOrderValue decimal.NullDecimal
	FirstPurchase time.Time
	LastPurchase  time.Time
	LifetimeDays  int
	Segment       Segment
}

type RegionalComparisonRow struct {
	Region              string
	DistinctCustomers   int64
	TransactionCount    int64
	Revenue             decimal.Decimal
	AvgTransactionValue decimal.NullDecimal
	UnitsSold           int64
	ContributionPct     decimal.NullDecimal
}

type SeasonalTrendRow struct {
	Year                int
	Quarter             int
	TransactionCount    int64
	Revenue             decimal.Decimal
	AvgTransactionValue decimal.NullDecimal
	GrowthPct           decimal.NullDecimal
}

type RepPerformanceRow struct {
	RepID              string
	RepName            string
	Region             string
	SalesCount         int64
	Revenue            decimal.Decimal
	AvgSale            decimal.NullDecimal
	DistinctCustomers  int64
	RevenuePerCustomer decimal.NullDecimal
	RegionRank         int
	GlobalRank         int
}

type QualityIssue struct {
	Label string
	Count int64
}

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

type TableProfile struct {
	Table        string
	RecordCount  int
	DuplicateIDs int
	NullCounts   map[string]int
}

type RefreshRun struct {
	ID         string
	AsOf       time.Time
	StartedAt  time.Time
	FinishedAt *time.Time
	RowCount   int64
	Error      *string
}
