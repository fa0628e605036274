package api

import "github.com/shopspring/decimal"

// Money and ratios are serialized as JSON strings; an undefined ratio is null.

type TimePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Years int    `json:"years"`
}

type JoinStats struct {
	Transactions     int `json:"transactions"`
	Enriched         int `json:"enriched"`
	MissingProduct   int `json:"missing_product"`
	MissingCustomer  int `json:"missing_customer"`
	Invalid          int `json:"invalid"`
	UnresolvedRep    int `json:"unresolved_rep"`
	UnresolvedRegion int `json:"unresolved_region"`
}

type Report struct {
	Name       string     `json:"name"`
	Title      string     `json:"title"`
	AsOf       string     `json:"as_of"`
	Period     TimePeriod `json:"period"`
	Enrichment JoinStats  `json:"enrichment"`
	Rows       any        `json:"rows"`
}

type ReportList struct {
	Reports []string `json:"reports"`
}

type MonthlyRevenueRow struct {
	Year             int                 `json:"year"`
	Month            int                 `json:"month"`
	Region           string              `json:"region"`
	TransactionCount int64               `json:"transaction_count"`
	UnitsSold        int64               `json:"units_sold"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	AvgOrderValue    decimal.NullDecimal `json:"avg_order_value"`
	TotalProfit      decimal.Decimal     `json:"total_profit"`
}

type ProductPerformanceRow struct {
	Category         string              `json:"category"`
	ProductID        string              `json:"product_id"`
	ProductName      string              `json:"product_name"`
	Brand            string              `json:"brand"`
	TransactionCount int64               `json:"transaction_count"`
	UnitsSold        int64               `json:"units_sold"`
	Revenue          decimal.Decimal     `json:"revenue"`
	AvgSale          decimal.NullDecimal `json:"avg_sale"`
	Profit           decimal.Decimal     `json:"profit"`
	ProfitMarginPct  decimal.NullDecimal `json:"profit_margin_percent"`
	RevenueRank      int                 `json:"revenue_rank"`
}

type CustomerSegmentRow struct {
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	Frequency     int64               `json:"purchase_frequency"`
	LifetimeValue decimal.Decimal     `json:"lifetime_value"`
	AvgOrderValue decimal.NullDecimal `json:"avg_order_value"`
	FirstPurchase string              `json:"first_purchase"`
	LastPurchase  string              `json:"last_purchase"`
	LifetimeDays  int                 `json:"customer_lifetime_days"`
	Segment       string              `json:"segment"`
}

type RegionalComparisonRow struct {
	Region              string              `json:"region"`
	DistinctCustomers   int64               `json:"unique_customers"`
	TransactionCount    int64               `json:"transaction_count"`
	Revenue             decimal.Decimal     `json:"revenue"`
	AvgTransactionValue decimal.NullDecimal `json:"avg_transaction_value"`
	UnitsSold           int64               `json:"units_sold"`
	ContributionPct     decimal.NullDecimal `json:"revenue_contribution_percent"`
}

type SeasonalTrendRow struct {
	Year                int                 `json:"year"`
	Quarter             int                 `json:"quarter"`
	TransactionCount    int64               `json:"transaction_count"`
	Revenue             decimal.Decimal     `json:"quarterly_revenue"`
	AvgTransactionValue decimal.NullDecimal `json:"avg_transaction_value"`
	GrowthPct           decimal.NullDecimal `json:"qoq_growth_percent"`
}

type RepPerformanceRow struct {
	RepID              string              `json:"sales_rep_id"`
	RepName            string              `json:"sales_rep_name"`
	Region             string              `json:"region"`
	SalesCount         int64               `json:"sales_count"`
	Revenue            decimal.Decimal     `json:"revenue"`
	AvgSale            decimal.NullDecimal `json:"avg_sale"`
	DistinctCustomers  int64               `json:"unique_customers"`
	RevenuePerCustomer decimal.NullDecimal `json:"revenue_per_customer"`
	RegionRank         int                 `json:"region_rank"`
	GlobalRank         int                 `json:"global_rank"`
}

type QualityIssue struct {
	Issue string `json:"issue_type"`
	Count int64  `json:"count"`
}
