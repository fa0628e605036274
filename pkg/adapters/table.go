package adapters

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Undefined is how a ratio with a zero denominator is rendered in tables.
const Undefined = "n/a"

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return Undefined
	}
	return d.Decimal.StringFixed(2)
}

func itoa[T ~int | ~int64](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

// MapReportToTable renders report rows as strings under fixed column names.
func MapReportToTable(r domain.Report) (domain.Table, error) {
	t := domain.Table{
		Name:   r.Name,
		Title:  r.Title,
		Period: r.Period,
	}

	switch rows := r.Rows.(type) {
	case []domain.MonthlyRevenueRow:
		t.Columns = []string{"year", "month", "region", "transaction_count", "units_sold",
			"total_revenue", "avg_order_value", "total_profit"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{
				itoa(x.Year), itoa(x.Month), x.Region, itoa(x.TransactionCount), itoa(x.UnitsSold),
				money(x.TotalRevenue), nullMoney(x.AvgOrderValue), money(x.TotalProfit),
			})
		}
	case []domain.ProductPerformanceRow:
		t.Columns = []string{"revenue_rank", "category", "product_id", "product_name", "brand",
			"transaction_count", "units_sold", "revenue", "avg_sale", "profit", "profit_margin_percent"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{
				itoa(x.RevenueRank), x.Category, x.ProductID, x.ProductName, x.Brand,
				itoa(x.TransactionCount), itoa(x.UnitsSold), money(x.Revenue), nullMoney(x.AvgSale),
				money(x.Profit), nullMoney(x.ProfitMarginPct),
			})
		}
	case []domain.CustomerSegmentRow:
		t.Columns = []string{"customer_id", "customer_name", "purchase_frequency", "lifetime_value",
			"avg_order_value", "first_purchase", "last_purchase", "customer_lifetime_days", "segment"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{
				x.CustomerID, x.CustomerName, itoa(x.Frequency), money(x.LifetimeValue),
				nullMoney(x.AvgOrderValue), x.FirstPurchase.Format(DateLayout), x.LastPurchase.Format(DateLayout),
				itoa(x.LifetimeDays), string(x.Segment),
			})
		}
	case []domain.RegionalComparisonRow:
		t.Columns = []string{"region", "unique_customers", "transaction_count", "revenue",
			"avg_transaction_value", "units_sold", "revenue_contribution_percent"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{
				x.Region, itoa(x.DistinctCustomers), itoa(x.TransactionCount), money(x.Revenue),
				nullMoney(x.AvgTransactionValue), itoa(x.UnitsSold), nullMoney(x.ContributionPct),
			})
		}
	case []domain.SeasonalTrendRow:
		t.Columns = []string{"year", "quarter", "transaction_count", "quarterly_revenue",
			"avg_transaction_value", "qoq_growth_percent"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{
				itoa(x.Year), "Q" + itoa(x.Quarter), itoa(x.TransactionCount), money(x.Revenue),
				nullMoney(x.AvgTransactionValue), nullMoney(x.GrowthPct),
			})
		}
	case []domain.RepPerformanceRow:
		t.Columns = []string{"global_rank", "region_rank", "sales_rep_id", "sales_rep_name", "region",
			"sales_count", "revenue", "avg_sale", "unique_customers", "revenue_per_customer"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{
				itoa(x.GlobalRank), itoa(x.RegionRank), x.RepID, x.RepName, x.Region,
				itoa(x.SalesCount), money(x.Revenue), nullMoney(x.AvgSale), itoa(x.DistinctCustomers),
				nullMoney(x.RevenuePerCustomer),
			})
		}
	case []domain.QualityIssue:
		t.Columns = []string{"issue_type", "count"}
		for _, x := range rows {
			t.Rows = append(t.Rows, []string{x.Label, itoa(x.Count)})
		}
	default:
		return domain.Table{}, fmt.Errorf("report %s: unsupported rows type %T", r.Name, r.Rows)
	}

	return t, nil
}

func MapSummaryRowsToTable(rows []domain.SummaryRow) domain.Table {
	t := domain.Table{
		Name:  "dashboard-summary",
		Title: "Dashboard Summary",
		Columns: []string{"date", "year", "month", "quarter", "category", "region",
			"transaction_count", "units_sold", "revenue", "profit", "unique_customers"},
	}
	for _, x := range rows {
		t.Rows = append(t.Rows, []string{
			x.Date.Format(DateLayout), itoa(x.Year), itoa(x.Month), itoa(x.Quarter), x.Category, x.Region,
			itoa(x.TransactionCount), itoa(x.UnitsSold), money(x.Revenue), money(x.Profit),
			itoa(x.DistinctCustomers),
		})
	}
	return t
}

func MapRefreshRunsToTable(runs []domain.RefreshRun) domain.Table {
	t := domain.Table{
		Name:    "summary-refresh-runs",
		Title:   "Summary Refresh Runs",
		Columns: []string{"id", "as_of", "started_at", "finished_at", "row_count", "error"},
	}
	for _, r := range runs {
		finished := ""
		if r.FinishedAt != nil {
			finished = r.FinishedAt.Format("2006-01-02 15:04:05")
		}
		errMsg := ""
		if r.Error != nil {
			errMsg = *r.Error
		}
		t.Rows = append(t.Rows, []string{
			r.ID, r.AsOf.Format(DateLayout), r.StartedAt.Format("2006-01-02 15:04:05"), finished,
			itoa(r.RowCount), errMsg,
		})
	}
	return t
}

func MapTableProfilesToTable(profiles []domain.TableProfile) domain.Table {
	t := domain.Table{
		Name:    "data-profile",
		Title:   "Data Profile",
		Columns: []string{"table", "record_count", "duplicate_ids", "null_counts"},
	}
	for _, p := range profiles {
		cols := make([]string, 0, len(p.NullCounts))
		for col := range p.NullCounts {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		nulls := make([]string, 0, len(cols))
		for _, col := range cols {
			nulls = append(nulls, fmt.Sprintf("%s=%d", col, p.NullCounts[col]))
		}
		t.Rows = append(t.Rows, []string{
			p.Table, itoa(p.RecordCount), itoa(p.DuplicateIDs), strings.Join(nulls, " "),
		})
	}
	return t
}
