package reports

import (
	"sort"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type monthKey struct {
	year   int
	month  int
	region string
}

// MonthlyRevenue rolls sales up by (year, month, region), newest month first
// and highest revenue first within a month.
func MonthlyRevenue(sales []domain.EnrichedSale, w domain.Window) []domain.MonthlyRevenueRow {
	groups := make(map[monthKey]*domain.MonthlyRevenueRow)
	for _, s := range inWindow(sales, w) {
		k := monthKey{year: s.Calendar.Year, month: s.Calendar.Month, region: s.Region}
		g, ok := groups[k]
		if !ok {
			g = &domain.MonthlyRevenueRow{
				Year:         k.year,
				Month:        k.month,
				Region:       k.region,
				TotalRevenue: decimal.Zero,
				TotalProfit:  decimal.Zero,
			}
			groups[k] = g
		}
		g.TransactionCount++
		g.UnitsSold += s.Quantity
		g.TotalRevenue = g.TotalRevenue.Add(s.Revenue)
		g.TotalProfit = g.TotalProfit.Add(s.ProfitMargin)
	}

	rows := make([]domain.MonthlyRevenueRow, 0, len(groups))
	for _, g := range groups {
		g.AvgOrderValue = average(g.TotalRevenue, g.TransactionCount)
		rows = append(rows, *g)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		if c := a.TotalRevenue.Cmp(b.TotalRevenue); c != 0 {
			return c > 0
		}
		return a.Region < b.Region
	})
	return rows
}
