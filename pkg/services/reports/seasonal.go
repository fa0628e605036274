package reports

import (
	"sort"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type quarterKey struct {
	year    int
	quarter int
}

// SeasonalTrend aggregates sales per (year, quarter) in chronological order.
// Growth compares each quarter with the previous one in the series; the first
// quarter, and any quarter following one without revenue, has no growth.
func SeasonalTrend(sales []domain.EnrichedSale, w domain.Window) []domain.SeasonalTrendRow {
	groups := make(map[quarterKey]*domain.SeasonalTrendRow)
	for _, s := range inWindow(sales, w) {
		k := quarterKey{year: s.Calendar.Year, quarter: s.Calendar.Quarter}
		g, ok := groups[k]
		if !ok {
			g = &domain.SeasonalTrendRow{Year: k.year, Quarter: k.quarter, Revenue: decimal.Zero}
			groups[k] = g
		}
		g.TransactionCount++
		g.Revenue = g.Revenue.Add(s.Revenue)
	}

	rows := make([]domain.SeasonalTrendRow, 0, len(groups))
	for _, g := range groups {
		g.AvgTransactionValue = average(g.Revenue, g.TransactionCount)
		rows = append(rows, *g)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Quarter < rows[j].Quarter
	})

	for i := 1; i < len(rows); i++ {
		prev := rows[i-1].Revenue
		rows[i].GrowthPct = percent(rows[i].Revenue.Sub(prev), prev)
	}
	return rows
}
