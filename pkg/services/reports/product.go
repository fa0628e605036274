package reports

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// ProductPerformance aggregates sales per product, keeps the products whose
// revenue exceeds threshold and ranks the survivors by revenue.
func ProductPerformance(
	sales []domain.EnrichedSale,
	w domain.Window,
	threshold decimal.Decimal,
) []domain.ProductPerformanceRow {
	groups := make(map[string]*domain.ProductPerformanceRow)
	for _, s := range inWindow(sales, w) {
		g, ok := groups[s.ProductID]
		if !ok {
			g = &domain.ProductPerformanceRow{
				Category:    s.Category,
				ProductID:   s.ProductID,
				ProductName: s.ProductName,
				Brand:       s.Brand,
				Revenue:     decimal.Zero,
				Profit:      decimal.Zero,
			}
			groups[s.ProductID] = g
		}
		g.TransactionCount++
		g.UnitsSold += s.Quantity
		g.Revenue = g.Revenue.Add(s.Revenue)
		g.Profit = g.Profit.Add(s.ProfitMargin)
	}

	rows := make([]domain.ProductPerformanceRow, 0, len(groups))
	for _, g := range groups {
		if !g.Revenue.GreaterThan(threshold) {
			continue
		}
		g.AvgSale = average(g.Revenue, g.TransactionCount)
		g.ProfitMarginPct = percent(g.Profit, g.Revenue)
		rows = append(rows, *g)
	}

	DenseRank(rows,
		func(r domain.ProductPerformanceRow) decimal.Decimal { return r.Revenue },
		func(r domain.ProductPerformanceRow) string { return r.ProductID },
		func(r *domain.ProductPerformanceRow, rank int) { r.RevenueRank = rank },
	)
	return rows
}
