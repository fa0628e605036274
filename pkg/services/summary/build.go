package summary

import (
	"sort"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type key struct {
	date     time.Time
	category string
	region   string
}

type acc struct {
	row       domain.SummaryRow
	customers map[string]struct{}
}

// Build rolls enriched sales in w up to one row per (day, category, region).
func Build(sales []domain.EnrichedSale, w domain.Window) []domain.SummaryRow {
	groups := make(map[key]*acc)
	for _, s := range sales {
		if !w.Contains(s.Date) {
			continue
		}
		d := domain.Day(s.Date)
		k := key{date: d, category: s.Category, region: s.Region}
		g, ok := groups[k]
		if !ok {
			g = &acc{
				row: domain.SummaryRow{
					Date:     d,
					Year:     s.Calendar.Year,
					Month:    s.Calendar.Month,
					Quarter:  s.Calendar.Quarter,
					Category: s.Category,
					Region:   s.Region,
					Revenue:  decimal.Zero,
					Profit:   decimal.Zero,
				},
				customers: make(map[string]struct{}),
			}
			groups[k] = g
		}
		g.customers[s.CustomerID] = struct{}{}
		g.row.TransactionCount++
		g.row.UnitsSold += s.Quantity
		g.row.Revenue = g.row.Revenue.Add(s.Revenue)
		g.row.Profit = g.row.Profit.Add(s.ProfitMargin)
	}

	rows := make([]domain.SummaryRow, 0, len(groups))
	for _, g := range groups {
		r := g.row
		r.DistinctCustomers = int64(len(g.customers))
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Region < b.Region
	})
	return rows
}
