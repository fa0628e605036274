package reports

import (
	"sort"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type regionAcc struct {
	row       domain.RegionalComparisonRow
	customers map[string]struct{}
}

// RegionalComparison aggregates sales per region. Contribution is measured
// against the revenue of every region in the same window.
func RegionalComparison(sales []domain.EnrichedSale, w domain.Window) []domain.RegionalComparisonRow {
	total := decimal.Zero
	groups := make(map[string]*regionAcc)
	for _, s := range inWindow(sales, w) {
		total = total.Add(s.Revenue)

		g, ok := groups[s.Region]
		if !ok {
			g = &regionAcc{
				row:       domain.RegionalComparisonRow{Region: s.Region, Revenue: decimal.Zero},
				customers: make(map[string]struct{}),
			}
			groups[s.Region] = g
		}
		g.customers[s.CustomerID] = struct{}{}
		g.row.TransactionCount++
		g.row.UnitsSold += s.Quantity
		g.row.Revenue = g.row.Revenue.Add(s.Revenue)
	}

	rows := make([]domain.RegionalComparisonRow, 0, len(groups))
	for _, g := range groups {
		r := g.row
		r.DistinctCustomers = int64(len(g.customers))
		r.AvgTransactionValue = average(r.Revenue, r.TransactionCount)
		r.ContributionPct = percent(r.Revenue, total)
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Revenue.Cmp(rows[j].Revenue); c != 0 {
			return c > 0
		}
		return rows[i].Region < rows[j].Region
	})
	return rows
}
