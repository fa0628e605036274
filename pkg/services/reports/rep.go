package reports

import (
	"sort"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type repKey struct {
	id     string
	region string
}

type repAcc struct {
	row       domain.RepPerformanceRow
	customers map[string]struct{}
}

// RepPerformance aggregates sales per (rep, rep region) and ranks reps by
// revenue within their region and globally. Sales without a resolved rep are
// not attributed to anyone.
func RepPerformance(sales []domain.EnrichedSale, w domain.Window) []domain.RepPerformanceRow {
	groups := make(map[repKey]*repAcc)
	for _, s := range inWindow(sales, w) {
		if s.SalesRep == nil {
			continue
		}
		k := repKey{id: s.SalesRep.ID, region: s.SalesRep.Region}
		g, ok := groups[k]
		if !ok {
			g = &repAcc{
				row: domain.RepPerformanceRow{
					RepID:   s.SalesRep.ID,
					RepName: s.SalesRep.Name,
					Region:  s.SalesRep.Region,
					Revenue: decimal.Zero,
				},
				customers: make(map[string]struct{}),
			}
			groups[k] = g
		}
		g.customers[s.CustomerID] = struct{}{}
		g.row.SalesCount++
		g.row.Revenue = g.row.Revenue.Add(s.Revenue)
	}

	rows := make([]domain.RepPerformanceRow, 0, len(groups))
	for _, g := range groups {
		r := g.row
		r.DistinctCustomers = int64(len(g.customers))
		r.AvgSale = average(r.Revenue, r.SalesCount)
		r.RevenuePerCustomer = ratio(r.Revenue, decimal.NewFromInt(r.DistinctCustomers))
		rows = append(rows, r)
	}

	revenue := func(r domain.RepPerformanceRow) decimal.Decimal { return r.Revenue }
	key := func(r domain.RepPerformanceRow) string { return r.RepID }

	byRegion := make(map[string][]domain.RepPerformanceRow)
	for _, r := range rows {
		byRegion[r.Region] = append(byRegion[r.Region], r)
	}
	rows = rows[:0]
	for _, part := range byRegion {
		DenseRank(part, revenue, key, func(r *domain.RepPerformanceRow, rank int) { r.RegionRank = rank })
		rows = append(rows, part...)
	}

	DenseRank(rows, revenue, key, func(r *domain.RepPerformanceRow, rank int) { r.GlobalRank = rank })

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.GlobalRank != b.GlobalRank {
			return a.GlobalRank < b.GlobalRank
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.RepName != b.RepName {
			return a.RepName < b.RepName
		}
		return a.RepID < b.RepID
	})
	return rows
}
