package reports

import (
	"sort"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

// Classify assigns the first matching segment; the rules overlap, so their
// order matters.
func Classify(lifetimeValue decimal.Decimal, frequency int64, t domain.SegmentThresholds) domain.Segment {
	switch {
	case lifetimeValue.GreaterThanOrEqual(t.VIPValue) && frequency >= t.VIPFrequency:
		return domain.SegmentVIP
	case lifetimeValue.GreaterThanOrEqual(t.HighValue) || frequency >= t.HighFrequency:
		return domain.SegmentHighValue
	case lifetimeValue.GreaterThanOrEqual(t.RegularValue):
		return domain.SegmentRegular
	default:
		return domain.SegmentLowValue
	}
}

// CustomerSegmentation computes purchase frequency, lifetime value and the
// purchase span per customer and classifies each one into a segment.
func CustomerSegmentation(
	sales []domain.EnrichedSale,
	w domain.Window,
	thresholds domain.SegmentThresholds,
) []domain.CustomerSegmentRow {
	groups := make(map[string]*domain.CustomerSegmentRow)
	for _, s := range inWindow(sales, w) {
		day := domain.Day(s.Date)
		g, ok := groups[s.CustomerID]
		if !ok {
			g = &domain.CustomerSegmentRow{
				CustomerID:    s.CustomerID,
				CustomerName:  s.CustomerName,
				LifetimeValue: decimal.Zero,
				FirstPurchase: day,
				LastPurchase:  day,
			}
			groups[s.CustomerID] = g
		}
		g.Frequency++
		g.LifetimeValue = g.LifetimeValue.Add(s.TotalAmount)
		if day.Before(g.FirstPurchase) {
			g.FirstPurchase = day
		}
		if day.After(g.LastPurchase) {
			g.LastPurchase = day
		}
	}

	rows := make([]domain.CustomerSegmentRow, 0, len(groups))
	for _, g := range groups {
		g.AvgOrderValue = average(g.LifetimeValue, g.Frequency)
		g.LifetimeDays = daysBetween(g.FirstPurchase, g.LastPurchase)
		g.Segment = Classify(g.LifetimeValue, g.Frequency, thresholds)
		rows = append(rows, *g)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].LifetimeValue.Cmp(rows[j].LifetimeValue); c != 0 {
			return c > 0
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})
	return rows
}

// daysBetween counts calendar days, so a DST shift does not lose a day.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
