package adapters

import (
	"fmt"
	"maps"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
)

const DateLayout = "2006-01-02"

func MapTimePeriodDomainToApi(p domain.TimePeriod) api.TimePeriod {
	return api.TimePeriod{
		Start: p.Start.Format(DateLayout),
		End:   p.End.Format(DateLayout),
		Years: p.Years,
	}
}

func MapReportDomainToApi(r domain.Report) (api.Report, error) {
	rows, err := mapRowsDomainToApi(r.Rows)
	if err != nil {
		return api.Report{}, fmt.Errorf("report %s: %w", r.Name, err)
	}
	return api.Report{
		Name:       r.Name,
		Title:      r.Title,
		AsOf:       r.AsOf.Format(DateLayout),
		Period:     MapTimePeriodDomainToApi(r.Period),
		Enrichment: api.JoinStats(r.Enrichment),
		Rows:       rows,
	}, nil
}

func mapRowsDomainToApi(rows any) (any, error) {
	switch rs := rows.(type) {
	case []domain.MonthlyRevenueRow:
		out := make([]api.MonthlyRevenueRow, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.MonthlyRevenueRow(r))
		}
		return out, nil
	case []domain.ProductPerformanceRow:
		out := make([]api.ProductPerformanceRow, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.ProductPerformanceRow(r))
		}
		return out, nil
	case []domain.CustomerSegmentRow:
		out := make([]api.CustomerSegmentRow, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.CustomerSegmentRow{
				CustomerID:    r.CustomerID,
				CustomerName:  r.CustomerName,
				Frequency:     r.Frequency,
				LifetimeValue: r.LifetimeValue,
				AvgOrderValue: r.AvgOrderValue,
				FirstPurchase: r.FirstPurchase.Format(DateLayout),
				LastPurchase:  r.LastPurchase.Format(DateLayout),
				LifetimeDays:  r.LifetimeDays,
				Segment:       string(r.Segment),
			})
		}
		return out, nil
	case []domain.RegionalComparisonRow:
		out := make([]api.RegionalComparisonRow, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.RegionalComparisonRow(r))
		}
		return out, nil
	case []domain.SeasonalTrendRow:
		out := make([]api.SeasonalTrendRow, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.SeasonalTrendRow(r))
		}
		return out, nil
	case []domain.RepPerformanceRow:
		out := make([]api.RepPerformanceRow, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.RepPerformanceRow(r))
		}
		return out, nil
	case []domain.QualityIssue:
		out := make([]api.QualityIssue, 0, len(rs))
		for _, r := range rs {
			out = append(out, api.QualityIssue{Issue: r.Label, Count: r.Count})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported rows type %T", rows)
	}
}

func MapSummaryRowDomainToApi(r domain.SummaryRow) api.SummaryRow {
	return api.SummaryRow{
		Date:              r.Date.Format(DateLayout),
		Year:              r.Year,
		Month:             r.Month,
		Quarter:           r.Quarter,
		Category:          r.Category,
		Region:            r.Region,
		TransactionCount:  r.TransactionCount,
		UnitsSold:         r.UnitsSold,
		Revenue:           r.Revenue,
		Profit:            r.Profit,
		DistinctCustomers: r.DistinctCustomers,
	}
}

func MapRefreshRunDomainToApi(r domain.RefreshRun) api.RefreshRun {
	return api.RefreshRun{
		ID:         r.ID,
		AsOf:       r.AsOf.Format(DateLayout),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		RowCount:   r.RowCount,
		Error:      r.Error,
	}
}

func MapTableProfileDomainToApi(p domain.TableProfile) api.TableProfile {
	return api.TableProfile{
		Table:        p.Table,
		RecordCount:  p.RecordCount,
		DuplicateIDs: p.DuplicateIDs,
		NullCounts:   maps.Clone(p.NullCounts),
	}
}
