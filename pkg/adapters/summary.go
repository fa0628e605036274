package adapters

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
)

func MapDomainSummaryRowToStore(r domain.SummaryRow) store.SummaryRow {
	return store.SummaryRow{
		Date:              r.Date,
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

func MapStoreSummaryRowToDomain(r store.SummaryRow) domain.SummaryRow {
	return domain.SummaryRow{
		Date:              r.Date,
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

func MapStoreRefreshRunToDomain(r store.RefreshRun) domain.RefreshRun {
	return domain.RefreshRun{
		ID:         r.ID,
		AsOf:       r.AsOf,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		RowCount:   r.RowCount,
		Error:      r.Error,
	}
}

func MapDomainRefreshRunToStore(r domain.RefreshRun) store.RefreshRun {
	return store.RefreshRun{
		ID:         r.ID,
		AsOf:       r.AsOf,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		RowCount:   r.RowCount,
		Error:      r.Error,
	}
}
