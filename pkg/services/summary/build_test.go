package summary

import (
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/enrichment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func enriched(at time.Time, category, region, customer string, qty, price, profit int64) domain.EnrichedSale {
	return domain.EnrichedSale{
		Date:         at,
		Calendar:     enrichment.CalendarOf(at),
		Category:     category,
		Region:       region,
		CustomerID:   customer,
		Quantity:     qty,
		Revenue:      decimal.NewFromInt(qty * price),
		ProfitMargin: decimal.NewFromInt(profit),
	}
}

func TestBuild(t *testing.T) {
	sales := []domain.EnrichedSale{
		enriched(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC), "Tools", "North", "C1", 2, 10, 5),
		enriched(time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC), "Tools", "North", "C1", 1, 10, 2),
		enriched(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), "Tools", "North", "C2", 1, 30, 9),
		enriched(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), "Garden", "North", "C2", 1, 30, 9),
		enriched(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "Tools", "South", "C3", 4, 5, 1),
		enriched(time.Date(2022, 6, 29, 0, 0, 0, 0, time.UTC), "Tools", "South", "C3", 4, 5, 1),
	}

	rows := Build(sales, domain.NewWindow(asOf, 2))
	require.Len(t, rows, 3)

	tools := rows[1]
	assert.Equal(t, "Garden", rows[0].Category)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), tools.Date)
	assert.Equal(t, 2024, tools.Year)
	assert.Equal(t, 6, tools.Month)
	assert.Equal(t, 2, tools.Quarter)
	assert.Equal(t, int64(3), tools.TransactionCount)
	assert.Equal(t, int64(4), tools.UnitsSold)
	assert.True(t, decimal.NewFromInt(60).Equal(tools.Revenue))
	assert.True(t, decimal.NewFromInt(16).Equal(tools.Profit))
	assert.Equal(t, int64(2), tools.DistinctCustomers)

	assert.Equal(t, "South", rows[2].Region)
	assert.Equal(t, 1, rows[2].Quarter)
}

func TestBuild_Empty(t *testing.T) {
	rows := Build(nil, domain.NewWindow(asOf, 2))
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
