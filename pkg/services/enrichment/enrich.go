package enrichment

import (
	"context"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/services/metrics"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Result struct {
	Sales []domain.EnrichedSale
	Stats domain.JoinStats
}

// Enrich joins every transaction to its product and customer (inner join) and
// its sales rep (outer join), then derives revenue, profit margin and the
// calendar parts. Transactions that fail the inner join, or that lack a
// positive quantity and total amount, are counted in the returned stats and
// the referential gap metric, never returned.
func Enrich(ctx context.Context, snap *store.Snapshot) Result {
	logger := zerolog.Ctx(ctx)
	if snap == nil {
		return Result{Sales: []domain.EnrichedSale{}}
	}

	products := make(map[string]store.Product, len(snap.Products))
	for _, p := range snap.Products {
		products[p.ID] = p
	}
	customers := make(map[string]store.Customer, len(snap.Customers))
	for _, c := range snap.Customers {
		customers[c.ID] = c
	}
	reps := make(map[string]store.SalesRep, len(snap.SalesReps))
	for _, r := range snap.SalesReps {
		reps[r.ID] = r
	}
	regions := make(map[string]string, len(snap.Regions))
	for _, r := range snap.Regions {
		regions[r.ID] = r.Name
	}

	stats := domain.JoinStats{Transactions: len(snap.Transactions)}
	sales := make([]domain.EnrichedSale, 0, len(snap.Transactions))

	for _, t := range snap.Transactions {
		product, productOK := lookup(products, t.ProductID.String, t.ProductID.Valid)
		customer, customerOK := lookup(customers, t.CustomerID.String, t.CustomerID.Valid)
		if !productOK {
			stats.MissingProduct++
		}
		if !customerOK {
			stats.MissingCustomer++
		}
		valid := t.Valid()
		if !valid {
			stats.Invalid++
		}
		if !productOK || !customerOK || !valid {
			continue
		}

		regionName, regionOK := resolveRegion(regions, customer.RegionID.String, customer.RegionID.Valid)
		if !regionOK {
			stats.UnresolvedRegion++
		}

		var rep *domain.SalesRepRef
		if t.SalesRepID.Valid {
			if r, ok := reps[t.SalesRepID.String]; ok {
				repRegion, _ := resolveRegion(regions, r.RegionID.String, r.RegionID.Valid)
				rep = &domain.SalesRepRef{
					ID:       r.ID,
					Name:     r.Name,
					RegionID: r.RegionID.String,
					Region:   repRegion,
				}
			} else {
				stats.UnresolvedRep++
			}
		}

		qty := decimal.NewFromInt(t.Quantity.Int64)
		sales = append(sales, domain.EnrichedSale{
			TransactionID: t.ID,
			Date:          t.Date,
			Calendar:      CalendarOf(t.Date),
			ProductID:     product.ID,
			ProductName:   product.Name,
			Category:      product.Category,
			Brand:         product.Brand,
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			CustomerType:  customer.Type,
			RegionID:      customer.RegionID.String,
			Region:        regionName,
			SalesRep:      rep,
			Quantity:      t.Quantity.Int64,
			UnitPrice:     t.UnitPrice.Decimal,
			TotalAmount:   t.TotalAmount.Decimal,
			CostPrice:     product.CostPrice,
			Revenue:       qty.Mul(t.UnitPrice.Decimal),
			ProfitMargin:  t.TotalAmount.Decimal.Sub(qty.Mul(product.CostPrice)),
		})
	}
	stats.Enriched = len(sales)

	recordGaps(stats)
	if stats.Excluded() > 0 || stats.UnresolvedRep > 0 || stats.UnresolvedRegion > 0 {
		logger.Warn().
			Int("missing_product", stats.MissingProduct).
			Int("missing_customer", stats.MissingCustomer).
			Int("invalid", stats.Invalid).
			Int("unresolved_rep", stats.UnresolvedRep).
			Int("unresolved_region", stats.UnresolvedRegion).
			Int("excluded", stats.Excluded()).
			Msg("transactions excluded or degraded during enrichment")
	}

	return Result{Sales: sales, Stats: stats}
}

// CalendarOf derives the calendar parts of t's UTC day.
func CalendarOf(t time.Time) domain.Calendar {
	t = t.UTC()
	_, week := t.ISOWeek()
	dow := int(t.Weekday())
	if dow == 0 {
		dow = 7
	}
	month := int(t.Month())
	return domain.Calendar{
		Year:      t.Year(),
		Month:     month,
		Quarter:   (month-1)/3 + 1,
		ISOWeek:   week,
		DayOfWeek: dow,
	}
}

func lookup[T any](m map[string]T, id string, valid bool) (T, bool) {
	var zero T
	if !valid {
		return zero, false
	}
	v, ok := m[id]
	return v, ok
}

func resolveRegion(regions map[string]string, id string, valid bool) (string, bool) {
	name, ok := lookup(regions, id, valid)
	if !ok {
		return domain.UnknownRegion, false
	}
	return name, true
}

func recordGaps(stats domain.JoinStats) {
	metrics.ReferentialGaps.WithLabelValues(metrics.GapMissingProduct).Set(float64(stats.MissingProduct))
	metrics.ReferentialGaps.WithLabelValues(metrics.GapMissingCustomer).Set(float64(stats.MissingCustomer))
	metrics.ReferentialGaps.WithLabelValues(metrics.GapInvalid).Set(float64(stats.Invalid))
	metrics.ReferentialGaps.WithLabelValues(metrics.GapUnresolvedRep).Set(float64(stats.UnresolvedRep))
	metrics.ReferentialGaps.WithLabelValues(metrics.GapUnresolvedRegion).Set(float64(stats.UnresolvedRegion))
}
