package quality

import (
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
)

// Profile reports record counts, repeated identifiers and null references
// for every relation of the snapshot.
func Profile(snap *store.Snapshot) []domain.TableProfile {
	if snap == nil {
		snap = &store.Snapshot{}
	}

	transactions := newProfile("sales_transactions", "product_id", "customer_id", "sales_rep_id",
		"quantity_sold", "unit_price", "total_amount")
	for _, t := range snap.Transactions {
		transactions.add(t.ID)
		transactions.null("product_id", t.ProductID.Valid)
		transactions.null("customer_id", t.CustomerID.Valid)
		transactions.null("sales_rep_id", t.SalesRepID.Valid)
		transactions.null("quantity_sold", t.Quantity.Valid)
		transactions.null("unit_price", t.UnitPrice.Valid)
		transactions.null("total_amount", t.TotalAmount.Valid)
	}

	products := newProfile("products")
	for _, p := range snap.Products {
		products.add(p.ID)
	}

	customers := newProfile("customers", "region_id")
	for _, c := range snap.Customers {
		customers.add(c.ID)
		customers.null("region_id", c.RegionID.Valid)
	}

	reps := newProfile("sales_reps", "region_id")
	for _, r := range snap.SalesReps {
		reps.add(r.ID)
		reps.null("region_id", r.RegionID.Valid)
	}

	regions := newProfile("regions")
	for _, r := range snap.Regions {
		regions.add(r.ID)
	}

	return []domain.TableProfile{
		transactions.TableProfile,
		products.TableProfile,
		customers.TableProfile,
		reps.TableProfile,
		regions.TableProfile,
	}
}

type profiler struct {
	domain.TableProfile
	seen map[string]struct{}
}

func newProfile(table string, nullable ...string) *profiler {
	p := &profiler{
		TableProfile: domain.TableProfile{Table: table, NullCounts: make(map[string]int, len(nullable))},
		seen:         make(map[string]struct{}),
	}
	for _, col := range nullable {
		p.NullCounts[col] = 0
	}
	return p
}

func (p *profiler) add(id string) {
	p.RecordCount++
	if _, dup := p.seen[id]; dup {
		p.DuplicateIDs++
		return
	}
	p.seen[id] = struct{}{}
}

func (p *profiler) null(col string, valid bool) {
	if !valid {
		p.NullCounts[col]++
	}
}
