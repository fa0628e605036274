package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/services/enrichment"
	"github.com/de-tools/sales-atlas/pkg/services/metrics"
	"github.com/de-tools/sales-atlas/pkg/services/quality"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownReport = errors.New("unknown report")

const (
	MonthlyRevenueName       = "monthly-revenue"
	ProductPerformanceName   = "product-performance"
	CustomerSegmentationName = "customer-segmentation"
	RegionalComparisonName   = "regional-comparison"
	SeasonalTrendName        = "seasonal-trend"
	RepPerformanceName       = "rep-performance"
	DataQualityName          = "data-quality"
)

// SnapshotLoader reads a consistent snapshot of the source relations with
// transactions dated on or after since.
type SnapshotLoader interface {
	Snapshot(ctx context.Context, since time.Time) (*store.Snapshot, error)
}

type input struct {
	snap     *store.Snapshot
	sales    []domain.EnrichedSale
	stats    domain.JoinStats
	settings domain.Settings
}

type definition struct {
	name    string
	title   string
	years   func(domain.Windows) int
	compute func(in input, w domain.Window) (any, int)
}

func rowsOf[T any](rows []T) (any, int) {
	return rows, len(rows)
}

var definitions = []definition{
	{
		name:  MonthlyRevenueName,
		title: "Monthly Revenue",
		years: func(w domain.Windows) int { return w.MonthlyRevenue },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(MonthlyRevenue(in.sales, w))
		},
	},
	{
		name:  ProductPerformanceName,
		title: "Product Performance",
		years: func(w domain.Windows) int { return w.ProductPerformance },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(ProductPerformance(in.sales, w, in.settings.ProductRevenueThreshold))
		},
	},
	{
		name:  CustomerSegmentationName,
		title: "Customer Segmentation",
		years: func(w domain.Windows) int { return w.CustomerSegmentation },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(CustomerSegmentation(in.sales, w, in.settings.Segments))
		},
	},
	{
		name:  RegionalComparisonName,
		title: "Regional Comparison",
		years: func(w domain.Windows) int { return w.RegionalComparison },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(RegionalComparison(in.sales, w))
		},
	},
	{
		name:  SeasonalTrendName,
		title: "Seasonal Trend",
		years: func(w domain.Windows) int { return w.SeasonalTrend },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(SeasonalTrend(in.sales, w))
		},
	},
	{
		name:  RepPerformanceName,
		title: "Sales Rep Performance",
		years: func(w domain.Windows) int { return w.RepPerformance },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(RepPerformance(in.sales, w))
		},
	},
	{
		name:  DataQualityName,
		title: "Data Quality Check",
		years: func(w domain.Windows) int { return w.DataQuality },
		compute: func(in input, w domain.Window) (any, int) {
			return rowsOf(quality.Check(in.snap.Transactions, w))
		},
	},
}

// Names lists the reports in presentation order.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for _, d := range definitions {
		names = append(names, d.name)
	}
	return names
}

func lookup(name string) (definition, error) {
	for _, d := range definitions {
		if d.name == name {
			return d, nil
		}
	}
	return definition{}, fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

type Engine struct {
	loader   SnapshotLoader
	settings domain.Settings
}

func NewEngine(loader SnapshotLoader, settings domain.Settings) *Engine {
	return &Engine{
		loader:   loader,
		settings: settings,
	}
}

func (e *Engine) Settings() domain.Settings {
	return e.settings
}

// Run loads a snapshot covering the report's window and computes it.
func (e *Engine) Run(ctx context.Context, name string, asOf time.Time) (domain.Report, error) {
	def, err := lookup(name)
	if err != nil {
		return domain.Report{}, err
	}

	w := domain.NewWindow(asOf, def.years(e.settings.Windows))
	snap, err := e.loader.Snapshot(ctx, w.Start())
	if err != nil {
		metrics.ReportFailures.WithLabelValues(name).Inc()
		return domain.Report{}, fmt.Errorf("failed to load snapshot for %s: %w", name, err)
	}

	return e.compute(ctx, def, e.prepare(ctx, snap), asOf), nil
}

// RunAll loads one snapshot covering the widest window and computes every
// report from it concurrently. Reports come back in Names order.
func (e *Engine) RunAll(ctx context.Context, asOf time.Time) ([]domain.Report, error) {
	since := domain.NewWindow(asOf, e.settings.Windows.Max()).Start()
	snap, err := e.loader.Snapshot(ctx, since)
	if err != nil {
		for _, d := range definitions {
			metrics.ReportFailures.WithLabelValues(d.name).Inc()
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return e.computeAll(ctx, e.prepare(ctx, snap), asOf)
}

// Compute runs a single report over an already loaded snapshot.
func (e *Engine) Compute(ctx context.Context, name string, snap *store.Snapshot, asOf time.Time) (domain.Report, error) {
	def, err := lookup(name)
	if err != nil {
		return domain.Report{}, err
	}
	return e.compute(ctx, def, e.prepare(ctx, snap), asOf), nil
}

// Profile loads the data quality window and profiles every relation in it.
func (e *Engine) Profile(ctx context.Context, asOf time.Time) ([]domain.TableProfile, error) {
	w := domain.NewWindow(asOf, e.settings.Windows.DataQuality)
	snap, err := e.loader.Snapshot(ctx, w.Start())
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for profile: %w", err)
	}
	return quality.Profile(snap), nil
}

func (e *Engine) prepare(ctx context.Context, snap *store.Snapshot) input {
	if snap == nil {
		snap = &store.Snapshot{}
	}
	enriched := enrichment.Enrich(ctx, snap)
	return input{
		snap:     snap,
		sales:    enriched.Sales,
		stats:    enriched.Stats,
		settings: e.settings,
	}
}

func (e *Engine) computeAll(ctx context.Context, in input, asOf time.Time) ([]domain.Report, error) {
	out := make([]domain.Report, len(definitions))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range definitions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.compute(gctx, def, in, asOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) compute(ctx context.Context, def definition, in input, asOf time.Time) domain.Report {
	w := domain.NewWindow(asOf, def.years(e.settings.Windows))

	start := time.Now()
	rows, n := def.compute(in, w)
	elapsed := time.Since(start)
	metrics.ReportDuration.WithLabelValues(def.name).Observe(elapsed.Seconds())

	zerolog.Ctx(ctx).Debug().
		Str("report", def.name).
		Int("rows", n).
		Dur("duration", elapsed).
		Msg("report computed")

	return domain.Report{
		Name:       def.name,
		Title:      def.title,
		AsOf:       w.End(),
		Period:     w.Period(),
		Enrichment: in.stats,
		Rows:       rows,
	}
}
