package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sales_atlas"

// Gap kinds for ReferentialGaps.
const (
	GapMissingProduct   = "missing_product"
	GapMissingCustomer  = "missing_customer"
	GapUnresolvedRep    = "unresolved_rep"
	GapUnresolvedRegion = "unresolved_region"
	GapInvalid          = "invalid_transaction"
)

var (
	// ReferentialGaps is set on every enrichment pass, so it describes the
	// most recently loaded snapshot rather than accumulating across runs.
	ReferentialGaps = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "referential_gaps",
		Help:      "Transactions left out of or degraded in the last enriched snapshot, by kind.",
	}, []string{"kind"})

	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Time spent computing a report from a loaded snapshot.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report"})

	ReportFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_failures_total",
		Help:      "Report computations that failed, usually because the source was unavailable.",
	}, []string{"report"})

	SummaryRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summary_refreshes_total",
		Help:      "Dashboard summary refreshes by outcome.",
	}, []string{"status"})
)
