package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "dockday_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	orderCreateTotal   *prometheus.CounterVec
	orderCreateLatency *prometheus.HistogramVec

	orderTransitionTotal *prometheus.CounterVec

	ledgerSaveTotal   *prometheus.CounterVec
	ledgerSaveLatency *prometheus.HistogramVec

	statementGenerateTotal   *prometheus.CounterVec
	statementGenerateLatency *prometheus.HistogramVec
	statementAdvanceTotal    *prometheus.CounterVec
	statementExportTotal     *prometheus.CounterVec
	statementExportLatency   *prometheus.HistogramVec
)

// Init registers the service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		orderCreateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "order_create_total",
				Help: "Total shift order submissions by result",
			},
			[]string{"result"},
		)
		orderCreateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "order_create_latency_seconds",
				Help:    "Shift order submission latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		orderTransitionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "order_transition_total",
				Help: "Total order status transitions by target status and result",
			},
			[]string{"to", "result"},
		)
		ledgerSaveTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ledger_save_total",
				Help: "Total actual-cost ledger saves by result",
			},
			[]string{"result"},
		)
		ledgerSaveLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ledger_save_latency_seconds",
				Help:    "Actual-cost ledger save latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_generate_total",
				Help: "Total statement generate operations by result",
			},
			[]string{"result"},
		)
		statementGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_generate_latency_seconds",
				Help:    "Statement generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementAdvanceTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_advance_total",
				Help: "Total statement status advances by target status and result",
			},
			[]string{"to", "result"},
		)
		statementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total statement export operations by format and result",
			},
			[]string{"format", "result"},
		)
		statementExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_export_latency_seconds",
				Help:    "Statement export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			orderCreateTotal,
			orderCreateLatency,
			orderTransitionTotal,
			ledgerSaveTotal,
			ledgerSaveLatency,
			statementGenerateTotal,
			statementGenerateLatency,
			statementAdvanceTotal,
			statementExportTotal,
			statementExportLatency,
		)
	})
}

// ObserveOrderCreate records an order submission.
func ObserveOrderCreate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if orderCreateTotal != nil {
		orderCreateTotal.WithLabelValues(result).Inc()
	}
	if orderCreateLatency != nil {
		orderCreateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncOrderTransition records a status transition attempt.
func IncOrderTransition(to, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if orderTransitionTotal != nil {
		orderTransitionTotal.WithLabelValues(to, result).Inc()
	}
}

// ObserveLedgerSave records an actual-cost save.
func ObserveLedgerSave(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if ledgerSaveTotal != nil {
		ledgerSaveTotal.WithLabelValues(result).Inc()
	}
	if ledgerSaveLatency != nil {
		ledgerSaveLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveStatementGenerate records a statement generation.
func ObserveStatementGenerate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if statementGenerateTotal != nil {
		statementGenerateTotal.WithLabelValues(result).Inc()
	}
	if statementGenerateLatency != nil {
		statementGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncStatementAdvance records a statement status advance attempt.
func IncStatementAdvance(to, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if statementAdvanceTotal != nil {
		statementAdvanceTotal.WithLabelValues(to, result).Inc()
	}
}

// ObserveStatementExport records a statement export.
func ObserveStatementExport(format, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if statementExportTotal != nil {
		statementExportTotal.WithLabelValues(format, result).Inc()
	}
	if statementExportLatency != nil {
		statementExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}
