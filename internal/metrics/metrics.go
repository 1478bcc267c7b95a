package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ProductionBatchesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "production_batches_recorded_total",
			Help: "Total number of production batches recorded",
		},
	)

	OrdersFulfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_fulfilled_total",
			Help: "Total number of orders fulfilled",
		},
	)

	StockRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_rejections_total",
			Help: "Total number of stock deductions rejected for insufficient balance",
		},
	)

	LedgerRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_apply_retries_total",
			Help: "Total number of ledger applies retried after a first failure",
		},
	)
)
