package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Extraction-model call latency in milliseconds.
	ExtractionCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extraction_call_latency_ms",
			Help:    "Language-model extraction call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"status"},
	)

	// Spreadsheet operation latency in seconds.
	SheetOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sheet_op_duration_seconds",
			Help:    "Spreadsheet read/append duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~10s
		},
		[]string{"operation"},
	)

	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Mention handling outcomes.
	InquiryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inquiry_requests_count",
			Help: "Total number of handled mention requests",
		},
		[]string{"outcome"}, // outcome: accepted, rejected, failed, skipped
	)

	// Rows successfully registered on the sheet.
	InquiriesRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inquiries_registered_count",
			Help: "Total number of inquiry rows registered on the spreadsheet",
		},
	)
)

// RecordExtractionCallLatency records one extraction-model call.
func RecordExtractionCallLatency(status string, duration time.Duration) {
	ExtractionCallLatency.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// RecordSheetOpDuration records one spreadsheet operation.
func RecordSheetOpDuration(operation string, duration time.Duration) {
	SheetOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one handled HTTP request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementInquiryRequests counts one mention request by outcome.
func IncrementInquiryRequests(outcome string) {
	InquiryRequests.WithLabelValues(outcome).Inc()
}

// AddInquiriesRegistered counts rows written to the sheet.
func AddInquiriesRegistered(n int) {
	InquiriesRegistered.Add(float64(n))
}
