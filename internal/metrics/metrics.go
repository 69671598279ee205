package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vacation_planner_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vacation_planner_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	holidayFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vacation_planner_holiday_fetch_total",
		Help: "Holiday lookups by source and result",
	}, []string{"source", "result"})

	requestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vacation_planner_vacation_requests_created_total",
		Help: "Vacation requests created",
	})

	requestsClipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vacation_planner_vacation_requests_clipped_total",
		Help: "Vacation requests whose end date was adjusted to the available budget",
	})

	statusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vacation_planner_vacation_request_status_changes_total",
		Help: "Vacation request status changes by new status",
	}, []string{"status"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveHolidayFetch counts a holiday lookup. source is "cache" or "upstream", result "hit", "miss", "ok" or "error".
func ObserveHolidayFetch(source, result string) {
	holidayFetches.WithLabelValues(source, result).Inc()
}

func IncrementCreated() {
	requestsCreated.Inc()
}

func IncrementClipped() {
	requestsClipped.Inc()
}

func ObserveStatusChange(status string) {
	statusChanges.WithLabelValues(status).Inc()
}
