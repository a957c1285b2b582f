package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskbookd_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskbookd_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskbookd_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	RateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskbookd_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter by route",
		},
		[]string{"route"},
	)

	ActiveSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskbookd_active_subscriptions",
			Help: "Current number of open event-stream subscriptions",
		},
	)

	ItemsPerBucket = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskbookd_items_per_bucket",
			Help:    "Item count observed in a bucket write, by bucket",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"bucket"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		LoginAttemptsTotal,
		RateLimitRejectionsTotal,
		ActiveSubscriptions,
		ItemsPerBucket,
	)
}

// Handler returns the Prometheus scrape handler for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed time for one request.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveRoute records elapsed time against RequestDuration for route.
func (t *Timer) ObserveRoute(route string) {
	RequestDuration.WithLabelValues(route).Observe(time.Since(t.start).Seconds())
}
