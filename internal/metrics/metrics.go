package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution sources for ThemeResolutionsTotal.
const (
	SourceEmail    = "email"
	SourceLocation = "location"
	SourceExplicit = "explicit"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"status", "route"})
	HttpRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	ThemeResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "theme_resolutions_total",
		Help: "Theme ids chosen, by how they were resolved",
	}, []string{"source", "theme"})
	EmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "themed_emails_total",
		Help: "Themed emails attempted, by theme and outcome",
	}, []string{"theme", "status"})
	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "email_rate_limited_total",
		Help: "Email sends rejected by the send limiter",
	}, []string{"reason"})
)
