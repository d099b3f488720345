package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	httpErrorsTotal        *prometheus.CounterVec
	registrationsTotal     *prometheus.CounterVec
	membershipsTotal       *prometheus.CounterVec
	moderationTotal        *prometheus.CounterVec
	trendingCacheLookups   *prometheus.CounterVec
	notificationsSentTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		registrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_registrations_total",
			Help: "Event registration attempts by outcome.",
		}, []string{"outcome"})

		membershipsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_membership_transitions_total",
			Help: "Club membership transitions by outcome.",
		}, []string{"outcome"})

		moderationTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_moderation_actions_total",
			Help: "Moderation and review actions by type.",
		}, []string{"action"})

		trendingCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_trending_cache_lookups_total",
			Help: "Trending cache lookups by result.",
		}, []string{"result"})

		notificationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_notifications_total",
			Help: "Notifications handed to a channel, by channel and status.",
		}, []string{"channel", "status"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			registrationsTotal,
			membershipsTotal,
			moderationTotal,
			trendingCacheLookups,
			notificationsSentTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Registrations exposes the registration outcome counter.
func Registrations() *prometheus.CounterVec {
	RegisterMetrics()
	return registrationsTotal
}

// Memberships exposes the membership transition counter.
func Memberships() *prometheus.CounterVec {
	RegisterMetrics()
	return membershipsTotal
}

// Moderation exposes the moderation action counter.
func Moderation() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationTotal
}

// TrendingCache exposes the trending cache lookup counter.
func TrendingCache() *prometheus.CounterVec {
	RegisterMetrics()
	return trendingCacheLookups
}

// Notifications exposes the notification counter.
func Notifications() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsSentTotal
}
