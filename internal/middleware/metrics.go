package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snaphunt_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snaphunt_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.3, 1, 3},
	}, []string{"method", "route"})

	inFlightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snaphunt_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
)

// Metrics records Prometheus counters for every request.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inFlightRequests.Inc()
		defer inFlightRequests.Dec()

		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		route := normalizeRoute(r.URL.Path)
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// normalizeRoute collapses task ids so the route label stays bounded.
func normalizeRoute(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, "t_") {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}
