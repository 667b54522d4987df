// Package metrics holds the Prometheus collectors for the upload pipeline
// and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	uploadEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "image_groups",
			Subsystem: "uploads",
			Name:      "events_total",
			Help:      "Storage create-events processed, by outcome.",
		},
		[]string{"outcome"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "image_groups",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests handled.",
		},
		[]string{"route", "status"},
	)
)

func init() {
	Registry.MustRegister(uploadEvents, httpRequests)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveEvent counts one processed upload event.
func ObserveEvent(outcome string) { uploadEvents.WithLabelValues(outcome).Inc() }

// ObserveRequest counts one API response.
func ObserveRequest(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// EventCount returns the current count for outcome.
func EventCount(outcome string) prometheus.Counter { return uploadEvents.WithLabelValues(outcome) }

// RequestCount returns the current counter for route and status.
func RequestCount(route string, status int) prometheus.Counter {
	return httpRequests.WithLabelValues(route, strconv.Itoa(status))
}
