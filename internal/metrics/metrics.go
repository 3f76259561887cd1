// Package metrics exposes Prometheus instrumentation for the messenger
// backend.
package metrics

import (
	"strconv"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts completed HTTP requests by method, route, and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "messenger_http_requests_total",
		Help: "Completed HTTP requests.",
	}, []string{"method", "path", "status"})

	// MessagesCreated counts messages appended across all groups.
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messenger_messages_created_total",
		Help: "Messages created.",
	})

	// GroupsCreated counts groups created.
	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "messenger_groups_created_total",
		Help: "Groups created.",
	})
)

// ObserveRequest records one completed request.
func ObserveRequest(method, path string, status int) {
	RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler serves the Prometheus scrape endpoint inside a Fiber app.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
