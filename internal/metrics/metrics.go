package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vanek_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"path", "method", "status"})

	// ProviderFailures counts outbound provider calls that did not
	// produce a usable reply.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vanek_provider_failures_total",
		Help: "Failed outbound provider calls.",
	}, []string{"provider"})
)
