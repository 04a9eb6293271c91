// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CheckoutsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sprout",
		Name:      "checkouts_total",
		Help:      "Checkout attempts by gateway and outcome.",
	}, []string{"gateway", "outcome"})

	WebhookEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sprout",
		Name:      "webhook_events_total",
		Help:      "Webhook deliveries by gateway and outcome.",
	}, []string{"gateway", "outcome"})
)

func init() {
	prometheus.MustRegister(CheckoutsTotal, WebhookEventsTotal)
}

// Handler serves the default registry in the text exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
