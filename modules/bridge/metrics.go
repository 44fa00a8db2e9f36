package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts webhook and sync traffic for the /metrics endpoint.
type Metrics struct {
	webhookEvents *prometheus.CounterVec
	syncRequests  *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
}

// NewMetrics registers the module's collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		webhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polarbridge",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Webhook events received, by normalized event type and outcome.",
		}, []string{"event", "outcome"}),
		syncRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polarbridge",
			Subsystem: "sync",
			Name:      "requests_total",
			Help:      "Sync bridge requests, by outcome.",
		}, []string{"outcome"}),
		checkouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polarbridge",
			Subsystem: "checkout",
			Name:      "sessions_total",
			Help:      "Checkout session creations, by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) webhookEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) syncRequest(outcome string) {
	if m == nil {
		return
	}
	m.syncRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) checkout(outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}
