// Package metrics exposes portal counters to Prometheus.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the counters recorded by the handlers
type Metrics struct {
	registry    *prometheus.Registry
	Logins      *prometheus.CounterVec // label: outcome (success|failure)
	Predictions *prometheus.CounterVec // label: outcome (ok|bad_input|model_error)
	Intents     *prometheus.CounterVec // label: intent
}

// New registers the portal collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "predictions_total",
			Help:      "Grade prediction requests by outcome.",
		}, []string{"outcome"}),
		Intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "chatbot_intents_total",
			Help:      "Chatbot messages by detected intent.",
		}, []string{"intent"}),
	}
	m.registry.MustRegister(
		m.Logins,
		m.Predictions,
		m.Intents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
