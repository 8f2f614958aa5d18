// Package metrics exposes Prometheus counters for the guardrail engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Evaluations counts state-machine evaluations, labeled by resolved status.
	Evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardrail_evaluations_total",
		Help: "Guardrail evaluations by resolved status.",
	}, []string{"status"})

	// Patterns counts individual pattern detections.
	Patterns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardrail_patterns_total",
		Help: "Pattern detections by tag.",
	}, []string{"pattern"})

	// Commands counts handled commands, labeled by action.
	Commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardrail_commands_total",
		Help: "Commands handled by action.",
	}, []string{"action"})

	// Cooldowns counts newly stored or extended cooldowns by trigger tag.
	Cooldowns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardrail_cooldowns_total",
		Help: "Cooldowns stored or extended by trigger pattern.",
	}, []string{"pattern"})
)

func init() {
	prometheus.MustRegister(Evaluations, Patterns, Commands, Cooldowns)
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler { return promhttp.Handler() }
