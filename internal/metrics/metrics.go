// Package metrics holds the Prometheus collectors shared by the lead services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alevatex"

type Metrics struct {
	Submissions   *prometheus.CounterVec // by outcome: stored, invalid, busy
	RelayRequests *prometheus.CounterVec // by result: success, error
	StoreFailures *prometheus.CounterVec // by op: load, save
	LeadMutations *prometheus.CounterVec // by op: status, delete
}

// New registers the collectors on reg. A nil reg gives unregistered
// collectors, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		RelayRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_requests_total",
			Help:      "Form relay POSTs by result.",
		}, []string{"result"}),
		StoreFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Swallowed lead store failures by operation.",
		}, []string{"op"}),
		LeadMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_mutations_total",
			Help:      "Admin mutations applied to the lead list.",
		}, []string{"op"}),
	}
}
