package policy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var DecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_authz_decisions_total",
		Help: "Total number of authorization decisions",
	},
	[]string{"policy", "action", "decision"},
)

func recordDecision(policy string, action Action, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	DecisionsTotal.WithLabelValues(policy, string(action), decision).Inc()
}
