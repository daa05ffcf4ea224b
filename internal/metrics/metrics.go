package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts application lifecycle events.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	ApplicationsDecided   *prometheus.CounterVec
	ApplicationsConfirmed prometheus.Counter
	ApplicationsWithdrawn *prometheus.CounterVec
}

// New registers the counters on reg. The withdrawn counter is labelled by
// reason: "approved" for a staff-approved request, "forced" for a cascade
// withdrawal triggered by a confirmation.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "internhub_applications_submitted_total",
			Help: "Applications successfully submitted.",
		}),
		ApplicationsDecided: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "internhub_applications_decided_total",
			Help: "Reviewer decisions on applications.",
		}, []string{"outcome"}),
		ApplicationsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "internhub_applications_confirmed_total",
			Help: "Offers confirmed by applicants.",
		}),
		ApplicationsWithdrawn: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "internhub_applications_withdrawn_total",
			Help: "Applications withdrawn.",
		}, []string{"reason"}),
	}
}
