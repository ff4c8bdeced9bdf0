package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Subscription outcomes, used as the "outcome" label.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalid         = "invalid"
	OutcomeLinkNotFound    = "link_not_found"
	OutcomeInternalFailure = "internal_error"
)

// CRM call results, used as the "result" label.
const (
	CRMSuccess = "success"
	CRMFailure = "failure"
)

// Metrics groups the counters recorded by the subscription flow.
type Metrics struct {
	SubscriptionRequests *prometheus.CounterVec
	CRMContactRequests   *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubscriptionRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscription_requests_total",
				Help: "Total number of subscription submissions by outcome",
			},
			[]string{"outcome"},
		),
		CRMContactRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crm_contact_requests_total",
				Help: "Total number of CRM create-contact calls by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.SubscriptionRequests, m.CRMContactRequests)
	return m
}

func (m *Metrics) ObserveSubscription(outcome string) {
	m.SubscriptionRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCRM(result string) {
	m.CRMContactRequests.WithLabelValues(result).Inc()
}
