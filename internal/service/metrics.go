package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"justifacil/internal/model"
)

// Metrics holds the workflow counters. A nil *Metrics records nothing.
type Metrics struct {
	transitions   *prometheus.CounterVec
	created       *prometheus.CounterVec
	emailFailures prometheus.Counter
}

// NewMetrics registers the workflow counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justifacil_justification_transitions_total",
				Help: "Justifications moved out of the pending state, by resulting status.",
			},
			[]string{"status"},
		),
		created: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justifacil_justifications_created_total",
				Help: "Justifications created, by source channel.",
			},
			[]string{"source"},
		),
		emailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "justifacil_notification_email_failures_total",
			Help: "Status-change emails that could not be sent.",
		}),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.created, m.emailFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) transitioned(s model.Status) {
	if m != nil {
		m.transitions.WithLabelValues(string(s)).Inc()
	}
}

func (m *Metrics) justificationCreated(s model.Source) {
	if m != nil {
		m.created.WithLabelValues(string(s)).Inc()
	}
}

func (m *Metrics) emailFailed() {
	if m != nil {
		m.emailFailures.Inc()
	}
}
