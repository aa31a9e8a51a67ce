package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters exported on /metrics.
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	SessionsAbandoned prometheus.Counter
	Advances          prometheus.Counter
	BackSteps         prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SessionsStarted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "arbor_sessions_started_total",
			Help: "Number of questionnaire sessions started.",
		}),
		SessionsCompleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "arbor_sessions_completed_total",
			Help: "Number of sessions that reached the final mood capture.",
		}),
		SessionsAbandoned: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "arbor_sessions_abandoned_total",
			Help: "Number of sessions exited before completion.",
		}),
		Advances: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "arbor_session_advances_total",
			Help: "Number of forward navigation steps across all sessions.",
		}),
		BackSteps: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "arbor_session_back_steps_total",
			Help: "Number of backward navigation steps across all sessions.",
		}),
	}
}
