package collect

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	polls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mpx",
			Subsystem: "collect",
			Name:      "polls_total",
			Help:      "PDU polls by host and result.",
		},
		[]string{"host", "result"},
	)
	pollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mpx",
			Subsystem: "collect",
			Name:      "poll_duration_seconds",
			Help:      "Time taken to poll one PDU.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"host"},
	)
	activeEvents = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mpx",
			Subsystem: "collect",
			Name:      "active_events",
			Help:      "Active alarms and events seen on the last successful poll.",
		},
		[]string{"host", "severity"},
	)
	receptaclesOn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mpx",
			Subsystem: "collect",
			Name:      "receptacles_on",
			Help:      "Receptacles switched on at the last successful poll.",
		},
		[]string{"host"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(polls, pollDuration, activeEvents, receptaclesOn)
	})
}

func recordPoll(s Snapshot, duration time.Duration) {
	RegisterMetrics()
	pollDuration.WithLabelValues(s.Host).Observe(duration.Seconds())
	if s.Failed() {
		polls.WithLabelValues(s.Host, "error").Inc()
		return
	}
	polls.WithLabelValues(s.Host, "ok").Inc()

	counts := s.EventCounts()
	activeEvents.DeletePartialMatch(prometheus.Labels{"host": s.Host})
	for severity, n := range counts {
		activeEvents.WithLabelValues(s.Host, severity.String()).Set(float64(n))
	}
	receptaclesOn.WithLabelValues(s.Host).Set(float64(s.EnabledCount()))
}
