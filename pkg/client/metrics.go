package client

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	pduRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mpx",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests sent to PDU web interfaces.",
		},
		[]string{"host", "method", "status"},
	)
	pduDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mpx",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "PDU request duration in seconds, including time spent rate limited.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host", "method"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pduRequests, pduDuration)
	})
}

// recordRequest counts one request. A status of 0 marks a transport error.
func recordRequest(host, method string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	pduRequests.WithLabelValues(host, method, statusLabel).Inc()
	pduDuration.WithLabelValues(host, method).Observe(duration.Seconds())
}
