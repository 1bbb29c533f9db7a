package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_relay_requests_total",
			Help: "Chat relay requests by outcome",
		},
		[]string{"outcome"},
	)

	upstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_relay_upstream_failures_total",
			Help: "Upstream failures by kind",
		},
		[]string{"kind"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_relay_upstream_duration_seconds",
			Help:    "Duration of upstream chat completion calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)
)

// Register registers all metrics with the provided registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(chatRequests, upstreamFailures, upstreamDuration)
}

// RecordChatRequest increments the relay request counter.
func RecordChatRequest(success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	chatRequests.WithLabelValues(outcome).Inc()
}

// RecordUpstreamFailure increments the failure counter for kind.
func RecordUpstreamFailure(kind string) {
	upstreamFailures.WithLabelValues(kind).Inc()
}

// ObserveUpstreamDuration records the duration of one upstream call.
func ObserveUpstreamDuration(model string, d time.Duration) {
	upstreamDuration.WithLabelValues(model).Observe(d.Seconds())
}
