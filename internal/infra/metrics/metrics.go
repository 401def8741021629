package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sweep result label values.
const (
	SweepResultSwept          = "swept"
	SweepResultAlreadyStopped = "already_stopped"
	SweepResultUnreachable    = "unreachable"
	SweepResultRejected       = "rejected"
)

var sweepsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "sweep_pods_total",
		Help: "Total number of sweep attempts by outcome.",
	},
	[]string{"namespace", "result"},
)

var watchEventsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "sweep_watch_events_total",
		Help: "Total number of pod watch events received by type.",
	},
	[]string{"type"},
)

var watchEventsDroppedTotal = promauto.With(prometheus.DefaultRegisterer).NewCounter(
	prometheus.CounterOpts{
		Name: "sweep_watch_events_dropped_total",
		Help: "Total number of pod watch events dropped because the event " +
			"channel was full (consumer falling behind).",
	},
)

var shutdownRequestsTotal = promauto.With(prometheus.DefaultRegisterer).NewCounterVec(
	prometheus.CounterOpts{
		Name: "sweep_proxy_shutdown_requests_total",
		Help: "Total number of HTTP shutdown requests sent to proxy admin " +
			"endpoints, including retries.",
	},
	[]string{"namespace"},
)

// RecordSweep increments the sweep outcome counter.
func RecordSweep(namespace, result string) {
	sweepsTotal.WithLabelValues(namespace, result).Inc()
}

// RecordWatchEvent increments the watch event counter for the given type.
func RecordWatchEvent(eventType string) {
	watchEventsTotal.WithLabelValues(eventType).Inc()
}

// RecordWatchEventDropped increments the dropped-event counter.
func RecordWatchEventDropped() {
	watchEventsDroppedTotal.Inc()
}

// RecordShutdownRequest increments the per-attempt shutdown request counter.
func RecordShutdownRequest(namespace string) {
	shutdownRequestsTotal.WithLabelValues(namespace).Inc()
}
