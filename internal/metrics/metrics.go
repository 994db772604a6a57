// Package metrics owns the Prometheus registry exposed on /metrics and the
// collectors the scanner and API record into.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beacon"

// Registry holds every beacon collector plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	// check latency buckets from 25ms to ~51s
	checkLatencyBuckets = prometheus.ExponentialBuckets(0.025, 2, 12)

	// cycle duration buckets from 5s to ~85min
	cycleDurationBuckets = prometheus.ExponentialBuckets(5, 2, 11)
)

var (
	CycleTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(namespace, "scanner", "cycles_total"),
		Help: "Scan cycles by result (completed, aborted)",
	}, []string{"result"})

	CycleSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(namespace, "scanner", "cycles_skipped_total"),
		Help: "Scan triggers dropped because a cycle was already running",
	})

	CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(namespace, "scanner", "cycle_duration_seconds"),
		Help:    "Wall time of completed scan cycles",
		Buckets: cycleDurationBuckets,
	})

	CheckOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(namespace, "scanner", "checks_total"),
		Help: "Check executions by check name and outcome",
	}, []string{"check", "outcome"})

	CheckLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(namespace, "scanner", "check_duration_seconds"),
		Help:    "Latency of check executions by check name",
		Buckets: checkLatencyBuckets,
	}, []string{"check"})

	NodeScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(namespace, "node", "score"),
		Help: "Score of each node in the latest published cycle",
	}, []string{"node"})

	BestNodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(namespace, "ranking", "best_nodes"),
		Help: "Number of nodes currently recommended",
	})

	AlertsFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(namespace, "alerts", "fired_total"),
		Help: "Alerts fired by rule and severity",
	}, []string{"rule", "severity"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		CycleTotal,
		CycleSkipped,
		CycleDuration,
		CheckOutcome,
		CheckLatency,
		NodeScore,
		BestNodes,
		AlertsFired,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
