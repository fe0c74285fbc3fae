package keepalive

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	probeHeartbeat = "heartbeat"
	probeWarmup    = "warmup"
)

// MetricsReporter counts probe outcomes into its own prometheus registry.
type MetricsReporter struct {
	registry  *prometheus.Registry
	cycles    prometheus.Counter
	results   *prometheus.CounterVec
	durations *prometheus.HistogramVec
	lastCycle prometheus.Gauge
}

func NewMetricsReporter() *MetricsReporter {

	this := &MetricsReporter{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "keepalive",
			Name:      "cycles_total",
			Help:      "Number of started probe cycles.",
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "keepalive",
			Name:      "probe_results_total",
			Help:      "Probe outcomes by probe and outcome.",
		}, []string{"probe", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "keepalive",
			Name:      "probe_duration_seconds",
			Help:      "Probe request latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"probe"}),
		lastCycle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "keepalive",
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last started cycle.",
		}),
	}

	this.registry.MustRegister(this.cycles, this.results, this.durations, this.lastCycle)

	return this
}

func (this *MetricsReporter) Registry() *prometheus.Registry {
	return this.registry
}

func (this *MetricsReporter) Type() string {
	return "prometheus"
}

func (this *MetricsReporter) WriteCycle(ctx context.Context, cycle Cycle) error {
	this.cycles.Inc()
	this.lastCycle.Set(float64(cycle.Started.UnixMilli()) / 1000)
	return nil
}

func (this *MetricsReporter) WriteHeartbeat(ctx context.Context, cycle Cycle, result HeartbeatResult) error {

	outcome := "ok"
	switch {
	case result.Err != nil:
		outcome = "transport_error"
	case !result.Up():
		outcome = "status_error"
	}

	this.results.WithLabelValues(probeHeartbeat, outcome).Inc()

	if result.Err == nil {
		this.durations.WithLabelValues(probeHeartbeat).Observe(result.Elapsed.Seconds())
	}

	return nil
}

func (this *MetricsReporter) WriteWarmup(ctx context.Context, cycle Cycle, result WarmupResult) error {

	this.results.WithLabelValues(probeWarmup, result.Outcome.String()).Inc()

	if result.Outcome != WarmupTransportError {
		this.durations.WithLabelValues(probeWarmup).Observe(result.Elapsed.Seconds())
	}

	return nil
}
