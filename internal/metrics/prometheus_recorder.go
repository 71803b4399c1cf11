package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	collectDuration *prom.HistogramVec
	tickResults     *prom.CounterVec
	requestDuration *prom.HistogramVec
	commandResults  *prom.CounterVec
	connections     prom.Counter
	activeConns     prom.Gauge
	stateVersion    prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics
// (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.collectDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "vacuum",
			Name:      "collect_duration_seconds",
			Help:      "Duration of individual domain collection ticks",
			Buckets:   prom.DefBuckets,
		}, []string{"domain"})
		pr.tickResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vacuum",
			Name:      "tick_results_total",
			Help:      "Collection tick counts by outcome",
		}, []string{"domain", "result"})
		pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "vacuum",
			Name:      "ipc_request_duration_seconds",
			Help:      "Duration of IPC request handling by command",
			Buckets:   prom.DefBuckets,
		}, []string{"command"})
		pr.commandResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "vacuum",
			Name:      "ipc_commands_total",
			Help:      "IPC command counts by outcome",
		}, []string{"command", "result"})
		pr.connections = prom.NewCounter(prom.CounterOpts{
			Namespace: "vacuum",
			Name:      "ipc_connections_total",
			Help:      "Accepted IPC connections",
		})
		pr.activeConns = prom.NewGauge(prom.GaugeOpts{
			Namespace: "vacuum",
			Name:      "ipc_active_connections",
			Help:      "IPC connections currently being handled",
		})
		pr.stateVersion = prom.NewGauge(prom.GaugeOpts{
			Namespace: "vacuum",
			Name:      "state_version",
			Help:      "Monotonic version of the shared state aggregate",
		})
		reg.MustRegister(pr.collectDuration, pr.tickResults, pr.requestDuration, pr.commandResults, pr.connections, pr.activeConns, pr.stateVersion)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveCollectDuration(domain string, d time.Duration) {
	if p == nil || p.collectDuration == nil {
		return
	}
	p.collectDuration.WithLabelValues(domain).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTickResult(domain string, result ResultLabel) {
	if p == nil || p.tickResults == nil {
		return
	}
	p.tickResults.WithLabelValues(domain, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRequestDuration(command string, d time.Duration) {
	if p == nil || p.requestDuration == nil {
		return
	}
	p.requestDuration.WithLabelValues(command).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCommandResult(command string, result ResultLabel) {
	if p == nil || p.commandResults == nil {
		return
	}
	p.commandResults.WithLabelValues(command, string(result)).Inc()
}

func (p *PrometheusRecorder) ConnOpened() {
	if p == nil || p.connections == nil {
		return
	}
	p.connections.Inc()
	p.activeConns.Inc()
}

func (p *PrometheusRecorder) ConnClosed() {
	if p == nil || p.activeConns == nil {
		return
	}
	p.activeConns.Dec()
}

func (p *PrometheusRecorder) SetStateVersion(v uint64) {
	if p == nil || p.stateVersion == nil {
		return
	}
	p.stateVersion.Set(float64(v))
}
