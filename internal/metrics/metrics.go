package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Backend client metrics
	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	// Business metrics
	refreshesTotal    *prometheus.CounterVec
	refreshDuration   prometheus.Histogram
	signalsHeld       *prometheus.GaugeVec
	winRate           prometheus.Gauge
	subsystemOnline   *prometheus.GaugeVec
	streamClients     prometheus.Gauge
	snapshotsArchived *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signaldeck_backend_requests_total",
			Help: "Total number of requests sent to the bot backend",
		},
		[]string{"method", "path", "status"},
	)
	r.backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signaldeck_backend_request_duration_seconds",
			Help:    "Bot backend request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	r.refreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signaldeck_refreshes_total",
			Help: "Total number of store refresh cycles",
		},
		[]string{"result"},
	)
	r.refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signaldeck_refresh_duration_seconds",
			Help:    "Store refresh cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.signalsHeld = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signaldeck_signals",
			Help: "Number of signals held by the store",
		},
		[]string{"collection"},
	)
	r.winRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signaldeck_win_rate_percent",
			Help: "Win rate over completed trades",
		},
	)
	r.subsystemOnline = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signaldeck_subsystem_online",
			Help: "1 when the backend reports the subsystem online",
		},
		[]string{"subsystem"},
	)
	r.streamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signaldeck_stream_clients",
			Help: "Number of connected WebSocket clients",
		},
	)
	r.snapshotsArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signaldeck_snapshots_archived_total",
			Help: "Total number of snapshots written to the archive",
		},
		[]string{"status"},
	)

	reg.MustRegister(r.backendRequestsTotal)
	reg.MustRegister(r.backendRequestDuration)
	reg.MustRegister(r.refreshesTotal)
	reg.MustRegister(r.refreshDuration)
	reg.MustRegister(r.signalsHeld)
	reg.MustRegister(r.winRate)
	reg.MustRegister(r.subsystemOnline)
	reg.MustRegister(r.streamClients)
	reg.MustRegister(r.snapshotsArchived)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// ObserveBackendRequest records a request sent to the bot backend.
// A zero status means the request never got a response.
func (r *Registry) ObserveBackendRequest(method, path string, status int, seconds float64) {
	statusStr := "error"
	if status > 0 {
		statusStr = statusToString(status)
	}
	r.backendRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.backendRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordRefresh records a completed store refresh.
func (r *Registry) RecordRefresh(ok bool, duration float64) {
	result := "success"
	if !ok {
		result = "failure"
	}
	r.refreshesTotal.WithLabelValues(result).Inc()
	r.refreshDuration.Observe(duration)
}

// SetSignals sets the size of a signal collection.
func (r *Registry) SetSignals(collection string, count int) {
	r.signalsHeld.WithLabelValues(collection).Set(float64(count))
}

// SetWinRate sets the current overall win rate.
func (r *Registry) SetWinRate(rate float64) {
	r.winRate.Set(rate)
}

// SetSubsystemOnline sets the health gauge for a backend subsystem.
func (r *Registry) SetSubsystemOnline(name string, online bool) {
	v := 0.0
	if online {
		v = 1
	}
	r.subsystemOnline.WithLabelValues(name).Set(v)
}

// StreamClientInc increments connected stream clients.
func (r *Registry) StreamClientInc() {
	r.streamClients.Inc()
}

// StreamClientDec decrements connected stream clients.
func (r *Registry) StreamClientDec() {
	r.streamClients.Dec()
}

// RecordSnapshotArchived records a snapshot write.
func (r *Registry) RecordSnapshotArchived(status string) {
	r.snapshotsArchived.WithLabelValues(status).Inc()
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
