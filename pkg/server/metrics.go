package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records sessions, commands and sync frames. A nil *Metrics
// records nothing.
type Metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	commands       *prometheus.CounterVec
	syncFrames     prometheus.Counter
	syncBytes      prometheus.Counter
}

// NewMetrics creates and registers the server metrics with reg:
//   - domsync_server_sessions_active: live sessions
//   - domsync_server_sessions_total: sessions created
//   - domsync_server_commands_total: commands by result (ok, error)
//   - domsync_server_sync_frames_total: sync frames sent
//   - domsync_server_sync_bytes_total: bytes of sync frames sent
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: "domsync", Subsystem: "server", Name: name, Help: help}
	}
	return &Metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts(opts("sessions_active", "Number of live sessions"))),
		sessionsTotal:  factory.NewCounter(prometheus.CounterOpts(opts("sessions_total", "Total number of sessions created"))),
		commands: factory.NewCounterVec(prometheus.CounterOpts(opts("commands_total", "Total number of client commands by result")),
			[]string{"result"}),
		syncFrames: factory.NewCounter(prometheus.CounterOpts(opts("sync_frames_total", "Total number of sync frames sent"))),
		syncBytes:  factory.NewCounter(prometheus.CounterOpts(opts("sync_bytes_total", "Total bytes of sync frames sent"))),
	}
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
	m.sessionsTotal.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

func (m *Metrics) command(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(result).Inc()
}

func (m *Metrics) syncSent(bytes int) {
	if m == nil {
		return
	}
	m.syncFrames.Inc()
	m.syncBytes.Add(float64(bytes))
}
