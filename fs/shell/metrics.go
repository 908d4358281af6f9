package shell

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for shell filesystems.
type Metrics struct {
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	WatchEvents     *prometheus.CounterVec
	WatchKeys       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shellfs_commands_total",
				Help: "Total number of remote commands run",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shellfs_command_duration_seconds",
				Help:    "Remote command duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"command"},
		),
		WatchEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shellfs_watch_events_total",
				Help: "Total number of watch events produced",
			},
			[]string{"kind"},
		),
		WatchKeys: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shellfs_watch_keys",
				Help: "Number of registered watch keys",
			},
		),
	}
}

// observeCommand records one command. status is "ok", "exit" for a nonzero
// exit, or "error" for a transport failure.
func (m *Metrics) observeCommand(command, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) observeEvent(kind string) {
	if m == nil {
		return
	}
	m.WatchEvents.WithLabelValues(kind).Inc()
}

func (m *Metrics) addKeys(delta float64) {
	if m == nil {
		return
	}
	m.WatchKeys.Add(delta)
}
