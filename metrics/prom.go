// Package metrics records simulator activity in Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromRecorder implements service.Recorder with Prometheus metrics
type PromRecorder struct {
	commands *prometheus.CounterVec
	sessions prometheus.Gauge
	battery  *prometheus.GaugeVec
	gatherer prometheus.Gatherer
}

// NewPromRecorder registers the simulator metrics on reg. If reg is nil a
// fresh registry is used. Collectors that are already registered are reused.
func NewPromRecorder(reg *prometheus.Registry) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "robotsim_commands_total",
		Help: "Robot commands executed, by command and outcome",
	}, []string{"command", "outcome"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "robotsim_sessions_active",
		Help: "Number of live simulation sessions",
	})
	battery := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "robotsim_battery_level",
		Help: "Current battery level of each session's robot",
	}, []string{"session"})

	if err := reg.Register(commands); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commands = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(sessions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sessions = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(battery); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			battery = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromRecorder{commands: commands, sessions: sessions, battery: battery, gatherer: reg}, nil
}

func (r *PromRecorder) CommandExecuted(action, outcome string) {
	r.commands.WithLabelValues(action, outcome).Inc()
}

func (r *PromRecorder) SessionsActive(n int) {
	r.sessions.Set(float64(n))
}

func (r *PromRecorder) BatteryLevel(sessionID string, level float64) {
	r.battery.WithLabelValues(sessionID).Set(level)
}

// SessionRemoved drops the battery series of a deleted session
func (r *PromRecorder) SessionRemoved(sessionID string) {
	r.battery.DeleteLabelValues(sessionID)
}

// Handler serves the recorder's registry in the Prometheus text format
func (r *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
