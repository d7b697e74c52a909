// Package metrics records command outcomes for the node_exporter textfile
// collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Recorder owns a private registry with the command metrics.
type Recorder struct {
	reg      *prometheus.Registry
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	lastRun  *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "octops_command_total",
				Help: "Total number of octops commands by operation and result.",
			},
			[]string{"operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "octops_command_duration_seconds",
				Help:    "Duration of octops commands in seconds by operation.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800, 3600},
			},
			[]string{"operation"},
		),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "octops_command_last_run_timestamp_seconds",
				Help: "Unix time of the last completed octops command by operation and result.",
			},
			[]string{"operation", "result"},
		),
	}
	r.reg.MustRegister(r.total, r.duration, r.lastRun)
	return r
}

// Observe records one completed command.
func (r *Recorder) Observe(operation string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	r.total.WithLabelValues(operation, result).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
	r.lastRun.WithLabelValues(operation, result).SetToCurrentTime()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}
