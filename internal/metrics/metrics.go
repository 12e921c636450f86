// Package metrics records run outcomes as Prometheus metrics and exports them
// in the node_exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/thoreinstein/prerelease/internal/errors"
	"github.com/thoreinstein/prerelease/internal/validator"
)

// Recorder collects metrics for one run in its own registry.
type Recorder struct {
	registry *prometheus.Registry

	results  *prometheus.CounterVec
	duration *prometheus.GaugeVec
	messages *prometheus.GaugeVec
	overall  *prometheus.GaugeVec
	counts   *prometheus.GaugeVec
	runTime  prometheus.Gauge
	lastRun  prometheus.Gauge
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		results: f.NewCounterVec(prometheus.CounterOpts{
			Name: "prerelease_validator_results_total",
			Help: "Validator results by status",
		}, []string{"validator", "category", "status"}),
		duration: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prerelease_validator_duration_seconds",
			Help: "Wall time of each validator",
		}, []string{"validator"}),
		messages: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prerelease_validator_messages",
			Help: "Number of messages reported by each validator",
		}, []string{"validator"}),
		overall: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prerelease_run_status",
			Help: "1 for the overall status of the last run, 0 otherwise",
		}, []string{"status"}),
		counts: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "prerelease_run_results",
			Help: "Result totals of the last run by status",
		}, []string{"status"}),
		runTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "prerelease_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "prerelease_run_timestamp_seconds",
			Help: "Unix time the last run started",
		}),
	}
}

// ValidatorFinished records a single result. It satisfies runner.Observer.
func (r *Recorder) ValidatorFinished(res validator.Result) {
	r.results.WithLabelValues(res.Name, res.Category, res.Status.String()).Inc()
	r.duration.WithLabelValues(res.Name).Set(res.Duration.Seconds())
	r.messages.WithLabelValues(res.Name).Set(float64(len(res.Messages)))
}

// RunFinished records the totals of a finalized report.
func (r *Recorder) RunFinished(report *validator.Report) {
	for _, s := range []validator.Status{validator.StatusPass, validator.StatusFail} {
		v := 0.0
		if report.OverallStatus == s {
			v = 1
		}
		r.overall.WithLabelValues(s.String()).Set(v)
	}

	r.counts.WithLabelValues(validator.StatusFail.String()).Set(float64(report.TotalErrors))
	r.counts.WithLabelValues(validator.StatusWarn.String()).Set(float64(report.TotalWarnings))
	r.counts.WithLabelValues(validator.StatusSkip.String()).Set(float64(report.TotalSkipped))
	r.counts.WithLabelValues(validator.StatusPass.String()).Set(float64(report.TotalPassed))

	r.runTime.Set(report.Duration.Seconds())
	if !report.StartedAt.IsZero() {
		r.lastRun.Set(float64(report.StartedAt.Unix()))
	}
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is written to a temporary file and renamed into place.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
