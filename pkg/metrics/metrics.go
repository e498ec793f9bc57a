// Package metrics records per-run pipeline measurements and exports them in
// the Prometheus textfile format for node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nodewee/plaque-translator/pkg/utils"
)

const namespace = "plaque_translator"

// Pipeline stages
const (
	StageExtract   = "extract"
	StageParse     = "parse"
	StageTranslate = "translate"
	StageRender    = "render"
)

// Recorder owns a private registry so concurrent runs never share series
type Recorder struct {
	registry     *prometheus.Registry
	duration     *prometheus.HistogramVec
	confidence   prometheus.Gauge
	parseSuccess prometheus.Gauge
	missing      prometheus.Gauge
	outputs      *prometheus.CounterVec
	lastRun      prometheus.Gauge
}

// NewRecorder creates a recorder with all series registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Time spent in each pipeline stage.",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		confidence: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ocr_confidence_percent",
			Help:      "Average word confidence reported by the OCR engine.",
		}),
		parseSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_success",
			Help:      "1 if every plaque field was recovered, 0 otherwise.",
		}),
		missing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_missing_fields",
			Help:      "Number of plaque fields the parser left empty.",
		}),
		outputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outputs_total",
				Help:      "Rendered outputs by format.",
			},
			[]string{"format"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the run finished.",
		}),
	}

	r.registry.MustRegister(r.duration, r.confidence, r.parseSuccess, r.missing, r.outputs, r.lastRun)
	return r
}

// ObserveStage records how long a stage took
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.duration.WithLabelValues(stage).Observe(d.Seconds())
}

// Time starts a stage timer; call the returned func when the stage ends
func (r *Recorder) Time(stage string) func() {
	timer := prometheus.NewTimer(r.duration.WithLabelValues(stage))
	return func() { timer.ObserveDuration() }
}

// SetConfidence records the OCR confidence when the engine reported one
func (r *Recorder) SetConfidence(conf *float64) {
	if conf != nil {
		r.confidence.Set(*conf)
	}
}

// SetParseResult records whether parsing recovered every field
func (r *Recorder) SetParseResult(success bool, missing int) {
	if success {
		r.parseSuccess.Set(1)
	} else {
		r.parseSuccess.Set(0)
	}
	r.missing.Set(float64(missing))
}

// IncOutput counts a rendered output
func (r *Recorder) IncOutput(format string) {
	r.outputs.WithLabelValues(format).Inc()
}

// Gatherer exposes the registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteToTextfile stamps the run and writes all series to path atomically
func (r *Recorder) WriteToTextfile(path string) error {
	r.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return utils.NewIOError("failed to write metrics file", err).WithContext("path", path)
	}
	return nil
}
