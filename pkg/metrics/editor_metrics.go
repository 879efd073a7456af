package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submit outcomes.
const (
	OutcomeSaved        = "saved"
	OutcomeInvalid      = "invalid"
	OutcomePrecondition = "precondition"
	OutcomeUploadFailed = "upload_failed"
	OutcomePersistError = "persist_failed"
)

// EditorMetrics tracks product editor sessions.
type EditorMetrics struct {
	sessions       prometheus.Gauge
	submits        *prometheus.CounterVec
	submitDuration prometheus.Histogram
	uploads        *prometheus.CounterVec
}

func NewEditorMetrics(reg prometheus.Registerer) *EditorMetrics {
	m := &EditorMetrics{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "editor_open_sessions",
			Help: "Number of open product editor sessions",
		}),
		submits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_submits_total",
				Help: "Total number of product editor submits by outcome",
			},
			[]string{"outcome"},
		),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "editor_submit_duration_seconds",
			Help:    "Duration of product editor submits in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "editor_image_uploads_total",
				Help: "Total number of product image uploads by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.sessions, m.submits, m.submitDuration, m.uploads)
	return m
}

func (m *EditorMetrics) SessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *EditorMetrics) SessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

// Submitted records one submit attempt that started at start.
func (m *EditorMetrics) Submitted(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(outcome).Inc()
	m.submitDuration.Observe(time.Since(start).Seconds())
}

func (m *EditorMetrics) Uploaded(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.uploads.WithLabelValues(result).Inc()
}
