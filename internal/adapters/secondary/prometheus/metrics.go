package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	ports "credit-scoring-api/internal/core/ports/output"
)

// Metrics records scoring pipeline activity in a Prometheus registry.
type Metrics struct {
	Predictions         *prometheus.CounterVec
	PredictionErrors    *prometheus.CounterVec
	PredictionLatency   prometheus.Histogram
	PredictionScores    prometheus.Histogram
	AttributionFailures prometheus.Counter
	ArtifactLoads       *prometheus.CounterVec
}

var _ ports.ScoringMetrics = (*Metrics)(nil)

// NewMetrics registers the scoring metrics with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_predictions_total",
			Help: "Total number of successful predictions by decision",
		}, []string{"prediction"}),
		PredictionErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_prediction_errors_total",
			Help: "Total number of failed predictions by error kind",
		}, []string{"kind"}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoring_prediction_latency_seconds",
			Help:    "Scoring pipeline latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		PredictionScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoring_prediction_probability",
			Help:    "Distribution of positive-class probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		AttributionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "scoring_attribution_failures_total",
			Help: "Total number of predictions served without attribution because it failed",
		}),
		ArtifactLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scoring_artifact_loads_total",
			Help: "Total number of artifact load attempts by artifact and result",
		}, []string{"artifact", "result"}),
	}
}

func (m *Metrics) ObservePrediction(prediction int, proba float64, latency time.Duration) {
	m.Predictions.WithLabelValues(strconv.Itoa(prediction)).Inc()
	m.PredictionScores.Observe(proba)
	m.PredictionLatency.Observe(latency.Seconds())
}

func (m *Metrics) IncPredictionError(kind string) {
	m.PredictionErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncAttributionFailure() {
	m.AttributionFailures.Inc()
}

func (m *Metrics) IncArtifactLoad(artifact string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.ArtifactLoads.WithLabelValues(artifact, result).Inc()
}
