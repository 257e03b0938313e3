package ports

import "time"

// ScoringMetrics records pipeline outcomes. Implementations must be safe for concurrent use.
type ScoringMetrics interface {
	ObservePrediction(prediction int, proba float64, latency time.Duration)
	IncPredictionError(kind string)
	IncAttributionFailure()
	IncArtifactLoad(artifact string, ok bool)
}
