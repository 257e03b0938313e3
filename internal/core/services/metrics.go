package services

import "time"

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) ObservePrediction(int, float64, time.Duration) {}
func (NoopMetrics) IncPredictionError(string) {}
func (NoopMetrics) IncAttributionFailure() {}
func (NoopMetrics) IncArtifactLoad(string, bool) {}
