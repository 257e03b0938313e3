package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"credit-scoring-api/internal/core/domain"
	ports "credit-scoring-api/internal/core/ports/output"
)

const (
	DefaultThreshold = 0.5
	DefaultTopK      = 10
	MaxTopK          = 15
)

type ScoringConfig struct {
	Threshold          float64
	AttributionEnabled bool
	TopK               int
}

// ScoringService runs the lookup -> extract -> infer -> threshold pipeline.
type ScoringService struct {
	artifacts *ArtifactStore
	cfg       ScoringConfig
	metrics   ports.ScoringMetrics
}

func NewScoringService(artifacts *ArtifactStore, cfg ScoringConfig, metrics ports.ScoringMetrics) *ScoringService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.TopK > MaxTopK {
		cfg.TopK = MaxTopK
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &ScoringService{artifacts: artifacts, cfg: cfg, metrics: metrics}
}

func (s *ScoringService) Predict(ctx context.Context, req domain.PredictionRequest) (*domain.Prediction, error) {
	start := time.Now()

	result, err := s.predict(ctx, req)
	if err != nil {
		s.metrics.IncPredictionError(ErrorKind(err))
		return nil, err
	}

	s.metrics.ObservePrediction(result.Prediction, result.Proba, time.Since(start))
	return result, nil
}

func (s *ScoringService) predict(ctx context.Context, req domain.PredictionRequest) (*domain.Prediction, error) {
	table, err := s.artifacts.Table()
	if err != nil {
		return nil, err
	}

	rows, err := table.Lookup(req.ClientID)
	if err != nil {
		return nil, err
	}
	switch {
	case len(rows) == 0:
		return nil, fmt.Errorf("%w: %d", domain.ErrClientNotFound, req.ClientID)
	case len(rows) > 1:
		return nil, fmt.Errorf("%w: %d appears %d times", domain.ErrDuplicateClientID, req.ClientID, len(rows))
	}

	model, err := s.artifacts.Model()
	if err != nil {
		return nil, err
	}

	features, err := alignFeatures(table.FeatureColumns(), model.FeatureNames())
	if err != nil {
		return nil, err
	}
	row := features.apply(rows[0])
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: client %d has no feature columns", domain.ErrFeatureShape, req.ClientID)
	}

	log.WithFields(log.Fields{
		"client_id": req.ClientID,
		"features":  len(row),
	}).Debug("client found, scoring")

	proba, err := model.PredictProba(row)
	if err != nil {
		return nil, fmt.Errorf("predict proba: %w", err)
	}
	if math.IsNaN(proba) || proba < 0 || proba > 1 {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidProbability, proba)
	}

	prediction := 0
	if proba > s.cfg.Threshold {
		prediction = 1
	}

	result := &domain.Prediction{
		ClientID:   req.ClientID,
		Prediction: prediction,
		Label:      domain.LabelFor(prediction),
		Proba:      proba,
	}

	if s.cfg.AttributionEnabled && model.FeatureImportances() != nil {
		means, stdDevs := table.FeatureStats()
		attribution, err := safeAttribution(attributionInput{
			names:       features.names,
			values:      row,
			means:       features.apply(means),
			stdDevs:     features.apply(stdDevs),
			importances: model.FeatureImportances(),
			prediction:  prediction,
			topK:        s.cfg.TopK,
		})
		if err != nil {
			s.metrics.IncAttributionFailure()
			log.WithError(err).WithField("client_id", req.ClientID).Warn("feature attribution skipped")
		} else {
			result.Attribution = attribution
		}
	}

	return result, nil
}

// featureOrder maps table feature columns onto the model's input order.
type featureOrder struct {
	names []string
	index []int
}

func alignFeatures(columns, modelNames []string) (*featureOrder, error) {
	if modelNames == nil {
		index := make([]int, len(columns))
		for i := range columns {
			index[i] = i
		}
		return &featureOrder{names: columns, index: index}, nil
	}

	if len(modelNames) != len(columns) {
		return nil, fmt.Errorf("%w: table has %d feature columns, model expects %d",
			domain.ErrFeatureMismatch, len(columns), len(modelNames))
	}

	position := make(map[string]int, len(columns))
	for i, name := range columns {
		position[name] = i
	}

	index := make([]int, len(modelNames))
	for i, name := range modelNames {
		p, ok := position[name]
		if !ok {
			return nil, fmt.Errorf("%w: column %q missing from feature table", domain.ErrFeatureMismatch, name)
		}
		index[i] = p
	}
	return &featureOrder{names: modelNames, index: index}, nil
}

func (f *featureOrder) apply(row []float64) []float64 {
	out := make([]float64, len(f.index))
	for i, p := range f.index {
		out[i] = row[p]
	}
	return out
}

// ErrorKind classifies a pipeline error for metrics labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrArtifactNotFound), errors.Is(err, domain.ErrClientNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrIDColumnMissing),
		errors.Is(err, domain.ErrDuplicateClientID),
		errors.Is(err, domain.ErrFeatureMismatch):
		return "schema"
	case errors.Is(err, domain.ErrFeatureShape):
		return "shape"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "validation"
	default:
		return "internal"
	}
}
