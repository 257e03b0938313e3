package services

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"credit-scoring-api/internal/core/domain"
	ports "credit-scoring-api/internal/core/ports/output"
)

const (
	ArtifactTable = "table"
	ArtifactModel = "model"
)

// ArtifactStore holds the process-wide feature table and model. Values are
// immutable once loaded; a reload swaps in a freshly built value.
type ArtifactStore struct {
	tables  ports.FeatureTableRepository
	models  ports.ModelRepository
	metrics ports.ScoringMetrics

	mu       sync.RWMutex
	table    *domain.FeatureTable
	model    ports.Classifier
	tableErr error
	modelErr error
}

func NewArtifactStore(tables ports.FeatureTableRepository, models ports.ModelRepository, metrics ports.ScoringMetrics) *ArtifactStore {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &ArtifactStore{
		tables:   tables,
		models:   models,
		metrics:  metrics,
		tableErr: domain.ErrArtifactsNotReady,
		modelErr: domain.ErrArtifactsNotReady,
	}
}

// Load loads both artifacts. Failures are recorded and served back to
// callers of Table/Model; the joined error is returned for logging.
func (s *ArtifactStore) Load(ctx context.Context) error {
	return errors.Join(s.ReloadTable(ctx), s.ReloadModel(ctx))
}

// ReloadTable reloads the feature table. A failed reload keeps the last good table.
func (s *ArtifactStore) ReloadTable(ctx context.Context) error {
	table, err := s.tables.LoadTable(ctx)
	s.metrics.IncArtifactLoad(ArtifactTable, err == nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.table == nil {
			s.tableErr = err
		}
		log.WithError(err).WithField("artifact", ArtifactTable).Error("load artifact failed")
		return err
	}

	s.table, s.tableErr = table, nil
	log.WithFields(log.Fields{
		"artifact": ArtifactTable,
		"rows":     table.Len(),
		"columns":  len(table.Columns()),
	}).Info("artifact loaded")
	return nil
}

// ReloadModel reloads the classifier. A failed reload keeps the last good model.
func (s *ArtifactStore) ReloadModel(ctx context.Context) error {
	model, err := s.models.LoadModel(ctx)
	s.metrics.IncArtifactLoad(ArtifactModel, err == nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.model == nil {
			s.modelErr = err
		}
		log.WithError(err).WithField("artifact", ArtifactModel).Error("load artifact failed")
		return err
	}

	s.model, s.modelErr = model, nil
	log.WithFields(log.Fields{
		"artifact": ArtifactModel,
		"features": len(model.FeatureNames()),
	}).Info("artifact loaded")
	return nil
}

func (s *ArtifactStore) Table() (*domain.FeatureTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.tableErr
}

func (s *ArtifactStore) Model() (ports.Classifier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model, s.modelErr
}

// Ready reports the first outstanding load error, or nil when both artifacts are available.
func (s *ArtifactStore) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tableErr != nil {
		return s.tableErr
	}
	return s.modelErr
}
