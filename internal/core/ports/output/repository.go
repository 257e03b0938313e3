package ports

import (
	"context"

	"credit-scoring-api/internal/core/domain"
)

// FeatureTableRepository loads the client feature table from its backing source.
type FeatureTableRepository interface {
	LoadTable(ctx context.Context) (*domain.FeatureTable, error)
}

// ModelRepository loads the pre-trained classifier artifact.
type ModelRepository interface {
	LoadModel(ctx context.Context) (Classifier, error)
}
