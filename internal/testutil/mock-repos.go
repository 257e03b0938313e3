package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"credit-scoring-api/internal/core/domain"
	ports "credit-scoring-api/internal/core/ports/output"
)

// MockFeatureTableRepo is a mock of FeatureTableRepository.
type MockFeatureTableRepo struct {
	mock.Mock
}

func (m *MockFeatureTableRepo) LoadTable(ctx context.Context) (*domain.FeatureTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeatureTable), args.Error(1)
}

// MockModelRepo is a mock of ModelRepository.
type MockModelRepo struct {
	mock.Mock
}

func (m *MockModelRepo) LoadModel(ctx context.Context) (ports.Classifier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Classifier), args.Error(1)
}

// MockClassifier is a mock of Classifier.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) PredictProba(features []float64) (float64, error) {
	args := m.Called(features)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockClassifier) FeatureImportances() []float64 {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]float64)
}

func (m *MockClassifier) FeatureNames() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// MustTable builds a feature table keyed by SK_ID_CURR and panics on invalid input.
func MustTable(columns []string, rows [][]float64) *domain.FeatureTable {
	t, err := domain.NewFeatureTable(columns, rows, "SK_ID_CURR")
	if err != nil {
		panic(err)
	}
	return t
}
