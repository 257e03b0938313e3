package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"credit-scoring-api/internal/core/domain"
	"credit-scoring-api/internal/testutil"
)

func TestArtifactStore_NotReadyBeforeLoad(t *testing.T) {
	store := NewArtifactStore(new(testutil.MockFeatureTableRepo), new(testutil.MockModelRepo), nil)

	_, err := store.Table()
	assert.ErrorIs(t, err, domain.ErrArtifactsNotReady)
	assert.ErrorIs(t, store.Ready(), domain.ErrArtifactsNotReady)
}

func TestArtifactStore_Load(t *testing.T) {
	table := testutil.MustTable([]string{"SK_ID_CURR", "A"}, [][]float64{{1, 2}})
	model := newClassifier(0.1, nil)

	tableRepo := new(testutil.MockFeatureTableRepo)
	modelRepo := new(testutil.MockModelRepo)
	tableRepo.On("LoadTable", mock.Anything).Return(table, nil)
	modelRepo.On("LoadModel", mock.Anything).Return(model, nil)

	store := NewArtifactStore(tableRepo, modelRepo, nil)
	require.NoError(t, store.Load(context.Background()))
	assert.NoError(t, store.Ready())

	got, err := store.Table()
	require.NoError(t, err)
	assert.Same(t, table, got)
}

func TestArtifactStore_FailedReloadKeepsLastGood(t *testing.T) {
	table := testutil.MustTable([]string{"SK_ID_CURR", "A"}, [][]float64{{1, 2}})

	tableRepo := new(testutil.MockFeatureTableRepo)
	tableRepo.On("LoadTable", mock.Anything).Return(table, nil).Once()
	tableRepo.On("LoadTable", mock.Anything).Return(nil, fmt.Errorf("%w: truncated", domain.ErrTableParse)).Once()

	store := NewArtifactStore(tableRepo, new(testutil.MockModelRepo), nil)
	require.NoError(t, store.ReloadTable(context.Background()))
	assert.ErrorIs(t, store.ReloadTable(context.Background()), domain.ErrTableParse)

	got, err := store.Table()
	require.NoError(t, err)
	assert.Same(t, table, got)
}

func TestArtifactStore_InitialFailureIsRecorded(t *testing.T) {
	tableRepo := new(testutil.MockFeatureTableRepo)
	modelRepo := new(testutil.MockModelRepo)
	tableRepo.On("LoadTable", mock.Anything).Return(nil, fmt.Errorf("%w: df_test_reduit.csv", domain.ErrArtifactNotFound))
	modelRepo.On("LoadModel", mock.Anything).Return(nil, fmt.Errorf("%w: bad json", domain.ErrModelDecode))

	store := NewArtifactStore(tableRepo, modelRepo, nil)
	err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.ErrorIs(t, err, domain.ErrModelDecode)

	_, err = store.Model()
	assert.ErrorIs(t, err, domain.ErrModelDecode)
	assert.ErrorIs(t, store.Ready(), domain.ErrArtifactNotFound)
}
