package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-scoring-api/internal/core/domain"
)

func sampleAttributionInput(n, topK, prediction int) attributionInput {
	in := attributionInput{prediction: prediction, topK: topK}
	for i := 0; i < n; i++ {
		in.names = append(in.names, string(rune('a'+i)))
		in.values = append(in.values, float64(i*i))
		in.means = append(in.means, float64(i))
		in.stdDevs = append(in.stdDevs, 1)
		in.importances = append(in.importances, float64(n-i))
	}
	return in
}

func TestComputeAttribution_LengthAndOrder(t *testing.T) {
	in := sampleAttributionInput(20, 10, 1)

	out, err := computeAttribution(in)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(out.TopFeatures), 10)
	assert.LessOrEqual(t, len(out.Waterfall.Features), 10)
	assert.Equal(t, 0.5, out.Waterfall.BaseValue)

	for i := 1; i < len(out.TopFeatures); i++ {
		assert.GreaterOrEqual(t, out.TopFeatures[i-1].Importance, out.TopFeatures[i].Importance)
	}
	for i := 1; i < len(out.Waterfall.Features); i++ {
		assert.GreaterOrEqual(t,
			math.Abs(out.Waterfall.Features[i-1].Contribution),
			math.Abs(out.Waterfall.Features[i].Contribution))
	}
}

func TestComputeAttribution_FewerFeaturesThanK(t *testing.T) {
	out, err := computeAttribution(sampleAttributionInput(3, 10, 0))
	require.NoError(t, err)
	assert.Len(t, out.TopFeatures, 3)
	assert.Len(t, out.Waterfall.Features, 3)
}

func TestComputeAttribution_SignFollowsPrediction(t *testing.T) {
	in := attributionInput{
		names:       []string{"income"},
		values:      []float64{3},
		means:       []float64{1},
		stdDevs:     []float64{1},
		importances: []float64{4},
		topK:        10,
	}

	in.prediction = 1
	declined, err := computeAttribution(in)
	require.NoError(t, err)

	in.prediction = 0
	approved, err := computeAttribution(in)
	require.NoError(t, err)

	// z = 2, weight = 1, scale = 0.1
	assert.InDelta(t, 0.2, declined.Waterfall.Features[0].Contribution, 1e-9)
	assert.InDelta(t, -0.2, approved.Waterfall.Features[0].Contribution, 1e-9)
}

func TestComputeAttribution_ClipsDeviation(t *testing.T) {
	in := attributionInput{
		names:       []string{"x"},
		values:      []float64{1000},
		means:       []float64{0},
		stdDevs:     []float64{1},
		importances: []float64{1},
		prediction:  1,
		topK:        1,
	}
	out, err := computeAttribution(in)
	require.NoError(t, err)
	assert.InDelta(t, attributionClip*attributionScale, out.Waterfall.Features[0].Contribution, 1e-9)
}

func TestComputeAttribution_Errors(t *testing.T) {
	in := sampleAttributionInput(3, 10, 1)
	in.importances = in.importances[:2]
	_, err := computeAttribution(in)
	assert.ErrorIs(t, err, domain.ErrAttribution)

	in = sampleAttributionInput(3, 10, 1)
	in.importances[1] = math.NaN()
	_, err = computeAttribution(in)
	assert.ErrorIs(t, err, domain.ErrAttribution)
}

func TestDeviation(t *testing.T) {
	assert.Equal(t, 0.0, deviation(math.NaN(), 1, 1))
	assert.Equal(t, 0.0, deviation(5, 1, 0))
	assert.Equal(t, 1.5, deviation(4, 1, 2))
	assert.Equal(t, -attributionClip, deviation(-100, 0, 1))
}
