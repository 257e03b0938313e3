package services

import (
	"fmt"
	"math"
	"sort"

	"credit-scoring-api/internal/core/domain"
)

// Deviation-from-mean heuristic parameters.
const (
	attributionClip  = 3.0
	attributionScale = 0.1
)

type attributionInput struct {
	names       []string
	values      []float64
	means       []float64
	stdDevs     []float64
	importances []float64
	prediction  int
	topK        int
}

// safeAttribution runs computeAttribution and turns a panic into ErrAttribution,
// so a broken display payload never takes down the prediction.
func safeAttribution(in attributionInput) (out *domain.Attribution, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", domain.ErrAttribution, r)
		}
	}()
	return computeAttribution(in)
}

// computeAttribution ranks features by model importance and scores each one as
// clip(z-score) * normalized importance * scale, signed towards the predicted class.
func computeAttribution(in attributionInput) (*domain.Attribution, error) {
	n := len(in.names)
	if len(in.importances) != n {
		return nil, fmt.Errorf("%w: model exposes %d importances for %d features",
			domain.ErrAttribution, len(in.importances), n)
	}
	if len(in.values) != n || len(in.means) != n || len(in.stdDevs) != n {
		return nil, fmt.Errorf("%w: feature vectors are not aligned", domain.ErrAttribution)
	}

	var total float64
	for i, imp := range in.importances {
		if math.IsNaN(imp) || math.IsInf(imp, 0) {
			return nil, fmt.Errorf("%w: importance of %q is not finite", domain.ErrAttribution, in.names[i])
		}
		total += math.Abs(imp)
	}

	sign := -1.0
	if in.prediction == 1 {
		sign = 1.0
	}

	top := make([]domain.FeatureImportance, n)
	contributions := make([]domain.FeatureContribution, n)
	for i, name := range in.names {
		top[i] = domain.FeatureImportance{Feature: name, Importance: in.importances[i]}

		weight := 0.0
		if total > 0 {
			weight = math.Abs(in.importances[i]) / total
		}
		contributions[i] = domain.FeatureContribution{
			Feature:      name,
			Value:        in.values[i],
			Contribution: deviation(in.values[i], in.means[i], in.stdDevs[i]) * weight * attributionScale * sign,
		}
	}

	sort.SliceStable(top, func(a, b int) bool {
		if top[a].Importance != top[b].Importance {
			return top[a].Importance > top[b].Importance
		}
		return top[a].Feature < top[b].Feature
	})
	sort.SliceStable(contributions, func(a, b int) bool {
		ca, cb := math.Abs(contributions[a].Contribution), math.Abs(contributions[b].Contribution)
		if ca != cb {
			return ca > cb
		}
		return contributions[a].Feature < contributions[b].Feature
	})

	k := in.topK
	if k > n {
		k = n
	}

	return &domain.Attribution{
		TopFeatures: top[:k],
		Waterfall: domain.Waterfall{
			BaseValue: domain.AttributionBaseValue,
			Features:  contributions[:k],
		},
	}, nil
}

// deviation is the z-score of x clipped to [-attributionClip, attributionClip];
// zero when x is missing or the column is constant.
func deviation(x, mean, stdDev float64) float64 {
	if math.IsNaN(x) || math.IsNaN(mean) || stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}
	z := (x - mean) / stdDev
	return math.Max(-attributionClip, math.Min(attributionClip, z))
}
