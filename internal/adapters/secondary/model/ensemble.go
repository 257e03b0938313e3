package model

import (
	"fmt"
	"math"
)

// ensemble is a gradient-boosted tree ensemble: sigmoid(base_score + sum of leaf values).
type ensemble struct {
	meta
	baseScore float64
	trees     []Tree
}

func newEnsemble(a *Artifact) (*ensemble, error) {
	if len(a.Trees) == 0 {
		return nil, fmt.Errorf("gradient boosting model has no trees")
	}

	maxFeature := -1
	for ti, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("tree %d is empty", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			// children must point forward so traversal always terminates
			if node.Left <= ni || node.Right <= ni || node.Left >= len(tree.Nodes) || node.Right >= len(tree.Nodes) {
				return nil, fmt.Errorf("tree %d node %d has invalid children (%d, %d)", ti, ni, node.Left, node.Right)
			}
			if node.Feature < 0 {
				return nil, fmt.Errorf("tree %d node %d has negative feature index", ti, ni)
			}
			if node.Feature > maxFeature {
				maxFeature = node.Feature
			}
		}
	}

	nFeatures := maxFeature + 1
	switch {
	case a.FeatureNames != nil:
		nFeatures = len(a.FeatureNames)
	case a.FeatureImportances != nil:
		nFeatures = len(a.FeatureImportances)
	}
	if maxFeature >= nFeatures {
		return nil, fmt.Errorf("trees reference feature %d but the model declares %d inputs", maxFeature, nFeatures)
	}

	m, err := newMeta(a, nFeatures)
	if err != nil {
		return nil, err
	}
	if m.importances == nil {
		m.importances = splitCounts(a.Trees, nFeatures)
	}

	return &ensemble{meta: m, baseScore: a.BaseScore, trees: a.Trees}, nil
}

// splitCounts is the "split" importance: how many internal nodes use each feature.
func splitCounts(trees []Tree, nFeatures int) []float64 {
	counts := make([]float64, nFeatures)
	for _, tree := range trees {
		for _, node := range tree.Nodes {
			if !node.Leaf {
				counts[node.Feature]++
			}
		}
	}
	return counts
}

func (e *ensemble) PredictProba(features []float64) (float64, error) {
	if err := e.checkInput(features); err != nil {
		return 0, err
	}

	raw := e.baseScore
	for i := range e.trees {
		raw += e.trees[i].leafValue(features)
	}
	return sigmoid(raw), nil
}

func (t *Tree) leafValue(features []float64) float64 {
	idx := 0
	for {
		node := &t.Nodes[idx]
		if node.Leaf {
			return node.Value
		}
		x := features[node.Feature]
		switch {
		case math.IsNaN(x):
			if node.DefaultLeft {
				idx = node.Left
			} else {
				idx = node.Right
			}
		case x <= node.Threshold:
			idx = node.Left
		default:
			idx = node.Right
		}
	}
}
