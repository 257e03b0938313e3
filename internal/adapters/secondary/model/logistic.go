package model

import (
	"fmt"
	"math"
)

// logistic scores sigmoid(intercept + coefficients . x). Missing inputs contribute nothing.
type logistic struct {
	meta
	coefficients []float64
	intercept    float64
}

func newLogistic(a *Artifact) (*logistic, error) {
	if len(a.Coefficients) == 0 {
		return nil, fmt.Errorf("logistic regression has no coefficients")
	}
	for i, c := range a.Coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}

	m, err := newMeta(a, len(a.Coefficients))
	if err != nil {
		return nil, err
	}
	if m.importances == nil {
		m.importances = make([]float64, len(a.Coefficients))
		for i, c := range a.Coefficients {
			m.importances[i] = math.Abs(c)
		}
	}

	return &logistic{meta: m, coefficients: a.Coefficients, intercept: a.Intercept}, nil
}

func (l *logistic) PredictProba(features []float64) (float64, error) {
	if err := l.checkInput(features); err != nil {
		return 0, err
	}

	z := l.intercept
	for i, x := range features {
		if math.IsNaN(x) {
			continue
		}
		z += l.coefficients[i] * x
	}
	return sigmoid(z), nil
}
