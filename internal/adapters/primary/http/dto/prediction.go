package dto

import (
	"math"

	"credit-scoring-api/internal/core/domain"
)

type PredictRequest struct {
	ClientID *int64 `json:"SK_ID_CURR" binding:"required"`
}

type PredictResponse struct {
	Prediction        int                `json:"prediction"`
	Resultat          string             `json:"resultat"`
	Proba             *float64           `json:"proba,omitempty"`
	FeatureImportance *FeatureImportance `json:"feature_importance,omitempty"`
}

type FeatureImportance struct {
	TopFeatures []FeatureScore `json:"top_features"`
	Waterfall   Waterfall      `json:"waterfall"`
}

type FeatureScore struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

type Waterfall struct {
	BaseValue float64               `json:"base_value"`
	Features  []FeatureContribution `json:"features"`
}

type FeatureContribution struct {
	Feature      string   `json:"feature"`
	Value        *float64 `json:"value"`
	Contribution float64  `json:"contribution"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func ToPredictResponse(p *domain.Prediction) PredictResponse {
	proba := p.Proba
	resp := PredictResponse{
		Prediction: p.Prediction,
		Resultat:   p.Label,
		Proba:      &proba,
	}
	if p.Attribution == nil {
		return resp
	}

	fi := &FeatureImportance{
		TopFeatures: make([]FeatureScore, 0, len(p.Attribution.TopFeatures)),
		Waterfall: Waterfall{
			BaseValue: p.Attribution.Waterfall.BaseValue,
			Features:  make([]FeatureContribution, 0, len(p.Attribution.Waterfall.Features)),
		},
	}
	for _, f := range p.Attribution.TopFeatures {
		fi.TopFeatures = append(fi.TopFeatures, FeatureScore{Feature: f.Feature, Importance: f.Importance})
	}
	for _, f := range p.Attribution.Waterfall.Features {
		fi.Waterfall.Features = append(fi.Waterfall.Features, FeatureContribution{
			Feature:      f.Feature,
			Value:        finite(f.Value),
			Contribution: f.Contribution,
		})
	}
	resp.FeatureImportance = fi
	return resp
}

// finite maps NaN and infinities to JSON null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
