package domain

// Decision labels. Class 1 is the negative outcome.
const (
	LabelApproved = "Crédit accordé"
	LabelDeclined = "Crédit refusé"
)

// AttributionBaseValue is the fixed starting point of the waterfall display.
const AttributionBaseValue = 0.5

type PredictionRequest struct {
	ClientID int64
}

type Prediction struct {
	ClientID    int64
	Prediction  int
	Label       string
	Proba       float64
	Attribution *Attribution
}

// LabelFor maps a binary decision to its human-readable label.
func LabelFor(prediction int) string {
	if prediction == 1 {
		return LabelDeclined
	}
	return LabelApproved
}

// Attribution is a display aid: importance ranking plus a deviation-from-mean
// heuristic. It is not a game-theoretic attribution.
type Attribution struct {
	TopFeatures []FeatureImportance
	Waterfall   Waterfall
}

type FeatureImportance struct {
	Feature    string
	Importance float64
}

type Waterfall struct {
	BaseValue float64
	Features  []FeatureContribution
}

type FeatureContribution struct {
	Feature      string
	Value        float64
	Contribution float64
}
