package ports

// Classifier is an opaque, read-only binary classifier.
type Classifier interface {
	// PredictProba returns the probability of the positive class (1) for one feature row.
	PredictProba(features []float64) (float64, error)

	// FeatureImportances returns one score per input feature, or nil when the
	// artifact exposes none.
	FeatureImportances() []float64

	// FeatureNames returns the input names the model was trained on, or nil
	// when the artifact does not declare them.
	FeatureNames() []string
}
