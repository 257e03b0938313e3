package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"credit-scoring-api/internal/core/domain"
	ports "credit-scoring-api/internal/core/ports/output"
)

// Model kinds understood by Decode.
const (
	KindLogisticRegression = "logistic_regression"
	KindGradientBoosting   = "gradient_boosting"
)

// Artifact is the serialized form of a trained classifier.
type Artifact struct {
	Kind               string    `json:"type" yaml:"type"`
	FeatureNames       []string  `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`
	FeatureImportances []float64 `json:"feature_importances,omitempty" yaml:"feature_importances,omitempty"`

	// logistic_regression
	Coefficients []float64 `json:"coefficients,omitempty" yaml:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty" yaml:"intercept,omitempty"`

	// gradient_boosting
	BaseScore float64 `json:"base_score,omitempty" yaml:"base_score,omitempty"`
	Trees     []Tree  `json:"trees,omitempty" yaml:"trees,omitempty"`
}

// Tree is a flat node array; node 0 is the root.
type Tree struct {
	Nodes []TreeNode `json:"nodes" yaml:"nodes"`
}

type TreeNode struct {
	Feature     int     `json:"feature" yaml:"feature"`
	Threshold   float64 `json:"threshold" yaml:"threshold"`
	Left        int     `json:"left" yaml:"left"`
	Right       int     `json:"right" yaml:"right"`
	DefaultLeft bool    `json:"default_left" yaml:"default_left"`
	Leaf        bool    `json:"leaf" yaml:"leaf"`
	Value       float64 `json:"value" yaml:"value"`
}

// Format picks the artifact encoding from a file name.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Decode parses an encoded artifact and builds the classifier it describes.
func Decode(data []byte, format string) (ports.Classifier, error) {
	var a Artifact
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrModelDecode, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrModelDecode, err)
		}
	}
	return a.Build()
}

// Build validates the artifact and returns its classifier.
func (a *Artifact) Build() (ports.Classifier, error) {
	var (
		c   ports.Classifier
		err error
	)
	switch a.Kind {
	case KindLogisticRegression:
		c, err = newLogistic(a)
	case KindGradientBoosting:
		c, err = newEnsemble(a)
	case "":
		err = fmt.Errorf("missing model type")
	default:
		err = fmt.Errorf("unknown model type %q", a.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelDecode, err)
	}
	return c, nil
}

// meta carries the parts shared by every model kind.
type meta struct {
	names       []string
	importances []float64
	nFeatures   int
}

func newMeta(a *Artifact, nFeatures int) (meta, error) {
	m := meta{names: a.FeatureNames, importances: a.FeatureImportances, nFeatures: nFeatures}

	if m.names != nil && len(m.names) != nFeatures {
		return m, fmt.Errorf("%d feature names for %d model inputs", len(m.names), nFeatures)
	}
	if m.importances != nil && len(m.importances) != nFeatures {
		return m, fmt.Errorf("%d feature importances for %d model inputs", len(m.importances), nFeatures)
	}
	return m, nil
}

func (m meta) FeatureNames() []string { return m.names }
func (m meta) FeatureImportances() []float64 { return m.importances }

func (m meta) checkInput(features []float64) error {
	if len(features) != m.nFeatures {
		return fmt.Errorf("%w: got %d features, model expects %d", domain.ErrFeatureMismatch, len(features), m.nFeatures)
	}
	return nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
