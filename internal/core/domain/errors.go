package domain

import "errors"

// ============================================================================
// Artifact Errors
// ============================================================================

// Not found errors
var (
	ErrArtifactNotFound = errors.New("artifact file not found")
	ErrClientNotFound   = errors.New("client identifier not found in feature table")
)

// Load errors
var (
	ErrTableParse        = errors.New("feature table is unreadable or malformed")
	ErrModelDecode       = errors.New("model artifact cannot be deserialized")
	ErrArtifactsNotReady = errors.New("artifacts not loaded")
)

// ============================================================================
// Scoring Errors
// ============================================================================

// Schema errors
var (
	ErrIDColumnMissing   = errors.New("identifier column missing")
	ErrDuplicateClientID = errors.New("client identifier is not unique in feature table")
	ErrFeatureMismatch   = errors.New("feature columns do not match model inputs")
)

// Shape errors
var (
	ErrFeatureShape = errors.New("feature matrix must be exactly one row of at least one feature")
)

// Validation errors
var (
	ErrInvalidRequest = errors.New("invalid request body")
	ErrInvalidAPIKey  = errors.New("missing or invalid API key")
)

// Internal errors
var (
	ErrInvalidProbability = errors.New("model returned a probability outside [0, 1]")
	ErrAttribution        = errors.New("feature attribution failed")
)
