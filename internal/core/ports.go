package core

import (
	"context"
)

// Model is a fitted binary classifier consumed as an opaque capability.
// PredictProbability expects a numeric vector matching the trained
// selected-feature schema and returns a probability of the message being
// malicious, in [0,1].
type Model interface {
	PredictProbability(vector []float64) (float64, error)
}

// Scaler is a fit-time scaling artifact, stateless at inference time.
type Scaler interface {
	Transform(vector []float64) ([]float64, error)
}

// DecisionPolicy maps a final probability plus the raw risk signals to a
// verdict. Implementations must be pure functions of their inputs.
type DecisionPolicy interface {
	// Name identifies the policy for configuration and audit.
	Name() string

	// Classify produces the verdict for one analysis.
	Classify(probability float64, features FeatureVector, findings []RiskFinding) Classification
}

// HistorySink is an append-only store of analysis results.
type HistorySink interface {
	// Append records a fully assembled result. Appends are atomic with
	// respect to each other.
	Append(ctx context.Context, result *AnalysisResult) error

	// LoadAll returns every recorded result in append order.
	LoadAll(ctx context.Context) ([]*AnalysisResult, error)
}

// Advisor is an optional LLM-backed second opinion. Its probability is
// recorded alongside the model predictions but never enters the fixed
// ensemble weighting.
type Advisor interface {
	// AssessMessage returns an advisory probability in [0,1] and a short
	// rationale for the assessment.
	AssessMessage(ctx context.Context, msg *ParsedMessage) (float64, string, error)
}

// MessageParser turns raw message bytes into a ParsedMessage.
type MessageParser interface {
	Parse(raw []byte) (*ParsedMessage, error)
}

// TextNormalizer produces the canonical lowercase token stream used for
// text feature extraction. It is a total, idempotent function.
type TextNormalizer interface {
	Normalize(text string) string
}

// FeatureExtractor derives the fixed-schema feature vector. ExtractMessage
// is the structured pipeline; ExtractText is the degraded free-text
// pipeline used when no MIME structure is available.
type FeatureExtractor interface {
	ExtractMessage(msg *ParsedMessage, normalized string) FeatureVector
	ExtractText(text string) FeatureVector
}

// RiskDetector produces the ordered finding list from raw signals.
// DetectMessage evaluates the header/attachment-aware rule set;
// DetectText evaluates the lightweight free-text rule set.
type RiskDetector interface {
	DetectMessage(msg *ParsedMessage, features FeatureVector) []RiskFinding
	DetectText(features FeatureVector) []RiskFinding
}

// PredictionEngine converts a feature vector into phishing probabilities.
type PredictionEngine interface {
	// PredictSingle runs one named model. The returned binary prediction
	// is 1 iff the probability exceeds 0.5.
	PredictSingle(features FeatureVector, modelID string) (int, float64, error)

	// PredictEnsemble runs every ensemble model and combines them with
	// the fixed weights, returning the per-model probabilities as well.
	PredictEnsemble(features FeatureVector) (int, float64, map[string]float64)
}

// TrustChecker short-circuits analysis for senders from trusted domains.
type TrustChecker interface {
	IsTrusted(sender string) bool
}
