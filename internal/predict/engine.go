package predict

import (
	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// neutralProbability is the recovered default when a single model call
// fails. A misbehaving model degrades confidence instead of failing the
// whole analysis.
const neutralProbability = 0.5

// ensembleWeights are the canonical fixed weights for combining the
// ensemble models. They sum to 1.0.
var ensembleWeights = map[string]float64{
	"lr": 0.2,
	"rf": 0.5,
	"dl": 0.3,
}

// EnsembleModelIDs returns the identifiers participating in the ensemble.
func EnsembleModelIDs() []string {
	return []string{"lr", "rf", "dl"}
}

// Engine wraps the fitted models and scaler behind a uniform probability
// interface. Models and scaler are read-only after construction, so one
// Engine is safe for concurrent analyses.
type Engine struct {
	selected []string
	scaler   core.Scaler
	models   map[string]core.Model
	logger   *zap.Logger
}

// NewEngine creates a prediction engine over the given models. selected
// is the fixed, ordered feature subset the models were trained on; every
// name must belong to the extractor schema, otherwise a ConfigError is
// returned so schema typos fail fast at load time.
func NewEngine(models map[string]core.Model, scaler core.Scaler, selected []string, logger *zap.Logger) (*Engine, error) {
	known := make(map[string]struct{})
	for _, name := range core.FeatureSchema() {
		known[name] = struct{}{}
	}
	for _, name := range selected {
		if _, ok := known[name]; !ok {
			return nil, core.NewConfigError("selected feature %q is not in the extraction schema", name)
		}
	}
	if len(selected) == 0 {
		return nil, core.NewConfigError("no selected features configured")
	}

	return &Engine{
		selected: append([]string(nil), selected...),
		scaler:   scaler,
		models:   models,
		logger:   logger,
	}, nil
}

// PredictSingle runs one named model over the feature vector and returns
// the binary prediction (1 iff probability > 0.5) and the probability.
// An unknown model identifier is an error; a failing model call degrades
// to the neutral probability.
func (e *Engine) PredictSingle(features core.FeatureVector, modelID string) (int, float64, error) {
	if _, ok := e.models[modelID]; !ok {
		return 0, 0, core.NewConfigError("unknown model: %s", modelID)
	}
	prob := e.probability(features, modelID)
	return binary(prob), prob, nil
}

// PredictEnsemble runs every ensemble model and combines the
// probabilities with the fixed weights.
func (e *Engine) PredictEnsemble(features core.FeatureVector) (int, float64, map[string]float64) {
	perModel := make(map[string]float64, len(ensembleWeights))

	weighted := 0.0
	for _, id := range EnsembleModelIDs() {
		prob := e.probability(features, id)
		perModel[id] = prob
		weighted += prob * ensembleWeights[id]
	}

	return binary(weighted), weighted, perModel
}

// probability projects, scales and predicts for one model, recovering
// any failure to the neutral probability.
func (e *Engine) probability(features core.FeatureVector, modelID string) float64 {
	model, ok := e.models[modelID]
	if !ok {
		e.logger.Warn("Model unavailable, using neutral probability",
			zap.String("model", modelID))
		return neutralProbability
	}

	vector := e.project(features)

	scaled, err := e.scaler.Transform(vector)
	if err != nil {
		e.logger.Warn("Scaler transform failed, using neutral probability",
			zap.String("model", modelID),
			zap.Error(err))
		return neutralProbability
	}

	prob, err := model.PredictProbability(scaled)
	if err != nil {
		e.logger.Warn("Model prediction failed, using neutral probability",
			zap.String("model", modelID),
			zap.Error(err))
		return neutralProbability
	}

	return prob
}

// project selects the configured feature subset in its fixed order.
// Features absent from the vector contribute zero; the feature-name
// spelling was already validated at construction.
func (e *Engine) project(features core.FeatureVector) []float64 {
	vector := make([]float64, len(e.selected))
	for i, name := range e.selected {
		vector[i] = features[name]
	}
	return vector
}

func binary(prob float64) int {
	if prob > 0.5 {
		return 1
	}
	return 0
}
