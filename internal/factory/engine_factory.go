package factory

import (
	"github.com/mikey/phish-analyzer/internal/adapters/model"
	"github.com/mikey/phish-analyzer/internal/config"
	"github.com/mikey/phish-analyzer/internal/core"
	"github.com/mikey/phish-analyzer/internal/predict"
	"go.uber.org/zap"
)

// EngineFactory creates prediction engines from on-disk model artifacts
type EngineFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEngineFactory creates a new engine factory
func NewEngineFactory(cfg *config.Config, logger *zap.Logger) *EngineFactory {
	return &EngineFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEngine loads the model bundle and builds a prediction engine
func (f *EngineFactory) CreateEngine() (core.PredictionEngine, error) {
	analysisCfg := f.cfg.GetAnalysis()

	bundle, err := model.LoadBundle(analysisCfg.ModelsDir, f.logger)
	if err != nil {
		return nil, err
	}

	return predict.NewEngine(bundle.Models, bundle.Scaler, bundle.SelectedFeatures, f.logger)
}
