package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

// Artifact filenames inside a model bundle directory.
const (
	selectedFeaturesFile = "selected_features.json"
	scalerFile           = "scaler.json"
	logisticFile         = "logistic_regression.json"
	forestFile           = "random_forest.json"
	mlpFile              = "deep_learning.json"
)

// Bundle holds the trained artifacts loaded from disk: the models keyed
// by identifier, the fitted scaler, and the ordered selected-feature
// subset. All fields are read-only after loading.
type Bundle struct {
	Models           map[string]core.Model
	Scaler           core.Scaler
	SelectedFeatures []string
}

// LoadBundle loads trained artifacts from dir. A missing model file is
// tolerated: the prediction engine degrades that model to the neutral
// probability. A missing scaler degrades to the identity transform. A
// missing or invalid selected-features file is a ConfigError, since the
// engine cannot project vectors without it.
func LoadBundle(dir string, logger *zap.Logger) (*Bundle, error) {
	var selected []string
	if err := readJSON(filepath.Join(dir, selectedFeaturesFile), &selected); err != nil {
		return nil, core.NewConfigError("cannot load selected features from %s: %v", dir, err)
	}

	bundle := &Bundle{
		Models:           make(map[string]core.Model),
		SelectedFeatures: selected,
	}

	var scaler StandardScaler
	if err := readJSON(filepath.Join(dir, scalerFile), &scaler); err != nil {
		logger.Warn("No usable scaler artifact, using identity transform", zap.Error(err))
		bundle.Scaler = &IdentityScaler{}
	} else {
		bundle.Scaler = &scaler
	}

	loadModel(bundle, dir, "lr", logisticFile, &Logistic{}, logger)
	loadModel(bundle, dir, "rf", forestFile, &Forest{}, logger)
	loadModel(bundle, dir, "dl", mlpFile, &MLP{}, logger)

	logger.Info("Model bundle loaded",
		zap.String("dir", dir),
		zap.Int("models", len(bundle.Models)),
		zap.Strings("selected_features", selected))

	return bundle, nil
}

func loadModel(bundle *Bundle, dir, id, filename string, target core.Model, logger *zap.Logger) {
	path := filepath.Join(dir, filename)
	if err := readJSON(path, target); err != nil {
		logger.Warn("Model artifact unavailable, predictions will degrade to neutral",
			zap.String("model", id),
			zap.String("path", path),
			zap.Error(err))
		return
	}
	bundle.Models[id] = target
}

func readJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return nil
}
