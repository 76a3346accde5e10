package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/phish-analyzer/internal/core"
	"go.uber.org/zap"
)

func TestLogisticPredictProbability(t *testing.T) {
	m := &Logistic{Coefficients: []float64{1, 1}, Intercept: 0}

	prob, err := m.PredictProbability([]float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(prob-0.5) > 1e-9 {
		t.Errorf("sigmoid(0) = %f, want 0.5", prob)
	}

	prob, err = m.PredictProbability([]float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	want := 1 / (1 + math.Exp(-2))
	if math.Abs(prob-want) > 1e-9 {
		t.Errorf("sigmoid(2) = %f, want %f", prob, want)
	}

	if _, err := m.PredictProbability([]float64{1}); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func TestForestPredictProbability(t *testing.T) {
	// One decision node splitting on feature 0 at 0.5
	tree := Tree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Left: -1, Value: 0.1},
		{Left: -1, Value: 0.9},
	}}
	m := &Forest{Trees: []Tree{tree}}

	prob, err := m.PredictProbability([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if prob != 0.1 {
		t.Errorf("left leaf = %f, want 0.1", prob)
	}

	prob, err = m.PredictProbability([]float64{1})
	if err != nil {
		t.Fatal(err)
	}
	if prob != 0.9 {
		t.Errorf("right leaf = %f, want 0.9", prob)
	}

	// Threshold boundary goes left
	prob, err = m.PredictProbability([]float64{0.5})
	if err != nil {
		t.Fatal(err)
	}
	if prob != 0.1 {
		t.Errorf("boundary value = %f, want left leaf 0.1", prob)
	}
}

func TestForestAveragesTrees(t *testing.T) {
	leaf := func(v float64) Tree {
		return Tree{Nodes: []TreeNode{{Left: -1, Value: v}}}
	}
	m := &Forest{Trees: []Tree{leaf(0.2), leaf(0.4), leaf(0.9)}}

	prob, err := m.PredictProbability([]float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(prob-0.5) > 1e-9 {
		t.Errorf("forest mean = %f, want 0.5", prob)
	}
}

func TestForestRejectsBadStructure(t *testing.T) {
	empty := &Forest{}
	if _, err := empty.PredictProbability([]float64{0}); err == nil {
		t.Error("expected error for forest with no trees")
	}

	badFeature := &Forest{Trees: []Tree{{Nodes: []TreeNode{
		{Feature: 7, Threshold: 0, Left: 1, Right: 1},
		{Left: -1, Value: 0.5},
	}}}}
	if _, err := badFeature.PredictProbability([]float64{0}); err == nil {
		t.Error("expected error for feature index out of range")
	}
}

func TestMLPPredictProbability(t *testing.T) {
	// Single sigmoid unit: output = sigmoid(w·x + b)
	m := &MLP{Layers: []Layer{{
		Weights:    [][]float64{{1, 1}},
		Biases:     []float64{0},
		Activation: "sigmoid",
	}}}

	prob, err := m.PredictProbability([]float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(prob-0.5) > 1e-9 {
		t.Errorf("output = %f, want 0.5", prob)
	}
}

func TestMLPHiddenLayerRelu(t *testing.T) {
	m := &MLP{Layers: []Layer{
		{
			Weights:    [][]float64{{1}, {-1}},
			Biases:     []float64{0, 0},
			Activation: "relu",
		},
		{
			Weights:    [][]float64{{1, 1}},
			Biases:     []float64{0},
			Activation: "sigmoid",
		},
	}}

	// Input 2: hidden = [relu(2), relu(-2)] = [2, 0]; output = sigmoid(2)
	prob, err := m.PredictProbability([]float64{2})
	if err != nil {
		t.Fatal(err)
	}
	want := 1 / (1 + math.Exp(-2))
	if math.Abs(prob-want) > 1e-9 {
		t.Errorf("output = %f, want %f", prob, want)
	}
}

func TestMLPRejectsBadShapes(t *testing.T) {
	empty := &MLP{}
	if _, err := empty.PredictProbability([]float64{0}); err == nil {
		t.Error("expected error for network with no layers")
	}

	mismatched := &MLP{Layers: []Layer{{
		Weights:    [][]float64{{1, 1, 1}},
		Biases:     []float64{0},
		Activation: "sigmoid",
	}}}
	if _, err := mismatched.PredictProbability([]float64{0}); err == nil {
		t.Error("expected error for input width mismatch")
	}

	wide := &MLP{Layers: []Layer{{
		Weights:    [][]float64{{1}, {1}},
		Biases:     []float64{0, 0},
		Activation: "sigmoid",
	}}}
	if _, err := wide.PredictProbability([]float64{0}); err == nil {
		t.Error("expected error for multi-value output layer")
	}

	shortBiases := &MLP{Layers: []Layer{{
		Weights:    [][]float64{{1}, {-1}},
		Biases:     []float64{0},
		Activation: "relu",
	}}}
	if _, err := shortBiases.PredictProbability([]float64{0}); err == nil {
		t.Error("expected error for bias count mismatch")
	}
}

func TestStandardScalerTransform(t *testing.T) {
	s := &StandardScaler{Mean: []float64{1, 10}, Scale: []float64{2, 0}}

	out, err := s.Transform([]float64{3, 15})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 1 {
		t.Errorf("out[0] = %f, want (3-1)/2 = 1", out[0])
	}
	// Zero scale passes the centered value through
	if out[1] != 5 {
		t.Errorf("out[1] = %f, want 15-10 = 5", out[1])
	}

	if _, err := s.Transform([]float64{1}); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "selected_features.json", `["text_length","url_count"]`)
	writeArtifact(t, dir, "scaler.json", `{"mean":[0,0],"scale":[1,1]}`)
	writeArtifact(t, dir, "logistic_regression.json", `{"coefficients":[0.5,0.5],"intercept":0}`)
	writeArtifact(t, dir, "random_forest.json", `{"trees":[{"nodes":[{"feature":0,"threshold":0,"left":-1,"right":-1,"value":0.5}]}]}`)
	writeArtifact(t, dir, "deep_learning.json", `{"layers":[{"weights":[[1,1]],"biases":[0],"activation":"sigmoid"}]}`)

	bundle, err := LoadBundle(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}

	if len(bundle.SelectedFeatures) != 2 {
		t.Errorf("SelectedFeatures = %v", bundle.SelectedFeatures)
	}
	for _, id := range []string{"lr", "rf", "dl"} {
		if _, ok := bundle.Models[id]; !ok {
			t.Errorf("model %q missing from bundle", id)
		}
	}
	if _, ok := bundle.Scaler.(*StandardScaler); !ok {
		t.Errorf("scaler type = %T, want *StandardScaler", bundle.Scaler)
	}
}

func TestLoadBundleMissingModelsTolerated(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "selected_features.json", `["text_length"]`)

	bundle, err := LoadBundle(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("LoadBundle failed: %v", err)
	}
	if len(bundle.Models) != 0 {
		t.Errorf("Models = %v, want none", bundle.Models)
	}
	if _, ok := bundle.Scaler.(*IdentityScaler); !ok {
		t.Errorf("scaler type = %T, want identity fallback", bundle.Scaler)
	}
}

func TestLoadBundleMissingSelectedFeaturesFails(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBundle(dir, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for missing selected features")
	}
	if _, ok := err.(*core.ConfigError); !ok {
		t.Errorf("error type = %T, want *core.ConfigError", err)
	}
}
