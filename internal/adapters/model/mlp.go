package model

import (
	"fmt"
	"math"
)

// Layer is one dense layer of a fitted feed-forward network. Weights is
// indexed [output][input].
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// MLP is a fitted feed-forward network ending in a single sigmoid
// output unit.
type MLP struct {
	Layers []Layer `json:"layers"`
}

// PredictProbability feeds the vector forward and returns the final
// scalar activation.
func (m *MLP) PredictProbability(vector []float64) (float64, error) {
	if len(m.Layers) == 0 {
		return 0, fmt.Errorf("mlp model has no layers")
	}

	current := vector
	for li := range m.Layers {
		layer := &m.Layers[li]
		if len(layer.Biases) != len(layer.Weights) {
			return 0, fmt.Errorf("layer %d has %d weight rows but %d biases", li, len(layer.Weights), len(layer.Biases))
		}
		next := make([]float64, len(layer.Weights))
		for out, weights := range layer.Weights {
			if len(weights) != len(current) {
				return 0, fmt.Errorf("layer %d expects %d inputs, got %d", li, len(weights), len(current))
			}
			sum := layer.Biases[out]
			for in, w := range weights {
				sum += w * current[in]
			}
			next[out] = activate(sum, layer.Activation)
		}
		current = next
	}

	if len(current) != 1 {
		return 0, fmt.Errorf("mlp output layer produced %d values, want 1", len(current))
	}
	return current[0], nil
}

func activate(x float64, name string) float64 {
	switch name {
	case "relu":
		if x < 0 {
			return 0
		}
		return x
	case "sigmoid":
		return 1 / (1 + math.Exp(-x))
	default:
		return x
	}
}
