package model

import (
	"fmt"
	"math"
)

// Logistic is a fitted logistic regression classifier.
type Logistic struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// PredictProbability returns the sigmoid of the linear score.
func (m *Logistic) PredictProbability(vector []float64) (float64, error) {
	if len(vector) != len(m.Coefficients) {
		return 0, fmt.Errorf("logistic model expects %d features, got %d", len(m.Coefficients), len(vector))
	}

	score := m.Intercept
	for i, w := range m.Coefficients {
		score += w * vector[i]
	}

	return 1 / (1 + math.Exp(-score)), nil
}
