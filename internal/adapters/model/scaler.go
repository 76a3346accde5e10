package model

import (
	"fmt"
)

// StandardScaler applies the fit-time standardization (x - mean) / scale.
// It is stateless at inference time.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Transform standardizes the vector. Zero scale entries pass the
// centered value through unscaled.
func (s *StandardScaler) Transform(vector []float64) ([]float64, error) {
	if len(vector) != len(s.Mean) || len(vector) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(vector))
	}

	out := make([]float64, len(vector))
	for i, v := range vector {
		centered := v - s.Mean[i]
		if s.Scale[i] != 0 {
			centered /= s.Scale[i]
		}
		out[i] = centered
	}
	return out, nil
}

// IdentityScaler passes vectors through unchanged. Used when no fitted
// scaler artifact is available.
type IdentityScaler struct{}

// Transform returns the vector unchanged.
func (s *IdentityScaler) Transform(vector []float64) ([]float64, error) {
	return vector, nil
}
