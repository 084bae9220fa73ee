package model

import (
	"math"

	"github.com/bibbank/upi-risk/internal/domain/valueobject"
)

// FeatureContribution is one feature's informational contribution to a score.
// Weights are not guaranteed to sum to the score.
type FeatureContribution struct {
	Value  any     `json:"value"`
	Name   string  `json:"name"`
	Label  string  `json:"label,omitempty"`
	Weight float64 `json:"weight"`
}

// PredictionResult is the outcome of a single risk assessment.
type PredictionResult struct {
	Label       valueobject.Label     `json:"label"`
	Explanation string                `json:"explanation,omitempty"`
	TopFeatures []FeatureContribution `json:"top_features"`
	Score       float64               `json:"score"`
}

// NewPredictionResult builds a result whose label is derived from score.
func NewPredictionResult(score float64, topFeatures []FeatureContribution, explanation string) *PredictionResult {
	if topFeatures == nil {
		topFeatures = make([]FeatureContribution, 0)
	}
	return &PredictionResult{
		Label:       valueobject.LabelFromScore(score),
		Score:       score,
		TopFeatures: topFeatures,
		Explanation: explanation,
	}
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
