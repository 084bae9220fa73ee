package service

import (
	"context"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

// StrategyLocal names the in-process heuristic strategy.
const StrategyLocal = "local"

// Compile-time assertion that LocalPredictor implements Predictor.
var _ Predictor = (*LocalPredictor)(nil)

// LocalPredictor composes the normalizer, heuristic scorer and ranker into a
// synchronous, deterministic prediction.
type LocalPredictor struct {
	normalizer *Normalizer
	scorer     *HeuristicScorer
	ranker     *Ranker
}

// NewLocalPredictor creates a LocalPredictor.
func NewLocalPredictor(normalizer *Normalizer, scorer *HeuristicScorer, ranker *Ranker) *LocalPredictor {
	return &LocalPredictor{
		normalizer: normalizer,
		scorer:     scorer,
		ranker:     ranker,
	}
}

// NewDefaultLocalPredictor wires a LocalPredictor with default components.
func NewDefaultLocalPredictor() *LocalPredictor {
	return NewLocalPredictor(NewNormalizer(nil), NewHeuristicScorer(), NewRanker(MaxTopFeatures))
}

// Name returns the strategy name.
func (p *LocalPredictor) Name() string {
	return StrategyLocal
}

// Predict scores req locally. It never returns an error.
func (p *LocalPredictor) Predict(_ context.Context, req *model.TransactionRequest) (*model.PredictionResult, error) {
	features := p.normalizer.Normalize(req)
	assessment := p.scorer.Score(features)
	return model.NewPredictionResult(assessment.Score, p.ranker.Rank(assessment.Contributions), ""), nil
}
