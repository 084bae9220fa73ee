package service

import (
	"github.com/bibbank/upi-risk/internal/domain/model"
)

// Feature names reported in contributions.
const (
	FeatureAmount           = "amount"
	FeatureTxnCountLastHour = "txnCountLastHour"
	FeatureTimestamp        = "timestamp"
)

const (
	baseScore = 0.05

	scoreAmountOffset = 3000.0
	scoreAmountScale  = 10000.0
	scoreAmountCap    = 0.7
	scoreNightBonus   = 0.15
	scoreBurstBonus   = 0.2

	weightAmountOffset = 2000.0
	weightAmountScale  = 8000.0
	weightAmountCap    = 0.4
	weightBurst        = 0.2
	weightNoBurst      = 0.03
	weightNight        = 0.15
	weightDay          = 0.02
)

// Assessment is the raw output of the HeuristicScorer.
type Assessment struct {
	Contributions []model.FeatureContribution
	Score         float64
}

// HeuristicScorer is a domain service that scores normalized features with a
// fixed additive heuristic.
//
// The reported contribution weights are computed independently of the score
// and do not decompose it.
type HeuristicScorer struct{}

// NewHeuristicScorer creates a new HeuristicScorer instance.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Score evaluates the features. The base score is 0.05; amount above 3000,
// night hours and bursts add to it, and the total is clamped to [0, 1].
func (s *HeuristicScorer) Score(f Features) Assessment {
	score := baseScore

	// Rule: amount above 3000 scales in linearly, capped at 0.7.
	score += model.Clamp((f.Amount-scoreAmountOffset)/scoreAmountScale, 0, scoreAmountCap)

	// Rule: night-time transaction.
	if f.IsNightHour {
		score += scoreNightBonus
	}

	// Rule: burst of transactions in the last hour.
	if f.IsBurst {
		score += scoreBurstBonus
	}

	return Assessment{
		Score:         model.Clamp(score, 0, 1),
		Contributions: s.contributions(f),
	}
}

func (s *HeuristicScorer) contributions(f Features) []model.FeatureContribution {
	burstWeight := weightNoBurst
	if f.IsBurst {
		burstWeight = weightBurst
	}

	nightWeight := weightDay
	if f.IsNightHour {
		nightWeight = weightNight
	}

	return []model.FeatureContribution{
		{
			Name:   FeatureAmount,
			Value:  f.Amount,
			Weight: model.Clamp((f.Amount-weightAmountOffset)/weightAmountScale, 0, weightAmountCap),
		},
		{
			Name:   FeatureTxnCountLastHour,
			Value:  f.TxnCountLastHour,
			Weight: burstWeight,
		},
		{
			Name:   FeatureTimestamp,
			Value:  f.Timestamp,
			Weight: nightWeight,
		},
	}
}
