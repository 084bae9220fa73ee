package service

import (
	"sort"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

// MaxTopFeatures caps the number of contributions returned to the caller.
const MaxTopFeatures = 3

var featureLabels = map[string]string{
	FeatureAmount:           "Transaction amount",
	FeatureTxnCountLastHour: "Transactions in the last hour",
	FeatureTimestamp:        "Time of day",
	"avgTicketLast7d":       "Average ticket (7 days)",
	"geo":                   "Location",
	"deviceId":              "Device",
}

// Ranker orders feature contributions for display.
type Ranker struct {
	limit int
}

// NewRanker creates a Ranker that keeps at most limit contributions.
// A non-positive limit falls back to MaxTopFeatures.
func NewRanker(limit int) *Ranker {
	if limit <= 0 || limit > MaxTopFeatures {
		limit = MaxTopFeatures
	}
	return &Ranker{limit: limit}
}

// Rank returns a new slice sorted by descending weight, ties in input order,
// truncated to the limit and labelled. The input is not modified.
func (r *Ranker) Rank(contributions []model.FeatureContribution) []model.FeatureContribution {
	ranked := make([]model.FeatureContribution, len(contributions))
	copy(ranked, contributions)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	if len(ranked) > r.limit {
		ranked = ranked[:r.limit]
	}

	for i := range ranked {
		ranked[i].Label = labelFor(ranked[i])
	}

	return ranked
}

// labelFor keeps a label supplied with the contribution, then falls back to
// the built-in table and finally the raw name.
func labelFor(c model.FeatureContribution) string {
	if c.Label != "" {
		return c.Label
	}
	if label, ok := featureLabels[c.Name]; ok {
		return label
	}
	return c.Name
}
