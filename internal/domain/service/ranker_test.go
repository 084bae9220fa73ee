package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/upi-risk/internal/domain/model"
	"github.com/bibbank/upi-risk/internal/domain/service"
)

func names(contributions []model.FeatureContribution) []string {
	out := make([]string, 0, len(contributions))
	for _, c := range contributions {
		out = append(out, c.Name)
	}
	return out
}

func TestRanker_SortsDescendingAndTruncates(t *testing.T) {
	ranker := service.NewRanker(service.MaxTopFeatures)

	ranked := ranker.Rank([]model.FeatureContribution{
		{Name: "a", Weight: 0.1},
		{Name: "b", Weight: 0.5},
		{Name: "c", Weight: -0.2},
		{Name: "d", Weight: 0.3},
		{Name: "e", Weight: 0.05},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"b", "d", "a"}, names(ranked))
}

func TestRanker_StableOnTies(t *testing.T) {
	ranker := service.NewRanker(service.MaxTopFeatures)

	ranked := ranker.Rank([]model.FeatureContribution{
		{Name: "first", Weight: 0.2},
		{Name: "second", Weight: 0.2},
		{Name: "top", Weight: 0.9},
		{Name: "third", Weight: 0.2},
	})

	assert.Equal(t, []string{"top", "first", "second"}, names(ranked))
}

func TestRanker_DoesNotMutateInput(t *testing.T) {
	ranker := service.NewRanker(service.MaxTopFeatures)
	input := []model.FeatureContribution{
		{Name: "low", Weight: 0.1},
		{Name: "high", Weight: 0.9},
	}

	_ = ranker.Rank(input)

	assert.Equal(t, "low", input[0].Name)
	assert.Empty(t, input[0].Label)
}

func TestRanker_AttachesLabels(t *testing.T) {
	ranker := service.NewRanker(service.MaxTopFeatures)

	ranked := ranker.Rank([]model.FeatureContribution{
		{Name: service.FeatureAmount, Weight: 0.3},
		{Name: "velocity_score", Weight: 0.2, Label: "Velocity"},
		{Name: "merchant_risk", Weight: 0.1},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "Transaction amount", ranked[0].Label)
	assert.Equal(t, "Velocity", ranked[1].Label)
	assert.Equal(t, "merchant_risk", ranked[2].Label)
}

func TestRanker_KeepsSuppliedLabelForKnownName(t *testing.T) {
	ranker := service.NewRanker(service.MaxTopFeatures)

	ranked := ranker.Rank([]model.FeatureContribution{
		{Name: service.FeatureAmount, Weight: 0.6, Label: "Amount vs. payer history"},
		{Name: service.FeatureTimestamp, Weight: 0.1},
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, "Amount vs. payer history", ranked[0].Label)
	assert.Equal(t, "Time of day", ranked[1].Label)
}

func TestRanker_EmptyAndShortInputs(t *testing.T) {
	ranker := service.NewRanker(0)

	assert.Empty(t, ranker.Rank(nil))
	assert.NotNil(t, ranker.Rank(nil))

	ranked := ranker.Rank([]model.FeatureContribution{{Name: "only", Weight: 1}})
	assert.Len(t, ranked, 1)
}

func TestRanker_LimitBelowCap(t *testing.T) {
	ranker := service.NewRanker(1)

	ranked := ranker.Rank([]model.FeatureContribution{
		{Name: "a", Weight: 0.1},
		{Name: "b", Weight: 0.2},
	})
	assert.Equal(t, []string{"b"}, names(ranked))
}
