package strategy

import (
	"fmt"
	"log/slog"

	"github.com/bibbank/upi-risk/internal/domain/service"
	"github.com/bibbank/upi-risk/internal/infrastructure/config"
	"github.com/bibbank/upi-risk/internal/infrastructure/remote"
)

// NewPredictor selects the prediction strategy once from configuration:
// the remote client when an endpoint is configured, the local heuristic
// otherwise.
func NewPredictor(cfg config.Config, logger *slog.Logger) (service.Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ranker := service.NewRanker(service.MaxTopFeatures)

	if cfg.UsesRemote() {
		client := remote.NewClient(cfg.PredictEndpoint,
			remote.WithTimeout(cfg.RemoteTimeout),
			remote.WithAuthToken(cfg.RemoteAuthToken),
			remote.WithClampScore(cfg.RemoteClampScore),
			remote.WithRanker(ranker),
		)
		logger.Info("prediction strategy selected",
			"strategy", client.Name(),
			"endpoint", client.Endpoint(),
			"timeout", cfg.RemoteTimeout.String(),
			"clamp_score", cfg.RemoteClampScore,
		)
		return client, nil
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	predictor := service.NewLocalPredictor(service.NewNormalizer(loc), service.NewHeuristicScorer(), ranker)
	logger.Info("prediction strategy selected",
		"strategy", predictor.Name(),
		"local_tz", cfg.LocalTimezone,
	)
	return predictor, nil
}
