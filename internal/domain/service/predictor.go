package service

import (
	"context"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

// Predictor defines the contract shared by the prediction strategies.
// Both LocalPredictor (heuristic) and remote.Client (HTTP) implement this.
type Predictor interface {
	Predict(ctx context.Context, req *model.TransactionRequest) (*model.PredictionResult, error)
	Name() string
}
