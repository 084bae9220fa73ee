package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/upi-risk/internal/application/dto"
	"github.com/bibbank/upi-risk/internal/domain/model"
)

// Fixed identifiers for deterministic requests.
const (
	TestPayerID  = "alice@upi"
	TestPayeeID  = "shop@upi"
	TestDeviceID = "dev-1"
)

// NewPredictRequest returns a valid inbound request with the fixed identifiers.
func NewPredictRequest(amount float64, timestamp string, txnCount float64) dto.PredictRequest {
	return dto.PredictRequest{
		Amount:           dto.NumberOf(amount),
		Timestamp:        timestamp,
		PayerID:          TestPayerID,
		PayeeID:          TestPayeeID,
		DeviceID:         TestDeviceID,
		TxnCountLastHour: dto.NumberOf(txnCount),
	}
}

// LowRiskRequest scores 0.05 / LEGIT on the local strategy.
func LowRiskRequest() dto.PredictRequest {
	return NewPredictRequest(1500, "12:00 local", 1)
}

// HighRiskRequest scores 1.0 / FRAUD on the local strategy.
func HighRiskRequest() dto.PredictRequest {
	return NewPredictRequest(13000, "02:00 local", 6)
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RequireErrorKind fails the test unless err is classified as kind.
func RequireErrorKind(t *testing.T, err error, kind string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, model.ErrorKind(err), "unexpected error kind for %v", err)
}
