package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bibbank/upi-risk/internal/application/dto"
	"github.com/bibbank/upi-risk/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// PredictionService is the application surface the HTTP transport needs.
type PredictionService interface {
	Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error)
	Strategy() string
}

// PredictHandler serves POST /predict.
type PredictHandler struct {
	service PredictionService
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(service PredictionService) *PredictHandler {
	return &PredictHandler{service: service}
}

// Predict accepts the transaction wire schema and returns a PredictionResult.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, &model.ValidationError{Field: "body", Reason: fmt.Sprintf("malformed JSON: %v", err)})
		return
	}

	resp, err := h.service.Execute(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("X-Risk-Strategy", resp.Strategy)
	respondJSON(w, http.StatusOK, resp)
}
