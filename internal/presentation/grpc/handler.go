package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/upi-risk/internal/application/dto"
	"github.com/bibbank/upi-risk/internal/domain/model"
)

// PredictionService is the application surface the gRPC transport needs.
type PredictionService interface {
	Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error)
	Strategy() string
}

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	service PredictionService
	logger  *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(service PredictionService, logger *slog.Logger) *RiskServiceHandler {
	return &RiskServiceHandler{
		service: service,
		logger:  logger,
	}
}

// Predict handles a prediction request.
func (h *RiskServiceHandler) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := dto.PredictRequest{
		Amount:           dto.ParseNumber(req.Amount),
		Timestamp:        req.Timestamp,
		PayerID:          req.PayerID,
		PayeeID:          req.PayeeID,
		DeviceID:         req.DeviceID,
		TxnCountLastHour: dto.NumberOf(req.TxnCountLastHour),
		AvgTicketLast7d:  dto.NumberOf(req.AvgTicketLast7d),
	}
	if req.GeoLat != nil {
		in.GeoLat = dto.NumberOf(*req.GeoLat)
	}
	if req.GeoLon != nil {
		in.GeoLon = dto.NumberOf(*req.GeoLon)
	}

	result, err := h.service.Execute(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}

	features := make([]*FeatureMsg, 0, len(result.TopFeatures))
	for _, f := range result.TopFeatures {
		features = append(features, &FeatureMsg{
			Name:   f.Name,
			Value:  f.Value,
			Label:  f.Label,
			Weight: f.Weight,
		})
	}

	return &PredictResponse{
		Label:       result.Label,
		Score:       result.Score,
		TopFeatures: features,
		Explanation: result.Explanation,
		Strategy:    result.Strategy,
	}, nil
}

// toStatus maps the prediction error taxonomy to gRPC status codes.
func toStatus(err error) error {
	switch model.ErrorKind(err) {
	case model.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case model.KindTransport:
		return status.Error(codes.Unavailable, err.Error())
	case model.KindRemote:
		var remoteErr *model.RemoteError
		errors.As(err, &remoteErr)
		return status.Errorf(codes.Unavailable, "remote scoring service returned status %d", remoteErr.StatusCode)
	case model.KindDecode:
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
