package dto

import (
	"strings"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

// Form field names, identical to the wire schema.
const (
	FieldAmount           = "amount"
	FieldTimestamp        = "timestamp"
	FieldPayerID          = "payer_id"
	FieldPayeeID          = "payee_id"
	FieldDeviceID         = "device_id"
	FieldGeoLat           = "geo_lat"
	FieldGeoLon           = "geo_lon"
	FieldTxnCountLastHour = "txnCountLastHour"
	FieldAvgTicketLast7d  = "avgTicketLast7d"
)

// PredictRequest is the input DTO for the PredictTransaction use case. Its
// JSON form is the remote wire schema.
type PredictRequest struct {
	Timestamp        string `json:"timestamp"`
	PayerID          string `json:"payer_id"`
	PayeeID          string `json:"payee_id"`
	DeviceID         string `json:"device_id"`
	Amount           Number `json:"amount"`
	GeoLat           Number `json:"geo_lat"`
	GeoLon           Number `json:"geo_lon"`
	TxnCountLastHour Number `json:"txnCountLastHour"`
	AvgTicketLast7d  Number `json:"avgTicketLast7d"`
}

// ToModel validates the request and builds the domain TransactionRequest.
//
// The amount must be present, numeric, positive and within float64 range.
// Other numeric fields default to 0 when absent, malformed or out of range;
// geo coordinates become absent.
func (r PredictRequest) ToModel() (*model.TransactionRequest, error) {
	if !r.Amount.Present() {
		return nil, &model.ValidationError{Field: FieldAmount, Reason: "is required"}
	}
	if r.Amount.OutOfRange() {
		return nil, &model.ValidationError{Field: FieldAmount, Reason: "is out of range"}
	}
	if !r.Amount.Valid() {
		return nil, &model.ValidationError{Field: FieldAmount, Reason: "must be numeric"}
	}

	return model.NewTransactionRequest(model.TransactionParams{
		Amount:           r.Amount.Decimal(),
		Timestamp:        r.Timestamp,
		PayerID:          r.PayerID,
		PayeeID:          r.PayeeID,
		DeviceID:         r.DeviceID,
		GeoLat:           r.GeoLat.Float64Ptr(),
		GeoLon:           r.GeoLon.Float64Ptr(),
		TxnCountLastHour: r.TxnCountLastHour.Float64OrZero(),
		AvgTicketLast7d:  r.AvgTicketLast7d.Float64OrZero(),
	})
}

// ParseForm builds a PredictRequest from a raw field map as supplied by a
// form-collection component. Payer, payee and device identifiers must be
// non-empty; numeric fields are parsed leniently and validated by ToModel.
func ParseForm(fields map[string]string) (PredictRequest, error) {
	for _, key := range []string{FieldPayerID, FieldPayeeID, FieldDeviceID} {
		if strings.TrimSpace(fields[key]) == "" {
			return PredictRequest{}, &model.ValidationError{Field: key, Reason: "is required"}
		}
	}

	return PredictRequest{
		Amount:           ParseNumber(fields[FieldAmount]),
		Timestamp:        strings.TrimSpace(fields[FieldTimestamp]),
		PayerID:          strings.TrimSpace(fields[FieldPayerID]),
		PayeeID:          strings.TrimSpace(fields[FieldPayeeID]),
		DeviceID:         strings.TrimSpace(fields[FieldDeviceID]),
		GeoLat:           ParseNumber(fields[FieldGeoLat]),
		GeoLon:           ParseNumber(fields[FieldGeoLon]),
		TxnCountLastHour: ParseNumber(fields[FieldTxnCountLastHour]),
		AvgTicketLast7d:  ParseNumber(fields[FieldAvgTicketLast7d]),
	}, nil
}

// FeatureResponse is one ranked contribution in a PredictionResponse.
type FeatureResponse struct {
	Value  any     `json:"value"`
	Name   string  `json:"name"`
	Label  string  `json:"label,omitempty"`
	Weight float64 `json:"weight"`
}

// PredictionResponse is the output DTO of a prediction.
type PredictionResponse struct {
	Label       string            `json:"label"`
	Explanation string            `json:"explanation,omitempty"`
	TopFeatures []FeatureResponse `json:"top_features"`
	Score       float64           `json:"score"`
	Strategy    string            `json:"-"`
}

// FromModel maps a domain result to the response DTO.
func FromModel(result *model.PredictionResult, strategy string) PredictionResponse {
	features := make([]FeatureResponse, 0, len(result.TopFeatures))
	for _, f := range result.TopFeatures {
		features = append(features, FeatureResponse{
			Name:   f.Name,
			Value:  f.Value,
			Label:  f.Label,
			Weight: f.Weight,
		})
	}

	return PredictionResponse{
		Label:       result.Label.String(),
		Score:       result.Score,
		TopFeatures: features,
		Explanation: result.Explanation,
		Strategy:    strategy,
	}
}
