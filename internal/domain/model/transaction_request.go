package model

import (
	"github.com/shopspring/decimal"
)

// TransactionParams carries the raw inputs for NewTransactionRequest.
type TransactionParams struct {
	GeoLat           *float64
	GeoLon           *float64
	Amount           decimal.Decimal
	Timestamp        string
	PayerID          string
	PayeeID          string
	DeviceID         string
	TxnCountLastHour float64
	AvgTicketLast7d  float64
}

// TransactionRequest describes a single payment transaction submitted for
// risk assessment. It is immutable once constructed.
type TransactionRequest struct {
	geoLat           *float64
	geoLon           *float64
	amount           decimal.Decimal
	timestamp        string
	payerID          string
	payeeID          string
	deviceID         string
	txnCountLastHour float64
	avgTicketLast7d  float64
}

// NewTransactionRequest validates params and builds a TransactionRequest.
// The amount must be strictly positive and within float64 range, and every
// numeric field must be finite. String fields are accepted as-is.
func NewTransactionRequest(params TransactionParams) (*TransactionRequest, error) {
	if !params.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	if _, ok := DecimalFloat64(params.Amount); !ok {
		return nil, &ValidationError{Field: "amount", Reason: "is out of range"}
	}

	finite := []struct {
		field string
		value *float64
	}{
		{"txnCountLastHour", &params.TxnCountLastHour},
		{"avgTicketLast7d", &params.AvgTicketLast7d},
		{"geo_lat", params.GeoLat},
		{"geo_lon", params.GeoLon},
	}
	for _, f := range finite {
		if f.value != nil && !IsFinite(*f.value) {
			return nil, &ValidationError{Field: f.field, Reason: "must be a finite number"}
		}
	}

	return &TransactionRequest{
		amount:           params.Amount,
		timestamp:        params.Timestamp,
		payerID:          params.PayerID,
		payeeID:          params.PayeeID,
		deviceID:         params.DeviceID,
		geoLat:           copyFloat(params.GeoLat),
		geoLon:           copyFloat(params.GeoLon),
		txnCountLastHour: params.TxnCountLastHour,
		avgTicketLast7d:  params.AvgTicketLast7d,
	}, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// --- Accessors ---

func (r *TransactionRequest) Amount() decimal.Decimal   { return r.amount }
func (r *TransactionRequest) Timestamp() string         { return r.timestamp }
func (r *TransactionRequest) PayerID() string           { return r.payerID }
func (r *TransactionRequest) PayeeID() string           { return r.payeeID }
func (r *TransactionRequest) DeviceID() string          { return r.deviceID }
func (r *TransactionRequest) TxnCountLastHour() float64 { return r.txnCountLastHour }
func (r *TransactionRequest) AvgTicketLast7d() float64  { return r.avgTicketLast7d }

// GeoLat returns the latitude and whether one was supplied.
func (r *TransactionRequest) GeoLat() (float64, bool) {
	if r.geoLat == nil {
		return 0, false
	}
	return *r.geoLat, true
}

// GeoLon returns the longitude and whether one was supplied.
func (r *TransactionRequest) GeoLon() (float64, bool) {
	if r.geoLon == nil {
		return 0, false
	}
	return *r.geoLon, true
}
