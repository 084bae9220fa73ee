package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bibbank/upi-risk/internal/domain/model"
	"github.com/bibbank/upi-risk/internal/domain/service"
	"github.com/bibbank/upi-risk/internal/domain/valueobject"
)

// StrategyRemote names the HTTP scoring strategy.
const StrategyRemote = "remote"

// maxErrorBody caps the response body kept on a RemoteError.
const maxErrorBody = 4 << 10

// Compile-time interface check.
var _ service.Predictor = (*Client)(nil)

// Client implements service.Predictor by delegating to a remote scoring
// service over HTTP/JSON. It performs a single attempt per call.
type Client struct {
	client    *http.Client
	ranker    *service.Ranker
	baseURL   string
	authToken string
	clamp     bool
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithAuthToken sends token as a bearer Authorization header.
func WithAuthToken(token string) Option {
	return func(c *Client) { c.authToken = token }
}

// WithClampScore clamps remote scores to [0, 1] and re-derives the label.
func WithClampScore(enabled bool) Option {
	return func(c *Client) { c.clamp = enabled }
}

// WithRanker overrides the ranker applied to remote top features.
func WithRanker(r *service.Ranker) Option {
	return func(c *Client) { c.ranker = r }
}

// NewClient creates a remote scoring client for endpoint. Requests are sent
// to {endpoint}/predict.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		client:  &http.Client{},
		ranker:  service.NewRanker(service.MaxTopFeatures),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the strategy name.
func (c *Client) Name() string {
	return StrategyRemote
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string {
	return c.baseURL
}

// predictRequest is the wire body sent to the scoring service.
type predictRequest struct {
	GeoLat           *float64    `json:"geo_lat"`
	GeoLon           *float64    `json:"geo_lon"`
	Amount           json.Number `json:"amount"`
	Timestamp        string      `json:"timestamp"`
	PayerID          string      `json:"payer_id"`
	PayeeID          string      `json:"payee_id"`
	DeviceID         string      `json:"device_id"`
	TxnCountLastHour float64     `json:"txnCountLastHour"`
	AvgTicketLast7d  float64     `json:"avgTicketLast7d"`
}

// predictResponse is the scoring service's PredictionResult body. Pointer
// fields distinguish absent values from zero values.
type predictResponse struct {
	Label       *string           `json:"label"`
	Score       *float64          `json:"score"`
	Explanation string            `json:"explanation"`
	TopFeatures []featureResponse `json:"top_features"`
}

type featureResponse struct {
	Value  any     `json:"value"`
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

func newPredictRequest(req *model.TransactionRequest) predictRequest {
	body := predictRequest{
		Amount:           json.Number(req.Amount().String()),
		Timestamp:        req.Timestamp(),
		PayerID:          req.PayerID(),
		PayeeID:          req.PayeeID(),
		DeviceID:         req.DeviceID(),
		TxnCountLastHour: req.TxnCountLastHour(),
		AvgTicketLast7d:  req.AvgTicketLast7d(),
	}
	if lat, ok := req.GeoLat(); ok {
		body.GeoLat = &lat
	}
	if lon, ok := req.GeoLon(); ok {
		body.GeoLon = &lon
	}
	return body
}

// Predict posts req to the scoring service and decodes its PredictionResult.
func (c *Client) Predict(ctx context.Context, req *model.TransactionRequest) (*model.PredictionResult, error) {
	url := c.baseURL + "/predict"

	payload, err := json.Marshal(newPredictRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &model.TransportError{Endpoint: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &model.TransportError{Endpoint: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransportError{Endpoint: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.RemoteError{StatusCode: resp.StatusCode, Body: truncate(body, maxErrorBody)}
	}

	return c.decode(body)
}

func (c *Client) decode(body []byte) (*model.PredictionResult, error) {
	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &model.DecodeError{Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if parsed.Label == nil {
		return nil, &model.DecodeError{Err: errors.New("missing label")}
	}
	if parsed.Score == nil {
		return nil, &model.DecodeError{Err: errors.New("missing score")}
	}

	label, err := valueobject.LabelFromString(*parsed.Label)
	if err != nil {
		return nil, &model.DecodeError{Err: err}
	}

	score := *parsed.Score
	if c.clamp {
		score = model.Clamp(score, 0, 1)
		label = valueobject.LabelFromScore(score)
	}

	features := make([]model.FeatureContribution, 0, len(parsed.TopFeatures))
	for _, f := range parsed.TopFeatures {
		features = append(features, model.FeatureContribution{
			Name:   f.Name,
			Value:  f.Value,
			Weight: f.Weight,
			Label:  f.Label,
		})
	}

	return &model.PredictionResult{
		Label:       label,
		Score:       score,
		TopFeatures: c.ranker.Rank(features),
		Explanation: parsed.Explanation,
	}, nil
}

func truncate(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
