package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/upi-risk/internal/application/dto"
	"github.com/bibbank/upi-risk/internal/application/usecase"
	"github.com/bibbank/upi-risk/internal/auth"
	"github.com/bibbank/upi-risk/internal/domain/model"
	"github.com/bibbank/upi-risk/internal/domain/service"
	"github.com/bibbank/upi-risk/internal/infrastructure/remote"
	"github.com/bibbank/upi-risk/internal/presentation/middleware"
	"github.com/bibbank/upi-risk/internal/presentation/rest"
)

type mockService struct {
	executeFunc func(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error)
}

func (m *mockService) Execute(ctx context.Context, req dto.PredictRequest) (dto.PredictionResponse, error) {
	return m.executeFunc(ctx, req)
}

func (m *mockService) Strategy() string { return "mock" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func localRouter(t *testing.T, mutate func(*rest.RouterConfig)) http.Handler {
	t.Helper()
	cfg := rest.RouterConfig{
		Service: usecase.NewPredictTransaction(service.NewDefaultLocalPredictor(), usecase.WithLogger(discardLogger())),
		Logger:  discardLogger(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return rest.NewRouter(cfg)
}

func post(h http.Handler, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPredict_HighRiskScenario(t *testing.T) {
	rec := post(localRouter(t, nil), `{
		"amount": 13000,
		"timestamp": "02:00 local",
		"payer_id": "alice@upi",
		"payee_id": "shop@upi",
		"device_id": "dev-1",
		"txnCountLastHour": "6"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "local", rec.Header().Get("X-Risk-Strategy"))

	var resp dto.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FRAUD", resp.Label)
	assert.Equal(t, 1.0, resp.Score)
	require.Len(t, resp.TopFeatures, 3)
	assert.Equal(t, "amount", resp.TopFeatures[0].Name)
}

func TestPredict_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"amount":`},
		{name: "missing amount", body: `{"timestamp":"12:00"}`},
		{name: "non-numeric amount", body: `{"amount":"lots"}`},
		{name: "zero amount", body: `{"amount":0}`},
		{name: "negative amount", body: `{"amount":-3}`},
		{name: "amount overflows float64", body: `{"amount":1e309,"timestamp":"12:00"}`},
		{name: "amount with huge exponent", body: `{"amount":"1e999999"}`},
		{name: "amount with huge literal exponent", body: `{"amount":1e5000000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(localRouter(t, nil), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp rest.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, model.KindValidation, resp.Kind)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestPredict_OutOfRangeOptionalFieldDefaults(t *testing.T) {
	rec := post(localRouter(t, nil), `{"amount":1500,"timestamp":"12:00","txnCountLastHour":1e400}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "LEGIT", resp.Label)
	for _, f := range resp.TopFeatures {
		if f.Name == service.FeatureTxnCountLastHour {
			assert.Equal(t, 0.0, f.Value)
		}
	}
}

func TestPredict_UnencodableResultIsInternalError(t *testing.T) {
	router := rest.NewRouter(rest.RouterConfig{
		Service: &mockService{executeFunc: func(context.Context, dto.PredictRequest) (dto.PredictionResponse, error) {
			return dto.PredictionResponse{
				Label:       "FRAUD",
				Score:       1,
				TopFeatures: []dto.FeatureResponse{{Name: "amount", Value: math.Inf(1)}},
			}, nil
		}},
		Logger: discardLogger(),
	})

	rec := post(router, `{"amount": 10}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestPredict_StrategyErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantUpstr  int
	}{
		{name: "transport", err: &model.TransportError{Endpoint: "http://x/predict", Err: errors.New("refused")}, wantStatus: http.StatusBadGateway, wantKind: model.KindTransport},
		{name: "remote", err: &model.RemoteError{StatusCode: 500, Body: "boom"}, wantStatus: http.StatusBadGateway, wantKind: model.KindRemote, wantUpstr: 500},
		{name: "decode", err: &model.DecodeError{Err: errors.New("missing label")}, wantStatus: http.StatusBadGateway, wantKind: model.KindDecode},
		{name: "unknown", err: errors.New("kaboom"), wantStatus: http.StatusInternalServerError, wantKind: model.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := rest.NewRouter(rest.RouterConfig{
				Service: &mockService{executeFunc: func(context.Context, dto.PredictRequest) (dto.PredictionResponse, error) {
					return dto.PredictionResponse{}, tt.err
				}},
				Logger: discardLogger(),
			})

			rec := post(router, `{"amount": 10}`)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp rest.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Equal(t, tt.wantUpstr, resp.Status)
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := localRouter(t, func(cfg *rest.RouterConfig) {
		cfg.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("risk_predictions_total 0\n"))
		})
	})

	for path, want := range map[string]string{
		"/healthz": `"status":"healthy"`,
		"/readyz":  `"strategy":"local"`,
		"/metrics": "risk_predictions_total",
	} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), want)
		})
	}
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	localRouter(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/predict", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPredict_RequiresTokenWhenConfigured(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "s", Issuer: "bib-auth", Expiration: time.Minute})
	require.NoError(t, err)
	token, err := jwtSvc.GenerateToken("checkout", []string{auth.RoleRiskClient})
	require.NoError(t, err)

	router := localRouter(t, func(cfg *rest.RouterConfig) { cfg.JWTService = jwtSvc })

	assert.Equal(t, http.StatusUnauthorized, post(router, `{"amount": 10}`).Code)
	assert.Equal(t, http.StatusOK, post(router, `{"amount": 10}`, "Authorization", "Bearer "+token).Code)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredict_RateLimited(t *testing.T) {
	router := localRouter(t, func(cfg *rest.RouterConfig) { cfg.RateLimiter = middleware.NewRateLimiter(1) })

	assert.Equal(t, http.StatusOK, post(router, `{"amount": 10}`).Code)

	rec := post(router, `{"amount": 10}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"strategy":"local"`)
}

// A remote client pointed at riskd itself must reproduce the local result.
func TestPredict_ServesAsRemoteEndpoint(t *testing.T) {
	server := httptest.NewServer(localRouter(t, nil))
	defer server.Close()

	req, err := model.NewTransactionRequest(model.TransactionParams{
		Amount:           decimal.NewFromInt(1500),
		Timestamp:        "12:00 local",
		PayerID:          "alice@upi",
		PayeeID:          "shop@upi",
		DeviceID:         "dev-1",
		TxnCountLastHour: 1,
	})
	require.NoError(t, err)

	local, err := service.NewDefaultLocalPredictor().Predict(context.Background(), req)
	require.NoError(t, err)
	viaHTTP, err := remote.NewClient(server.URL).Predict(context.Background(), req)
	require.NoError(t, err)

	localJSON, err := json.Marshal(local)
	require.NoError(t, err)
	remoteJSON, err := json.Marshal(viaHTTP)
	require.NoError(t, err)
	assert.JSONEq(t, string(localJSON), string(remoteJSON))
}
