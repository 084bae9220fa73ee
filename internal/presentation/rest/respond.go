package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bibbank/upi-risk/internal/domain/model"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Status int    `json:"status,omitempty"`
}

// internalErrorBody is written when a response value cannot be encoded.
var internalErrorBody = []byte(`{"error":"internal error"}` + "\n")

// respondJSON encodes v before writing the header so that an encoding failure
// surfaces as a 500 instead of a committed status with an empty body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(internalErrorBody)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// respondError maps a prediction error to an HTTP status by kind. Remote
// errors carry the upstream status in the body.
func respondError(w http.ResponseWriter, err error) {
	kind := model.ErrorKind(err)
	resp := ErrorResponse{Error: err.Error(), Kind: kind}

	status := http.StatusInternalServerError
	switch kind {
	case model.KindValidation:
		status = http.StatusBadRequest
	case model.KindTransport, model.KindDecode:
		status = http.StatusBadGateway
	case model.KindRemote:
		status = http.StatusBadGateway
		var remoteErr *model.RemoteError
		if errors.As(err, &remoteErr) {
			resp.Status = remoteErr.StatusCode
		}
	default:
		resp.Error = "internal error"
	}

	respondJSON(w, status, resp)
}
