// Package httputil centralizes JSON encoding and domain error translation
// for HTTP handlers so every endpoint emits the same envelopes.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "chargenet/pkg/domain-errors"
)

// statusByCode maps domain error codes to HTTP status codes.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeInvalidInput:       http.StatusBadRequest,
	dErrors.CodeBadRequest:         http.StatusBadRequest,
	dErrors.CodeValidation:         http.StatusUnprocessableEntity,
	dErrors.CodeNotFound:           http.StatusNotFound,
	dErrors.CodeConflict:           http.StatusConflict,
	dErrors.CodeInvariantViolation: http.StatusConflict,
	dErrors.CodeTimeout:            http.StatusGatewayTimeout,
	dErrors.CodeInternal:           http.StatusInternalServerError,
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope. Internal
// errors deliberately omit the description so server details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		if msg := dErrors.MessageOf(err); msg != "" {
			body["error_description"] = msg
		}
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// On failure it writes a bad request envelope and returns false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var dst T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON request body"))
		return nil, false
	}
	return &dst, true
}
