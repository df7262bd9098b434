package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chargenet/internal/resolve"
)

// serverIdentity is sent on every resolution-failure response.
const serverIdentity = "chargenet HTTP API"

// failureBody is the wire form of a resolution failure.
type failureBody struct {
	Description string `json:"description"`
}

// WriteFailure renders a resolution failure. The mapping is fixed and
// identical for every pipeline:
//
//	TooFewSegments    -> 400, empty body
//	InvalidIdentifier -> 400, {"description":"Invalid <Kind>Id!"}
//	EntityNotFound    -> 404, {"description":"Unknown <Kind>Id!"}
//
// Failure responses always close the connection.
func WriteFailure(w http.ResponseWriter, f *resolve.Failure) {
	h := w.Header()
	h.Set("Server", serverIdentity)
	h.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	h.Set("Connection", "close")

	switch f.Kind {
	case resolve.InvalidIdentifier:
		writeFailureBody(w, http.StatusBadRequest, fmt.Sprintf("Invalid %sId!", f.EntityKind))
	case resolve.EntityNotFound:
		writeFailureBody(w, http.StatusNotFound, fmt.Sprintf("Unknown %sId!", f.EntityKind))
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func writeFailureBody(w http.ResponseWriter, status int, description string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failureBody{Description: description})
}
