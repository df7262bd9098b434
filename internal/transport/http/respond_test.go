package httptransport

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargenet/internal/resolve"
)

func TestWriteFailure(t *testing.T) {
	tests := []struct {
		name       string
		failure    *resolve.Failure
		wantStatus int
		wantBody   string
	}{
		{
			name:       "too few segments has no body",
			failure:    &resolve.Failure{Kind: resolve.TooFewSegments, EntityKind: "RoamingNetwork"},
			wantStatus: 400,
			wantBody:   "",
		},
		{
			name:       "invalid identifier names the kind",
			failure:    &resolve.Failure{Stage: 1, Kind: resolve.InvalidIdentifier, EntityKind: "ChargingPool"},
			wantStatus: 400,
			wantBody:   `{"description":"Invalid ChargingPoolId!"}` + "\n",
		},
		{
			name:       "unknown entity names the kind",
			failure:    &resolve.Failure{Stage: 1, Kind: resolve.EntityNotFound, EntityKind: "ChargingPool"},
			wantStatus: 404,
			wantBody:   `{"description":"Unknown ChargingPoolId!"}` + "\n",
		},
		{
			name:       "unknown EVSE",
			failure:    &resolve.Failure{Stage: 3, Kind: resolve.EntityNotFound, EntityKind: "EVSE"},
			wantStatus: 404,
			wantBody:   `{"description":"Unknown EVSEId!"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteFailure(rec, tt.failure)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())

			assert.Equal(t, serverIdentity, rec.Header().Get("Server"))
			assert.NotEmpty(t, rec.Header().Get("Date"))
			assert.Equal(t, "close", rec.Header().Get("Connection"))
			if tt.wantBody != "" {
				assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestWriteFailure_HeadersAlwaysPresent(t *testing.T) {
	for _, kind := range []resolve.FailureKind{resolve.TooFewSegments, resolve.InvalidIdentifier, resolve.EntityNotFound} {
		rec := httptest.NewRecorder()
		WriteFailure(rec, &resolve.Failure{Kind: kind, EntityKind: "Brand"})

		require.Equal(t, "close", rec.Header().Get("Connection"), "kind %s", kind)
		require.NotEmpty(t, rec.Header().Get("Date"), "kind %s", kind)
		require.Equal(t, serverIdentity, rec.Header().Get("Server"), "kind %s", kind)
	}
}
