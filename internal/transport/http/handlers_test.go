package httptransport

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargenet/internal/inventory/models"
	"chargenet/internal/inventory/service"
	"chargenet/internal/inventory/store"
)

func newTestRouter(t *testing.T) (http.Handler, *store.InMemory) {
	t.Helper()
	s := store.NewInMemory()
	store.SeedDemoNetwork(s)

	svc := service.New(s, nil, service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	h := New(s, svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewRouter(h, nil, nil), s
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReadEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("network list", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/rns", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var nets []models.RoamingNetwork
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nets))
		require.Len(t, nets, 1)
		assert.Equal(t, "DE*GEF", nets[0].ID.String())
	})

	t.Run("full EVSE path", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/rns/DE*GEF/chargingPools/DE*GEF*P0001/chargingStations/DE*GEF*S0001/EVSEs/DE*GEF*E0001*1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var evse models.EVSE
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evse))
		assert.Equal(t, "DE*GEF*E0001*1", evse.ID.String())
		assert.Equal(t, models.EVSEStatusAvailable, evse.Status)
	})

	t.Run("EVSE status snapshot", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/rns/DE*GEF/EVSEStatus", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []service.EVSEStatusEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
		require.Len(t, entries, 2)
	})

	t.Run("provider auth tokens never serialized", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/rns/DE*GEF/eMobilityProviders/DE*GMF", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "04E5F2A1B3C4D5")
	})
}

// Every route maps a malformed segment to "Invalid <Kind>Id!" and an unknown
// one to "Unknown <Kind>Id!", with the kind determined solely by the failing
// stage. The table covers each pipeline the router mounts.
func TestFailureResponses_UniformAcrossRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		kind       string
		invalidURL string
		unknownURL string
	}{
		{
			kind:       "RoamingNetwork",
			invalidURL: "/rns/!!bad!!",
			unknownURL: "/rns/XX*YYY",
		},
		{
			kind:       "ChargingPool",
			invalidURL: "/rns/DE*GEF/chargingPools/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingPools/UNKNOWNPOOL",
		},
		{
			kind:       "ChargingStation",
			invalidURL: "/rns/DE*GEF/chargingPools/DE*GEF*P0001/chargingStations/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingPools/DE*GEF*P0001/chargingStations/NOPE",
		},
		{
			kind:       "EVSE",
			invalidURL: "/rns/DE*GEF/chargingPools/DE*GEF*P0001/chargingStations/DE*GEF*S0001/EVSEs/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingPools/DE*GEF*P0001/chargingStations/DE*GEF*S0001/EVSEs/NOPE",
		},
		{
			kind:       "ChargingStationOperator",
			invalidURL: "/rns/DE*GEF/chargingStationOperators/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingStationOperators/NOPE",
		},
		{
			kind:       "Brand",
			invalidURL: "/rns/DE*GEF/chargingStationOperators/DE*GEF*O001/brands/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingStationOperators/DE*GEF*O001/brands/NOPE",
		},
		{
			kind:       "ChargingGroup",
			invalidURL: "/rns/DE*GEF/chargingStationOperators/DE*GEF*O001/chargingGroups/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingStationOperators/DE*GEF*O001/chargingGroups/NOPE",
		},
		{
			kind:       "ChargingSession",
			invalidURL: "/rns/DE*GEF/chargingSessions/!!bad!!",
			unknownURL: "/rns/DE*GEF/chargingSessions/NOPE",
		},
		{
			kind:       "Reservation",
			invalidURL: "/rns/DE*GEF/reservations/!!bad!!",
			unknownURL: "/rns/DE*GEF/reservations/NOPE",
		},
		{
			kind:       "EMobilityProvider",
			invalidURL: "/rns/DE*GEF/eMobilityProviders/!!bad!!",
			unknownURL: "/rns/DE*GEF/eMobilityProviders/NOPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind+" invalid", func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.invalidURL, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"description":"Invalid %sId!"}`, tt.kind), rec.Body.String())
			assert.Equal(t, "close", rec.Header().Get("Connection"))
		})

		t.Run(tt.kind+" unknown", func(t *testing.T) {
			rec := do(t, router, http.MethodGet, tt.unknownURL, "")

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"description":"Unknown %sId!"}`, tt.kind), rec.Body.String())
			assert.Equal(t, "close", rec.Header().Get("Connection"))
		})
	}
}

func TestFailureResponses_FailFastOnFirstStage(t *testing.T) {
	router, _ := newTestRouter(t)

	// The deeper segments are garbage too, but resolution stops at the
	// unknown network.
	rec := do(t, router, http.MethodGet, "/rns/XX*YYY/chargingPools/!!bad!!", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"description":"Unknown RoamingNetworkId!"}`, rec.Body.String())
}

const evseBase = "/rns/DE*GEF/chargingPools/DE*GEF*P0001/chargingStations/DE*GEF*S0001/EVSEs/DE*GEF*E0001*1"

func TestOperationEndpoints(t *testing.T) {
	t.Run("auth start and stop round trip", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodPost, evseBase+"/authStart",
			`{"provider_id":"DE*GMF","auth_token":"04E5F2A1B3C4D5"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var session models.ChargingSession
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
		assert.Equal(t, models.SessionStateRunning, session.State)

		rec = do(t, router, http.MethodPost, evseBase+"/authStop",
			fmt.Sprintf(`{"session_id":%q,"auth_token":"04E5F2A1B3C4D5"}`, session.ID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var stopped models.ChargingSession
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stopped))
		assert.Equal(t, models.SessionStateStopped, stopped.State)
	})

	t.Run("auth start with unregistered token", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodPost, evseBase+"/authStart",
			`{"provider_id":"DE*GMF","auth_token":"FFFF"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "auth token not recognized")
	})

	t.Run("remote lifecycle with cdr", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodPost, evseBase+"/remoteStart", `{"provider_id":"DE*GMF"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var session models.ChargingSession
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

		rec = do(t, router, http.MethodPost, evseBase+"/remoteStop",
			fmt.Sprintf(`{"session_id":%q}`, session.ID))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, router, http.MethodPost,
			fmt.Sprintf("/rns/DE*GEF/chargingSessions/%s/cdr", session.ID),
			`{"energy_wh":12400,"start":"2026-08-30T10:00:00Z","end":"2026-08-30T11:00:00Z"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var closed models.ChargingSession
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &closed))
		assert.Equal(t, models.SessionStateClosed, closed.State)
		require.NotNil(t, closed.CDR)
		assert.Equal(t, 12400.0, closed.CDR.EnergyWh)
	})

	t.Run("cdr for unknown session renders resolution failure", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodPost, "/rns/DE*GEF/chargingSessions/NOPE/cdr", `{"energy_wh":1}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"description":"Unknown ChargingSessionId!"}`, rec.Body.String())
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodPost, evseBase+"/remoteStart", `{"provider_id":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "bad_request")
	})

	t.Run("reserve marks the EVSE", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodPost, evseBase+"/reserve", `{"provider_id":"DE*GMF"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = do(t, router, http.MethodGet, evseBase, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var evse models.EVSE
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &evse))
		assert.Equal(t, models.EVSEStatusReserved, evse.Status)
	})
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
