package httptransport

import (
	"net/http"

	"chargenet/internal/inventory/models"
	"chargenet/internal/inventory/service"
	"chargenet/internal/resolve"
	"chargenet/pkg/platform/httputil"
	"chargenet/pkg/requestcontext"
)

// evseScope resolves the full EVSE pipeline for an operation endpoint.
func (h *Handler) evseScope(w http.ResponseWriter, r *http.Request) (*models.RoamingNetwork, *models.EVSE, bool) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkPoolStationEVSE(),
		"roamingNetworkID", "chargingPoolID", "chargingStationID", "evseID")
	if !ok {
		return nil, nil, false
	}
	net, _ := resolve.At[*models.RoamingNetwork](chain, 0)
	evse, _ := resolve.Last[*models.EVSE](chain)
	return net, evse, true
}

func (h *Handler) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	net, evse, ok := h.evseScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[service.AuthStartRequest](w, r)
	if !ok {
		return
	}

	session, err := h.service.AuthStart(r.Context(), net, evse, *req)
	if err != nil {
		h.writeOperationError(w, r, "auth start", evse, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleAuthStop(w http.ResponseWriter, r *http.Request) {
	net, evse, ok := h.evseScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[service.AuthStopRequest](w, r)
	if !ok {
		return
	}

	session, err := h.service.AuthStop(r.Context(), net, evse, *req)
	if err != nil {
		h.writeOperationError(w, r, "auth stop", evse, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleRemoteStart(w http.ResponseWriter, r *http.Request) {
	net, evse, ok := h.evseScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[service.RemoteStartRequest](w, r)
	if !ok {
		return
	}

	session, err := h.service.RemoteStart(r.Context(), net, evse, *req)
	if err != nil {
		h.writeOperationError(w, r, "remote start", evse, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleRemoteStop(w http.ResponseWriter, r *http.Request) {
	net, evse, ok := h.evseScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[service.RemoteStopRequest](w, r)
	if !ok {
		return
	}

	session, err := h.service.RemoteStop(r.Context(), net, evse, *req)
	if err != nil {
		h.writeOperationError(w, r, "remote stop", evse, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	net, evse, ok := h.evseScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[service.ReserveRequest](w, r)
	if !ok {
		return
	}

	res, err := h.service.Reserve(r.Context(), net, evse, *req)
	if err != nil {
		h.writeOperationError(w, r, "reserve", evse, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleSubmitCDR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkSession(), "roamingNetworkID", "chargingSessionID")
	if !ok {
		return
	}
	net, _ := resolve.At[*models.RoamingNetwork](chain, 0)
	session, _ := resolve.Last[*models.ChargingSession](chain)

	req, ok := httputil.DecodeJSON[service.CDRRequest](w, r)
	if !ok {
		return
	}

	closed, err := h.service.SubmitCDR(ctx, net, session, *req)
	if err != nil {
		h.logger.ErrorContext(ctx, "cdr submission failed",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", session.ID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, closed)
}

func (h *Handler) writeOperationError(w http.ResponseWriter, r *http.Request, op string, evse *models.EVSE, err error) {
	ctx := r.Context()
	h.logger.ErrorContext(ctx, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"evse_id", evse.ID.String(),
		"error", err,
	)
	httputil.WriteError(w, err)
}
