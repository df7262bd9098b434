package httptransport

import (
	"net/http"

	"chargenet/internal/inventory/models"
	"chargenet/internal/resolve"
	"chargenet/pkg/platform/httputil"
	"chargenet/pkg/requestcontext"
)

func (h *Handler) handleListNetworks(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.dir.Networks(r.Context()))
}

func (h *Handler) handleGetNetwork(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)
	httputil.WriteJSON(w, http.StatusOK, net)
}

func (h *Handler) handleListPools(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)
	httputil.WriteJSON(w, http.StatusOK, h.dir.Pools(r.Context(), net))
}

func (h *Handler) handleGetPool(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkPool(), "roamingNetworkID", "chargingPoolID")
	if !ok {
		return
	}
	pool, _ := resolve.Last[*models.ChargingPool](chain)
	httputil.WriteJSON(w, http.StatusOK, pool)
}

func (h *Handler) handleGetStation(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkPoolStation(),
		"roamingNetworkID", "chargingPoolID", "chargingStationID")
	if !ok {
		return
	}
	station, _ := resolve.Last[*models.ChargingStation](chain)
	httputil.WriteJSON(w, http.StatusOK, station)
}

func (h *Handler) handleGetEVSE(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkPoolStationEVSE(),
		"roamingNetworkID", "chargingPoolID", "chargingStationID", "evseID")
	if !ok {
		return
	}
	evse, _ := resolve.Last[*models.EVSE](chain)
	httputil.WriteJSON(w, http.StatusOK, evse)
}

func (h *Handler) handleListOperators(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)
	httputil.WriteJSON(w, http.StatusOK, h.dir.Operators(r.Context(), net))
}

func (h *Handler) handleGetOperator(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkOperator(), "roamingNetworkID", "operatorID")
	if !ok {
		return
	}
	op, _ := resolve.Last[*models.Operator](chain)
	httputil.WriteJSON(w, http.StatusOK, op)
}

func (h *Handler) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkOperatorBrand(),
		"roamingNetworkID", "operatorID", "brandID")
	if !ok {
		return
	}
	brand, _ := resolve.Last[*models.Brand](chain)
	httputil.WriteJSON(w, http.StatusOK, brand)
}

func (h *Handler) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkOperatorGroup(),
		"roamingNetworkID", "operatorID", "chargingGroupID")
	if !ok {
		return
	}
	group, _ := resolve.Last[*models.ChargingGroup](chain)
	httputil.WriteJSON(w, http.StatusOK, group)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)
	httputil.WriteJSON(w, http.StatusOK, h.dir.Sessions(r.Context(), net))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkSession(), "roamingNetworkID", "chargingSessionID")
	if !ok {
		return
	}
	session, _ := resolve.Last[*models.ChargingSession](chain)
	httputil.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleListReservations(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)
	httputil.WriteJSON(w, http.StatusOK, h.dir.Reservations(r.Context(), net))
}

func (h *Handler) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkReservation(), "roamingNetworkID", "reservationID")
	if !ok {
		return
	}
	res, _ := resolve.Last[*models.Reservation](chain)
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleListProviders(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)
	httputil.WriteJSON(w, http.StatusOK, h.dir.Providers(r.Context(), net))
}

func (h *Handler) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	chain, ok := h.resolveChain(w, r, h.pipelines.NetworkProvider(), "roamingNetworkID", "providerID")
	if !ok {
		return
	}
	prov, _ := resolve.Last[*models.Provider](chain)
	httputil.WriteJSON(w, http.StatusOK, prov)
}

func (h *Handler) handleEVSEStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chain, ok := h.resolveChain(w, r, h.pipelines.Network(), "roamingNetworkID")
	if !ok {
		return
	}
	net, _ := resolve.Last[*models.RoamingNetwork](chain)

	entries, err := h.service.EVSEStatusSnapshot(ctx, net)
	if err != nil {
		h.logger.ErrorContext(ctx, "EVSE status snapshot failed",
			"request_id", requestcontext.RequestID(ctx),
			"network_id", net.ID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}
