// Package httptransport is the thin HTTP layer: each route resolves its
// entity pipeline, then either renders the resolved entity or delegates to
// the charging service. No business logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chargenet/internal/inventory"
	"chargenet/internal/inventory/models"
	"chargenet/internal/inventory/service"
	"chargenet/internal/resolve"
)

// ChargingService defines the operations the transport delegates to.
type ChargingService interface {
	AuthStart(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req service.AuthStartRequest) (*models.ChargingSession, error)
	AuthStop(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req service.AuthStopRequest) (*models.ChargingSession, error)
	RemoteStart(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req service.RemoteStartRequest) (*models.ChargingSession, error)
	RemoteStop(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req service.RemoteStopRequest) (*models.ChargingSession, error)
	SubmitCDR(ctx context.Context, net *models.RoamingNetwork, session *models.ChargingSession, req service.CDRRequest) (*models.ChargingSession, error)
	Reserve(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req service.ReserveRequest) (*models.Reservation, error)
	EVSEStatusSnapshot(ctx context.Context, net *models.RoamingNetwork) ([]service.EVSEStatusEntry, error)
}

// Handler wires the roaming network API onto the router.
type Handler struct {
	dir       inventory.Directory
	pipelines *resolve.Pipelines
	service   ChargingService
	logger    *slog.Logger
}

// New constructs the API handler.
func New(dir inventory.Directory, svc ChargingService, logger *slog.Logger) *Handler {
	return &Handler{
		dir:       dir,
		pipelines: resolve.NewPipelines(dir),
		service:   svc,
		logger:    logger,
	}
}

// segments collects the named chi URL params, in pipeline order.
func segments(r *http.Request, names ...string) []string {
	segs := make([]string, 0, len(names))
	for _, n := range names {
		segs = append(segs, chi.URLParam(r, n))
	}
	return segs
}

// resolveChain runs the pipeline over the named URL params. On failure it
// renders the failure response and reports false.
func (h *Handler) resolveChain(w http.ResponseWriter, r *http.Request, pipeline resolve.Pipeline, params ...string) (resolve.Chain, bool) {
	chain, failure := resolve.Resolve(r.Context(), pipeline, segments(r, params...))
	if failure != nil {
		WriteFailure(w, failure)
		return nil, false
	}
	return chain, true
}
