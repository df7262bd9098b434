package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chargenet/internal/platform/metrics"
	"chargenet/pkg/platform/middleware/requestmeta"
)

// Register mounts the roaming network API.
func (h *Handler) Register(r chi.Router) {
	r.Route("/rns", func(r chi.Router) {
		r.Get("/", h.handleListNetworks)

		r.Route("/{roamingNetworkID}", func(r chi.Router) {
			r.Get("/", h.handleGetNetwork)
			r.Get("/EVSEStatus", h.handleEVSEStatus)

			r.Route("/chargingPools", func(r chi.Router) {
				r.Get("/", h.handleListPools)
				r.Get("/{chargingPoolID}", h.handleGetPool)

				r.Route("/{chargingPoolID}/chargingStations/{chargingStationID}", func(r chi.Router) {
					r.Get("/", h.handleGetStation)

					r.Route("/EVSEs/{evseID}", func(r chi.Router) {
						r.Get("/", h.handleGetEVSE)
						r.Post("/authStart", h.handleAuthStart)
						r.Post("/authStop", h.handleAuthStop)
						r.Post("/remoteStart", h.handleRemoteStart)
						r.Post("/remoteStop", h.handleRemoteStop)
						r.Post("/reserve", h.handleReserve)
					})
				})
			})

			r.Route("/chargingStationOperators", func(r chi.Router) {
				r.Get("/", h.handleListOperators)
				r.Get("/{operatorID}", h.handleGetOperator)
				r.Get("/{operatorID}/brands/{brandID}", h.handleGetBrand)
				r.Get("/{operatorID}/chargingGroups/{chargingGroupID}", h.handleGetGroup)
			})

			r.Route("/chargingSessions", func(r chi.Router) {
				r.Get("/", h.handleListSessions)
				r.Get("/{chargingSessionID}", h.handleGetSession)
				r.Post("/{chargingSessionID}/cdr", h.handleSubmitCDR)
			})

			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", h.handleListReservations)
				r.Get("/{reservationID}", h.handleGetReservation)
			})

			r.Route("/eMobilityProviders", func(r chi.Router) {
				r.Get("/", h.handleListProviders)
				r.Get("/{providerID}", h.handleGetProvider)
			})
		})
	})
}

// NewRouter builds the full HTTP surface: API routes, the event push
// stream, metrics and health.
func NewRouter(h *Handler, stream http.Handler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestmeta.Middleware)
	r.Use(observeRequests(m))

	h.Register(r)

	if stream != nil {
		r.Get("/events/stream", stream.ServeHTTP)
	}
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

func observeRequests(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, strconv.Itoa(ww.Status()), time.Since(start))
		})
	}
}
