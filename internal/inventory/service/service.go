// Package service implements the charging operations of the roaming network:
// token-authorized and remotely triggered session start/stop, charge detail
// record submission and EVSE status snapshots. Every operation raises its
// paired domain events on the event source; delivery concerns stay with the
// event registry.
package service

import (
	"context"
	"log/slog"

	"chargenet/internal/events"
	"chargenet/internal/inventory"
	"chargenet/internal/inventory/metrics"
	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
)

// Store is the directory plus the mutations charging operations need.
// Both the in-memory and the postgres store satisfy it.
type Store interface {
	inventory.Directory

	PutSession(ctx context.Context, session *models.ChargingSession) error
	PutReservation(ctx context.Context, res *models.Reservation) error
	SetEVSEStatus(ctx context.Context, stationID id.ChargingStationID, evseID id.EVSEID, status models.EVSEStatus) (bool, error)
}

// EventRaiser is the raising half of the event source.
type EventRaiser interface {
	Raise(ctx context.Context, name string, payload events.Payload)
}

// Service orchestrates charging operations over a store.
type Service struct {
	store   Store
	raiser  EventRaiser
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store Store, raiser EventRaiser, opts ...Option) *Service {
	s := &Service{store: store, raiser: raiser}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.raiser == nil {
		s.raiser = noopRaiser{}
	}
	return s
}

type noopRaiser struct{}

func (noopRaiser) Raise(context.Context, string, events.Payload) {}

func (s *Service) raise(ctx context.Context, name string, payload events.Payload) {
	s.raiser.Raise(ctx, name, payload)
}
