package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
	dErrors "chargenet/pkg/domain-errors"
)

const defaultReservationTTL = 15 * time.Minute

// ReserveRequest blocks an EVSE for one of the provider's customers.
type ReserveRequest struct {
	ProviderID string        `json:"provider_id"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// Reserve marks an available EVSE as reserved for the provider.
func (s *Service) Reserve(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req ReserveRequest) (*models.Reservation, error) {
	provID, err := id.ParseProviderID(req.ProviderID)
	if err != nil {
		return nil, err
	}
	provider, ok := s.store.ProviderByID(ctx, net, provID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown e-mobility provider")
	}
	if evse.Status != models.EVSEStatusAvailable {
		return nil, dErrors.New(dErrors.CodeConflict, "EVSE is not available")
	}

	ttl := req.Duration
	if ttl <= 0 {
		ttl = defaultReservationTTL
	}
	resID, _ := id.ParseReservationID(uuid.NewString())
	res := &models.Reservation{
		ID:         resID,
		NetworkID:  net.ID,
		EVSEID:     evse.ID,
		ProviderID: provider.ID,
		ExpiresAt:  time.Now().UTC().Add(ttl),
	}
	if err := s.store.PutReservation(ctx, res); err != nil {
		s.metrics.ObserveOperation("reserve", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store reservation")
	}
	if _, err := s.store.SetEVSEStatus(ctx, evse.StationID, evse.ID, models.EVSEStatusReserved); err != nil {
		s.metrics.ObserveOperation("reserve", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update EVSE status")
	}

	s.metrics.ObserveOperation("reserve", "success")
	return res, nil
}
