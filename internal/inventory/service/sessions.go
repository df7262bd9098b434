package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chargenet/internal/events"
	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
	dErrors "chargenet/pkg/domain-errors"
)

// AuthStartRequest authorizes a charging token on an EVSE. The token must be
// registered with the named provider inside the network.
type AuthStartRequest struct {
	ProviderID string `json:"provider_id"`
	AuthToken  string `json:"auth_token"`
}

// AuthStopRequest ends a token-authorized session.
type AuthStopRequest struct {
	SessionID string `json:"session_id"`
	AuthToken string `json:"auth_token"`
}

// RemoteStartRequest starts a session on behalf of a provider backend.
type RemoteStartRequest struct {
	ProviderID string `json:"provider_id"`
}

// RemoteStopRequest ends a remotely started session.
type RemoteStopRequest struct {
	SessionID string `json:"session_id"`
}

// CDRRequest submits the charge detail record for a stopped session.
type CDRRequest struct {
	EnergyWh float64   `json:"energy_wh"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// AuthStart authorizes the token against the provider's registered set and,
// on success, starts a session on the EVSE.
func (s *Service) AuthStart(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req AuthStartRequest) (*models.ChargingSession, error) {
	s.raise(ctx, events.AuthEVSEStart, events.TextPayload(fmt.Sprintf("evse=%s provider=%s", evse.ID, req.ProviderID)))

	session, err := s.authStart(ctx, net, evse, req)
	if err != nil {
		s.metrics.ObserveOperation("auth_start", "failure")
		s.raise(ctx, events.AuthEVSEStarted, events.TextPayload(fmt.Sprintf("evse=%s provider=%s outcome=rejected: %v", evse.ID, req.ProviderID, err)))
		return nil, err
	}

	s.metrics.ObserveOperation("auth_start", "success")
	s.metrics.SessionStarted()
	s.raise(ctx, events.AuthEVSEStarted, events.TextPayload(fmt.Sprintf("evse=%s provider=%s session=%s outcome=authorized", evse.ID, req.ProviderID, session.ID)))
	s.logger.InfoContext(ctx, "auth start authorized", "evse_id", evse.ID.String(), "session_id", session.ID.String())
	return session, nil
}

func (s *Service) authStart(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req AuthStartRequest) (*models.ChargingSession, error) {
	provID, err := id.ParseProviderID(req.ProviderID)
	if err != nil {
		return nil, err
	}
	provider, ok := s.store.ProviderByID(ctx, net, provID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown e-mobility provider")
	}
	if !tokenRegistered(provider, req.AuthToken) {
		return nil, dErrors.New(dErrors.CodeValidation, "auth token not recognized by provider")
	}
	if evse.Status != models.EVSEStatusAvailable {
		return nil, dErrors.New(dErrors.CodeConflict, "EVSE is not available")
	}

	session := &models.ChargingSession{
		ID:         newSessionID(),
		NetworkID:  net.ID,
		EVSEID:     evse.ID,
		ProviderID: provider.ID,
		AuthToken:  req.AuthToken,
		State:      models.SessionStateRunning,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	if _, err := s.store.SetEVSEStatus(ctx, evse.StationID, evse.ID, models.EVSEStatusOccupied); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update EVSE status")
	}
	return session, nil
}

// AuthStop ends a running session started via AuthStart. The stopping token
// must match the one that started the session.
func (s *Service) AuthStop(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req AuthStopRequest) (*models.ChargingSession, error) {
	s.raise(ctx, events.AuthEVSEStop, events.TextPayload(fmt.Sprintf("evse=%s session=%s", evse.ID, req.SessionID)))

	session, err := s.authStop(ctx, net, evse, req)
	if err != nil {
		s.metrics.ObserveOperation("auth_stop", "failure")
		s.raise(ctx, events.AuthEVSEStopped, events.TextPayload(fmt.Sprintf("evse=%s session=%s outcome=rejected: %v", evse.ID, req.SessionID, err)))
		return nil, err
	}

	s.metrics.ObserveOperation("auth_stop", "success")
	s.metrics.SessionEnded()
	s.raise(ctx, events.AuthEVSEStopped, events.TextPayload(fmt.Sprintf("evse=%s session=%s outcome=stopped", evse.ID, session.ID)))
	return session, nil
}

func (s *Service) authStop(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req AuthStopRequest) (*models.ChargingSession, error) {
	session, err := s.runningSession(ctx, net, evse, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.AuthToken != req.AuthToken {
		return nil, dErrors.New(dErrors.CodeValidation, "auth token does not match session")
	}
	return s.stopSession(ctx, session, evse)
}

// RemoteStart starts a session on behalf of a provider backend, without a
// physical token at the EVSE.
func (s *Service) RemoteStart(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req RemoteStartRequest) (*models.ChargingSession, error) {
	s.raise(ctx, events.RemoteEVSEStart, events.TextPayload(fmt.Sprintf("evse=%s provider=%s", evse.ID, req.ProviderID)))

	session, err := s.remoteStart(ctx, net, evse, req)
	if err != nil {
		s.metrics.ObserveOperation("remote_start", "failure")
		s.raise(ctx, events.RemoteEVSEStarted, events.TextPayload(fmt.Sprintf("evse=%s provider=%s outcome=rejected: %v", evse.ID, req.ProviderID, err)))
		return nil, err
	}

	s.metrics.ObserveOperation("remote_start", "success")
	s.metrics.SessionStarted()
	s.raise(ctx, events.RemoteEVSEStarted, events.TextPayload(fmt.Sprintf("evse=%s provider=%s session=%s outcome=started", evse.ID, req.ProviderID, session.ID)))
	return session, nil
}

func (s *Service) remoteStart(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req RemoteStartRequest) (*models.ChargingSession, error) {
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

	session := &models.ChargingSession{
		ID:         newSessionID(),
		NetworkID:  net.ID,
		EVSEID:     evse.ID,
		ProviderID: provider.ID,
		State:      models.SessionStateRunning,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	if _, err := s.store.SetEVSEStatus(ctx, evse.StationID, evse.ID, models.EVSEStatusOccupied); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update EVSE status")
	}
	return session, nil
}

// RemoteStop ends a running remotely started session.
func (s *Service) RemoteStop(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req RemoteStopRequest) (*models.ChargingSession, error) {
	s.raise(ctx, events.RemoteEVSEStop, events.TextPayload(fmt.Sprintf("evse=%s session=%s", evse.ID, req.SessionID)))

	session, err := s.remoteStop(ctx, net, evse, req)
	if err != nil {
		s.metrics.ObserveOperation("remote_stop", "failure")
		s.raise(ctx, events.RemoteEVSEStopped, events.TextPayload(fmt.Sprintf("evse=%s session=%s outcome=rejected: %v", evse.ID, req.SessionID, err)))
		return nil, err
	}

	s.metrics.ObserveOperation("remote_stop", "success")
	s.metrics.SessionEnded()
	s.raise(ctx, events.RemoteEVSEStopped, events.TextPayload(fmt.Sprintf("evse=%s session=%s outcome=stopped", evse.ID, session.ID)))
	return session, nil
}

func (s *Service) remoteStop(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, req RemoteStopRequest) (*models.ChargingSession, error) {
	session, err := s.runningSession(ctx, net, evse, req.SessionID)
	if err != nil {
		return nil, err
	}
	return s.stopSession(ctx, session, evse)
}

// SubmitCDR attaches the charge detail record to a stopped session, closing
// it. A session can be closed exactly once.
func (s *Service) SubmitCDR(ctx context.Context, net *models.RoamingNetwork, session *models.ChargingSession, req CDRRequest) (*models.ChargingSession, error) {
	s.raise(ctx, events.SendCDR, events.TextPayload(fmt.Sprintf("session=%s energy_wh=%.1f", session.ID, req.EnergyWh)))

	closed, err := s.submitCDR(ctx, session, req)
	if err != nil {
		s.metrics.ObserveOperation("send_cdr", "failure")
		s.raise(ctx, events.CDRSent, events.TextPayload(fmt.Sprintf("session=%s outcome=rejected: %v", session.ID, err)))
		return nil, err
	}

	s.metrics.ObserveOperation("send_cdr", "success")
	s.raise(ctx, events.CDRSent, events.TextPayload(fmt.Sprintf("session=%s energy_wh=%.1f outcome=closed", session.ID, req.EnergyWh)))
	return closed, nil
}

func (s *Service) submitCDR(ctx context.Context, session *models.ChargingSession, req CDRRequest) (*models.ChargingSession, error) {
	switch session.State {
	case models.SessionStateRunning:
		return nil, dErrors.New(dErrors.CodeConflict, "session is still running")
	case models.SessionStateClosed:
		return nil, dErrors.New(dErrors.CodeConflict, "session already has a charge detail record")
	}
	if req.EnergyWh < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "energy must not be negative")
	}
	if !req.End.After(req.Start) {
		return nil, dErrors.New(dErrors.CodeValidation, "record end must be after start")
	}

	session.CDR = &models.ChargeDetailRecord{
		SessionID:   session.ID,
		EnergyWh:    req.EnergyWh,
		Start:       req.Start,
		End:         req.End,
		SubmittedAt: time.Now().UTC(),
	}
	session.State = models.SessionStateClosed
	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	return session, nil
}

func (s *Service) runningSession(ctx context.Context, net *models.RoamingNetwork, evse *models.EVSE, rawID string) (*models.ChargingSession, error) {
	sessionID, err := id.ParseChargingSessionID(rawID)
	if err != nil {
		return nil, err
	}
	session, ok := s.store.SessionByID(ctx, net, sessionID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown charging session")
	}
	if session.EVSEID != evse.ID {
		return nil, dErrors.New(dErrors.CodeValidation, "session does not belong to this EVSE")
	}
	if session.State != models.SessionStateRunning {
		return nil, dErrors.New(dErrors.CodeConflict, "session is not running")
	}
	return session, nil
}

func (s *Service) stopSession(ctx context.Context, session *models.ChargingSession, evse *models.EVSE) (*models.ChargingSession, error) {
	now := time.Now().UTC()
	session.State = models.SessionStateStopped
	session.StoppedAt = &now
	if err := s.store.PutSession(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	if _, err := s.store.SetEVSEStatus(ctx, evse.StationID, evse.ID, models.EVSEStatusAvailable); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "update EVSE status")
	}
	return session, nil
}

func tokenRegistered(provider *models.Provider, token string) bool {
	for _, t := range provider.AuthTokens {
		if t == token {
			return true
		}
	}
	return false
}

func newSessionID() id.ChargingSessionID {
	sid, _ := id.ParseChargingSessionID(uuid.NewString())
	return sid
}
