// Package store provides directory implementations over the entity graph.
//
// The in-memory variant keeps the hierarchy in nested maps behind a single
// RWMutex. Reads are concurrent; the rare writes (admin wiring, session
// lifecycle) take the write lock. It intentionally favors clarity over
// performance.
package store

import (
	"context"
	"sync"

	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
)

// InMemory is the in-memory entity directory.
type InMemory struct {
	mu sync.RWMutex

	networks  map[id.RoamingNetworkID]*models.RoamingNetwork
	hostnames map[string]id.RoamingNetworkID

	operators    map[id.RoamingNetworkID]map[id.OperatorID]*models.Operator
	pools        map[id.RoamingNetworkID]map[id.ChargingPoolID]*models.ChargingPool
	sessions     map[id.RoamingNetworkID]map[id.ChargingSessionID]*models.ChargingSession
	reservations map[id.RoamingNetworkID]map[id.ReservationID]*models.Reservation
	providers    map[id.RoamingNetworkID]map[id.ProviderID]*models.Provider

	brands map[id.OperatorID]map[id.BrandID]*models.Brand
	groups map[id.OperatorID]map[id.ChargingGroupID]*models.ChargingGroup

	stations map[id.ChargingPoolID]map[id.ChargingStationID]*models.ChargingStation
	evses    map[id.ChargingStationID]map[id.EVSEID]*models.EVSE
}

// NewInMemory creates an empty in-memory directory.
func NewInMemory() *InMemory {
	return &InMemory{
		networks:     make(map[id.RoamingNetworkID]*models.RoamingNetwork),
		hostnames:    make(map[string]id.RoamingNetworkID),
		operators:    make(map[id.RoamingNetworkID]map[id.OperatorID]*models.Operator),
		pools:        make(map[id.RoamingNetworkID]map[id.ChargingPoolID]*models.ChargingPool),
		sessions:     make(map[id.RoamingNetworkID]map[id.ChargingSessionID]*models.ChargingSession),
		reservations: make(map[id.RoamingNetworkID]map[id.ReservationID]*models.Reservation),
		providers:    make(map[id.RoamingNetworkID]map[id.ProviderID]*models.Provider),
		brands:       make(map[id.OperatorID]map[id.BrandID]*models.Brand),
		groups:       make(map[id.OperatorID]map[id.ChargingGroupID]*models.ChargingGroup),
		stations:     make(map[id.ChargingPoolID]map[id.ChargingStationID]*models.ChargingStation),
		evses:        make(map[id.ChargingStationID]map[id.EVSEID]*models.EVSE),
	}
}

// -----------------------------------------------------------------------------
// Directory reads
// -----------------------------------------------------------------------------

func (s *InMemory) NetworkByID(_ context.Context, netID id.RoamingNetworkID) (*models.RoamingNetwork, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	net, ok := s.networks[netID]
	return net, ok
}

func (s *InMemory) NetworkByHostname(_ context.Context, hostname string) (*models.RoamingNetwork, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	netID, ok := s.hostnames[hostname]
	if !ok {
		return nil, false
	}
	net, ok := s.networks[netID]
	return net, ok
}

func (s *InMemory) Networks(_ context.Context) []*models.RoamingNetwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RoamingNetwork, 0, len(s.networks))
	for _, net := range s.networks {
		out = append(out, net)
	}
	return out
}

func (s *InMemory) OperatorByID(_ context.Context, net *models.RoamingNetwork, opID id.OperatorID) (*models.Operator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operators[net.ID][opID]
	return op, ok
}

func (s *InMemory) PoolByID(_ context.Context, net *models.RoamingNetwork, poolID id.ChargingPoolID) (*models.ChargingPool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pool, ok := s.pools[net.ID][poolID]
	return pool, ok
}

// SessionByID returns a copy: sessions mutate over their lifecycle and
// callers must never observe a half-updated record.
func (s *InMemory) SessionByID(_ context.Context, net *models.RoamingNetwork, sessionID id.ChargingSessionID) (*models.ChargingSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[net.ID][sessionID]
	if !ok {
		return nil, false
	}
	session := *stored
	return &session, true
}

func (s *InMemory) ReservationByID(_ context.Context, net *models.RoamingNetwork, resID id.ReservationID) (*models.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[net.ID][resID]
	return res, ok
}

func (s *InMemory) ProviderByID(_ context.Context, net *models.RoamingNetwork, provID id.ProviderID) (*models.Provider, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prov, ok := s.providers[net.ID][provID]
	return prov, ok
}

func (s *InMemory) Operators(_ context.Context, net *models.RoamingNetwork) []*models.Operator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Operator, 0, len(s.operators[net.ID]))
	for _, op := range s.operators[net.ID] {
		out = append(out, op)
	}
	return out
}

func (s *InMemory) Pools(_ context.Context, net *models.RoamingNetwork) []*models.ChargingPool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ChargingPool, 0, len(s.pools[net.ID]))
	for _, pool := range s.pools[net.ID] {
		out = append(out, pool)
	}
	return out
}

func (s *InMemory) Sessions(_ context.Context, net *models.RoamingNetwork) []*models.ChargingSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ChargingSession, 0, len(s.sessions[net.ID]))
	for _, stored := range s.sessions[net.ID] {
		session := *stored
		out = append(out, &session)
	}
	return out
}

func (s *InMemory) Reservations(_ context.Context, net *models.RoamingNetwork) []*models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Reservation, 0, len(s.reservations[net.ID]))
	for _, res := range s.reservations[net.ID] {
		out = append(out, res)
	}
	return out
}

func (s *InMemory) Providers(_ context.Context, net *models.RoamingNetwork) []*models.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Provider, 0, len(s.providers[net.ID]))
	for _, prov := range s.providers[net.ID] {
		out = append(out, prov)
	}
	return out
}

func (s *InMemory) BrandByID(_ context.Context, op *models.Operator, brandID id.BrandID) (*models.Brand, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	brand, ok := s.brands[op.ID][brandID]
	return brand, ok
}

func (s *InMemory) GroupByID(_ context.Context, op *models.Operator, groupID id.ChargingGroupID) (*models.ChargingGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[op.ID][groupID]
	return group, ok
}

func (s *InMemory) StationByID(_ context.Context, pool *models.ChargingPool, stationID id.ChargingStationID) (*models.ChargingStation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	station, ok := s.stations[pool.ID][stationID]
	return station, ok
}

func (s *InMemory) Stations(_ context.Context, pool *models.ChargingPool) []*models.ChargingStation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ChargingStation, 0, len(s.stations[pool.ID]))
	for _, station := range s.stations[pool.ID] {
		out = append(out, station)
	}
	return out
}

// EVSEByID returns a copy because EVSE status changes at runtime.
func (s *InMemory) EVSEByID(_ context.Context, station *models.ChargingStation, evseID id.EVSEID) (*models.EVSE, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.evses[station.ID][evseID]
	if !ok {
		return nil, false
	}
	evse := *stored
	return &evse, true
}

func (s *InMemory) EVSEs(_ context.Context, station *models.ChargingStation) []*models.EVSE {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.EVSE, 0, len(s.evses[station.ID]))
	for _, stored := range s.evses[station.ID] {
		evse := *stored
		out = append(out, &evse)
	}
	return out
}

// -----------------------------------------------------------------------------
// Writes (admin wiring and session lifecycle)
// -----------------------------------------------------------------------------

func (s *InMemory) AddNetwork(net *models.RoamingNetwork) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networks[net.ID] = net
	for _, host := range net.Hostnames {
		s.hostnames[host] = net.ID
	}
}

func (s *InMemory) AddOperator(op *models.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.operators[op.NetworkID] == nil {
		s.operators[op.NetworkID] = make(map[id.OperatorID]*models.Operator)
	}
	s.operators[op.NetworkID][op.ID] = op
}

func (s *InMemory) AddPool(pool *models.ChargingPool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pools[pool.NetworkID] == nil {
		s.pools[pool.NetworkID] = make(map[id.ChargingPoolID]*models.ChargingPool)
	}
	s.pools[pool.NetworkID][pool.ID] = pool
}

func (s *InMemory) AddStation(station *models.ChargingStation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stations[station.PoolID] == nil {
		s.stations[station.PoolID] = make(map[id.ChargingStationID]*models.ChargingStation)
	}
	s.stations[station.PoolID][station.ID] = station
}

func (s *InMemory) AddEVSE(evse *models.EVSE) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evses[evse.StationID] == nil {
		s.evses[evse.StationID] = make(map[id.EVSEID]*models.EVSE)
	}
	s.evses[evse.StationID][evse.ID] = evse
}

func (s *InMemory) AddBrand(brand *models.Brand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.brands[brand.OperatorID] == nil {
		s.brands[brand.OperatorID] = make(map[id.BrandID]*models.Brand)
	}
	s.brands[brand.OperatorID][brand.ID] = brand
}

func (s *InMemory) AddGroup(group *models.ChargingGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.groups[group.OperatorID] == nil {
		s.groups[group.OperatorID] = make(map[id.ChargingGroupID]*models.ChargingGroup)
	}
	s.groups[group.OperatorID][group.ID] = group
}

func (s *InMemory) AddProvider(prov *models.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.providers[prov.NetworkID] == nil {
		s.providers[prov.NetworkID] = make(map[id.ProviderID]*models.Provider)
	}
	s.providers[prov.NetworkID][prov.ID] = prov
}

// PutSession inserts or replaces a session record.
func (s *InMemory) PutSession(_ context.Context, session *models.ChargingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[session.NetworkID] == nil {
		s.sessions[session.NetworkID] = make(map[id.ChargingSessionID]*models.ChargingSession)
	}
	stored := *session
	s.sessions[session.NetworkID][session.ID] = &stored
	return nil
}

// PutReservation inserts or replaces a reservation.
func (s *InMemory) PutReservation(_ context.Context, res *models.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reservations[res.NetworkID] == nil {
		s.reservations[res.NetworkID] = make(map[id.ReservationID]*models.Reservation)
	}
	s.reservations[res.NetworkID][res.ID] = res
	return nil
}

// SetEVSEStatus updates the status of one EVSE in place.
func (s *InMemory) SetEVSEStatus(_ context.Context, stationID id.ChargingStationID, evseID id.EVSEID, status models.EVSEStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	evse, ok := s.evses[stationID][evseID]
	if !ok {
		return false, nil
	}
	evse.Status = status
	return true, nil
}
