// Package inventory exposes the read-only entity directory: every lookup is
// "find child of kind T with this ID inside parent P". Resolution pipelines
// and services depend on this interface, not on a concrete store.
package inventory

import (
	"context"

	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
)

// Directory is the lookup surface over the entity graph. Lookups use exact
// ID equality, scoped by the parent entity; there is no global child index.
// Implementations must be safe for concurrent readers.
type Directory interface {
	// Root scope
	NetworkByID(ctx context.Context, netID id.RoamingNetworkID) (*models.RoamingNetwork, bool)
	NetworkByHostname(ctx context.Context, hostname string) (*models.RoamingNetwork, bool)
	Networks(ctx context.Context) []*models.RoamingNetwork

	// Scoped by roaming network
	OperatorByID(ctx context.Context, net *models.RoamingNetwork, opID id.OperatorID) (*models.Operator, bool)
	PoolByID(ctx context.Context, net *models.RoamingNetwork, poolID id.ChargingPoolID) (*models.ChargingPool, bool)
	SessionByID(ctx context.Context, net *models.RoamingNetwork, sessionID id.ChargingSessionID) (*models.ChargingSession, bool)
	ReservationByID(ctx context.Context, net *models.RoamingNetwork, resID id.ReservationID) (*models.Reservation, bool)
	ProviderByID(ctx context.Context, net *models.RoamingNetwork, provID id.ProviderID) (*models.Provider, bool)
	Operators(ctx context.Context, net *models.RoamingNetwork) []*models.Operator
	Pools(ctx context.Context, net *models.RoamingNetwork) []*models.ChargingPool
	Sessions(ctx context.Context, net *models.RoamingNetwork) []*models.ChargingSession
	Reservations(ctx context.Context, net *models.RoamingNetwork) []*models.Reservation
	Providers(ctx context.Context, net *models.RoamingNetwork) []*models.Provider

	// Scoped by operator
	BrandByID(ctx context.Context, op *models.Operator, brandID id.BrandID) (*models.Brand, bool)
	GroupByID(ctx context.Context, op *models.Operator, groupID id.ChargingGroupID) (*models.ChargingGroup, bool)

	// Scoped by pool
	StationByID(ctx context.Context, pool *models.ChargingPool, stationID id.ChargingStationID) (*models.ChargingStation, bool)
	Stations(ctx context.Context, pool *models.ChargingPool) []*models.ChargingStation

	// Scoped by station
	EVSEByID(ctx context.Context, station *models.ChargingStation, evseID id.EVSEID) (*models.EVSE, bool)
	EVSEs(ctx context.Context, station *models.ChargingStation) []*models.EVSE
}
