// Package models defines the charging infrastructure entity graph.
//
// The hierarchy is strict: a roaming network owns operators, pools, sessions,
// reservations and providers; a pool owns stations; a station owns EVSEs;
// an operator owns brands and charging groups. Child entities are always
// looked up through their parent, never globally.
package models

import (
	"time"

	id "chargenet/pkg/domain"
)

// EVSEStatus is the operational state of a single charge point.
type EVSEStatus string

const (
	EVSEStatusAvailable    EVSEStatus = "available"
	EVSEStatusOccupied     EVSEStatus = "occupied"
	EVSEStatusReserved     EVSEStatus = "reserved"
	EVSEStatusOutOfService EVSEStatus = "out_of_service"
)

// RoamingNetwork is the tenant root of the hierarchy. All resolution
// pipelines start here.
type RoamingNetwork struct {
	ID          id.RoamingNetworkID `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	// Hostnames that select this network when requests arrive without an
	// explicit network segment.
	Hostnames []string  `json:"hostnames,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Operator runs charging infrastructure inside a roaming network.
type Operator struct {
	ID        id.OperatorID       `json:"id"`
	NetworkID id.RoamingNetworkID `json:"network_id"`
	Name      string              `json:"name"`
	CreatedAt time.Time           `json:"created_at"`
}

// Brand is a consumer-facing label an operator runs stations under.
type Brand struct {
	ID         id.BrandID    `json:"id"`
	OperatorID id.OperatorID `json:"operator_id"`
	Name       string        `json:"name"`
}

// ChargingGroup bundles stations of one operator for tariff or access rules.
type ChargingGroup struct {
	ID         id.ChargingGroupID `json:"id"`
	OperatorID id.OperatorID      `json:"operator_id"`
	Name       string             `json:"name"`
}

// ChargingPool is a physical site (car park, forecourt) holding stations.
type ChargingPool struct {
	ID         id.ChargingPoolID   `json:"id"`
	NetworkID  id.RoamingNetworkID `json:"network_id"`
	OperatorID id.OperatorID       `json:"operator_id"`
	Name       string              `json:"name"`
	Address    string              `json:"address,omitempty"`
}

// ChargingStation is one cabinet within a pool, holding EVSEs.
type ChargingStation struct {
	ID     id.ChargingStationID `json:"id"`
	PoolID id.ChargingPoolID    `json:"pool_id"`
	Name   string               `json:"name"`
}

// EVSE is an individual charge point, the unit sessions run against.
type EVSE struct {
	ID        id.EVSEID            `json:"id"`
	StationID id.ChargingStationID `json:"station_id"`
	Status    EVSEStatus           `json:"status"`
	MaxPowerW float64              `json:"max_power_w,omitempty"`
}

// SessionState is the lifecycle of a charging session.
type SessionState string

const (
	SessionStateRunning SessionState = "running"
	SessionStateStopped SessionState = "stopped"
	SessionStateClosed  SessionState = "closed" // CDR submitted
)

// ChargingSession records one charging process on an EVSE.
//
// Invariants:
//   - State transitions: running -> stopped -> closed only
//   - A CDR may be attached exactly once, closing the session
type ChargingSession struct {
	ID         id.ChargingSessionID `json:"id"`
	NetworkID  id.RoamingNetworkID  `json:"network_id"`
	EVSEID     id.EVSEID            `json:"evse_id"`
	ProviderID id.ProviderID        `json:"provider_id,omitempty"`
	AuthToken  string               `json:"auth_token,omitempty"`
	State      SessionState         `json:"state"`
	StartedAt  time.Time            `json:"started_at"`
	StoppedAt  *time.Time           `json:"stopped_at,omitempty"`
	CDR        *ChargeDetailRecord  `json:"cdr,omitempty"`
}

// ChargeDetailRecord is the billing record submitted after a session ends.
type ChargeDetailRecord struct {
	SessionID   id.ChargingSessionID `json:"session_id"`
	EnergyWh    float64              `json:"energy_wh"`
	Start       time.Time            `json:"start"`
	End         time.Time            `json:"end"`
	SubmittedAt time.Time            `json:"submitted_at"`
}

// Reservation blocks an EVSE for a provider's customer.
type Reservation struct {
	ID         id.ReservationID    `json:"id"`
	NetworkID  id.RoamingNetworkID `json:"network_id"`
	EVSEID     id.EVSEID           `json:"evse_id"`
	ProviderID id.ProviderID       `json:"provider_id"`
	ExpiresAt  time.Time           `json:"expires_at"`
}

// Provider is an e-mobility provider whose customers charge on the network.
type Provider struct {
	ID        id.ProviderID       `json:"id"`
	NetworkID id.RoamingNetworkID `json:"network_id"`
	Name      string              `json:"name"`
	// AuthTokens the provider has registered for its customers. Auth
	// start requests are checked against this set.
	AuthTokens []string `json:"-"`
}
