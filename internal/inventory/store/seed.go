package store

import (
	"time"

	"chargenet/internal/inventory/models"
)

// SeedDemoNetwork populates the directory with the development fixture: the
// "DE*GEF" roaming network with one operator, one pool, one station and two
// EVSEs, plus a provider with a known auth token.
func SeedDemoNetwork(s *InMemory) *models.RoamingNetwork {
	now := time.Now()

	net := &models.RoamingNetwork{
		ID:        "DE*GEF",
		Name:      "GraphDefined Demo Network",
		Hostnames: []string{"localhost", "api.chargenet.local"},
		CreatedAt: now,
	}
	s.AddNetwork(net)

	op := &models.Operator{ID: "DE*GEF*O001", NetworkID: net.ID, Name: "Demo Operator", CreatedAt: now}
	s.AddOperator(op)

	s.AddBrand(&models.Brand{ID: "DE*GEF*B001", OperatorID: op.ID, Name: "Demo Brand"})
	s.AddGroup(&models.ChargingGroup{ID: "DE*GEF*G001", OperatorID: op.ID, Name: "City Center Group"})

	pool := &models.ChargingPool{
		ID:         "DE*GEF*P0001",
		NetworkID:  net.ID,
		OperatorID: op.ID,
		Name:       "Main Street Car Park",
		Address:    "Main Street 1",
	}
	s.AddPool(pool)

	station := &models.ChargingStation{ID: "DE*GEF*S0001", PoolID: pool.ID, Name: "Station 1"}
	s.AddStation(station)

	s.AddEVSE(&models.EVSE{ID: "DE*GEF*E0001*1", StationID: station.ID, Status: models.EVSEStatusAvailable, MaxPowerW: 22000})
	s.AddEVSE(&models.EVSE{ID: "DE*GEF*E0001*2", StationID: station.ID, Status: models.EVSEStatusAvailable, MaxPowerW: 50000})

	s.AddProvider(&models.Provider{
		ID:         "DE*GMF",
		NetworkID:  net.ID,
		Name:       "Demo Mobility Provider",
		AuthTokens: []string{"04E5F2A1B3C4D5"},
	})

	return net
}
