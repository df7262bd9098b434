//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"chargenet/internal/inventory/models"
	"chargenet/internal/inventory/store"
	id "chargenet/pkg/domain"
	"chargenet/pkg/testutil/containers"
)

type PostgresDirectorySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresDirectorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresDirectorySuite))
}

func (s *PostgresDirectorySuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())

	ctx := context.Background()
	pg, err := store.NewPostgres(ctx, s.postgres.URL)
	s.Require().NoError(err)
	s.store = pg
	s.Require().NoError(pg.Migrate(ctx))
}

func (s *PostgresDirectorySuite) TearDownSuite() {
	if s.store != nil {
		s.store.Close()
	}
}

func (s *PostgresDirectorySuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx,
		"reservations", "sessions", "evses", "stations", "pools",
		"charging_groups", "brands", "providers", "operators", "networks")
	s.Require().NoError(err)
}

func (s *PostgresDirectorySuite) seedHierarchy(ctx context.Context) *models.RoamingNetwork {
	net := &models.RoamingNetwork{
		ID:        "DE*GEF",
		Name:      "Demo Network",
		Hostnames: []string{"localhost"},
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.store.AddNetwork(ctx, net))

	op := &models.Operator{ID: "DE*GEF*O001", NetworkID: net.ID, Name: "Demo Operator"}
	s.Require().NoError(s.store.AddOperator(ctx, op))
	s.Require().NoError(s.store.AddBrand(ctx, &models.Brand{ID: "DE*GEF*B001", OperatorID: op.ID, Name: "Demo Brand"}))
	s.Require().NoError(s.store.AddGroup(ctx, &models.ChargingGroup{ID: "DE*GEF*G001", OperatorID: op.ID, Name: "Campus"}))

	pool := &models.ChargingPool{ID: "DE*GEF*P0001", NetworkID: net.ID, OperatorID: op.ID, Name: "Car Park"}
	s.Require().NoError(s.store.AddPool(ctx, pool))

	station := &models.ChargingStation{ID: "DE*GEF*S0001", PoolID: pool.ID, Name: "Station 1"}
	s.Require().NoError(s.store.AddStation(ctx, station))

	evse := &models.EVSE{ID: "DE*GEF*E0001*1", StationID: station.ID, Status: models.EVSEStatusAvailable, MaxPowerW: 22000}
	s.Require().NoError(s.store.AddEVSE(ctx, evse))

	s.Require().NoError(s.store.AddProvider(ctx, &models.Provider{
		ID: "DE*GMF", NetworkID: net.ID, Name: "Provider", AuthTokens: []string{"04E5F2A1B3C4D5"},
	}))
	return net
}

func (s *PostgresDirectorySuite) TestHierarchyRoundTrip() {
	ctx := context.Background()
	s.seedHierarchy(ctx)

	net, ok := s.store.NetworkByID(ctx, "DE*GEF")
	s.Require().True(ok)
	s.Equal("Demo Network", net.Name)
	s.Equal([]string{"localhost"}, net.Hostnames)

	byHost, ok := s.store.NetworkByHostname(ctx, "localhost")
	s.Require().True(ok)
	s.Equal(net.ID, byHost.ID)

	s.Len(s.store.Networks(ctx), 1)

	op, ok := s.store.OperatorByID(ctx, net, "DE*GEF*O001")
	s.Require().True(ok)
	brand, ok := s.store.BrandByID(ctx, op, "DE*GEF*B001")
	s.Require().True(ok)
	s.Equal("Demo Brand", brand.Name)
	group, ok := s.store.GroupByID(ctx, op, "DE*GEF*G001")
	s.Require().True(ok)
	s.Equal("Campus", group.Name)

	pool, ok := s.store.PoolByID(ctx, net, "DE*GEF*P0001")
	s.Require().True(ok)
	station, ok := s.store.StationByID(ctx, pool, "DE*GEF*S0001")
	s.Require().True(ok)
	evse, ok := s.store.EVSEByID(ctx, station, "DE*GEF*E0001*1")
	s.Require().True(ok)
	s.Equal(models.EVSEStatusAvailable, evse.Status)
	s.Equal(22000.0, evse.MaxPowerW)

	prov, ok := s.store.ProviderByID(ctx, net, "DE*GMF")
	s.Require().True(ok)
	s.Equal([]string{"04E5F2A1B3C4D5"}, prov.AuthTokens)
}

func (s *PostgresDirectorySuite) TestLookupsAreParentScoped() {
	ctx := context.Background()
	s.seedHierarchy(ctx)

	other := &models.RoamingNetwork{ID: "FR*ABC", Name: "Other Network", CreatedAt: time.Now()}
	s.Require().NoError(s.store.AddNetwork(ctx, other))

	// The pool exists, but only inside DE*GEF.
	_, ok := s.store.PoolByID(ctx, other, "DE*GEF*P0001")
	s.False(ok, "pool must not be visible from another network")

	_, ok = s.store.OperatorByID(ctx, other, "DE*GEF*O001")
	s.False(ok)

	_, ok = s.store.ProviderByID(ctx, other, "DE*GMF")
	s.False(ok)
}

func (s *PostgresDirectorySuite) TestSessionLifecyclePersistence() {
	ctx := context.Background()
	net := s.seedHierarchy(ctx)

	session := &models.ChargingSession{
		ID:         id.ChargingSessionID(uuid.NewString()),
		NetworkID:  net.ID,
		EVSEID:     "DE*GEF*E0001*1",
		ProviderID: "DE*GMF",
		AuthToken:  "04E5F2A1B3C4D5",
		State:      models.SessionStateRunning,
		StartedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(s.store.PutSession(ctx, session))

	got, ok := s.store.SessionByID(ctx, net, session.ID)
	s.Require().True(ok)
	s.Equal(models.SessionStateRunning, got.State)
	s.Nil(got.StoppedAt)
	s.Nil(got.CDR)

	// Close the session with a CDR; the upsert must persist both.
	now := time.Now().UTC().Truncate(time.Millisecond)
	session.State = models.SessionStateClosed
	session.StoppedAt = &now
	session.CDR = &models.ChargeDetailRecord{
		SessionID:   session.ID,
		EnergyWh:    12400,
		Start:       now.Add(-time.Hour),
		End:         now,
		SubmittedAt: now,
	}
	s.Require().NoError(s.store.PutSession(ctx, session))

	got, ok = s.store.SessionByID(ctx, net, session.ID)
	s.Require().True(ok)
	s.Equal(models.SessionStateClosed, got.State)
	s.Require().NotNil(got.StoppedAt)
	s.Require().NotNil(got.CDR)
	s.Equal(12400.0, got.CDR.EnergyWh)
	s.Equal(session.CDR.End, got.CDR.End)

	s.Len(s.store.Sessions(ctx, net), 1)
}

func (s *PostgresDirectorySuite) TestSetEVSEStatus() {
	ctx := context.Background()
	net := s.seedHierarchy(ctx)

	found, err := s.store.SetEVSEStatus(ctx, "DE*GEF*S0001", "DE*GEF*E0001*1", models.EVSEStatusOccupied)
	s.Require().NoError(err)
	s.True(found)

	pool, _ := s.store.PoolByID(ctx, net, "DE*GEF*P0001")
	station, _ := s.store.StationByID(ctx, pool, "DE*GEF*S0001")
	evse, ok := s.store.EVSEByID(ctx, station, "DE*GEF*E0001*1")
	s.Require().True(ok)
	s.Equal(models.EVSEStatusOccupied, evse.Status)

	found, err = s.store.SetEVSEStatus(ctx, "DE*GEF*S0001", "DE*GEF*E9999*9", models.EVSEStatusOccupied)
	s.Require().NoError(err)
	s.False(found, "missing EVSE reports not found, not an error")
}

func (s *PostgresDirectorySuite) TestReservationRoundTrip() {
	ctx := context.Background()
	net := s.seedHierarchy(ctx)

	res := &models.Reservation{
		ID:         id.ReservationID(uuid.NewString()),
		NetworkID:  net.ID,
		EVSEID:     "DE*GEF*E0001*1",
		ProviderID: "DE*GMF",
		ExpiresAt:  time.Now().UTC().Add(15 * time.Minute),
	}
	s.Require().NoError(s.store.PutReservation(ctx, res))

	got, ok := s.store.ReservationByID(ctx, net, res.ID)
	s.Require().True(ok)
	s.Equal(res.EVSEID, got.EVSEID)
	s.Equal(res.ProviderID, got.ProviderID)
	s.WithinDuration(res.ExpiresAt, got.ExpiresAt, time.Second)

	s.Len(s.store.Reservations(ctx, net), 1)
}
