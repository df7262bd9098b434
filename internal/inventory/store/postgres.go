package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
)

// Postgres is the database-backed entity directory. Every lookup is a
// parent-scoped query so cross-network reads are impossible by construction.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Postgres) Close() { s.pool.Close() }

// Migrate creates the directory schema if it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("apply directory schema: %w", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS networks (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    hostnames   TEXT[] NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS operators (
    id         TEXT NOT NULL,
    network_id TEXT NOT NULL REFERENCES networks(id),
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (network_id, id)
);
CREATE TABLE IF NOT EXISTS brands (
    id          TEXT NOT NULL,
    operator_id TEXT NOT NULL,
    name        TEXT NOT NULL,
    PRIMARY KEY (operator_id, id)
);
CREATE TABLE IF NOT EXISTS charging_groups (
    id          TEXT NOT NULL,
    operator_id TEXT NOT NULL,
    name        TEXT NOT NULL,
    PRIMARY KEY (operator_id, id)
);
CREATE TABLE IF NOT EXISTS pools (
    id          TEXT NOT NULL,
    network_id  TEXT NOT NULL REFERENCES networks(id),
    operator_id TEXT NOT NULL,
    name        TEXT NOT NULL,
    address     TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (network_id, id)
);
CREATE TABLE IF NOT EXISTS stations (
    id      TEXT NOT NULL,
    pool_id TEXT NOT NULL,
    name    TEXT NOT NULL,
    PRIMARY KEY (pool_id, id)
);
CREATE TABLE IF NOT EXISTS evses (
    id          TEXT NOT NULL,
    station_id  TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'available',
    max_power_w DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (station_id, id)
);
CREATE TABLE IF NOT EXISTS sessions (
    id          TEXT NOT NULL,
    network_id  TEXT NOT NULL REFERENCES networks(id),
    evse_id     TEXT NOT NULL,
    provider_id TEXT NOT NULL DEFAULT '',
    auth_token  TEXT NOT NULL DEFAULT '',
    state       TEXT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL,
    stopped_at  TIMESTAMPTZ,
    cdr         JSONB,
    PRIMARY KEY (network_id, id)
);
CREATE TABLE IF NOT EXISTS reservations (
    id          TEXT NOT NULL,
    network_id  TEXT NOT NULL REFERENCES networks(id),
    evse_id     TEXT NOT NULL,
    provider_id TEXT NOT NULL,
    expires_at  TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (network_id, id)
);
CREATE TABLE IF NOT EXISTS providers (
    id          TEXT NOT NULL,
    network_id  TEXT NOT NULL REFERENCES networks(id),
    name        TEXT NOT NULL,
    auth_tokens TEXT[] NOT NULL DEFAULT '{}',
    PRIMARY KEY (network_id, id)
);
`

// -----------------------------------------------------------------------------
// Directory reads
// -----------------------------------------------------------------------------

func (s *Postgres) NetworkByID(ctx context.Context, netID id.RoamingNetworkID) (*models.RoamingNetwork, bool) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, description, hostnames, created_at FROM networks WHERE id = $1`, string(netID))
	return scanNetwork(row)
}

func (s *Postgres) NetworkByHostname(ctx context.Context, hostname string) (*models.RoamingNetwork, bool) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, description, hostnames, created_at FROM networks WHERE $1 = ANY(hostnames)`, hostname)
	return scanNetwork(row)
}

func scanNetwork(row pgx.Row) (*models.RoamingNetwork, bool) {
	var net models.RoamingNetwork
	if err := row.Scan(&net.ID, &net.Name, &net.Description, &net.Hostnames, &net.CreatedAt); err != nil {
		return nil, false
	}
	return &net, true
}

func (s *Postgres) Networks(ctx context.Context) []*models.RoamingNetwork {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, hostnames, created_at FROM networks ORDER BY id`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.RoamingNetwork
	for rows.Next() {
		if net, ok := scanNetwork(rows); ok {
			out = append(out, net)
		}
	}
	return out
}

func (s *Postgres) OperatorByID(ctx context.Context, net *models.RoamingNetwork, opID id.OperatorID) (*models.Operator, bool) {
	var op models.Operator
	err := s.pool.QueryRow(ctx,
		`SELECT id, network_id, name, created_at FROM operators WHERE network_id = $1 AND id = $2`,
		string(net.ID), string(opID),
	).Scan(&op.ID, &op.NetworkID, &op.Name, &op.CreatedAt)
	if err != nil {
		return nil, false
	}
	return &op, true
}

func (s *Postgres) Operators(ctx context.Context, net *models.RoamingNetwork) []*models.Operator {
	rows, err := s.pool.Query(ctx,
		`SELECT id, network_id, name, created_at FROM operators WHERE network_id = $1 ORDER BY id`, string(net.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.Operator
	for rows.Next() {
		var op models.Operator
		if err := rows.Scan(&op.ID, &op.NetworkID, &op.Name, &op.CreatedAt); err == nil {
			out = append(out, &op)
		}
	}
	return out
}

func (s *Postgres) PoolByID(ctx context.Context, net *models.RoamingNetwork, poolID id.ChargingPoolID) (*models.ChargingPool, bool) {
	var pool models.ChargingPool
	err := s.pool.QueryRow(ctx,
		`SELECT id, network_id, operator_id, name, address FROM pools WHERE network_id = $1 AND id = $2`,
		string(net.ID), string(poolID),
	).Scan(&pool.ID, &pool.NetworkID, &pool.OperatorID, &pool.Name, &pool.Address)
	if err != nil {
		return nil, false
	}
	return &pool, true
}

func (s *Postgres) Pools(ctx context.Context, net *models.RoamingNetwork) []*models.ChargingPool {
	rows, err := s.pool.Query(ctx,
		`SELECT id, network_id, operator_id, name, address FROM pools WHERE network_id = $1 ORDER BY id`, string(net.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.ChargingPool
	for rows.Next() {
		var pool models.ChargingPool
		if err := rows.Scan(&pool.ID, &pool.NetworkID, &pool.OperatorID, &pool.Name, &pool.Address); err == nil {
			out = append(out, &pool)
		}
	}
	return out
}

func (s *Postgres) SessionByID(ctx context.Context, net *models.RoamingNetwork, sessionID id.ChargingSessionID) (*models.ChargingSession, bool) {
	var session models.ChargingSession
	err := s.pool.QueryRow(ctx,
		`SELECT id, network_id, evse_id, provider_id, auth_token, state, started_at, stopped_at, cdr
		 FROM sessions WHERE network_id = $1 AND id = $2`,
		string(net.ID), string(sessionID),
	).Scan(&session.ID, &session.NetworkID, &session.EVSEID, &session.ProviderID,
		&session.AuthToken, &session.State, &session.StartedAt, &session.StoppedAt, &session.CDR)
	if err != nil {
		return nil, false
	}
	return &session, true
}

func (s *Postgres) Sessions(ctx context.Context, net *models.RoamingNetwork) []*models.ChargingSession {
	rows, err := s.pool.Query(ctx,
		`SELECT id, network_id, evse_id, provider_id, auth_token, state, started_at, stopped_at, cdr
		 FROM sessions WHERE network_id = $1 ORDER BY started_at`, string(net.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.ChargingSession
	for rows.Next() {
		var session models.ChargingSession
		if err := rows.Scan(&session.ID, &session.NetworkID, &session.EVSEID, &session.ProviderID,
			&session.AuthToken, &session.State, &session.StartedAt, &session.StoppedAt, &session.CDR); err == nil {
			out = append(out, &session)
		}
	}
	return out
}

func (s *Postgres) ReservationByID(ctx context.Context, net *models.RoamingNetwork, resID id.ReservationID) (*models.Reservation, bool) {
	var res models.Reservation
	err := s.pool.QueryRow(ctx,
		`SELECT id, network_id, evse_id, provider_id, expires_at FROM reservations WHERE network_id = $1 AND id = $2`,
		string(net.ID), string(resID),
	).Scan(&res.ID, &res.NetworkID, &res.EVSEID, &res.ProviderID, &res.ExpiresAt)
	if err != nil {
		return nil, false
	}
	return &res, true
}

func (s *Postgres) Reservations(ctx context.Context, net *models.RoamingNetwork) []*models.Reservation {
	rows, err := s.pool.Query(ctx,
		`SELECT id, network_id, evse_id, provider_id, expires_at FROM reservations WHERE network_id = $1 ORDER BY id`,
		string(net.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.NetworkID, &res.EVSEID, &res.ProviderID, &res.ExpiresAt); err == nil {
			out = append(out, &res)
		}
	}
	return out
}

func (s *Postgres) ProviderByID(ctx context.Context, net *models.RoamingNetwork, provID id.ProviderID) (*models.Provider, bool) {
	var prov models.Provider
	err := s.pool.QueryRow(ctx,
		`SELECT id, network_id, name, auth_tokens FROM providers WHERE network_id = $1 AND id = $2`,
		string(net.ID), string(provID),
	).Scan(&prov.ID, &prov.NetworkID, &prov.Name, &prov.AuthTokens)
	if err != nil {
		return nil, false
	}
	return &prov, true
}

func (s *Postgres) Providers(ctx context.Context, net *models.RoamingNetwork) []*models.Provider {
	rows, err := s.pool.Query(ctx,
		`SELECT id, network_id, name, auth_tokens FROM providers WHERE network_id = $1 ORDER BY id`, string(net.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.Provider
	for rows.Next() {
		var prov models.Provider
		if err := rows.Scan(&prov.ID, &prov.NetworkID, &prov.Name, &prov.AuthTokens); err == nil {
			out = append(out, &prov)
		}
	}
	return out
}

func (s *Postgres) BrandByID(ctx context.Context, op *models.Operator, brandID id.BrandID) (*models.Brand, bool) {
	var brand models.Brand
	err := s.pool.QueryRow(ctx,
		`SELECT id, operator_id, name FROM brands WHERE operator_id = $1 AND id = $2`,
		string(op.ID), string(brandID),
	).Scan(&brand.ID, &brand.OperatorID, &brand.Name)
	if err != nil {
		return nil, false
	}
	return &brand, true
}

func (s *Postgres) GroupByID(ctx context.Context, op *models.Operator, groupID id.ChargingGroupID) (*models.ChargingGroup, bool) {
	var group models.ChargingGroup
	err := s.pool.QueryRow(ctx,
		`SELECT id, operator_id, name FROM charging_groups WHERE operator_id = $1 AND id = $2`,
		string(op.ID), string(groupID),
	).Scan(&group.ID, &group.OperatorID, &group.Name)
	if err != nil {
		return nil, false
	}
	return &group, true
}

func (s *Postgres) StationByID(ctx context.Context, pool *models.ChargingPool, stationID id.ChargingStationID) (*models.ChargingStation, bool) {
	var station models.ChargingStation
	err := s.pool.QueryRow(ctx,
		`SELECT id, pool_id, name FROM stations WHERE pool_id = $1 AND id = $2`,
		string(pool.ID), string(stationID),
	).Scan(&station.ID, &station.PoolID, &station.Name)
	if err != nil {
		return nil, false
	}
	return &station, true
}

func (s *Postgres) Stations(ctx context.Context, pool *models.ChargingPool) []*models.ChargingStation {
	rows, err := s.pool.Query(ctx,
		`SELECT id, pool_id, name FROM stations WHERE pool_id = $1 ORDER BY id`, string(pool.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.ChargingStation
	for rows.Next() {
		var station models.ChargingStation
		if err := rows.Scan(&station.ID, &station.PoolID, &station.Name); err == nil {
			out = append(out, &station)
		}
	}
	return out
}

func (s *Postgres) EVSEByID(ctx context.Context, station *models.ChargingStation, evseID id.EVSEID) (*models.EVSE, bool) {
	var evse models.EVSE
	err := s.pool.QueryRow(ctx,
		`SELECT id, station_id, status, max_power_w FROM evses WHERE station_id = $1 AND id = $2`,
		string(station.ID), string(evseID),
	).Scan(&evse.ID, &evse.StationID, &evse.Status, &evse.MaxPowerW)
	if err != nil {
		return nil, false
	}
	return &evse, true
}

func (s *Postgres) EVSEs(ctx context.Context, station *models.ChargingStation) []*models.EVSE {
	rows, err := s.pool.Query(ctx,
		`SELECT id, station_id, status, max_power_w FROM evses WHERE station_id = $1 ORDER BY id`, string(station.ID))
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*models.EVSE
	for rows.Next() {
		var evse models.EVSE
		if err := rows.Scan(&evse.ID, &evse.StationID, &evse.Status, &evse.MaxPowerW); err == nil {
			out = append(out, &evse)
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Writes (admin wiring and session lifecycle)
// -----------------------------------------------------------------------------

func (s *Postgres) AddNetwork(ctx context.Context, net *models.RoamingNetwork) error {
	created := net.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO networks (id, name, description, hostnames, created_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET name = $2, description = $3, hostnames = $4`,
		string(net.ID), net.Name, net.Description, net.Hostnames, created)
	return err
}

func (s *Postgres) AddOperator(ctx context.Context, op *models.Operator) error {
	created := op.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO operators (id, network_id, name, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (network_id, id) DO UPDATE SET name = $3`,
		string(op.ID), string(op.NetworkID), op.Name, created)
	return err
}

func (s *Postgres) AddBrand(ctx context.Context, brand *models.Brand) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO brands (id, operator_id, name) VALUES ($1, $2, $3)
		 ON CONFLICT (operator_id, id) DO UPDATE SET name = $3`,
		string(brand.ID), string(brand.OperatorID), brand.Name)
	return err
}

func (s *Postgres) AddGroup(ctx context.Context, group *models.ChargingGroup) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO charging_groups (id, operator_id, name) VALUES ($1, $2, $3)
		 ON CONFLICT (operator_id, id) DO UPDATE SET name = $3`,
		string(group.ID), string(group.OperatorID), group.Name)
	return err
}

func (s *Postgres) AddPool(ctx context.Context, pool *models.ChargingPool) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pools (id, network_id, operator_id, name, address) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (network_id, id) DO UPDATE SET operator_id = $3, name = $4, address = $5`,
		string(pool.ID), string(pool.NetworkID), string(pool.OperatorID), pool.Name, pool.Address)
	return err
}

func (s *Postgres) AddStation(ctx context.Context, station *models.ChargingStation) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO stations (id, pool_id, name) VALUES ($1, $2, $3)
		 ON CONFLICT (pool_id, id) DO UPDATE SET name = $3`,
		string(station.ID), string(station.PoolID), station.Name)
	return err
}

func (s *Postgres) AddEVSE(ctx context.Context, evse *models.EVSE) error {
	status := evse.Status
	if status == "" {
		status = models.EVSEStatusAvailable
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO evses (id, station_id, status, max_power_w) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (station_id, id) DO UPDATE SET status = $3, max_power_w = $4`,
		string(evse.ID), string(evse.StationID), string(status), evse.MaxPowerW)
	return err
}

func (s *Postgres) AddProvider(ctx context.Context, prov *models.Provider) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO providers (id, network_id, name, auth_tokens) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (network_id, id) DO UPDATE SET name = $3, auth_tokens = $4`,
		string(prov.ID), string(prov.NetworkID), prov.Name, prov.AuthTokens)
	return err
}

func (s *Postgres) PutSession(ctx context.Context, session *models.ChargingSession) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, network_id, evse_id, provider_id, auth_token, state, started_at, stopped_at, cdr)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (network_id, id) DO UPDATE SET state = $6, stopped_at = $8, cdr = $9`,
		string(session.ID), string(session.NetworkID), string(session.EVSEID),
		string(session.ProviderID), session.AuthToken, string(session.State),
		session.StartedAt, session.StoppedAt, session.CDR)
	return err
}

func (s *Postgres) PutReservation(ctx context.Context, res *models.Reservation) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO reservations (id, network_id, evse_id, provider_id, expires_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (network_id, id) DO UPDATE SET expires_at = $5`,
		string(res.ID), string(res.NetworkID), string(res.EVSEID), string(res.ProviderID), res.ExpiresAt)
	return err
}

// SetEVSEStatus updates the status of one EVSE.
func (s *Postgres) SetEVSEStatus(ctx context.Context, stationID id.ChargingStationID, evseID id.EVSEID, status models.EVSEStatus) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE evses SET status = $3 WHERE station_id = $1 AND id = $2`,
		string(stationID), string(evseID), string(status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
