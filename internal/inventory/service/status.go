package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"chargenet/internal/events"
	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
)

// EVSEStatusEntry is one EVSE's state in a network-wide snapshot.
type EVSEStatusEntry struct {
	EVSEID    id.EVSEID            `json:"evse_id"`
	StationID id.ChargingStationID `json:"station_id"`
	PoolID    id.ChargingPoolID    `json:"pool_id"`
	Status    models.EVSEStatus    `json:"status"`
}

// EVSEStatusSnapshot walks every pool of the network in parallel and returns
// the state of all EVSEs, sorted by EVSE ID.
func (s *Service) EVSEStatusSnapshot(ctx context.Context, net *models.RoamingNetwork) ([]EVSEStatusEntry, error) {
	s.raise(ctx, events.GetEVSEsStatusRequest, events.TextPayload(fmt.Sprintf("network=%s", net.ID)))

	pools := s.store.Pools(ctx, net)
	perPool := make([][]EVSEStatusEntry, len(pools))

	g, gctx := errgroup.WithContext(ctx)
	for i, pool := range pools {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perPool[i] = s.poolStatus(gctx, pool)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.ObserveOperation("evse_status", "failure")
		return nil, err
	}

	var entries []EVSEStatusEntry
	for _, poolEntries := range perPool {
		entries = append(entries, poolEntries...)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EVSEID < entries[j].EVSEID })

	s.metrics.ObserveOperation("evse_status", "success")
	return entries, nil
}

func (s *Service) poolStatus(ctx context.Context, pool *models.ChargingPool) []EVSEStatusEntry {
	var entries []EVSEStatusEntry
	for _, station := range s.store.Stations(ctx, pool) {
		for _, evse := range s.store.EVSEs(ctx, station) {
			entries = append(entries, EVSEStatusEntry{
				EVSEID:    evse.ID,
				StationID: station.ID,
				PoolID:    pool.ID,
				Status:    evse.Status,
			})
		}
	}
	return entries
}
