package resolve

import (
	"context"

	"chargenet/internal/inventory"
	"chargenet/internal/inventory/models"
	id "chargenet/pkg/domain"
)

// Entity kind names as they appear in failure responses.
const (
	KindRoamingNetwork    = "RoamingNetwork"
	KindOperator          = "ChargingStationOperator"
	KindBrand             = "Brand"
	KindChargingGroup     = "ChargingGroup"
	KindChargingPool      = "ChargingPool"
	KindChargingStation   = "ChargingStation"
	KindEVSE              = "EVSE"
	KindChargingSession   = "ChargingSession"
	KindReservation       = "Reservation"
	KindEMobilityProvider = "EMobilityProvider"
)

// Pipelines builds the concrete resolution pipelines over a directory.
// Every hierarchy the API serves is listed here as data; handlers never
// hand-roll segment handling.
type Pipelines struct {
	dir inventory.Directory
}

// NewPipelines binds the pipeline set to an entity directory.
func NewPipelines(dir inventory.Directory) *Pipelines {
	return &Pipelines{dir: dir}
}

func (p *Pipelines) Network() Pipeline {
	return Pipeline{p.networkStep()}
}

func (p *Pipelines) NetworkOperator() Pipeline {
	return Pipeline{p.networkStep(), p.operatorStep()}
}

func (p *Pipelines) NetworkOperatorBrand() Pipeline {
	return Pipeline{p.networkStep(), p.operatorStep(), p.brandStep()}
}

func (p *Pipelines) NetworkOperatorGroup() Pipeline {
	return Pipeline{p.networkStep(), p.operatorStep(), p.groupStep()}
}

func (p *Pipelines) NetworkPool() Pipeline {
	return Pipeline{p.networkStep(), p.poolStep()}
}

func (p *Pipelines) NetworkPoolStation() Pipeline {
	return Pipeline{p.networkStep(), p.poolStep(), p.stationStep()}
}

func (p *Pipelines) NetworkPoolStationEVSE() Pipeline {
	return Pipeline{p.networkStep(), p.poolStep(), p.stationStep(), p.evseStep()}
}

func (p *Pipelines) NetworkSession() Pipeline {
	return Pipeline{p.networkStep(), p.sessionStep()}
}

func (p *Pipelines) NetworkReservation() Pipeline {
	return Pipeline{p.networkStep(), p.reservationStep()}
}

func (p *Pipelines) NetworkProvider() Pipeline {
	return Pipeline{p.networkStep(), p.providerStep()}
}

// -----------------------------------------------------------------------------
// Step constructors
// -----------------------------------------------------------------------------

func (p *Pipelines) networkStep() Step {
	return Step{
		Kind: KindRoamingNetwork,
		Parse: func(segment string) (any, error) {
			return id.ParseRoamingNetworkID(segment)
		},
		Find: func(ctx context.Context, _ any, parsed any) (any, bool) {
			return p.dir.NetworkByID(ctx, parsed.(id.RoamingNetworkID))
		},
	}
}

func (p *Pipelines) operatorStep() Step {
	return Step{
		Kind: KindOperator,
		Parse: func(segment string) (any, error) {
			return id.ParseOperatorID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.OperatorByID(ctx, parent.(*models.RoamingNetwork), parsed.(id.OperatorID))
		},
	}
}

func (p *Pipelines) brandStep() Step {
	return Step{
		Kind: KindBrand,
		Parse: func(segment string) (any, error) {
			return id.ParseBrandID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.BrandByID(ctx, parent.(*models.Operator), parsed.(id.BrandID))
		},
	}
}

func (p *Pipelines) groupStep() Step {
	return Step{
		Kind: KindChargingGroup,
		Parse: func(segment string) (any, error) {
			return id.ParseChargingGroupID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.GroupByID(ctx, parent.(*models.Operator), parsed.(id.ChargingGroupID))
		},
	}
}

func (p *Pipelines) poolStep() Step {
	return Step{
		Kind: KindChargingPool,
		Parse: func(segment string) (any, error) {
			return id.ParseChargingPoolID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.PoolByID(ctx, parent.(*models.RoamingNetwork), parsed.(id.ChargingPoolID))
		},
	}
}

func (p *Pipelines) stationStep() Step {
	return Step{
		Kind: KindChargingStation,
		Parse: func(segment string) (any, error) {
			return id.ParseChargingStationID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.StationByID(ctx, parent.(*models.ChargingPool), parsed.(id.ChargingStationID))
		},
	}
}

func (p *Pipelines) evseStep() Step {
	return Step{
		Kind: KindEVSE,
		Parse: func(segment string) (any, error) {
			return id.ParseEVSEID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.EVSEByID(ctx, parent.(*models.ChargingStation), parsed.(id.EVSEID))
		},
	}
}

func (p *Pipelines) sessionStep() Step {
	return Step{
		Kind: KindChargingSession,
		Parse: func(segment string) (any, error) {
			return id.ParseChargingSessionID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.SessionByID(ctx, parent.(*models.RoamingNetwork), parsed.(id.ChargingSessionID))
		},
	}
}

func (p *Pipelines) reservationStep() Step {
	return Step{
		Kind: KindReservation,
		Parse: func(segment string) (any, error) {
			return id.ParseReservationID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.ReservationByID(ctx, parent.(*models.RoamingNetwork), parsed.(id.ReservationID))
		},
	}
}

func (p *Pipelines) providerStep() Step {
	return Step{
		Kind: KindEMobilityProvider,
		Parse: func(segment string) (any, error) {
			return id.ParseProviderID(segment)
		},
		Find: func(ctx context.Context, parent any, parsed any) (any, bool) {
			return p.dir.ProviderByID(ctx, parent.(*models.RoamingNetwork), parsed.(id.ProviderID))
		},
	}
}
