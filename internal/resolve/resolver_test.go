package resolve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargenet/internal/inventory/models"
	"chargenet/internal/inventory/store"
)

// stubStep builds a step whose parse and lookup behavior is driven by the
// segment content: "bad" fails to parse, "missing" parses but is not found.
// Calls are counted so tests can prove later stages were never touched.
func stubStep(kind string, parses, finds *int) Step {
	return Step{
		Kind: kind,
		Parse: func(segment string) (any, error) {
			*parses++
			if segment == "bad" {
				return nil, errors.New("not a valid " + kind + " identifier")
			}
			return segment, nil
		},
		Find: func(_ context.Context, parent any, id any) (any, bool) {
			*finds++
			if id == "missing" {
				return nil, false
			}
			return fmt.Sprintf("%v/%v", parent, id), true
		},
	}
}

func TestResolve_TooFewSegments(t *testing.T) {
	var parses, finds int
	pipeline := Pipeline{
		stubStep("Alpha", &parses, &finds),
		stubStep("Beta", &parses, &finds),
		stubStep("Gamma", &parses, &finds),
	}

	tests := []struct {
		name     string
		segments []string
	}{
		{name: "no segments", segments: nil},
		{name: "one of three", segments: []string{"a"}},
		{name: "two of three", segments: []string{"a", "b"}},
		{name: "garbage content still short", segments: []string{"bad", "bad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parses, finds = 0, 0

			chain, failure := Resolve(context.Background(), pipeline, tt.segments)

			require.NotNil(t, failure)
			assert.Nil(t, chain)
			assert.Equal(t, TooFewSegments, failure.Kind)
			assert.Equal(t, 0, failure.Stage, "short input always fails at stage 0")
			assert.Equal(t, "Alpha", failure.EntityKind)
			assert.Zero(t, parses, "length check must run before any parsing")
			assert.Zero(t, finds, "length check must run before any lookup")
		})
	}
}

func TestResolve_InvalidIdentifierStopsBeforeLookup(t *testing.T) {
	var parses, finds int
	pipeline := Pipeline{
		stubStep("Alpha", &parses, &finds),
		stubStep("Beta", &parses, &finds),
		stubStep("Gamma", &parses, &finds),
	}

	chain, failure := Resolve(context.Background(), pipeline, []string{"a", "bad", "c"})

	require.NotNil(t, failure)
	assert.Nil(t, chain)
	assert.Equal(t, InvalidIdentifier, failure.Kind)
	assert.Equal(t, 1, failure.Stage)
	assert.Equal(t, "Beta", failure.EntityKind)
	assert.Contains(t, failure.Reason, "Beta")
	assert.Equal(t, 2, parses, "parsing stops at the failing segment")
	assert.Equal(t, 1, finds, "no lookup at or after the failing stage")
}

func TestResolve_EntityNotFoundStopsPipeline(t *testing.T) {
	var parses, finds int
	pipeline := Pipeline{
		stubStep("Alpha", &parses, &finds),
		stubStep("Beta", &parses, &finds),
		stubStep("Gamma", &parses, &finds),
	}

	chain, failure := Resolve(context.Background(), pipeline, []string{"a", "missing", "c"})

	require.NotNil(t, failure)
	assert.Nil(t, chain)
	assert.Equal(t, EntityNotFound, failure.Kind)
	assert.Equal(t, 1, failure.Stage)
	assert.Equal(t, "Beta", failure.EntityKind)
	assert.Contains(t, failure.Reason, `"missing"`)
	assert.Equal(t, 2, parses)
	assert.Equal(t, 2, finds, "stage after the miss is never evaluated")
}

func TestResolve_SuccessBuildsFullChain(t *testing.T) {
	var parses, finds int
	pipeline := Pipeline{
		stubStep("Alpha", &parses, &finds),
		stubStep("Beta", &parses, &finds),
	}

	chain, failure := Resolve(context.Background(), pipeline, []string{"a", "b"})

	require.Nil(t, failure)
	require.Len(t, chain, 2)
	first, ok := At[string](chain, 0)
	require.True(t, ok)
	assert.Equal(t, "<nil>/a", first)
	last, ok := Last[string](chain)
	require.True(t, ok)
	assert.Equal(t, "<nil>/a/b", last, "each step sees the previous entity as parent")
}

func TestChainAccessors_OutOfRange(t *testing.T) {
	chain := Chain{"x"}

	_, ok := At[string](chain, 1)
	assert.False(t, ok)
	_, ok = At[string](chain, -1)
	assert.False(t, ok)
	_, ok = At[int](chain, 0)
	assert.False(t, ok, "wrong type assertion reports failure, not panic")
}

func seededPipelines(t *testing.T) *Pipelines {
	t.Helper()
	s := store.NewInMemory()
	store.SeedDemoNetwork(s)
	return NewPipelines(s)
}

func TestResolve_NetworkHierarchy(t *testing.T) {
	p := seededPipelines(t)
	ctx := context.Background()

	t.Run("empty path is too short", func(t *testing.T) {
		_, failure := Resolve(ctx, p.Network(), nil)
		require.NotNil(t, failure)
		assert.Equal(t, TooFewSegments, failure.Kind)
		assert.Equal(t, KindRoamingNetwork, failure.EntityKind)
	})

	t.Run("malformed network id", func(t *testing.T) {
		_, failure := Resolve(ctx, p.Network(), []string{"!!invalid!!"})
		require.NotNil(t, failure)
		assert.Equal(t, InvalidIdentifier, failure.Kind)
		assert.Equal(t, 0, failure.Stage)
		assert.Contains(t, failure.Reason, "roaming network")
	})

	t.Run("unknown pool under known network", func(t *testing.T) {
		_, failure := Resolve(ctx, p.NetworkPool(), []string{"DE*GEF", "UNKNOWNPOOL"})
		require.NotNil(t, failure)
		assert.Equal(t, EntityNotFound, failure.Kind)
		assert.Equal(t, 1, failure.Stage)
		assert.Equal(t, KindChargingPool, failure.EntityKind)
	})

	t.Run("full evse chain resolves", func(t *testing.T) {
		segments := []string{"DE*GEF", "DE*GEF*P0001", "DE*GEF*S0001", "DE*GEF*E0001*1"}

		chain, failure := Resolve(ctx, p.NetworkPoolStationEVSE(), segments)

		require.Nil(t, failure)
		require.Len(t, chain, 4)

		net, ok := At[*models.RoamingNetwork](chain, 0)
		require.True(t, ok)
		assert.Equal(t, "DE*GEF", net.ID.String())

		pool, ok := At[*models.ChargingPool](chain, 1)
		require.True(t, ok)
		assert.Equal(t, "DE*GEF*P0001", pool.ID.String())

		evse, ok := Last[*models.EVSE](chain)
		require.True(t, ok)
		assert.Equal(t, "DE*GEF*E0001*1", evse.ID.String())
		assert.Equal(t, models.EVSEStatusAvailable, evse.Status)
	})

	t.Run("unknown first segment fails at stage 0 even with bad tail", func(t *testing.T) {
		_, failure := Resolve(ctx, p.NetworkPool(), []string{"XX*YYY", "!!also-bad!!"})
		require.NotNil(t, failure)
		assert.Equal(t, EntityNotFound, failure.Kind)
		assert.Equal(t, 0, failure.Stage)
		assert.Equal(t, KindRoamingNetwork, failure.EntityKind)
	})

	t.Run("operator scoped children", func(t *testing.T) {
		chain, failure := Resolve(ctx, p.NetworkOperatorBrand(), []string{"DE*GEF", "DE*GEF*O001", "DE*GEF*B001"})
		require.Nil(t, failure)
		brand, ok := Last[*models.Brand](chain)
		require.True(t, ok)
		assert.Equal(t, "Demo Brand", brand.Name)

		_, failure = Resolve(ctx, p.NetworkOperatorGroup(), []string{"DE*GEF", "DE*GEF*O001", "DE*GEF*G999"})
		require.NotNil(t, failure)
		assert.Equal(t, EntityNotFound, failure.Kind)
		assert.Equal(t, 2, failure.Stage)
		assert.Equal(t, KindChargingGroup, failure.EntityKind)
	})
}
