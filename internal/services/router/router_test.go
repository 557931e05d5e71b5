package router

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/gateway"
	"github.com/meridianswap/swap-engine/internal/services/amm"
)

func testConfig() Config {
	return Config{
		MaxHops:      2,
		MaxSplits:    2,
		Protocols:    []domain.Protocol{domain.ProtocolMeridian, domain.ProtocolVertex, domain.ProtocolHalcyon},
		BridgeTokens: []string{"WETH", "USDC"},
		GasPrice:     25,
	}
}

func pool(id string, protocol domain.Protocol, token0, token1 string, reserve0, reserve1 int64, feePpm uint32) *domain.Pool {
	return &domain.Pool{
		ID:         id,
		Protocol:   protocol,
		Token0:     token0,
		Token1:     token1,
		Reserve0:   big.NewInt(reserve0),
		Reserve1:   big.NewInt(reserve1),
		FeeRatePpm: feePpm,
	}
}

func newTestRouter(t *testing.T, gw gateway.PoolGateway, cfg Config) *Router {
	t.Helper()
	r, err := New(gw, cfg)
	require.NoError(t, err)
	return r
}

// TestFindBestRouteSinglePool: with one pool available, the best route is
// exactly that pool's simulation.
func TestFindBestRouteSinglePool(t *testing.T) {
	p := pool("m-ab", domain.ProtocolMeridian, "TOKA", "TOKB", 1_000_000, 1_000_000, 3000)
	r := newTestRouter(t, gateway.NewStaticGateway([]*domain.Pool{p}), testConfig())

	amountIn := big.NewInt(1000)
	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", amountIn)
	require.NoError(t, err)
	require.NotNil(t, route)

	expected, err := amm.Simulate(p, "TOKA", amountIn)
	require.NoError(t, err)

	require.Equal(t, 1, route.HopCount())
	require.False(t, route.IsSplit)
	require.Zero(t, route.AmountOut.Cmp(expected.AmountOut))
	require.Equal(t, expected.PriceImpactBps, route.PriceImpactBps)
	require.Equal(t, []string{"TOKA", "TOKB"}, route.Path())
}

// TestFindBestRouteNoLiquidity: an unroutable pair is (nil, nil), not an
// error.
func TestFindBestRouteNoLiquidity(t *testing.T) {
	r := newTestRouter(t, gateway.NewStaticGateway(nil), testConfig())

	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", big.NewInt(1000))
	require.NoError(t, err)
	require.Nil(t, route)
}

func TestFindBestRouteValidation(t *testing.T) {
	r := newTestRouter(t, gateway.NewStaticGateway(nil), testConfig())
	ctx := context.Background()

	_, err := r.FindBestRoute(ctx, "", "TOKB", big.NewInt(1))
	require.ErrorIs(t, err, ErrEmptyToken)

	_, err = r.FindBestRoute(ctx, "TOKA", "TOKA", big.NewInt(1))
	require.ErrorIs(t, err, ErrSamePair)

	_, err = r.FindBestRoute(ctx, "TOKA", "TOKB", big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = r.FindBestRoute(ctx, "TOKA", "TOKB", nil)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

// TestFindBestRoutePrefersDeeperPool: with two direct pools for the pair,
// the deeper one yields more output and must win.
func TestFindBestRoutePrefersDeeperPool(t *testing.T) {
	shallow := pool("m-shallow", domain.ProtocolMeridian, "TOKA", "TOKB", 100_000, 100_000, 3000)
	deep := pool("v-deep", domain.ProtocolVertex, "TOKA", "TOKB", 10_000_000, 10_000_000, 3000)
	r := newTestRouter(t, gateway.NewStaticGateway([]*domain.Pool{shallow, deep}), Config{
		MaxHops:   1,
		MaxSplits: 1,
		Protocols: testConfig().Protocols,
		GasPrice:  25,
	})

	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", big.NewInt(10_000))
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Equal(t, "v-deep", route.Hops[0].Pool.ID)
}

// TestFindBestRouteMultiHop: no direct pool exists, but the pair is
// reachable through a bridge token.
func TestFindBestRouteMultiHop(t *testing.T) {
	pools := []*domain.Pool{
		pool("m-a-weth", domain.ProtocolMeridian, "TOKA", "WETH", 5_000_000, 5_000_000, 3000),
		pool("m-weth-b", domain.ProtocolMeridian, "WETH", "TOKB", 5_000_000, 5_000_000, 3000),
	}
	r := newTestRouter(t, gateway.NewStaticGateway(pools), testConfig())

	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", big.NewInt(10_000))
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Equal(t, 2, route.HopCount())
	require.Equal(t, []string{"TOKA", "WETH", "TOKB"}, route.Path())
	require.Equal(t, gasEstimate(2), route.GasEstimate)

	// Aggregate impact is the sum of the legs.
	require.Equal(t, sumImpact(route.Hops[0].PriceImpactBps, route.Hops[1].PriceImpactBps), route.PriceImpactBps)
}

// TestFindBestRouteMaxHopsOne: the same bridged pair is unroutable when
// multi-hop search is disabled.
func TestFindBestRouteMaxHopsOne(t *testing.T) {
	pools := []*domain.Pool{
		pool("m-a-weth", domain.ProtocolMeridian, "TOKA", "WETH", 5_000_000, 5_000_000, 3000),
		pool("m-weth-b", domain.ProtocolMeridian, "WETH", "TOKB", 5_000_000, 5_000_000, 3000),
	}
	cfg := testConfig()
	cfg.MaxHops = 1
	r := newTestRouter(t, gateway.NewStaticGateway(pools), cfg)

	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", big.NewInt(10_000))
	require.NoError(t, err)
	require.Nil(t, route)
}

// TestFindBestRouteSplitBeatsSingle: a trade large relative to two equal
// pools gets more output split across both, and the scorer must notice.
func TestFindBestRouteSplitBeatsSingle(t *testing.T) {
	pools := []*domain.Pool{
		pool("m-ab-1", domain.ProtocolMeridian, "TOKA", "TOKB", 1_000_000, 1_000_000, 3000),
		pool("m-ab-2", domain.ProtocolMeridian, "TOKA", "TOKB", 1_000_000, 1_000_000, 3000),
	}
	r := newTestRouter(t, gateway.NewStaticGateway(pools), testConfig())

	amountIn := big.NewInt(200_000)
	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", amountIn)
	require.NoError(t, err)
	require.NotNil(t, route)
	require.True(t, route.IsSplit)
	require.Equal(t, 2, route.HopCount())

	single, err := amm.Simulate(pools[0], "TOKA", amountIn)
	require.NoError(t, err)
	require.Positive(t, route.AmountOut.Cmp(single.AmountOut),
		"split output %s should exceed single-pool output %s", route.AmountOut, single.AmountOut)

	// Split legs together must consume exactly the requested amount class.
	legSum := new(big.Int)
	for _, hop := range route.Hops {
		legSum.Add(legSum, hop.AmountIn)
	}
	require.Zero(t, legSum.Cmp(amountIn))
}

type flakyGateway struct {
	inner   gateway.PoolGateway
	failing domain.Protocol
}

func (g *flakyGateway) Pools(ctx context.Context, protocol domain.Protocol, tokenIn, tokenOut string) ([]*domain.Pool, error) {
	if protocol == g.failing {
		return nil, errors.New("adapter down")
	}
	return g.inner.Pools(ctx, protocol, tokenIn, tokenOut)
}

// TestFindBestRoutePartialGatewayFailure: one protocol's lookup failing
// must not sink the search; surviving protocols still produce a route.
func TestFindBestRoutePartialGatewayFailure(t *testing.T) {
	pools := []*domain.Pool{
		pool("m-ab", domain.ProtocolMeridian, "TOKA", "TOKB", 1_000_000, 1_000_000, 3000),
		pool("v-ab", domain.ProtocolVertex, "TOKA", "TOKB", 9_000_000, 9_000_000, 3000),
	}
	gw := &flakyGateway{inner: gateway.NewStaticGateway(pools), failing: domain.ProtocolVertex}
	r := newTestRouter(t, gw, testConfig())

	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", big.NewInt(1000))
	require.NoError(t, err)
	require.NotNil(t, route)
	require.Equal(t, domain.ProtocolMeridian, route.Hops[0].Protocol)
}

func TestRouteLessTieBreaks(t *testing.T) {
	oneHop := &domain.Route{
		Hops:           make([]domain.RouteHop, 1),
		PriceImpactBps: 50,
		Score:          100,
	}
	twoHop := &domain.Route{
		Hops:           make([]domain.RouteHop, 2),
		PriceImpactBps: 30,
		Score:          100,
	}
	// Equal scores: fewer hops wins regardless of impact.
	require.True(t, routeLess(twoHop, oneHop))
	require.False(t, routeLess(oneHop, twoHop))

	lowImpact := &domain.Route{Hops: make([]domain.RouteHop, 1), PriceImpactBps: 10, Score: 100}
	highImpact := &domain.Route{Hops: make([]domain.RouteHop, 1), PriceImpactBps: 90, Score: 100}
	// Equal scores and hops: lower impact wins.
	require.True(t, routeLess(highImpact, lowImpact))

	betterScore := &domain.Route{Hops: make([]domain.RouteHop, 3), PriceImpactBps: 500, Score: 200}
	// A clear score gap overrides every tie-break.
	require.True(t, routeLess(oneHop, betterScore))
}

func TestUpdateConfig(t *testing.T) {
	r := newTestRouter(t, gateway.NewStaticGateway(nil), testConfig())

	three := 3
	require.NoError(t, r.UpdateConfig(ConfigUpdate{MaxHops: &three}))
	got := r.Config()
	require.Equal(t, 3, got.MaxHops)
	require.Equal(t, 2, got.MaxSplits)

	zero := 0
	err := r.UpdateConfig(ConfigUpdate{MaxHops: &zero})
	require.Error(t, err)
	// Rejected updates leave the previous config intact.
	require.Equal(t, 3, r.Config().MaxHops)
}

func TestSummary(t *testing.T) {
	p := pool("m-ab", domain.ProtocolMeridian, "TOKA", "TOKB", 1_000_000, 1_000_000, 3000)
	r := newTestRouter(t, gateway.NewStaticGateway([]*domain.Pool{p}), testConfig())

	route, err := r.FindBestRoute(context.Background(), "TOKA", "TOKB", big.NewInt(1000))
	require.NoError(t, err)
	require.NotNil(t, route)

	summary := r.Summary(route)
	require.NotNil(t, summary)
	require.Equal(t, 1, summary.Hops)
	require.Equal(t, []domain.Protocol{domain.ProtocolMeridian}, summary.Protocols)
	require.Equal(t, []string{"TOKA", "TOKB"}, summary.Path)
	require.Zero(t, summary.EstimatedOutput.Cmp(route.AmountOut))

	require.Nil(t, r.Summary(nil))
}
