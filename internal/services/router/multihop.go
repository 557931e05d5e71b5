package router

import (
	"context"
	"math/big"

	"github.com/meridianswap/swap-engine/internal/domain"
)

// multiHopRoutes searches paths through the configured bridge tokens.
// The first leg tokenIn->bridge is always direct; the remainder recurses
// with one less hop, so MaxHops bounds total depth. Legs are inherently
// sequential: leg N+1's input is leg N's output, so they are never
// parallelized across the dependency.
func (r *Router) multiHopRoutes(ctx context.Context, cfg Config, tokenIn, tokenOut string, amountIn *big.Int) []*domain.Route {
	var routes []*domain.Route

	for _, bridge := range cfg.BridgeTokens {
		if bridge == tokenIn || bridge == tokenOut {
			continue
		}

		legA := r.bestDirectLeg(ctx, cfg, tokenIn, bridge, amountIn)
		if legA == nil {
			continue
		}

		legB := r.bestLeg(ctx, cfg, bridge, tokenOut, legA.AmountOut, cfg.MaxHops-1, map[string]struct{}{
			tokenIn: {},
			bridge:  {},
		})
		if legB == nil {
			continue
		}

		routes = append(routes, joinLegs(tokenIn, tokenOut, amountIn, legA, legB))
	}

	return routes
}

// bestLeg finds the best route from one token to another within hopsLeft
// hops, avoiding tokens already on the path.
func (r *Router) bestLeg(ctx context.Context, cfg Config, tokenIn, tokenOut string, amountIn *big.Int, hopsLeft int, visited map[string]struct{}) *domain.Route {
	best := r.bestDirectLeg(ctx, cfg, tokenIn, tokenOut, amountIn)

	if hopsLeft <= 1 {
		return best
	}

	for _, bridge := range cfg.BridgeTokens {
		if bridge == tokenIn || bridge == tokenOut {
			continue
		}
		if _, seen := visited[bridge]; seen {
			continue
		}

		legA := r.bestDirectLeg(ctx, cfg, tokenIn, bridge, amountIn)
		if legA == nil {
			continue
		}

		visited[bridge] = struct{}{}
		legB := r.bestLeg(ctx, cfg, bridge, tokenOut, legA.AmountOut, hopsLeft-1, visited)
		delete(visited, bridge)
		if legB == nil {
			continue
		}

		candidate := joinLegs(tokenIn, tokenOut, amountIn, legA, legB)
		if best == nil || candidate.AmountOut.Cmp(best.AmountOut) > 0 {
			best = candidate
		}
	}

	return best
}

// bestDirectLeg returns the single best one-hop route for a pair, judged by
// output alone. nil when no pool yields positive output.
func (r *Router) bestDirectLeg(ctx context.Context, cfg Config, tokenIn, tokenOut string, amountIn *big.Int) *domain.Route {
	pools := r.fetchDirectPools(ctx, cfg, tokenIn, tokenOut)
	candidates := r.directRoutes(cfg, pools, tokenIn, tokenOut, amountIn)

	var best *domain.Route
	for _, c := range candidates {
		if best == nil || c.AmountOut.Cmp(best.AmountOut) > 0 {
			best = c
		}
	}
	return best
}

// joinLegs concatenates two sequential legs into one route. Aggregate
// impact is the sum of leg impacts; gas re-derives from total hop count.
func joinLegs(tokenIn, tokenOut string, amountIn *big.Int, legA, legB *domain.Route) *domain.Route {
	hops := make([]domain.RouteHop, 0, len(legA.Hops)+len(legB.Hops))
	hops = append(hops, legA.Hops...)
	hops = append(hops, legB.Hops...)

	return &domain.Route{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		Hops:           hops,
		AmountIn:       amountIn,
		AmountOut:      legB.AmountOut,
		PriceImpactBps: sumImpact(legA.PriceImpactBps, legB.PriceImpactBps),
		GasEstimate:    gasEstimate(len(hops)),
	}
}
