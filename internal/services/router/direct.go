package router

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/metrics"
	"github.com/meridianswap/swap-engine/internal/services/amm"
)

// fetchDirectPools fans out one lookup per enabled protocol and collects
// every pool for the pair. Lookups are independent and I/O-bound, so they
// run concurrently and are all awaited before any scoring starts. A single
// protocol failing is logged and skipped; the search continues with the
// rest.
func (r *Router) fetchDirectPools(ctx context.Context, cfg Config, tokenIn, tokenOut string) []*domain.Pool {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		pools []*domain.Pool
	)

	for _, protocol := range cfg.Protocols {
		wg.Add(1)
		go func(p domain.Protocol) {
			defer wg.Done()

			found, err := r.gw.Pools(ctx, p, tokenIn, tokenOut)
			if err != nil {
				metrics.GatewayErrors.WithLabelValues(string(p)).Inc()
				r.log.Warn().Err(err).
					Str("protocol", string(p)).
					Str("tokenIn", tokenIn).
					Str("tokenOut", tokenOut).
					Msg("pool lookup failed, skipping protocol")
				return
			}

			mu.Lock()
			pools = append(pools, found...)
			mu.Unlock()
		}(protocol)
	}
	wg.Wait()

	// Deterministic order regardless of goroutine completion order.
	sort.Slice(pools, func(i, j int) bool { return pools[i].ID < pools[j].ID })

	return pools
}

// directRoutes simulates the full amount against every candidate pool and
// turns each positive-output simulation into a one-hop route. Degenerate
// pool data fails only that pool's simulation, never the search.
func (r *Router) directRoutes(cfg Config, pools []*domain.Pool, tokenIn, tokenOut string, amountIn *big.Int) []*domain.Route {
	routes := make([]*domain.Route, 0, len(pools))

	for _, pool := range pools {
		if !pool.IsUsable() {
			r.log.Debug().Str("pool", pool.ID).Msg("skipping pool with degenerate reserves")
			continue
		}

		res, err := amm.Simulate(pool, tokenIn, amountIn)
		if err != nil {
			r.log.Debug().Err(err).Str("pool", pool.ID).Msg("simulation failed, skipping pool")
			continue
		}
		if res.AmountOut.Sign() <= 0 {
			continue
		}

		routes = append(routes, &domain.Route{
			TokenIn:  tokenIn,
			TokenOut: tokenOut,
			Hops: []domain.RouteHop{{
				Pool:           pool,
				Protocol:       pool.Protocol,
				TokenIn:        tokenIn,
				TokenOut:       tokenOut,
				FeeRatePpm:     pool.FeeRatePpm,
				AmountIn:       amountIn,
				AmountOut:      res.AmountOut,
				FeeAmount:      res.FeeAmount,
				PriceImpactBps: res.PriceImpactBps,
				SplitPercent:   100,
			}},
			AmountIn:       amountIn,
			AmountOut:      res.AmountOut,
			PriceImpactBps: res.PriceImpactBps,
			GasEstimate:    gasEstimate(1),
		})
	}

	return routes
}
