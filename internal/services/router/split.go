package router

import (
	"math/big"
	"sort"

	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/services/amm"
)

// Candidate split ratios. A small fixed set keeps the search bounded; the
// scorer decides whether any split actually beats the single-pool baseline.
var twoWaySplits = [][]uint8{
	{50, 50},
	{60, 40},
	{40, 60},
	{70, 30},
	{30, 70},
}

var threeWaySplit = []uint8{34, 33, 33}

var bigHundred = big.NewInt(100)

// splitRoutes partitions amountIn across the best direct pools by each
// candidate ratio. Partial legs are independent simulations over the same
// pair; aggregate impact is the split-weighted sum of leg impacts.
func (r *Router) splitRoutes(cfg Config, direct []*domain.Route, tokenIn, tokenOut string, amountIn *big.Int) []*domain.Route {
	pools := rankPoolsByOutput(direct)
	if len(pools) < 2 {
		return nil
	}

	maxSplits := cfg.MaxSplits
	if maxSplits > 3 {
		maxSplits = 3
	}
	if len(pools) > maxSplits {
		pools = pools[:maxSplits]
	}

	var routes []*domain.Route
	for _, percents := range twoWaySplits {
		if route := r.buildSplit(pools[:2], tokenIn, tokenOut, amountIn, percents); route != nil {
			routes = append(routes, route)
		}
	}

	if maxSplits >= 3 && len(pools) >= 3 {
		if route := r.buildSplit(pools[:3], tokenIn, tokenOut, amountIn, threeWaySplit); route != nil {
			routes = append(routes, route)
		}
	}

	return routes
}

// rankPoolsByOutput orders the direct candidates' pools by their simulated
// full-amount output, best first. Reusing the direct simulations avoids a
// second gateway pass.
func rankPoolsByOutput(direct []*domain.Route) []*domain.Pool {
	ranked := make([]*domain.Route, len(direct))
	copy(ranked, direct)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].AmountOut.Cmp(ranked[j].AmountOut) > 0
	})

	pools := make([]*domain.Pool, 0, len(ranked))
	for _, route := range ranked {
		pools = append(pools, route.Hops[0].Pool)
	}
	return pools
}

// buildSplit simulates one ratio assignment. Legs that simulate to zero
// output void the whole candidate: a partial fill is not the same trade.
func (r *Router) buildSplit(pools []*domain.Pool, tokenIn, tokenOut string, amountIn *big.Int, percents []uint8) *domain.Route {
	if len(pools) != len(percents) {
		return nil
	}

	hops := make([]domain.RouteHop, 0, len(pools))
	totalOut := new(big.Int)
	weightedImpact := uint32(0)

	splitAmount := amm.GetBigInt()
	percentBig := amm.GetBigInt()
	defer func() {
		amm.PutBigInt(splitAmount)
		amm.PutBigInt(percentBig)
	}()

	for i, pool := range pools {
		percentBig.SetInt64(int64(percents[i]))
		splitAmount.Mul(amountIn, percentBig)
		splitAmount.Div(splitAmount, bigHundred)
		if splitAmount.Sign() <= 0 {
			return nil
		}

		// splitAmount is reused across iterations; the simulation needs a
		// stable value.
		legIn := new(big.Int).Set(splitAmount)

		res, err := amm.Simulate(pool, tokenIn, legIn)
		if err != nil || res.AmountOut.Sign() <= 0 {
			return nil
		}

		hops = append(hops, domain.RouteHop{
			Pool:           pool,
			Protocol:       pool.Protocol,
			TokenIn:        tokenIn,
			TokenOut:       tokenOut,
			FeeRatePpm:     pool.FeeRatePpm,
			AmountIn:       legIn,
			AmountOut:      res.AmountOut,
			FeeAmount:      res.FeeAmount,
			PriceImpactBps: res.PriceImpactBps,
			SplitPercent:   percents[i],
		})

		totalOut.Add(totalOut, res.AmountOut)
		weightedImpact += uint32(res.PriceImpactBps) * uint32(percents[i])
	}

	return &domain.Route{
		TokenIn:        tokenIn,
		TokenOut:       tokenOut,
		Hops:           hops,
		AmountIn:       amountIn,
		AmountOut:      totalOut,
		PriceImpactBps: uint16(weightedImpact / 100),
		GasEstimate:    gasEstimate(len(hops)),
		IsSplit:        true,
	}
}
