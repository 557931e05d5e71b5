package router

import (
	"math"
	"math/big"
	"sort"

	"github.com/meridianswap/swap-engine/internal/domain"
)

// Scoring weights. Output dominates; impact, gas, and hop count are
// penalties so that among near-equal outputs the cheaper, simpler route
// wins.
const (
	kOut    = 1.0
	kImpact = 0.5    // per bps of aggregate price impact
	kGas    = 1e-6   // per unit of gas cost (gasEstimate * gasPrice)
	kHops   = 1000.0 // per executed hop
)

// scoreEpsilon treats near-identical scores as ties so the deterministic
// tie-breaks (fewer hops, then lower impact) apply.
const scoreEpsilon = 1e-9

// scoreRoute computes the additive route score:
//
//	score = out*kOut - impactBps*kImpact - gasCost*kGas - hops*kHops
func scoreRoute(route *domain.Route, cfg Config) float64 {
	out, _ := new(big.Float).SetInt(route.AmountOut).Float64()
	gasCost := float64(route.GasEstimate) * float64(cfg.GasPrice)

	return out*kOut -
		float64(route.PriceImpactBps)*kImpact -
		gasCost*kGas -
		float64(route.HopCount())*kHops
}

// pickBest scores every candidate and returns the winner, or nil when no
// candidate has positive output.
func pickBest(candidates []*domain.Route, cfg Config) *domain.Route {
	viable := candidates[:0:0]
	for _, c := range candidates {
		if c != nil && c.AmountOut != nil && c.AmountOut.Sign() > 0 {
			c.Score = scoreRoute(c, cfg)
			viable = append(viable, c)
		}
	}
	if len(viable) == 0 {
		return nil
	}

	sort.Slice(viable, func(i, j int) bool {
		return routeLess(viable[j], viable[i])
	})
	return viable[0]
}

// routeLess orders a below b: lower score first, ties broken by more hops,
// then higher price impact. Sorting with the arguments flipped therefore
// yields descending quality.
func routeLess(a, b *domain.Route) bool {
	if math.Abs(a.Score-b.Score) > scoreEpsilon {
		return a.Score < b.Score
	}
	if a.HopCount() != b.HopCount() {
		return a.HopCount() > b.HopCount()
	}
	return a.PriceImpactBps > b.PriceImpactBps
}
