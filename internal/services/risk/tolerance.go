package risk

import (
	"fmt"
	"math"
	"math/big"

	"github.com/meridianswap/swap-engine/internal/domain"
)

// AbsoluteMaxToleranceBps is the hard ceiling on slippage tolerance (50%).
// No configuration can raise it.
const AbsoluteMaxToleranceBps = 5000

// minVolatilitySamples is the observation count below which volatility is
// treated as unknown and contributes nothing to the recommendation.
const minVolatilitySamples = 10

// ValidateTolerance checks a caller-supplied tolerance. Rejections are
// structured results, not errors: the caller renders them.
func (a *Analyzer) ValidateTolerance(toleranceBps int64) domain.ToleranceCheck {
	switch {
	case toleranceBps < 0:
		return domain.ToleranceCheck{Error: "slippage tolerance cannot be negative"}
	case toleranceBps > AbsoluteMaxToleranceBps:
		return domain.ToleranceCheck{Error: fmt.Sprintf("slippage tolerance exceeds absolute maximum of %d bps", AbsoluteMaxToleranceBps)}
	case toleranceBps > int64(2*a.cfg.MaxToleranceBps):
		return domain.ToleranceCheck{Error: fmt.Sprintf("slippage tolerance exceeds twice the configured maximum of %d bps", a.cfg.MaxToleranceBps)}
	default:
		return domain.ToleranceCheck{Valid: true}
	}
}

// RecommendTolerance derives an adaptive tolerance for a pair from recent
// price volatility and the trade's share of available liquidity. Tiered
// additive adjustments on top of the configured base, capped at twice the
// configured maximum.
func (a *Analyzer) RecommendTolerance(pairID string, tradeSize, liquidityDepth *big.Int) uint32 {
	recommended := a.cfg.BaseToleranceBps

	switch vol := a.volatility(pairID); {
	case vol > 0.05:
		recommended += 200
	case vol > 0.02:
		recommended += 100
	case vol > 0.01:
		recommended += 50
	}

	switch ratio := depthRatio(tradeSize, liquidityDepth); {
	case ratio > 0.1:
		recommended += 200
	case ratio > 0.05:
		recommended += 100
	case ratio > 0.01:
		recommended += 50
	}

	if limit := 2 * a.cfg.MaxToleranceBps; recommended > limit {
		recommended = limit
	}
	return recommended
}

// volatility is the coefficient of variation (stddev/mean) of the pair's
// recent prices, or 0 when fewer than minVolatilitySamples are recorded.
func (a *Analyzer) volatility(pairID string) float64 {
	samples := a.history.Samples(pairID)
	if len(samples) < minVolatilitySamples {
		return 0
	}

	var sum float64
	for _, s := range samples {
		sum += s.Price
	}
	mean := sum / float64(len(samples))
	if mean <= 0 {
		return 0
	}

	var variance float64
	for _, s := range samples {
		d := s.Price - mean
		variance += d * d
	}
	variance /= float64(len(samples))

	return math.Sqrt(variance) / mean
}

// depthRatio is tradeSize / liquidityDepth as a float, 0 when depth is
// unknown or non-positive.
func depthRatio(tradeSize, liquidityDepth *big.Int) float64 {
	if tradeSize == nil || tradeSize.Sign() <= 0 ||
		liquidityDepth == nil || liquidityDepth.Sign() <= 0 {
		return 0
	}

	sizeF := new(big.Float).SetInt(tradeSize)
	depthF := new(big.Float).SetInt(liquidityDepth)
	ratio, _ := new(big.Float).Quo(sizeF, depthF).Float64()
	return ratio
}
