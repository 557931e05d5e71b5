package risk

import (
	"math"

	"github.com/meridianswap/swap-engine/internal/metrics"
)

// DetectSandwich flags the price pattern typical of a sandwich attack:
// two consecutive deltas both exceeding the spike threshold (a pump
// immediately followed by a dump, or the reverse). A single isolated spike
// does not trigger; currentPrice is treated as the newest point on top of
// the recorded history.
func (a *Analyzer) DetectSandwich(pairID string, currentPrice float64) bool {
	if !isFinitePositive(currentPrice) {
		return false
	}

	samples := a.history.Samples(pairID)
	if len(samples) < 2 {
		return false
	}

	// samples are recent-first: samples[0] is the latest recorded price.
	latest := samples[0].Price
	prior := samples[1].Price

	threshold := float64(a.cfg.SpikeThresholdBps) / 10000

	recentDelta := relativeDelta(currentPrice, latest)
	priorDelta := relativeDelta(latest, prior)

	if recentDelta > threshold && priorDelta > threshold {
		metrics.SandwichFlags.Inc()
		a.log.Warn().
			Str("pair", pairID).
			Float64("recentDelta", recentDelta).
			Float64("priorDelta", priorDelta).
			Msg("suspicious price pattern detected")
		return true
	}
	return false
}

func relativeDelta(newPrice, oldPrice float64) float64 {
	if oldPrice <= 0 {
		return 0
	}
	return math.Abs(newPrice-oldPrice) / oldPrice
}
