package risk

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/rs/zerolog"

	"github.com/meridianswap/swap-engine/internal/common"
	"github.com/meridianswap/swap-engine/internal/config"
	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/metrics"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidPrice  = errors.New("price must be a positive finite number")
)

var bpsDenom = big.NewInt(10000)

// Analyzer computes slippage bounds and risk verdicts for prospective
// trades. Construct one per application with its thresholds injected;
// results are computed fresh per call and never cached.
type Analyzer struct {
	cfg     config.RiskConfig
	history *History
	log     zerolog.Logger
}

func NewAnalyzer(cfg config.RiskConfig, history *History) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		history: history,
		log:     common.ComponentLogger("risk"),
	}
}

// History exposes the analyzer's price history for callers that render it.
func (a *Analyzer) History() *History {
	return a.history
}

// RecordPrice appends a live price observation for the pair.
func (a *Analyzer) RecordPrice(pairID string, price float64, sequence uint64) error {
	if !isFinitePositive(price) {
		return ErrInvalidPrice
	}
	a.history.Record(pairID, price, sequence)
	metrics.PriceSamplesRecorded.Inc()
	return nil
}

// Analyze computes the slippage envelope and risk verdict for a trade that
// expects expectedOutput for inputAmount, cross-checked against an
// independently supplied market price (output tokens per input token).
// Using an external price rather than the pool's own mid price catches
// pools whose internal price has been manipulated.
//
// Bounds are integer basis-point arithmetic:
//
//	minAmount = expectedOutput * (10000 - toleranceBps) / 10000
//	maxAmount = expectedOutput * (10000 + toleranceBps) / 10000
//
// Warning and blocked are ordinary outcomes, not errors; only malformed
// numeric input fails.
func (a *Analyzer) Analyze(inputAmount, expectedOutput *big.Int, marketPrice float64, toleranceBps uint32) (*domain.SlippageAnalysis, error) {
	if inputAmount == nil || inputAmount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if expectedOutput == nil || expectedOutput.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if !isFinitePositive(marketPrice) {
		return nil, ErrInvalidPrice
	}

	minAmount := new(big.Int).SetInt64(0)
	if toleranceBps < 10000 {
		minAmount.SetUint64(uint64(10000 - toleranceBps))
		minAmount.Mul(minAmount, expectedOutput)
		minAmount.Div(minAmount, bpsDenom)
	}
	maxAmount := new(big.Int).SetUint64(uint64(10000 + toleranceBps))
	maxAmount.Mul(maxAmount, expectedOutput)
	maxAmount.Div(maxAmount, bpsDenom)

	impactPct := priceImpactPercent(inputAmount, expectedOutput, marketPrice)

	analysis := &domain.SlippageAnalysis{
		ExpectedAmount:     expectedOutput,
		MinAmount:          minAmount,
		MaxAmount:          maxAmount,
		SlippagePercent:    float64(toleranceBps) / 100,
		PriceImpactPercent: impactPct,
	}

	var reasons []string
	impactBps := impactPct * 100

	if impactBps >= float64(a.cfg.BlockThresholdBps) {
		analysis.Blocked = true
		reasons = append(reasons, "price impact too high")
	}
	if impactBps >= float64(a.cfg.WarnThresholdBps) {
		analysis.Warning = true
		reasons = append(reasons, "high price impact")
	}
	if toleranceBps > a.cfg.MaxToleranceBps {
		analysis.Warning = true
		reasons = append(reasons, "slippage tolerance above safe maximum")
	}
	analysis.Reason = strings.Join(reasons, "; ")

	switch {
	case analysis.Blocked:
		metrics.RiskAnalyses.WithLabelValues("blocked").Inc()
		a.log.Info().
			Float64("priceImpactPct", impactPct).
			Str("reason", analysis.Reason).
			Msg("trade blocked")
	case analysis.Warning:
		metrics.RiskAnalyses.WithLabelValues("warning").Inc()
	default:
		metrics.RiskAnalyses.WithLabelValues("ok").Inc()
	}

	return analysis, nil
}

// priceImpactPercent values the input at the external market price and
// measures how far the quoted output falls short, in percent. An output at
// or above market value is zero impact.
func priceImpactPercent(inputAmount, expectedOutput *big.Int, marketPrice float64) float64 {
	inputF := new(big.Float).SetInt(inputAmount)
	expectedAtMarket := new(big.Float).Mul(inputF, big.NewFloat(marketPrice))

	outputF := new(big.Float).SetInt(expectedOutput)
	if expectedAtMarket.Sign() <= 0 || outputF.Cmp(expectedAtMarket) >= 0 {
		return 0
	}

	shortfall := new(big.Float).Sub(expectedAtMarket, outputF)
	shortfall.Quo(shortfall, expectedAtMarket)
	pct, _ := shortfall.Float64()
	return pct * 100
}

func isFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
