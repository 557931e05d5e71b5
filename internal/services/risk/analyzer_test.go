package risk

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianswap/swap-engine/internal/config"
)

func testRiskConfig() config.RiskConfig {
	return config.RiskConfig{
		WarnThresholdBps:  300,
		BlockThresholdBps: 1500,
		MaxToleranceBps:   500,
		BaseToleranceBps:  50,
		SpikeThresholdBps: 200,
		HistoryCapacity:   100,
	}
}

func newTestAnalyzer(cfg config.RiskConfig) *Analyzer {
	return NewAnalyzer(cfg, NewHistory(cfg.HistoryCapacity))
}

func TestAnalyzeBounds(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	// Fair trade at market price: 1e6 in, 1e6 out, tolerance 1%.
	res, err := a.Analyze(big.NewInt(1_000_000), big.NewInt(1_000_000), 1.0, 100)
	require.NoError(t, err)

	require.Equal(t, int64(990_000), res.MinAmount.Int64())
	require.Equal(t, int64(1_010_000), res.MaxAmount.Int64())
	require.Equal(t, int64(1_000_000), res.ExpectedAmount.Int64())
	require.InDelta(t, 1.0, res.SlippagePercent, 1e-9)
	require.Zero(t, res.PriceImpactPercent)
	require.False(t, res.Warning)
	require.False(t, res.Blocked)
	require.Empty(t, res.Reason)

	// min <= expected <= max always holds.
	require.True(t, res.MinAmount.Cmp(res.ExpectedAmount) <= 0)
	require.True(t, res.ExpectedAmount.Cmp(res.MaxAmount) <= 0)
}

// TestAnalyzeZeroTolerance: tolerance 0 collapses the envelope onto the
// expected amount exactly.
func TestAnalyzeZeroTolerance(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	res, err := a.Analyze(big.NewInt(1_000_000), big.NewInt(777_777), 0.7778, 0)
	require.NoError(t, err)
	require.Zero(t, res.MinAmount.Cmp(res.ExpectedAmount))
	require.Zero(t, res.MaxAmount.Cmp(res.ExpectedAmount))
}

func TestAnalyzeWarning(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	// Output 5% below market value: warn threshold (3%) crossed, block
	// threshold (15%) not.
	res, err := a.Analyze(big.NewInt(1_000_000), big.NewInt(950_000), 1.0, 100)
	require.NoError(t, err)
	require.True(t, res.Warning)
	require.False(t, res.Blocked)
	require.Equal(t, "high price impact", res.Reason)
	require.InDelta(t, 5.0, res.PriceImpactPercent, 0.01)
}

func TestAnalyzeBlocked(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	// Output 20% below market value: both thresholds crossed, reasons
	// accumulate.
	res, err := a.Analyze(big.NewInt(1_000_000), big.NewInt(800_000), 1.0, 100)
	require.NoError(t, err)
	require.True(t, res.Blocked)
	require.True(t, res.Warning)
	require.Equal(t, "price impact too high; high price impact", res.Reason)
}

func TestAnalyzeExcessiveTolerance(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	res, err := a.Analyze(big.NewInt(1_000_000), big.NewInt(1_000_000), 1.0, 600)
	require.NoError(t, err)
	require.True(t, res.Warning)
	require.False(t, res.Blocked)
	require.Equal(t, "slippage tolerance above safe maximum", res.Reason)
}

func TestAnalyzeInvalidInput(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	_, err := a.Analyze(big.NewInt(0), big.NewInt(1), 1.0, 100)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = a.Analyze(big.NewInt(1), nil, 1.0, 100)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = a.Analyze(big.NewInt(1), big.NewInt(1), math.NaN(), 100)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = a.Analyze(big.NewInt(1), big.NewInt(1), -1.0, 100)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestRecordPriceRejectsBadValues(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	require.ErrorIs(t, a.RecordPrice("WETH/USDC", 0, 1), ErrInvalidPrice)
	require.ErrorIs(t, a.RecordPrice("WETH/USDC", math.Inf(1), 1), ErrInvalidPrice)
	require.NoError(t, a.RecordPrice("WETH/USDC", 3500.25, 1))
	require.Equal(t, 1, a.History().Len("WETH/USDC"))
}

// TestDetectSandwich pins the two-spike heuristic: 100 -> 103 -> 98 is a
// pump-and-dump shape (both steps > 2%), 100 -> 103 -> 102.5 is not.
func TestDetectSandwich(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())
	const pair = "TOKA/TOKB"

	require.NoError(t, a.RecordPrice(pair, 100, 1))
	require.NoError(t, a.RecordPrice(pair, 103, 2))

	require.True(t, a.DetectSandwich(pair, 98))
	require.False(t, a.DetectSandwich(pair, 102.5))
}

func TestDetectSandwichNeedsHistory(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	require.False(t, a.DetectSandwich("TOKA/TOKB", 100))

	require.NoError(t, a.RecordPrice("TOKA/TOKB", 100, 1))
	require.False(t, a.DetectSandwich("TOKA/TOKB", 110))
}

func TestDetectSandwichSingleSpike(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())
	const pair = "TOKA/TOKB"

	// Flat history then one spike: not a sandwich shape.
	require.NoError(t, a.RecordPrice(pair, 100, 1))
	require.NoError(t, a.RecordPrice(pair, 100.5, 2))
	require.False(t, a.DetectSandwich(pair, 110))
}

func TestValidateTolerance(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	require.True(t, a.ValidateTolerance(0).Valid)
	require.True(t, a.ValidateTolerance(500).Valid)
	require.True(t, a.ValidateTolerance(1000).Valid)

	check := a.ValidateTolerance(-1)
	require.False(t, check.Valid)
	require.Contains(t, check.Error, "negative")

	check = a.ValidateTolerance(1001)
	require.False(t, check.Valid)
	require.Contains(t, check.Error, "twice the configured maximum")

	check = a.ValidateTolerance(6000)
	require.False(t, check.Valid)
	require.Contains(t, check.Error, "absolute maximum")
}

func TestRecommendToleranceBaseline(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	// No history, no sizing info: the configured base.
	require.Equal(t, uint32(50), a.RecommendTolerance("TOKA/TOKB", nil, nil))
}

func TestRecommendToleranceVolatility(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())
	const pair = "TOKA/TOKB"

	// Alternating 100/120: mean 110, stddev 10, coefficient ~0.09 (> 5%).
	for i := 0; i < 12; i++ {
		price := 100.0
		if i%2 == 1 {
			price = 120.0
		}
		require.NoError(t, a.RecordPrice(pair, price, uint64(i)))
	}

	require.Equal(t, uint32(250), a.RecommendTolerance(pair, nil, nil))
}

func TestRecommendToleranceTradeSize(t *testing.T) {
	a := newTestAnalyzer(testRiskConfig())

	// 20% of pool depth (> 10%): highest size tier.
	got := a.RecommendTolerance("TOKA/TOKB", big.NewInt(2_000), big.NewInt(10_000))
	require.Equal(t, uint32(250), got)

	// 2% of depth: lowest tier.
	got = a.RecommendTolerance("TOKA/TOKB", big.NewInt(200), big.NewInt(10_000))
	require.Equal(t, uint32(100), got)
}

func TestRecommendToleranceCap(t *testing.T) {
	cfg := testRiskConfig()
	cfg.MaxToleranceBps = 100
	a := newTestAnalyzer(cfg)
	const pair = "TOKA/TOKB"

	for i := 0; i < 12; i++ {
		price := 100.0
		if i%2 == 1 {
			price = 120.0
		}
		require.NoError(t, a.RecordPrice(pair, price, uint64(i)))
	}

	// Base 50 + 200 volatility + 200 size would be 450; cap is 2*100.
	got := a.RecommendTolerance(pair, big.NewInt(2_000), big.NewInt(10_000))
	require.Equal(t, uint32(200), got)
}
