package domain

import (
	"math/big"
	"time"
)

// PriceSample is one observation in a pair's price history ring.
type PriceSample struct {
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Sequence  uint64    `json:"sequence"`
}

// SlippageAnalysis is the risk verdict for a prospective trade. Computed
// fresh per call; inputs (live price, trade size) are request-specific so
// results are never cached.
type SlippageAnalysis struct {
	ExpectedAmount     *big.Int `json:"expectedAmount"`
	MinAmount          *big.Int `json:"minAmount"`
	MaxAmount          *big.Int `json:"maxAmount"`
	SlippagePercent    float64  `json:"slippagePercent"`
	PriceImpactPercent float64  `json:"priceImpactPercent"`
	Warning            bool     `json:"warning"`
	Blocked            bool     `json:"blocked"`
	Reason             string   `json:"reason,omitempty"`
}

// ToleranceCheck is the structured result of validating a caller-supplied
// slippage tolerance. Ordinary rejections are not errors.
type ToleranceCheck struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
