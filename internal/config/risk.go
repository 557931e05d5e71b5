package config

import (
	"errors"
)

// RiskConfig carries the slippage analyzer thresholds, all in basis points
// unless noted.
type RiskConfig struct {
	// WarnThresholdBps marks trades as warned at or above this price impact.
	WarnThresholdBps uint32

	// BlockThresholdBps blocks trades at or above this price impact.
	BlockThresholdBps uint32

	// MaxToleranceBps is the configured safe maximum slippage tolerance.
	// Tolerances above it warn; above twice it they are rejected outright.
	MaxToleranceBps uint32

	// BaseToleranceBps seeds the adaptive tolerance recommendation.
	BaseToleranceBps uint32

	// SpikeThresholdBps is the per-step price delta treated as a spike by
	// the sandwich heuristic (200 = 2%).
	SpikeThresholdBps uint32

	// HistoryCapacity bounds the per-pair price ring.
	HistoryCapacity int
}

func (c *RiskConfig) Load() error {
	c.WarnThresholdBps = uint32(getEnvOrDefaultInt("RISK_WARN_THRESHOLD_BPS", 300))
	c.BlockThresholdBps = uint32(getEnvOrDefaultInt("RISK_BLOCK_THRESHOLD_BPS", 1500))
	c.MaxToleranceBps = uint32(getEnvOrDefaultInt("RISK_MAX_TOLERANCE_BPS", 500))
	c.BaseToleranceBps = uint32(getEnvOrDefaultInt("RISK_BASE_TOLERANCE_BPS", 50))
	c.SpikeThresholdBps = uint32(getEnvOrDefaultInt("RISK_SPIKE_THRESHOLD_BPS", 200))
	c.HistoryCapacity = getEnvOrDefaultInt("RISK_HISTORY_CAPACITY", 100)
	return c.Validate()
}

func (c *RiskConfig) Validate() error {
	if c.BlockThresholdBps <= c.WarnThresholdBps {
		return errors.New("RISK_BLOCK_THRESHOLD_BPS must exceed RISK_WARN_THRESHOLD_BPS")
	}
	if c.HistoryCapacity < 3 {
		return errors.New("RISK_HISTORY_CAPACITY must be >= 3")
	}
	return nil
}
