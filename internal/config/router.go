package config

import (
	"errors"
	"time"
)

// RouterConfig carries the env-tunable defaults for the route discovery
// engine. The live engine keeps its own copy; updates go through the
// router's explicit UpdateConfig, not through this struct.
type RouterConfig struct {
	// MaxHops bounds sequential route depth. 1 disables multi-hop search.
	MaxHops int

	// MaxSplits bounds parallel split legs over one pair. 1 disables splits.
	MaxSplits int

	// Protocols is the enabled liquidity-source list.
	Protocols []string

	// BridgeTokens are the high-liquidity intermediates considered for
	// multi-hop routing.
	BridgeTokens []string

	// GasPrice is the assumed gas price in smallest native units, used only
	// for route scoring.
	GasPrice uint64

	// PoolCacheTTL bounds staleness of cached pool snapshots.
	// 0 means entries never expire and are dropped only by explicit
	// cache clears.
	PoolCacheTTL time.Duration

	// FixturePath points the fixture gateway at its pool snapshot file.
	FixturePath string
}

func (c *RouterConfig) Load() error {
	c.MaxHops = getEnvOrDefaultInt("ROUTER_MAX_HOPS", 2)
	c.MaxSplits = getEnvOrDefaultInt("ROUTER_MAX_SPLITS", 2)
	c.Protocols = getEnvOrDefaultList("ROUTER_PROTOCOLS", []string{"Meridian", "Vertex", "Halcyon"})
	c.BridgeTokens = getEnvOrDefaultList("ROUTER_BRIDGE_TOKENS", []string{"WETH", "USDC"})
	c.GasPrice = getEnvOrDefaultUint("ROUTER_GAS_PRICE", 25)
	c.PoolCacheTTL = time.Duration(getEnvOrDefaultInt("ROUTER_POOL_CACHE_TTL_MS", 0)) * time.Millisecond
	c.FixturePath = getEnvOrDefault("ROUTER_POOL_FIXTURE", "./data/pools.json")
	return c.Validate()
}

func (c *RouterConfig) Validate() error {
	if c.MaxHops < 1 {
		return errors.New("ROUTER_MAX_HOPS must be >= 1")
	}
	if c.MaxSplits < 1 {
		return errors.New("ROUTER_MAX_SPLITS must be >= 1")
	}
	if len(c.Protocols) == 0 {
		return errors.New("ROUTER_PROTOCOLS must list at least one protocol")
	}
	return nil
}
