// Package router implements swap route discovery: direct, multi-hop, and
// split-amount searches across liquidity protocols, scored and ranked into
// a single best route per query.
package router

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianswap/swap-engine/internal/common"
	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/gateway"
	"github.com/meridianswap/swap-engine/internal/metrics"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSamePair      = errors.New("tokenIn and tokenOut must differ")
	ErrEmptyToken    = errors.New("token identifier is empty")
)

// Gas model: a fixed base per route plus a marginal cost per executed hop.
// Split legs count as hops since each executes its own swap.
const (
	gasRouteBase = 60_000
	gasPerHop    = 90_000
)

// Config is the router's tunable search envelope. Read-only during a
// search; UpdateConfig applies to subsequent calls only.
type Config struct {
	MaxHops      int
	MaxSplits    int
	Protocols    []domain.Protocol
	BridgeTokens []string
	GasPrice     uint64
}

// ConfigUpdate carries a partial config change. Nil fields keep their
// current values.
type ConfigUpdate struct {
	MaxHops      *int
	MaxSplits    *int
	Protocols    []domain.Protocol
	BridgeTokens []string
	GasPrice     *uint64
}

// Router is the route discovery engine. Construct one per application and
// inject its collaborators; there is no package-level instance.
type Router struct {
	mu  sync.RWMutex
	cfg Config

	gw  gateway.PoolGateway
	log zerolog.Logger
}

func New(gw gateway.PoolGateway, cfg Config) (*Router, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Router{
		cfg: cfg,
		gw:  gw,
		log: common.ComponentLogger("router"),
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.MaxHops < 1 {
		return errors.New("MaxHops must be >= 1")
	}
	if cfg.MaxSplits < 1 {
		return errors.New("MaxSplits must be >= 1")
	}
	if len(cfg.Protocols) == 0 {
		return errors.New("at least one protocol must be enabled")
	}
	return nil
}

// UpdateConfig applies a partial config change for subsequent searches.
// In-flight searches keep the snapshot they started with.
func (r *Router) UpdateConfig(update ConfigUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.cfg
	if update.MaxHops != nil {
		next.MaxHops = *update.MaxHops
	}
	if update.MaxSplits != nil {
		next.MaxSplits = *update.MaxSplits
	}
	if update.Protocols != nil {
		next.Protocols = update.Protocols
	}
	if update.BridgeTokens != nil {
		next.BridgeTokens = update.BridgeTokens
	}
	if update.GasPrice != nil {
		next.GasPrice = *update.GasPrice
	}

	if err := validateConfig(next); err != nil {
		return err
	}
	r.cfg = next
	return nil
}

// Config returns a copy of the current configuration.
func (r *Router) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// ClearCache invalidates the pool lookup cache, if the injected gateway
// carries one.
func (r *Router) ClearCache() {
	if c, ok := r.gw.(interface{ Clear() }); ok {
		c.Clear()
		r.log.Info().Msg("pool cache cleared")
	}
}

// FindBestRoute searches direct, multi-hop, and split routes for converting
// amountIn of tokenIn into tokenOut, and returns the top-scored candidate.
// A (nil, nil) return means no liquidity produced positive output; callers
// must branch on it, it is not a failure.
func (r *Router) FindBestRoute(ctx context.Context, tokenIn, tokenOut string, amountIn *big.Int) (*domain.Route, error) {
	if tokenIn == "" || tokenOut == "" {
		return nil, ErrEmptyToken
	}
	if tokenIn == tokenOut {
		return nil, ErrSamePair
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amountIn)
	}

	cfg := r.Config()

	start := time.Now()
	defer func() {
		metrics.RouteDuration.Observe(time.Since(start).Seconds())
	}()

	var candidates []*domain.Route

	directStart := time.Now()
	pools := r.fetchDirectPools(ctx, cfg, tokenIn, tokenOut)
	direct := r.directRoutes(cfg, pools, tokenIn, tokenOut, amountIn)
	candidates = append(candidates, direct...)
	metrics.DirectRouteDuration.Observe(time.Since(directStart).Seconds())

	if cfg.MaxHops > 1 {
		hopStart := time.Now()
		candidates = append(candidates, r.multiHopRoutes(ctx, cfg, tokenIn, tokenOut, amountIn)...)
		metrics.MultiHopDuration.Observe(time.Since(hopStart).Seconds())
	}

	if cfg.MaxSplits > 1 && len(pools) >= 2 {
		splitStart := time.Now()
		candidates = append(candidates, r.splitRoutes(cfg, direct, tokenIn, tokenOut, amountIn)...)
		metrics.SplitRouteDuration.Observe(time.Since(splitStart).Seconds())
	}

	metrics.RoutesEvaluated.Observe(float64(len(candidates)))

	best := pickBest(candidates, cfg)
	if best == nil {
		metrics.RouteRequests.WithLabelValues("no_route").Inc()
		r.log.Debug().
			Str("tokenIn", tokenIn).
			Str("tokenOut", tokenOut).
			Msg("no route found")
		return nil, nil
	}

	metrics.RouteRequests.WithLabelValues("ok").Inc()
	return best, nil
}

// Summary condenses a route into its caller-facing digest.
func (r *Router) Summary(route *domain.Route) *domain.RouteSummary {
	if route == nil {
		return nil
	}

	protocols := make([]domain.Protocol, 0, len(route.Hops))
	seen := make(map[domain.Protocol]struct{}, len(route.Hops))
	for _, h := range route.Hops {
		if _, ok := seen[h.Protocol]; !ok {
			seen[h.Protocol] = struct{}{}
			protocols = append(protocols, h.Protocol)
		}
	}

	return &domain.RouteSummary{
		Hops:               route.HopCount(),
		Protocols:          protocols,
		Path:               route.Path(),
		EstimatedOutput:    route.AmountOut,
		PriceImpactBps:     route.PriceImpactBps,
		PriceImpactPercent: fmt.Sprintf("%.2f%%", float64(route.PriceImpactBps)/100),
		GasEstimate:        route.GasEstimate,
		IsSplit:            route.IsSplit,
	}
}

func gasEstimate(hops int) uint64 {
	return gasRouteBase + uint64(hops)*gasPerHop
}

// sumImpact adds hop impacts, clamped to the bps field's range.
func sumImpact(a uint16, b uint16) uint16 {
	s := uint32(a) + uint32(b)
	if s > 65535 {
		return 65535
	}
	return uint16(s)
}
