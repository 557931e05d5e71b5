// Package gateway abstracts the liquidity-pool data sources the route
// engine consumes. The engine only ever sees the PoolGateway interface;
// live protocol adapters, fixtures, and caches all sit behind it.
package gateway

import (
	"context"
	"fmt"

	"github.com/meridianswap/swap-engine/internal/domain"
)

// PoolGateway returns known pools for a token pair on one protocol.
// Implementations may block on I/O and must honor ctx cancellation.
// Returned snapshots are read-only: callers never mutate them.
type PoolGateway interface {
	Pools(ctx context.Context, protocol domain.Protocol, tokenIn, tokenOut string) ([]*domain.Pool, error)
}

// LookupError wraps a single protocol's lookup failure. The route search
// logs and skips it; it never aborts the whole query.
type LookupError struct {
	Protocol domain.Protocol
	Err      error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("pool lookup failed for %s: %v", e.Protocol, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
