package gateway

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/bytedance/sonic"

	"github.com/meridianswap/swap-engine/internal/domain"
)

// storedPool is the on-disk fixture form. Reserves are decimal strings so
// arbitrarily large values survive the JSON round trip intact.
type storedPool struct {
	ID         string `json:"id"`
	Protocol   string `json:"protocol"`
	Token0     string `json:"token0"`
	Token1     string `json:"token1"`
	Reserve0   string `json:"reserve0"`
	Reserve1   string `json:"reserve1"`
	FeeRatePpm uint32 `json:"feeRatePpm"`
}

// FixtureGateway serves pools from a static JSON snapshot file. It stands
// in for live protocol adapters in development and tests.
type FixtureGateway struct {
	byProtocol map[domain.Protocol][]*domain.Pool
}

// NewFixtureGateway decodes the snapshot at path and indexes it by protocol.
func NewFixtureGateway(path string) (*FixtureGateway, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool fixture: %w", err)
	}

	var stored []storedPool
	if err := sonic.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode pool fixture: %w", err)
	}

	g := &FixtureGateway{byProtocol: make(map[domain.Protocol][]*domain.Pool)}
	for i, sp := range stored {
		pool, err := sp.toDomain()
		if err != nil {
			return nil, fmt.Errorf("pool fixture entry %d: %w", i, err)
		}
		g.byProtocol[pool.Protocol] = append(g.byProtocol[pool.Protocol], pool)
	}
	return g, nil
}

// NewStaticGateway builds a gateway directly from pool snapshots, used by
// tests and embedded callers.
func NewStaticGateway(pools []*domain.Pool) *FixtureGateway {
	g := &FixtureGateway{byProtocol: make(map[domain.Protocol][]*domain.Pool)}
	for _, p := range pools {
		g.byProtocol[p.Protocol] = append(g.byProtocol[p.Protocol], p)
	}
	return g
}

func (sp storedPool) toDomain() (*domain.Pool, error) {
	r0, ok := new(big.Int).SetString(sp.Reserve0, 10)
	if !ok {
		return nil, fmt.Errorf("invalid reserve0 %q", sp.Reserve0)
	}
	r1, ok := new(big.Int).SetString(sp.Reserve1, 10)
	if !ok {
		return nil, fmt.Errorf("invalid reserve1 %q", sp.Reserve1)
	}
	return &domain.Pool{
		ID:         sp.ID,
		Protocol:   domain.Protocol(sp.Protocol),
		Token0:     sp.Token0,
		Token1:     sp.Token1,
		Reserve0:   r0,
		Reserve1:   r1,
		FeeRatePpm: sp.FeeRatePpm,
	}, nil
}

// Pools returns every fixture pool on protocol containing both tokens.
func (g *FixtureGateway) Pools(ctx context.Context, protocol domain.Protocol, tokenIn, tokenOut string) ([]*domain.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*domain.Pool
	for _, p := range g.byProtocol[protocol] {
		if p.HasToken(tokenIn) && p.HasToken(tokenOut) && tokenIn != tokenOut {
			out = append(out, p)
		}
	}
	return out, nil
}
