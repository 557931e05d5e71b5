package domain

import (
	"math/big"
)

// Protocol identifies a liquidity source (DEX) a pool belongs to.
type Protocol string

const (
	ProtocolMeridian Protocol = "Meridian"
	ProtocolVertex   Protocol = "Vertex"
	ProtocolHalcyon  Protocol = "Halcyon"
)

// FeeRateDenom is the denominator for pool fee rates (parts per million).
const FeeRateDenom = 1_000_000

// Pool is an immutable reserve snapshot fetched from a liquidity gateway.
// The engine never mutates a Pool; a simulated swap returns new amounts
// and leaves the snapshot untouched.
type Pool struct {
	ID         string   `json:"id"`
	Protocol   Protocol `json:"protocol"`
	Token0     string   `json:"token0"`
	Token1     string   `json:"token1"`
	Reserve0   *big.Int `json:"reserve0"`
	Reserve1   *big.Int `json:"reserve1"`
	FeeRatePpm uint32   `json:"feeRatePpm"`
}

// HasToken reports whether token is one of the pool's two sides.
func (p *Pool) HasToken(token string) bool {
	return p.Token0 == token || p.Token1 == token
}

// ReservesFor returns (reserveIn, reserveOut) oriented for a swap that
// sells tokenIn into the pool. ok is false if tokenIn is not in the pool.
func (p *Pool) ReservesFor(tokenIn string) (reserveIn, reserveOut *big.Int, ok bool) {
	switch tokenIn {
	case p.Token0:
		return p.Reserve0, p.Reserve1, true
	case p.Token1:
		return p.Reserve1, p.Reserve0, true
	default:
		return nil, nil, false
	}
}

// OtherToken returns the pool side opposite to token.
func (p *Pool) OtherToken(token string) string {
	if token == p.Token0 {
		return p.Token1
	}
	return p.Token0
}

// IsUsable reports whether the snapshot carries positive reserves on both sides.
func (p *Pool) IsUsable() bool {
	return p.Reserve0 != nil && p.Reserve0.Sign() > 0 &&
		p.Reserve1 != nil && p.Reserve1.Sign() > 0
}
