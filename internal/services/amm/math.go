package amm

import (
	"math/big"
	"sync"

	"github.com/holiman/uint256"
)

// Pre-computed constants (avoid allocation on every call)
var (
	// Q64 = 2^64 scaling factor for fixed-point price math
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)
	// BPS_DENOM = 10000 for basis points
	BPS_DENOM = big.NewInt(10000)
	// FEE_BASE = 1000000, fee rates are parts per million
	FEE_BASE = big.NewInt(1_000_000)

	// uint256 versions for the fast path
	u256Q64      = uint256.NewInt(0).Lsh(uint256.NewInt(1), 64)
	u256BpsDenom = uint256.NewInt(10000)
	u256FeeBase  = uint256.NewInt(1_000_000)
)

// Object pools for zero-allocation hot path

var uint256Pool = sync.Pool{
	New: func() interface{} {
		return new(uint256.Int)
	},
}

var bigIntPool = sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

// GetU256 gets a uint256.Int from the pool
func GetU256() *uint256.Int {
	return uint256Pool.Get().(*uint256.Int)
}

// PutU256 returns a uint256.Int to the pool
func PutU256(v *uint256.Int) {
	v.Clear()
	uint256Pool.Put(v)
}

// GetBigInt gets a big.Int from the pool
func GetBigInt() *big.Int {
	return bigIntPool.Get().(*big.Int)
}

// PutBigInt returns a big.Int to the pool
func PutBigInt(v *big.Int) {
	v.SetInt64(0)
	bigIntPool.Put(v)
}

// MulDiv performs (a * b) / c with a full-precision intermediate.
func MulDiv(a, b, c uint64) uint64 {
	if c == 0 {
		return 0
	}
	result := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(result)
		PutU256(temp)
	}()

	result.SetUint64(a)
	temp.SetUint64(b)
	result.Mul(result, temp)
	temp.SetUint64(c)
	result.Div(result, temp)

	if result.IsUint64() {
		return result.Uint64()
	}
	return 0
}

// impactBps computes price impact in basis points from Q64-scaled mid and
// execution prices. Returns 0 when execution is at or better than mid.
func impactBps(currentPrice, effectivePrice *big.Int) uint16 {
	if currentPrice.Sign() <= 0 {
		return 0
	}
	if effectivePrice.Cmp(currentPrice) >= 0 {
		return 0
	}

	diff := GetBigInt()
	defer PutBigInt(diff)

	diff.Sub(currentPrice, effectivePrice)
	diff.Mul(diff, BPS_DENOM)
	diff.Div(diff, currentPrice)

	if !diff.IsUint64() || diff.Uint64() > 65535 {
		return 65535
	}
	return uint16(diff.Uint64())
}
