package amm

import (
	"errors"
	"math/big"

	"github.com/meridianswap/swap-engine/internal/domain"
)

var (
	ErrInvalidPool    = errors.New("invalid pool")
	ErrZeroReserves   = errors.New("pool has zero or negative reserves")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrTokenNotInPool = errors.New("token not in pool")
)

// SwapResult is the outcome of simulating one swap against one pool.
type SwapResult struct {
	AmountIn       *big.Int
	AmountOut      *big.Int
	FeeAmount      *big.Int
	PriceImpactBps uint16
}

// Simulate computes the constant-product output of selling amountIn of
// tokenIn into the pool. Purely computational: the pool snapshot is never
// mutated, all arithmetic is integer big.Int so multi-hop chaining does not
// compound rounding error.
//
//	amountInWithFee = amountIn * (FEE_BASE - feePpm) / FEE_BASE
//	amountOut       = amountInWithFee * reserveOut / (reserveIn + amountInWithFee)
//
// Price impact compares the Q64-scaled execution price (fee excluded, pure
// slippage) against the pre-trade mid price.
func Simulate(pool *domain.Pool, tokenIn string, amountIn *big.Int) (*SwapResult, error) {
	if pool == nil {
		return nil, ErrInvalidPool
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	reserveIn, reserveOut, ok := pool.ReservesFor(tokenIn)
	if !ok {
		return nil, ErrTokenNotInPool
	}
	if reserveIn == nil || reserveIn.Sign() <= 0 || reserveOut == nil || reserveOut.Sign() <= 0 {
		return nil, ErrZeroReserves
	}
	if pool.FeeRatePpm >= domain.FeeRateDenom {
		return nil, ErrInvalidPool
	}

	amountInWithFee := GetBigInt()
	denom := GetBigInt()
	feeFactor := GetBigInt()
	currentPrice := GetBigInt()
	effectivePrice := GetBigInt()
	defer func() {
		PutBigInt(amountInWithFee)
		PutBigInt(denom)
		PutBigInt(feeFactor)
		PutBigInt(currentPrice)
		PutBigInt(effectivePrice)
	}()

	feeFactor.SetInt64(int64(domain.FeeRateDenom - pool.FeeRatePpm))
	amountInWithFee.Mul(amountIn, feeFactor)
	amountInWithFee.Div(amountInWithFee, FEE_BASE)

	feeAmount := new(big.Int).Sub(amountIn, amountInWithFee)

	if amountInWithFee.Sign() <= 0 {
		// Amount too small to survive the fee. Not an error: zero output,
		// the route search skips it.
		return &SwapResult{
			AmountIn:  amountIn,
			AmountOut: big.NewInt(0),
			FeeAmount: feeAmount,
		}, nil
	}

	denom.Add(reserveIn, amountInWithFee)
	amountOut := new(big.Int).Mul(amountInWithFee, reserveOut)
	amountOut.Div(amountOut, denom)

	// midPrice = reserveOut / reserveIn, executionPrice = amountOut / amountInWithFee,
	// both scaled by Q64 to stay in integer arithmetic.
	currentPrice.Mul(reserveOut, Q64)
	currentPrice.Div(currentPrice, reserveIn)
	effectivePrice.Mul(amountOut, Q64)
	effectivePrice.Div(effectivePrice, amountInWithFee)

	return &SwapResult{
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		FeeAmount:      feeAmount,
		PriceImpactBps: impactBps(currentPrice, effectivePrice),
	}, nil
}

// FastSwapResult is the uint64 counterpart of SwapResult for amounts that
// fit in a machine word.
type FastSwapResult struct {
	AmountIn       uint64
	AmountOut      uint64
	FeeAmount      uint64
	PriceImpactBps uint16
}

// FastSimulate is the zero-allocation uint64 path. Reserves or amounts that
// overflow uint64 must go through Simulate instead.
func FastSimulate(pool *domain.Pool, tokenIn string, amountIn uint64) (FastSwapResult, error) {
	if pool == nil {
		return FastSwapResult{}, ErrInvalidPool
	}
	if amountIn == 0 {
		return FastSwapResult{}, ErrInvalidAmount
	}

	reserveInBig, reserveOutBig, ok := pool.ReservesFor(tokenIn)
	if !ok {
		return FastSwapResult{}, ErrTokenNotInPool
	}
	if reserveInBig == nil || reserveInBig.Sign() <= 0 || reserveOutBig == nil || reserveOutBig.Sign() <= 0 {
		return FastSwapResult{}, ErrZeroReserves
	}
	if !reserveInBig.IsUint64() || !reserveOutBig.IsUint64() {
		return FastSwapResult{}, ErrInvalidAmount
	}
	reserveIn := reserveInBig.Uint64()
	reserveOut := reserveOutBig.Uint64()

	amountInWithFee := MulDiv(amountIn, uint64(domain.FeeRateDenom-pool.FeeRatePpm), domain.FeeRateDenom)
	feeAmount := amountIn - amountInWithFee
	if amountInWithFee == 0 {
		return FastSwapResult{AmountIn: amountIn, FeeAmount: feeAmount}, nil
	}

	amountOut := MulDiv(amountInWithFee, reserveOut, reserveIn+amountInWithFee)

	return FastSwapResult{
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		FeeAmount:      feeAmount,
		PriceImpactBps: fastImpactBps(amountInWithFee, amountOut, reserveIn, reserveOut),
	}, nil
}

// fastImpactBps mirrors impactBps on pooled uint256 values.
func fastImpactBps(amountInWithFee, amountOut, reserveIn, reserveOut uint64) uint16 {
	if amountInWithFee == 0 || reserveIn == 0 || reserveOut == 0 {
		return 0
	}

	currentPrice := GetU256()
	effectivePrice := GetU256()
	temp := GetU256()
	defer func() {
		PutU256(currentPrice)
		PutU256(effectivePrice)
		PutU256(temp)
	}()

	currentPrice.SetUint64(reserveOut)
	currentPrice.Mul(currentPrice, u256Q64)
	temp.SetUint64(reserveIn)
	currentPrice.Div(currentPrice, temp)

	effectivePrice.SetUint64(amountOut)
	effectivePrice.Mul(effectivePrice, u256Q64)
	temp.SetUint64(amountInWithFee)
	effectivePrice.Div(effectivePrice, temp)

	if currentPrice.IsZero() || effectivePrice.Cmp(currentPrice) >= 0 {
		return 0
	}

	temp.Sub(currentPrice, effectivePrice)
	temp.Mul(temp, u256BpsDenom)
	temp.Div(temp, currentPrice)

	if temp.IsUint64() {
		if v := temp.Uint64(); v <= 65535 {
			return uint16(v)
		}
	}
	return 65535
}
