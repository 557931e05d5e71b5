package domain

import (
	"math/big"
)

// RouteHop is a single swap leg inside a route. Immutable once built.
type RouteHop struct {
	Pool           *Pool    `json:"pool"`
	Protocol       Protocol `json:"protocol"`
	TokenIn        string   `json:"tokenIn"`
	TokenOut       string   `json:"tokenOut"`
	FeeRatePpm     uint32   `json:"feeRatePpm"`
	AmountIn       *big.Int `json:"amountIn"`
	AmountOut      *big.Int `json:"amountOut"`
	FeeAmount      *big.Int `json:"feeAmount"`
	PriceImpactBps uint16   `json:"priceImpactBps"`
	// SplitPercent is 100 for sequential hops; in split routes each parallel
	// leg carries its share of the input.
	SplitPercent uint8 `json:"splitPercent"`
}

// Route is a scored candidate path from TokenIn to TokenOut. Ephemeral:
// constructed per query, never persisted.
type Route struct {
	TokenIn        string     `json:"tokenIn"`
	TokenOut       string     `json:"tokenOut"`
	Hops           []RouteHop `json:"hops"`
	AmountIn       *big.Int   `json:"amountIn"`
	AmountOut      *big.Int   `json:"amountOut"`
	PriceImpactBps uint16     `json:"priceImpactBps"`
	GasEstimate    uint64     `json:"gasEstimate"`
	Score          float64    `json:"score"`
	// IsSplit marks routes whose hops execute in parallel over one pair
	// rather than sequentially through bridge tokens.
	IsSplit bool `json:"isSplit"`
}

// HopCount returns the number of legs. For split routes every parallel leg
// counts, matching how gas is charged.
func (r *Route) HopCount() int {
	return len(r.Hops)
}

// Path returns the ordered token path for sequential routes, e.g.
// [tokenIn, bridge, tokenOut]. For split routes the path is just the pair.
func (r *Route) Path() []string {
	if r.IsSplit || len(r.Hops) == 0 {
		return []string{r.TokenIn, r.TokenOut}
	}
	path := make([]string, 0, len(r.Hops)+1)
	path = append(path, r.Hops[0].TokenIn)
	for _, h := range r.Hops {
		path = append(path, h.TokenOut)
	}
	return path
}

// RouteSummary is the caller-facing digest of a route.
type RouteSummary struct {
	Hops               int        `json:"hops"`
	Protocols          []Protocol `json:"protocols"`
	Path               []string   `json:"path"`
	EstimatedOutput    *big.Int   `json:"estimatedOutput"`
	PriceImpactBps     uint16     `json:"priceImpactBps"`
	PriceImpactPercent string     `json:"priceImpactPercent"`
	GasEstimate        uint64     `json:"gasEstimate"`
	IsSplit            bool       `json:"isSplit"`
}
