package http

import (
	"errors"
	"math/big"

	"github.com/gin-gonic/gin"

	"github.com/meridianswap/swap-engine/internal/common"
	"github.com/meridianswap/swap-engine/internal/domain"
	"github.com/meridianswap/swap-engine/internal/http/httputil"
	"github.com/meridianswap/swap-engine/internal/services/amm"
	"github.com/meridianswap/swap-engine/internal/services/router"
)

type RouteHandler struct {
	router *router.Router
}

func NewRouteHandler(r *router.Router) *RouteHandler {
	return &RouteHandler{router: r}
}

func (h *RouteHandler) Root() string {
	return "/route"
}

func (h *RouteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getRoute)
	pub.GET("/summary", h.getRouteSummary)
	admin.PUT("/config", h.updateConfig)
	admin.POST("/cache/clear", h.clearCache)
}

// RouteRequest represents the parameters for a route discovery query
type RouteRequest struct {
	// Input token identifier
	TokenIn string `form:"tokenIn" binding:"required"`

	// Output token identifier
	TokenOut string `form:"tokenOut" binding:"required"`

	// Amount in smallest token units, decimal string
	AmountIn string `form:"amountIn" binding:"required"`
}

// HopInfo describes a single leg of the returned route
type HopInfo struct {
	PoolID         string `json:"poolId"`
	Protocol       string `json:"protocol"`
	TokenIn        string `json:"tokenIn"`
	TokenOut       string `json:"tokenOut"`
	AmountIn       string `json:"amountIn"`
	AmountOut      string `json:"amountOut"`
	PriceImpactBps uint16 `json:"priceImpactBps"`
	SplitPercent   uint8  `json:"splitPercent"`
}

// RouteResponse contains the best discovered route with impact analysis
type RouteResponse struct {
	TokenIn             string    `json:"tokenIn"`
	TokenOut            string    `json:"tokenOut"`
	AmountIn            string    `json:"amountIn"`
	AmountOut           string    `json:"amountOut"`
	Path                []string  `json:"path"`
	Hops                []HopInfo `json:"hops"`
	HopCount            int       `json:"hopCount"`
	IsSplit             bool      `json:"isSplit"`
	PriceImpactBps      uint16    `json:"priceImpactBps"`
	PriceImpactPercent  string    `json:"priceImpactPercent"`
	PriceImpactSeverity string    `json:"priceImpactSeverity"`
	PriceImpactWarning  string    `json:"priceImpactWarning,omitempty"`
	GasEstimate         uint64    `json:"gasEstimate"`
}

func (h *RouteHandler) getRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	amountIn, ok := new(big.Int).SetString(req.AmountIn, 10)
	if !ok {
		httputil.BadRequest(c, "amountIn is not a valid integer")
		return
	}

	route, err := h.router.FindBestRoute(c.Request.Context(), req.TokenIn, req.TokenOut, amountIn)
	if err != nil {
		if errors.Is(err, router.ErrInvalidAmount) ||
			errors.Is(err, router.ErrSamePair) ||
			errors.Is(err, router.ErrEmptyToken) {
			httputil.HTTPError(c, common.HTTPErrorBadRequest(err.Error()))
			return
		}
		httputil.HTTPError(c, common.HTTPErrorInternalError(err.Error()))
		return
	}
	if route == nil {
		// No liquidity path is an ordinary outcome, not a server failure.
		httputil.HTTPError(c, common.HTTPErrorNotFound("no route available"))
		return
	}

	httputil.Success(c, toRouteResponse(route, h.router.Summary(route)))
}

// getRouteSummary is the lightweight variant: same search, digest-only
// response for callers that render a quote preview.
func (h *RouteHandler) getRouteSummary(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	amountIn, ok := new(big.Int).SetString(req.AmountIn, 10)
	if !ok {
		httputil.BadRequest(c, "amountIn is not a valid integer")
		return
	}

	route, err := h.router.FindBestRoute(c.Request.Context(), req.TokenIn, req.TokenOut, amountIn)
	if err != nil {
		httputil.HTTPError(c, common.HTTPErrorBadRequest(err.Error()))
		return
	}
	if route == nil {
		httputil.HTTPError(c, common.HTTPErrorNotFound("no route available"))
		return
	}

	httputil.Success(c, h.router.Summary(route))
}

func toRouteResponse(route *domain.Route, summary *domain.RouteSummary) RouteResponse {
	hops := make([]HopInfo, len(route.Hops))
	for i, hop := range route.Hops {
		hops[i] = HopInfo{
			PoolID:         hop.Pool.ID,
			Protocol:       string(hop.Protocol),
			TokenIn:        hop.TokenIn,
			TokenOut:       hop.TokenOut,
			AmountIn:       hop.AmountIn.String(),
			AmountOut:      hop.AmountOut.String(),
			PriceImpactBps: hop.PriceImpactBps,
			SplitPercent:   hop.SplitPercent,
		}
	}

	return RouteResponse{
		TokenIn:             route.TokenIn,
		TokenOut:            route.TokenOut,
		AmountIn:            route.AmountIn.String(),
		AmountOut:           route.AmountOut.String(),
		Path:                summary.Path,
		Hops:                hops,
		HopCount:            summary.Hops,
		IsSplit:             route.IsSplit,
		PriceImpactBps:      route.PriceImpactBps,
		PriceImpactPercent:  summary.PriceImpactPercent,
		PriceImpactSeverity: string(amm.GetPriceImpactSeverity(route.PriceImpactBps)),
		PriceImpactWarning:  amm.GetPriceImpactWarning(route.PriceImpactBps),
		GasEstimate:         route.GasEstimate,
	}
}

// ConfigUpdateRequest is the admin payload for partial router config changes
type ConfigUpdateRequest struct {
	MaxHops      *int     `json:"maxHops"`
	MaxSplits    *int     `json:"maxSplits"`
	Protocols    []string `json:"protocols"`
	BridgeTokens []string `json:"bridgeTokens"`
	GasPrice     *uint64  `json:"gasPrice"`
}

func (h *RouteHandler) updateConfig(c *gin.Context) {
	var req ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	update := router.ConfigUpdate{
		MaxHops:      req.MaxHops,
		MaxSplits:    req.MaxSplits,
		BridgeTokens: req.BridgeTokens,
		GasPrice:     req.GasPrice,
	}
	if req.Protocols != nil {
		protocols := make([]domain.Protocol, len(req.Protocols))
		for i, p := range req.Protocols {
			protocols[i] = domain.Protocol(p)
		}
		update.Protocols = protocols
	}

	if err := h.router.UpdateConfig(update); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	httputil.Success(c, h.router.Config())
}

func (h *RouteHandler) clearCache(c *gin.Context) {
	h.router.ClearCache()
	httputil.Success(c, gin.H{"cleared": true})
}
