package http

import (
	"math/big"

	"github.com/gin-gonic/gin"

	"github.com/meridianswap/swap-engine/internal/http/httputil"
	"github.com/meridianswap/swap-engine/internal/services/risk"
)

type RiskHandler struct {
	analyzer *risk.Analyzer
}

func NewRiskHandler(a *risk.Analyzer) *RiskHandler {
	return &RiskHandler{analyzer: a}
}

func (h *RiskHandler) Root() string {
	return "/risk"
}

func (h *RiskHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("/analyze", h.analyze)
	pub.GET("/sandwich", h.sandwich)
	pub.GET("/tolerance/recommend", h.recommendTolerance)
	pub.GET("/tolerance/validate", h.validateTolerance)
	private.POST("/price", h.recordPrice)
	private.GET("/history/:pairId", h.priceHistory)
}

// AnalyzeRequest carries a prospective trade for slippage analysis.
// Amounts are smallest-unit decimal strings; marketPrice is the externally
// observed output-per-input price used to cross-check the quote.
type AnalyzeRequest struct {
	InputAmount    string  `json:"inputAmount" binding:"required"`
	ExpectedOutput string  `json:"expectedOutput" binding:"required"`
	MarketPrice    float64 `json:"marketPrice" binding:"required"`
	ToleranceBps   uint32  `json:"toleranceBps"`
}

type AnalyzeResponse struct {
	ExpectedAmount     string  `json:"expectedAmount"`
	MinAmount          string  `json:"minAmount"`
	MaxAmount          string  `json:"maxAmount"`
	SlippagePercent    float64 `json:"slippagePercent"`
	PriceImpactPercent float64 `json:"priceImpactPercent"`
	Warning            bool    `json:"warning"`
	Blocked            bool    `json:"blocked"`
	Reason             string  `json:"reason,omitempty"`
}

func (h *RiskHandler) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	inputAmount, ok := new(big.Int).SetString(req.InputAmount, 10)
	if !ok {
		httputil.BadRequest(c, "inputAmount is not a valid integer")
		return
	}
	expectedOutput, ok := new(big.Int).SetString(req.ExpectedOutput, 10)
	if !ok {
		httputil.BadRequest(c, "expectedOutput is not a valid integer")
		return
	}

	analysis, err := h.analyzer.Analyze(inputAmount, expectedOutput, req.MarketPrice, req.ToleranceBps)
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	httputil.Success(c, AnalyzeResponse{
		ExpectedAmount:     analysis.ExpectedAmount.String(),
		MinAmount:          analysis.MinAmount.String(),
		MaxAmount:          analysis.MaxAmount.String(),
		SlippagePercent:    analysis.SlippagePercent,
		PriceImpactPercent: analysis.PriceImpactPercent,
		Warning:            analysis.Warning,
		Blocked:            analysis.Blocked,
		Reason:             analysis.Reason,
	})
}

type RecordPriceRequest struct {
	PairID   string  `json:"pairId" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Sequence uint64  `json:"sequence"`
}

func (h *RiskHandler) recordPrice(c *gin.Context) {
	var req RecordPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	if err := h.analyzer.RecordPrice(req.PairID, req.Price, req.Sequence); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	httputil.Success(c, gin.H{"recorded": true, "samples": h.analyzer.History().Len(req.PairID)})
}

type SandwichRequest struct {
	PairID       string  `form:"pairId" binding:"required"`
	CurrentPrice float64 `form:"currentPrice" binding:"required"`
}

func (h *RiskHandler) sandwich(c *gin.Context) {
	var req SandwichRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	detected := h.analyzer.DetectSandwich(req.PairID, req.CurrentPrice)
	httputil.Success(c, gin.H{"pairId": req.PairID, "detected": detected})
}

type RecommendToleranceRequest struct {
	PairID         string `form:"pairId" binding:"required"`
	TradeSize      string `form:"tradeSize"`
	LiquidityDepth string `form:"liquidityDepth"`
}

func (h *RiskHandler) recommendTolerance(c *gin.Context) {
	var req RecommendToleranceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	var tradeSize, liquidityDepth *big.Int
	if req.TradeSize != "" {
		v, ok := new(big.Int).SetString(req.TradeSize, 10)
		if !ok {
			httputil.BadRequest(c, "tradeSize is not a valid integer")
			return
		}
		tradeSize = v
	}
	if req.LiquidityDepth != "" {
		v, ok := new(big.Int).SetString(req.LiquidityDepth, 10)
		if !ok {
			httputil.BadRequest(c, "liquidityDepth is not a valid integer")
			return
		}
		liquidityDepth = v
	}

	recommended := h.analyzer.RecommendTolerance(req.PairID, tradeSize, liquidityDepth)
	httputil.Success(c, gin.H{"pairId": req.PairID, "recommendedBps": recommended})
}

type ValidateToleranceRequest struct {
	ToleranceBps int64 `form:"toleranceBps"`
}

func (h *RiskHandler) validateTolerance(c *gin.Context) {
	var req ValidateToleranceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	httputil.Success(c, h.analyzer.ValidateTolerance(req.ToleranceBps))
}

func (h *RiskHandler) priceHistory(c *gin.Context) {
	pairID := c.Param("pairId")
	samples := h.analyzer.History().Samples(pairID)
	httputil.Success(c, gin.H{"pairId": pairID, "samples": samples})
}
