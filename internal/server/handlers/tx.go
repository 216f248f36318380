package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/linagelabs/txos/internal/application/txbuilder"
	"github.com/linagelabs/txos/internal/chainerr"
	"github.com/linagelabs/txos/internal/domain"
	"github.com/linagelabs/txos/pkg/config"
	"github.com/linagelabs/txos/pkg/currency"
)

type TxHandler struct {
	txBuilderService txbuilder.ITxBuilderService
	config           *config.Config
}

func NewTxHandler(txBuilderService txbuilder.ITxBuilderService, config *config.Config) *TxHandler {
	return &TxHandler{
		txBuilderService: txBuilderService,
		config:           config,
	}
}

// MintRequest carries amounts as display strings, for example "0.5" SUI.
// Minor-unit conversion happens server-side against the coin's decimals.
type MintRequest struct {
	Owner         string  `json:"owner" binding:"required"`
	ItemCode      string  `json:"item_code" binding:"required"`
	Tribute       string  `json:"tribute"`
	InputCoinType string  `json:"input_coin_type"`
	Amount        string  `json:"amount"`
	Slippage      float64 `json:"slippage"`
}

type BuyRequest struct {
	Owner         string  `json:"owner" binding:"required"`
	ListingID     string  `json:"listing_id" binding:"required"`
	InputCoinType string  `json:"input_coin_type"`
	Amount        string  `json:"amount" binding:"required"`
	Slippage      float64 `json:"slippage"`
}

type SubmitRequest struct {
	Owner     string `json:"owner" binding:"required"`
	TxBytes   string `json:"tx_bytes" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (h *TxHandler) BuildMint(c *gin.Context) {
	var req MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	coinType := req.InputCoinType
	if coinType == "" {
		coinType = h.config.Sui.DefaultInputCoinType
	}

	var amount uint64
	if req.Amount != "" {
		parsed, err := currency.ParseDisplayAmount(req.Amount, currency.CoinDecimals(coinType))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Bad Request",
				"message": err.Error(),
			})
			return
		}
		amount = parsed
	}

	tx, err := h.txBuilderService.BuildMintTransaction(c.Request.Context(), txbuilder.MintParams{
		Owner:         req.Owner,
		ItemCode:      req.ItemCode,
		Tribute:       req.Tribute,
		InputCoinType: req.InputCoinType,
		InputAmount:   amount,
		Slippage:      req.Slippage,
	})
	if err != nil {
		h.respondBuildError(c, err, "Failed to build mint transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

func (h *TxHandler) BuildBuy(c *gin.Context) {
	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	coinType := req.InputCoinType
	if coinType == "" {
		coinType = h.config.Sui.DefaultInputCoinType
	}

	amount, err := currency.ParseDisplayAmount(req.Amount, currency.CoinDecimals(coinType))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	tx, err := h.txBuilderService.BuildBuyTransaction(c.Request.Context(), txbuilder.BuyParams{
		Owner:         req.Owner,
		ListingID:     req.ListingID,
		InputCoinType: req.InputCoinType,
		InputAmount:   amount,
		Slippage:      req.Slippage,
	})
	if err != nil {
		h.respondBuildError(c, err, "Failed to build buy transaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

func (h *TxHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	digest, err := h.txBuilderService.SubmitSigned(c.Request.Context(), req.Owner, req.TxBytes, req.Signature)
	if err != nil {
		log.Error().Err(err).Str("owner", req.Owner).Msg("Transaction submission failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Unprocessable Entity",
			"message": chainerr.Classify(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"digest": digest})
}

// respondBuildError separates user-addressable build failures, reported with
// a classified message, from unexpected internal ones.
func (h *TxHandler) respondBuildError(c *gin.Context, err error, logMsg string) {
	var insufficientBalance *currency.InsufficientBalanceError
	var routerErr *domain.RouterError

	switch {
	case errors.As(err, &insufficientBalance),
		errors.As(err, &routerErr),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrNoRoute),
		errors.Is(err, domain.ErrInsufficientLiquidity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Unprocessable Entity",
			"message": chainerr.Classify(err),
		})
	default:
		log.Error().Err(err).Msg(logMsg)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": chainerr.Classify(err),
		})
	}
}
