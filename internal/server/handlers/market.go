package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/linagelabs/txos/internal/application/marketindex"
)

type MarketHandler struct {
	marketService marketindex.IMarketIndexService
}

func NewMarketHandler(marketService marketindex.IMarketIndexService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// CheapestListing returns the cheapest active listing in a category. The
// result is computed fresh on every call since listings can be delisted at
// any moment.
func (h *MarketHandler) CheapestListing(c *gin.Context) {
	categoryStr := c.Query("category")
	category, err := strconv.Atoi(categoryStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "category query parameter must be an integer",
		})
		return
	}

	ref, found, err := h.marketService.CheapestActiveListing(c.Request.Context(), category)
	if err != nil {
		log.Error().Err(err).Int("category", category).Msg("Failed to query marketplace listings")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to query marketplace listings",
		})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "No active listing in this category",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id": ref.ListingID,
		"category":   ref.Category,
		"ask_amount": strconv.FormatUint(ref.AskAmount, 10),
	})
}
