package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/linagelabs/txos/internal/repositories/prefsrepo"
)

type PrefsHandler struct {
	prefsRepo prefsrepo.IPreferenceRepository
}

func NewPrefsHandler(prefsRepo prefsrepo.IPreferenceRepository) *PrefsHandler {
	return &PrefsHandler{
		prefsRepo: prefsRepo,
	}
}

type SetPrefsRequest struct {
	Values []string `json:"values"`
}

func (h *PrefsHandler) GetList(c *gin.Context) {
	address := c.Param("address")
	key := c.Param("key")
	if !prefsrepo.IsKnownKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Unknown preference key",
		})
		return
	}

	values, err := h.prefsRepo.GetList(c.Request.Context(), address, key)
	if err != nil {
		log.Error().Err(err).Str("address", address).Str("key", key).Msg("Failed to load preference list")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to load preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":    key,
		"values": values,
	})
}

// SetList replaces the whole stored list. Partial updates are not supported;
// the UI always sends the complete current list.
func (h *PrefsHandler) SetList(c *gin.Context) {
	address := c.Param("address")
	key := c.Param("key")
	if !prefsrepo.IsKnownKey(key) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Unknown preference key",
		})
		return
	}

	var req SetPrefsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}
	if req.Values == nil {
		req.Values = []string{}
	}

	if err := h.prefsRepo.SetList(c.Request.Context(), address, key, req.Values); err != nil {
		log.Error().Err(err).Str("address", address).Str("key", key).Msg("Failed to save preference list")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to save preferences",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":    key,
		"values": req.Values,
	})
}
