package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/linagelabs/txos/internal/application/profileservice"
)

type ProfileHandler struct {
	profileService profileservice.IProfileService
}

func NewProfileHandler(profileService profileservice.IProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// Snapshot returns everything the address owns of the tracked object types.
func (h *ProfileHandler) Snapshot(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Address is required",
		})
		return
	}

	snapshot, err := h.profileService.Snapshot(c.Request.Context(), address)
	if err != nil {
		log.Error().Err(err).Str("address", address).Msg("Failed to build profile snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to build profile snapshot",
		})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
