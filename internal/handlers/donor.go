package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/utils"
)

type DonorHandler struct {
	Registry *store.DonorRegistry
}

type UpdateStatusRequest struct {
	NewStatus string `json:"new_status" binding:"required"`
}

func (h *DonorHandler) Register(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.Registry.Register(userID); err != nil {
		if errors.Is(err, store.ErrAlreadyRegistered) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "You are already registered as a donor"})
			return
		}
		log.Printf("Failed to register donor for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Successfully registered as a donor"})
}

func (h *DonorHandler) UpdateStatus(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status provided. Must be 'available' or 'unavailable'"})
		return
	}

	if err := h.Registry.SetAvailability(userID, req.NewStatus); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidStatus):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status provided. Must be 'available' or 'unavailable'"})
		case errors.Is(err, store.ErrNotRegistered):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Could not find a donor profile for your account"})
		default:
			log.Printf("Failed to update donor status for user %d: %v", userID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Your donation status has been updated to '" + req.NewStatus + "'"})
}

// Search lists available donors for a blood group, excluding the caller,
// with an optional case-insensitive address filter.
func (h *DonorHandler) Search(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bloodGroup := ctx.Query("bloodGroup")

	if bloodGroup == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Blood group query parameter is required"})
		return
	}

	candidates, err := h.Registry.Search(bloodGroup, ctx.Query("address"), userID)

	if err != nil {
		log.Printf("Failed to search donors: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, candidates)
}

func (h *DonorHandler) Profile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	donor, err := h.Registry.Profile(userID)

	if err != nil {
		if errors.Is(err, store.ErrNotRegistered) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Donor profile not found"})
			return
		}
		log.Printf("Failed to fetch donor profile for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, donor)
}
