package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/utils"
)

type RequestHandler struct {
	Requests *store.RequestStore
}

type CreateRequestRequest struct {
	RequiredBloodGroup string `json:"required_blood_group" binding:"required"`
	HospitalName       string `json:"hospital_name" binding:"required"`
}

func (h *RequestHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateRequestRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Blood group and hospital name are required"})
		return
	}

	request, err := h.Requests.Create(userID, req.RequiredBloodGroup, req.HospitalName)

	if err != nil {
		if errors.Is(err, store.ErrInvalidBloodGroup) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blood group"})
			return
		}
		log.Printf("Failed to create blood request for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":    "Blood request created successfully",
		"request_id": request.ID,
	})
}

// Mine lists the caller's requests, newest first.
func (h *RequestHandler) Mine(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requests, err := h.Requests.ListForUser(userID)

	if err != nil {
		log.Printf("Failed to list requests for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, requests)
}
