package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifeblood-dev/lifeblood/internal/matching"
	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/utils"
)

type AdminHandler struct {
	Engine   *matching.Engine
	Requests *store.RequestStore
}

type PendingRequestSummary struct {
	ID                 uint      `json:"id"`
	RequiredBloodGroup string    `json:"required_blood_group"`
	HospitalName       string    `json:"hospital_name"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	RecipientName      string    `json:"recipient_name"`
	RecipientEmail     string    `json:"recipient_email"`
}

// Pending lists pending requests oldest first for the admin dashboard.
func (h *AdminHandler) Pending(ctx *gin.Context) {
	requests, err := h.Requests.ListPending()

	if err != nil {
		log.Printf("Failed to list pending requests: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	summaries := make([]PendingRequestSummary, 0, len(requests))

	for _, request := range requests {
		summaries = append(summaries, PendingRequestSummary{
			ID:                 request.ID,
			RequiredBloodGroup: request.RequiredBloodGroup,
			HospitalName:       request.HospitalName,
			Status:             request.Status,
			CreatedAt:          request.CreatedAt,
			RecipientName:      request.Recipient.FullName,
			RecipientEmail:     request.Recipient.Email,
		})
	}

	ctx.JSON(http.StatusOK, summaries)
}

func (h *AdminHandler) Approve(ctx *gin.Context) {
	requestID, err := requestIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	adminID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	request, err := h.Engine.Approve(requestID, adminID)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFoundOrProcessed):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found or has already been processed"})
		case errors.Is(err, store.ErrNoAvailableDonor):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "No available donors found for the requested blood group. Cannot approve"})
		default:
			log.Printf("Failed to approve request %d: %v", requestID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":           "Request approved and donor assigned",
		"assigned_donor_id": request.AssignedDonorID,
	})
}

func (h *AdminHandler) Reject(ctx *gin.Context) {
	requestID, err := requestIDParam(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	adminID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Engine.Reject(requestID, adminID); err != nil {
		if errors.Is(err, store.ErrNotFoundOrProcessed) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Request not found or has already been processed"})
			return
		}
		log.Printf("Failed to reject request %d: %v", requestID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Request rejected successfully"})
}

func requestIDParam(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)

	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
