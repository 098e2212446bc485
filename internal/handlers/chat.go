package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lifeblood-dev/lifeblood/internal/store"
	"github.com/lifeblood-dev/lifeblood/internal/utils"
)

type ChatHandler struct {
	Requests *store.RequestStore
	Messages *store.MessageStore
}

// Conversations lists approved requests where the caller is either the
// recipient or the assigned donor.
func (h *ChatHandler) Conversations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	conversations, err := h.Requests.ListConversations(userID)

	if err != nil {
		log.Printf("Failed to list conversations for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, conversations)
}

// History returns the chat history for a request, ordered by timestamp
// ascending. This is how a reconnecting participant catches up; the relay
// does not replay history on join.
func (h *ChatHandler) History(ctx *gin.Context) {
	requestID, err := strconv.ParseUint(ctx.Param("request_id"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	messages, err := h.Messages.History(uint(requestID))

	if err != nil {
		log.Printf("Failed to fetch messages for request %d: %v", requestID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, messages)
}
