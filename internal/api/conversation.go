package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/middleware"
	"github.com/tessera-app/tessera/internal/service"
)

type ConversationHandler struct {
	messaging *service.Messaging
	logger    *zap.Logger
}

func NewConversationHandler(messaging *service.Messaging, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{messaging: messaging, logger: logger}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send handles POST /v1/conversations/:userID/messages
//
// 200 with a REJECTED outcome is deliberate: "the match no longer
// permits messaging" is a domain answer the client renders, not a
// transport-level failure.
func (h *ConversationHandler) Send(c *gin.Context) {
	other, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from := middleware.GetUserID(c)
	outcome, err := h.messaging.Send(c.Request.Context(), from, other, req.Content)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ListMessages handles GET /v1/conversations/:userID/messages?limit=50&offset=0
// Oldest first, offset pagination — a two-party thread is finite and the
// client pages it top-down.
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	other, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
		if limit > 200 {
			limit = 200
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		offset, err = strconv.Atoi(o)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'offset' parameter"})
			return
		}
	}

	user := middleware.GetUserID(c)
	messages, err := h.messaging.ListMessages(c.Request.Context(), user, other, limit, offset)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkRead handles POST /v1/conversations/:userID/read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	other, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	user := middleware.GetUserID(c)
	if err := h.messaging.MarkRead(c.Request.Context(), user, other); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unread handles GET /v1/conversations/:userID/unread
func (h *ConversationHandler) Unread(c *gin.Context) {
	other, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	user := middleware.GetUserID(c)
	n, err := h.messaging.UnreadCount(c.Request.Context(), user, other)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// List handles GET /v1/conversations — the inbox, with previews.
func (h *ConversationHandler) List(c *gin.Context) {
	user := middleware.GetUserID(c)
	previews, err := h.messaging.ListConversations(c.Request.Context(), user)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

// TotalUnread handles GET /v1/unread — badge count across the inbox.
func (h *ConversationHandler) TotalUnread(c *gin.Context) {
	user := middleware.GetUserID(c)
	n, err := h.messaging.TotalUnread(c.Request.Context(), user)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// Hide handles DELETE /v1/conversations/:userID — removes the thread
// from the acting user's inbox only.
func (h *ConversationHandler) Hide(c *gin.Context) {
	other, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	user := middleware.GetUserID(c)
	if err := h.messaging.HideConversation(c.Request.Context(), user, other); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
