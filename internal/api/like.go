package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/middleware"
	"github.com/tessera-app/tessera/internal/models"
	"github.com/tessera-app/tessera/internal/service"
)

type LikeHandler struct {
	matching *service.Matching
	logger   *zap.Logger
}

func NewLikeHandler(matching *service.Matching, logger *zap.Logger) *LikeHandler {
	return &LikeHandler{matching: matching, logger: logger}
}

type recordLikeRequest struct {
	ToUser    string `json:"to_user" binding:"required"`
	Direction string `json:"direction" binding:"required"`
}

// Record handles POST /v1/likes
//
// The response is the like outcome, not the like itself: the client
// needs to know whether this swipe produced a match ("It's a match!"
// screen), not what row got written.
func (h *LikeHandler) Record(c *gin.Context) {
	var req recordLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	toUser, err := uuid.Parse(req.ToUser)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to_user"})
		return
	}
	direction, err := models.ParseDirection(req.Direction)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	from := middleware.GetUserID(c)
	outcome, err := h.matching.RecordLike(c.Request.Context(), from, toUser, direction)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// PendingLikers handles GET /v1/likers — who liked me and is still
// waiting for an answer, newest first.
func (h *LikeHandler) PendingLikers(c *gin.Context) {
	user := middleware.GetUserID(c)
	likers, err := h.matching.PendingLikers(c.Request.Context(), user)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, likers)
}
