package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/middleware"
	"github.com/tessera-app/tessera/internal/models"
	"github.com/tessera-app/tessera/internal/service"
)

type MatchHandler struct {
	matching     *service.Matching
	relationship *service.Relationship
	logger       *zap.Logger
}

func NewMatchHandler(matching *service.Matching, relationship *service.Relationship, logger *zap.Logger) *MatchHandler {
	return &MatchHandler{matching: matching, relationship: relationship, logger: logger}
}

// List handles GET /v1/matches — all of the acting user's matches,
// ended ones included (the client filters by state for display).
func (h *MatchHandler) List(c *gin.Context) {
	user := middleware.GetUserID(c)
	matches, err := h.matching.ListMatches(c.Request.Context(), user)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// The four lifecycle transitions share a shape: the counterpart comes
// from the path, the actor from the identity middleware, and the
// response is the match in its new state.

// Unmatch handles POST /v1/matches/:userID/unmatch
func (h *MatchHandler) Unmatch(c *gin.Context) {
	h.transition(c, h.relationship.Unmatch)
}

// Block handles POST /v1/matches/:userID/block
func (h *MatchHandler) Block(c *gin.Context) {
	h.transition(c, h.relationship.Block)
}

// Friends handles POST /v1/matches/:userID/friends
func (h *MatchHandler) Friends(c *gin.Context) {
	h.transition(c, h.relationship.TransitionToFriends)
}

// GracefulExit handles POST /v1/matches/:userID/graceful-exit
func (h *MatchHandler) GracefulExit(c *gin.Context) {
	h.transition(c, h.relationship.GracefulExit)
}

func (h *MatchHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, actor, other uuid.UUID) (*models.Match, error),
) {
	other, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	actor := middleware.GetUserID(c)

	match, err := apply(c.Request.Context(), actor, other)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, match)
}
