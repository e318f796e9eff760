package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tessera-app/tessera/internal/apperr"
)

// statusFor maps error codes to HTTP statuses. One table so every
// handler agrees; handlers never inspect error message text.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeAlreadyExists:
		return http.StatusConflict
	case apperr.CodeNotAParticipant:
		return http.StatusForbidden
	case apperr.CodeInvalidTransition:
		return http.StatusConflict
	case apperr.CodeNoActiveMatch:
		return http.StatusConflict
	case apperr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response. Storage faults and unknowns are logged
// with their cause but answer with a generic message; everything typed
// answers with its code and message so clients can branch.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	code := apperr.CodeOf(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"code": code, "error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"code": code, "error": err.Error()})
}
