package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyUserID is where the acting user's ID lives in gin's
// per-request context. A constant instead of an inline string so a typo
// fails to compile instead of silently returning nil.
const ContextKeyUserID = "user_id"

// HeaderUserID identifies the acting user. There is no authentication in
// this system — the surrounding deployment is expected to terminate
// identity in front of it — so the API trusts this header as-is.
const HeaderUserID = "X-User-ID"

// Identity resolves the acting user from the request and aborts with 400
// when the header is missing or not a UUID. Every /v1 route except
// health runs behind it.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + HeaderUserID + " header",
			})
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + HeaderUserID + " header",
			})
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID reads the acting user set by Identity. uuid.Nil when absent
// — which fails any participancy check downstream rather than panicking.
func GetUserID(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
