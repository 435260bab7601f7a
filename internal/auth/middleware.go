package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller's identity, set by the gateway after it has
// authenticated the request. The server trusts it as-is.
const UserIDHeader = "X-Sharer-User-Id"

// IdentityRequired is a Gin middleware that reads the gateway-supplied user id
// header and stores it into the context for later handlers.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(UserIDHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := strconv.ParseInt(header, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + UserIDHeader + " header",
			})
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}
