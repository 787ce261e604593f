package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/tikblok/core/internal/pkg/response"
)

const reindexKeyHeader = "x-reindex-key"

// ReindexKey returns a middleware guarding the admin reindex surface with a
// shared secret header.
func ReindexKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(reindexKeyHeader)
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			response.Unauthorized(c, "invalid api key")
			return
		}
		c.Next()
	}
}
