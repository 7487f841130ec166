package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses rate limits for loopback and private addresses
// (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// RequirePrivateIP only lets loopback and private peers through. It guards
// operator endpoints such as /debug/vars, so it checks the socket address
// and ignores forwarding headers.
func RequirePrivateIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		parsed := net.ParseIP(c.RemoteIP())
		if parsed == nil || !(parsed.IsLoopback() || parsed.IsPrivate()) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}
