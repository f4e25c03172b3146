package middleware

import (
	"github.com/gin-gonic/gin"
)

// forwardedHeaders are consulted in order, and only when the peer is a trusted proxy.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// TrustProxies makes gin honour forwarding headers from the given IPs or
// CIDRs only. An empty list means every request is keyed on its peer address.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = forwardedHeaders
	if len(proxies) == 0 {
		return r.SetTrustedProxies(nil)
	}
	return r.SetTrustedProxies(proxies)
}

// RealIP stores the client address under "real_ip" for the rate limiter and
// the handlers.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
