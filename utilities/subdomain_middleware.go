package utilities

import (
	"github.com/gin-gonic/gin"
)

// SubdomainKey is the gin context key holding the tenant subdomain.
const SubdomainKey = "subdomain"

// SubdomainMiddleware stores the tenant subdomain taken from the Host
// header, or from X-Forwarded-Host behind a proxy, in the request context.
func SubdomainMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.GetHeader("X-Forwarded-Host")
		if host == "" {
			host = c.Request.Host
		}
		if sub := ExtractSubdomain(host); sub != "" {
			c.Set(SubdomainKey, sub)
		}
		c.Next()
	}
}

// RequestSubdomain returns the subdomain set by SubdomainMiddleware, falling
// back to the ?subdomain= query parameter.
func RequestSubdomain(c *gin.Context) string {
	if sub := c.GetString(SubdomainKey); sub != "" {
		return sub
	}
	return c.Query("subdomain")
}
