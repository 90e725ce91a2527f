package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	exposeHeaders = "Content-Disposition, X-Request-ID"
)

// New returns CORS middleware for the tournament front-end. An empty list allows any origin.
// Entries of the form "https://*.example.org" match any subdomain.
func New(allowedOrigins []string) gin.HandlerFunc {
	exact := make(map[string]struct{}, len(allowedOrigins))
	var suffixes []string
	for _, origin := range allowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if scheme, host, ok := strings.Cut(origin, "://*."); ok {
			suffixes = append(suffixes, scheme+"://", "."+host)
			continue
		}
		exact[origin] = struct{}{}
	}
	allowAll := len(allowedOrigins) == 0

	allowed := func(origin string) bool {
		if allowAll {
			return true
		}
		origin = strings.TrimRight(origin, "/")
		if _, ok := exact[origin]; ok {
			return true
		}
		for i := 0; i < len(suffixes); i += 2 {
			if strings.HasPrefix(origin, suffixes[i]) && strings.HasSuffix(origin, suffixes[i+1]) {
				return true
			}
		}
		return false
	}

	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		if origin != "" && allowed(origin) {
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Expose-Headers", exposeHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			header.Set("Access-Control-Allow-Headers", allowHeaders)
			header.Set("Access-Control-Allow-Methods", allowMethods)
			header.Set("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
