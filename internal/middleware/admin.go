package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/suvam/portfolio/internal/auth"
)

// AdminMiddleware marks the request context as authorized when it carries
// valid admin credentials (key header or session cookie). It never aborts:
// unauthorized mutations are rejected by the service layer, which guarantees
// the check happens before any store call.
func AdminMiddleware(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.VerifyRequest(c.Request) {
			c.Request = c.Request.WithContext(auth.WithAdmin(c.Request.Context()))
		}
		c.Next()
	}
}
