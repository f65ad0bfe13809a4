package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fonuscebu/coop-admin-api/internal/service"
	appErrors "github.com/fonuscebu/coop-admin-api/pkg/errors"
	"github.com/fonuscebu/coop-admin-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// AuthCookieName is the session cookie carrying the access token for
// browser clients.
const AuthCookieName = "auth_token"

// JWT protects routes by requiring a valid access token from either the
// Authorization header or the session cookie.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(AuthCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
