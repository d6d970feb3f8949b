package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/filmday-backend-go/internal/auth"
	"github.com/jengzang/filmday-backend-go/pkg/response"
)

const claimsKey = "claims"

// Auth requires a valid bearer token and stores its claims on the context
func Auth(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, response.MsgUnauthorized)
			return
		}

		claims, err := jwt.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			response.Unauthorized(c, response.MsgUnauthorized)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the claims stored by Auth
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
