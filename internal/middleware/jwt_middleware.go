package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/printhaus/printhaus_api/internal/utils"
)

// Context keys set after a back-office token is verified. Handlers use them
// for audit logging of admin actions.
const (
	CtxAdminID    = "admin_id"
	CtxAdminEmail = "admin_email"
)

// JWTMiddleware guards the back-office route group. Tokens are issued by the
// admin login and carry the admin's id and email.
type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(CtxAdminID, claims.UserID)
		c.Set(CtxAdminEmail, claims.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
