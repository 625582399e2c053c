package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/workbin-dev/workbin/internal/auth"
	"github.com/workbin-dev/workbin/internal/store"
	"github.com/workbin-dev/workbin/internal/types"
)

type AuthenticatedUser struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	FullName string  `json:"full_name"`
}

func unauthorized(ctx *gin.Context, message string) {
	ctx.Header("WWW-Authenticate", "Bearer")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// AuthMiddleware resolves the request's bearer token into an active user
// and places it in the context. No protected handler runs before it
// succeeds.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			unauthorized(ctx, "Authorization token is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(ctx, "Authorization header format must be Bearer {token}")
			return
		}

		username, err := auth.VerifyToken(parts[1])

		if err != nil {
			unauthorized(ctx, "Invalid or expired token")
			return
		}

		user, err := store.FindUser(username)

		if err != nil {
			unauthorized(ctx, "Invalid or expired token")
			return
		}

		if user.Disabled {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Inactive user"})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			FullName: user.FullName,
		})
		ctx.Next()
	}
}
