package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	"github.com/meeton-app/meeton-server/internal/service"
	"github.com/meeton-app/meeton-server/internal/util/jwt"
)

const PrefixBearer = "Bearer "

// Auth is the single session path: a bearer JWT checked against the token
// store (DB or Redis, per config). Handlers read "userID" from the context.
func Auth(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" || !strings.HasPrefix(authHeader, PrefixBearer) {
			_ = c.AbortWithError(401, appError.NewAppError(401, "Invalid or expired token"))
			return
		}

		tokenString := authHeader[len(PrefixBearer):]

		userJwtPayload, err := jwt.ValidateUserToken(userService.Dep, tokenString)
		if err != nil {
			_ = c.AbortWithError(401, appError.NewAppError(401, "Invalid or expired token"))
			return
		}

		if err := userService.ValidateUserToken(c.Request.Context(), tokenString, userJwtPayload.UserID); err != nil {
			_ = c.AbortWithError(401, appError.NewAppError(401, "Invalid or expired token"))
			return
		}

		c.Set("userID", userJwtPayload.UserID)
		c.Set("token", tokenString)

		c.Next()
	}
}
