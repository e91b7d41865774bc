package middleware

import (
	"github.com/gin-gonic/gin"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
	"github.com/meeton-app/meeton-server/internal/dto"
)

func ValidateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.AbortWithError(400, appError.NewAppError(400, err.Error()))
			return
		}

		if err := dto.Validate.Struct(&body); err != nil {
			_ = c.AbortWithError(400, err)
			return
		}

		c.Set("validatedBody", body)

		c.Next()
	}
}
