package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appError "github.com/meeton-app/meeton-server/internal/app_error"
)

func loggedUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}

func validatedBody[T any](c *gin.Context) T {
	return c.MustGet("validatedBody").(T)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		_ = c.Error(appError.NewAppError(400, "invalid "+name+" parameter"))
		c.Abort()
		return 0, false
	}

	return uint(value), true
}
