package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/handler"
	"github.com/meeton-app/meeton-server/internal/middleware"
	"github.com/meeton-app/meeton-server/internal/service"
)

func UsersRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	userService := service.NewUserService(dep)
	h := &handler.UserHandler{S: userService}

	// Public endpoints
	r.POST("/", middleware.ValidateBody[dto.CreateUserRequest](), h.CreateUserHandler)
	r.POST("/loginByIdentifier", middleware.ValidateBody[dto.LoginUserRequest](), h.LoginUserHandler)
	r.POST("/2fa", middleware.ValidateBody[dto.TwoFAChallengeRequest](), h.TwoFaSubmitHandler)
	r.GET("/google/login", h.GoogleLoginHandler)
	r.GET("/google/callback", h.GoogleCallbackHandler)

	// Authenticated endpoints
	auth := r.Group("")
	auth.Use(middleware.Auth(userService))

	auth.GET("/me", h.GetLoggedUserProfileHandler)
	auth.PUT("/password", middleware.ValidateBody[dto.UpdateUserPasswordRequest](), h.UpdateLoggedUserPasswordHandler)
	auth.PUT("/me", middleware.ValidateBody[dto.UpdateUserRequest](), h.UpdateLoggedUserProfileHandler)
	auth.DELETE("/logout", h.LogoutUserHandler)
	auth.DELETE("/me", h.DeleteLoggedUserHandler)

	auth.POST("/2fa/setup", h.StartTwoFaSetupHandler)
	auth.POST("/2fa/confirm", middleware.ValidateBody[dto.TwoFAConfirmRequest](), h.ConfirmTwoFaSetupHandler)
	auth.PUT("/2fa/disable", middleware.ValidateBody[dto.DisableTwoFARequest](), h.DisableTwoFaHandler)

	auth.GET("/", h.GetUsersWithLimitedInfoHandler)
	auth.GET("/username/:username", h.GetUserByUsernameHandler)
}
