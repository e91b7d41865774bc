package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/handler"
	"github.com/meeton-app/meeton-server/internal/middleware"
	"github.com/meeton-app/meeton-server/internal/service"
)

func FriendsRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.FriendHandler{S: service.NewFriendService(dep)}

	r.Use(middleware.Auth(service.NewUserService(dep)))

	r.GET("/", h.GetFriendsHandler)
	r.POST("/request", middleware.ValidateBody[dto.SendFriendRequestRequest](), h.SendFriendRequestHandler)
	r.PUT("/request", middleware.ValidateBody[dto.RespondFriendRequestRequest](), h.RespondFriendRequestHandler)
	r.GET("/requests", h.GetFriendRequestsHandler)
	r.DELETE("/:userId", h.UnfriendHandler)
}
