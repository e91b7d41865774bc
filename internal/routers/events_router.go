package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/handler"
	"github.com/meeton-app/meeton-server/internal/middleware"
	"github.com/meeton-app/meeton-server/internal/service"
)

func EventsRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.EventHandler{S: service.NewEventService(dep)}

	r.Use(middleware.Auth(service.NewUserService(dep)))

	r.POST("/", middleware.ValidateBody[dto.CreateEventRequest](), h.CreateEventHandler)
	r.GET("/", h.GetEventsHandler)
	r.GET("/:id", h.GetEventHandler)
	r.PUT("/:id", middleware.ValidateBody[dto.UpdateEventRequest](), h.UpdateEventHandler)
	r.DELETE("/:id", h.DeleteEventHandler)

	r.POST("/:id/rsvp", middleware.ValidateBody[dto.UpsertRsvpRequest](), h.UpsertRsvpHandler)
	r.DELETE("/:id/rsvp", h.RemoveRsvpHandler)
	r.POST("/:id/invite", middleware.ValidateBody[dto.InviteUserRequest](), h.InviteUserHandler)

	r.POST("/:id/comments", middleware.ValidateBody[dto.CreateCommentRequest](), h.AddCommentHandler)
	r.GET("/:id/comments", h.GetCommentsHandler)
	r.DELETE("/:id/comments/:commentId", h.DeleteCommentHandler)
}
