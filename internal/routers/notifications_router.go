package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/handler"
	"github.com/meeton-app/meeton-server/internal/middleware"
	"github.com/meeton-app/meeton-server/internal/service"
)

func NotificationsRouter(r *gin.RouterGroup, dep *dependency.Dependency) {
	h := &handler.NotificationHandler{S: service.NewNotificationService(dep)}

	r.Use(middleware.Auth(service.NewUserService(dep)))

	r.GET("/", h.GetNotificationsHandler)
	r.PUT("/:id/read", h.MarkNotificationReadHandler)
	// PUT on the collection marks everything read.
	r.PUT("/", h.MarkAllNotificationsReadHandler)
}
