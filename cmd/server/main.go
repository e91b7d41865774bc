package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dependency"
	"github.com/meeton-app/meeton-server/internal/dto"
	"github.com/meeton-app/meeton-server/internal/routers"
	"github.com/meeton-app/meeton-server/internal/util"
)

// @title MeetOn API
// @version 1.0
// @description Social event scheduling service
// @BasePath /api
func main() {
	// config
	_ = godotenv.Load()

	logger := util.GetLogger(slog.LevelInfo)

	// init dependency
	dep, err := dependency.InitDependency(logger)
	if err != nil {
		logger.Error("failed to init dependencies", "err", err)
		os.Exit(1)
	}
	defer db.CloseDB(dep.DB, dep.Logger)
	defer db.CloseRedis(dep.Redis, dep.Logger)

	// validator
	dto.InitValidator()

	// router
	r := routers.SetupRouter(dep)
	routers.UsersRouter(r.Group("/api/users"), dep)
	routers.FriendsRouter(r.Group("/api/friends"), dep)
	routers.EventsRouter(r.Group("/api/events"), dep)
	routers.NotificationsRouter(r.Group("/api/notifications"), dep)

	// Health check
	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Swagger
	r.GET("/api/docs/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	if err := r.Run(":" + dep.Cfg.Port); err != nil {
		dep.Logger.Error("failed to start server", "err", err)
		os.Exit(1)
	}
}
