package testutil

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/meeton-app/meeton-server/internal/config"
	model "github.com/meeton-app/meeton-server/internal/db"
	"github.com/meeton-app/meeton-server/internal/dependency"
)

func NewTestConfig() *config.Config {
	return &config.Config{
		Port:                            "3003",
		JwtSecret:                       "test-secret",
		UserTokenExpiry:                 3600,
		OauthStateTokenExpiry:           600,
		GoogleClientId:                  "test-client-id",
		GoogleClientSecret:              "test-client-secret",
		GoogleRedirectUri:               "http://localhost:8080/callback",
		FrontendUrl:                     "http://localhost:3000",
		TwoFaIssuer:                     "MeetOn",
		TwoFaTokenExpiry:                600,
		RedisURL:                        "",
		IsRedisEnabled:                  false,
		RateLimiterDurationInSec:        60,
		RateLimiterRequestLimit:         1000,
		RateLimiterCleanupIntervalInSec: 300,
	}
}

func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// NewTestDB opens a per-test shared-cache in-memory SQLite database and
// migrates the full schema. The busy timeout and the single connection
// keep concurrent test writes from tripping over SQLITE_BUSY.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to db: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })
	}

	return db
}

// NewMiddlewareTestRouter mounts the given middleware chain in front of a
// trivial handler on /middleware-test, for GET and POST.
func NewMiddlewareTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	for _, h := range handlers {
		r.Use(h)
	}

	ok := func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	}
	r.GET("/middleware-test", ok)
	r.POST("/middleware-test", ok)

	return r
}

func NewTestDependency(cfg *config.Config, db *gorm.DB, redis *redis.Client, logger *slog.Logger) *dependency.Dependency {
	if cfg == nil {
		cfg = NewTestConfig()
	}
	if logger == nil {
		logger = NewTestLogger()
	}
	if redis != nil {
		cfg.IsRedisEnabled = true
		if cfg.RedisURL == "" {
			cfg.RedisURL = "redis://test"
		}
	}
	return dependency.NewDependency(cfg, db, redis, logger)
}
