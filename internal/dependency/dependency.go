package dependency

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/meeton-app/meeton-server/internal/config"
	"github.com/meeton-app/meeton-server/internal/db"
)

type Dependency struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Logger *slog.Logger
}

func NewDependency(cfg *config.Config, myDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) *Dependency {
	return &Dependency{
		Cfg:    cfg,
		DB:     myDB,
		Redis:  redisClient,
		Logger: logger,
	}
}

func InitDependency(logger *slog.Logger) (*Dependency, error) {
	cfg, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	myDB, err := db.GetDB(cfg.DbAddress, logger)
	if err != nil {
		return nil, err
	}

	redisClient, err := db.GetRedis(cfg.RedisURL, cfg, logger)
	if err != nil {
		return nil, err
	}

	return NewDependency(cfg, myDB, redisClient, logger), nil
}

func CloseDependency(dep *Dependency) {
	db.CloseDB(dep.DB, dep.Logger)
	db.CloseRedis(dep.Redis, dep.Logger)
}
