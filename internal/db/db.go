package db

import (
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func GetDB(dbAddress string, logger *slog.Logger) (*gorm.DB, error) {
	myDB, err := gorm.Open(sqlite.Open(dbAddress), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	myDB.Exec("PRAGMA foreign_keys = ON")

	for _, model := range AllModels() {
		if err := myDB.AutoMigrate(model); err != nil {
			return nil, err
		}
	}

	logger.Info("connected to db", "address", dbAddress)
	return myDB, nil
}

func CloseDB(myDB *gorm.DB, logger *slog.Logger) {
	if myDB == nil {
		return
	}

	sqlDB, err := myDB.DB()
	if err != nil {
		logger.Error("failed to get db instance", "err", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("failed to close db", "err", err)
		return
	}

	logger.Info("db connection closed")
}
