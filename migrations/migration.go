package main

import (
	"fmt"
	"gin-marketplace/infra"
	"gin-marketplace/logger"
	"os"

	"go.uber.org/zap"
)

func main() {
	infra.Initialize()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Env, cfg.LogLevel)

	db, err := infra.SetupDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to set up database", zap.Error(err))
	}
	if err := infra.MigrateMarketplace(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// セッション用のSQLiteデータベースのマイグレーション（Redis利用時は不要）
	if cfg.Session.Store == infra.SessionStoreSQLite {
		sessionDB, err := infra.SetupSessionDB(cfg)
		if err != nil {
			logger.Log.Fatal("Failed to set up session database", zap.Error(err))
		}
		if err := infra.MigrateSessions(sessionDB); err != nil {
			logger.Log.Fatal("Failed to migrate session database", zap.Error(err))
		}
	}
	logger.Log.Info("Migration completed")
}
