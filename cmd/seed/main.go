package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"tour-booking/backend/config"
	"tour-booking/backend/internal/repository"
	"tour-booking/backend/internal/seed"
	"tour-booking/backend/pkg/database"
	"tour-booking/backend/pkg/jwt"
	applogger "tour-booking/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("TOUR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log, "seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}()

	if err := database.RunMigrations(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := seed.Run(ctx, repository.NewRepository(db), logger)
	if err != nil {
		logger.Fatal("初始数据写入失败", zap.Error(err))
	}

	// 启用认证时为初始导游签发一个开发用 Token
	if cfg.Auth.Enabled {
		token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(res.Guide.ID, "guide")
		if err != nil {
			logger.Fatal("签发开发 Token 失败", zap.Error(err))
		}
		fmt.Printf("guide %s token: %s\n", res.Guide.ID, token)
	}
}
