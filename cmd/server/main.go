package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tour-booking/backend/config"
	"tour-booking/backend/internal/api/handler"
	"tour-booking/backend/internal/api/router"
	"tour-booking/backend/internal/job"
	"tour-booking/backend/internal/repository"
	"tour-booking/backend/internal/service"
	"tour-booking/backend/pkg/database"
	"tour-booking/backend/pkg/jwt"
	applogger "tour-booking/backend/pkg/logger"
	"tour-booking/backend/pkg/ratelimit"
	"tour-booking/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("TOUR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log, "server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := database.RunMigrations(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，限流降级为进程内实现，请假锁不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)

	opts := service.Options{LeaveLockTTL: cfg.Feature.LeaveLockTTL}
	if cfg.Feature.LeaveLockEnabled {
		if rdb != nil {
			opts.LeaveLocker = rdb
		} else {
			logger.Warn("已开启请假锁但 Redis 不可用，请假申请将无锁执行")
		}
	}
	svc := service.NewService(repo, opts, logger)

	probes := []handler.Probe{{Name: "database", Ping: repo.Ping}}
	deps := router.Deps{}
	if rdb != nil {
		probes = append(probes, handler.Probe{Name: "redis", Ping: rdb.Ping})
		deps.Limiter = rdb
	} else {
		// 无 Redis 时退化为进程内限流
		deps.Limiter = ratelimit.NewLocal()
	}
	if cfg.Auth.Enabled {
		deps.JWT = jwt.NewManager(&cfg.Auth)
	}
	h := handler.NewHandler(cfg, svc, probes...)

	// 6. 定时任务
	scheduler := job.NewScheduler(repo, logger)
	if cfg.Job.ScheduleStatusEnabled {
		if err := scheduler.RegisterScheduleStatus(cfg.Job.ScheduleStatusSpec); err != nil {
			logger.Fatal("定时任务注册失败", zap.Error(err))
		}
	}
	scheduler.Start()

	// 7. 初始化路由
	engine := router.Setup(cfg, h, deps, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}
	scheduler.Stop(ctx)

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
