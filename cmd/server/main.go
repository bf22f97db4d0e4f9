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

	"github.com/Lakindu24/TalentHub-Admin/config"
	"github.com/Lakindu24/TalentHub-Admin/internal/api/handler"
	"github.com/Lakindu24/TalentHub-Admin/internal/api/middleware"
	"github.com/Lakindu24/TalentHub-Admin/internal/api/router"
	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/repository"
	"github.com/Lakindu24/TalentHub-Admin/internal/scheduler"
	"github.com/Lakindu24/TalentHub-Admin/internal/service"
	"github.com/Lakindu24/TalentHub-Admin/pkg/database"
	applogger "github.com/Lakindu24/TalentHub-Admin/pkg/logger"
	"github.com/Lakindu24/TalentHub-Admin/pkg/qrtoken"
	"github.com/Lakindu24/TalentHub-Admin/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Attendance.Timezone),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	// 接口变量保持真正的 nil，避免 typed-nil
	var (
		store   service.SessionStore
		limiter middleware.RateLimiter
		redisCk handler.Checker
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，签到会话吊销、扫码去重与限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		store = rdb
		limiter = rdb
		redisCk = rdb.Ping
	}

	// 5. 业务时钟与签到令牌
	loc, err := cfg.Attendance.Location()
	if err != nil {
		logger.Fatal("业务时区无效", zap.Error(err))
	}
	clock := attendance.NewClock(loc)
	qrMgr := qrtoken.NewManager(&cfg.QR)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, clock, qrMgr, store, logger)
	health := handler.NewHealthHandler(
		map[string]handler.Checker{"database": sqlDB.PingContext},
		map[string]handler.Checker{"redis": redisCk},
	)
	h := handler.NewHandler(svc, health)

	// 7. 每日汇总定时任务
	sched, err := scheduler.New(cfg.Attendance.SummaryCron, svc.Summary, clock, logger)
	if err != nil {
		logger.Fatal("定时任务初始化失败", zap.String("cron", cfg.Attendance.SummaryCron), zap.Error(err))
	}
	sched.Start()

	// 8. 初始化路由
	engine := router.Setup(cfg, h, limiter, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	sched.Stop(ctx)

	// 关闭数据库连接
	sqlDB.Close()

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
