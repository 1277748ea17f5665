package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"logify/internal/adapter/notification"
	"logify/internal/api/router"
	"logify/internal/pkg/config"
	"logify/internal/pkg/database"
	"logify/internal/pkg/logger"
	"logify/internal/repository"
	"logify/internal/scheduler"
	"logify/internal/service"

	_ "logify/docs" // Swagger docs
)

// @title Logify API
// @version 1.0
// @description 多租户项目、任务与工时管理 API

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const (
	appVersion = "1.0.0"
	appName    = "logify"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Logify 项目与工时管理服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径 (例如: -c configs/config.yaml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(configFile)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	})

	return cmd
}

// setup 加载配置并初始化日志与数据库
func setup(configFile string) (*config.Config, error) {
	// 优先级: 命令行参数 > 环境变量 > 默认路径
	configPath, source := getConfigPath(configFile)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	logger.Info(fmt.Sprintf("Load config file: %s of %s", configPath, source))

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver), zap.String("database", cfg.Database.Database))

	return cfg, nil
}

func migrate(configFile string) error {
	if _, err := setup(configFile); err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
		_ = logger.Close()
	}()

	if err := database.AutoMigrate(database.GetDB()); err != nil {
		return err
	}
	logger.Info("数据库迁移完成")
	return nil
}

func serve(configFile string) error {
	cfg, err := setup(configFile)
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
		_ = logger.Close()
	}()

	logger.Info(fmt.Sprintf("服务 %s 启动中...", appName), zap.String("version", appVersion))

	db := database.GetDB()
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}

	mailer, err := notification.NewMailer(&cfg.Mail, logger.Log)
	if err != nil {
		return fmt.Errorf("初始化邮件通道失败: %w", err)
	}
	logger.Info("邮件通道已就绪", zap.String("provider", mailer.Name()))

	// 初始化并启动定时任务调度器
	var taskScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		counterSvc := service.NewCounterService(db, repository.NewProjectRepository(db), repository.NewTaskRepository(db))
		taskScheduler = scheduler.NewScheduler(counterSvc, logger.Log)
		if err := taskScheduler.Start(&cfg.Scheduler); err != nil {
			logger.Warn("定时任务调度器启动失败", zap.Error(err))
			taskScheduler = nil
		}
	}

	// 设置路由
	r := router.Setup(cfg, db, mailer)

	var handler http.Handler = r
	if cfg.Server.H2C {
		handler = h2c.NewHandler(r, &http2.Server{})
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("%s 服务启动成功", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
			zap.Bool("h2c", cfg.Server.H2C),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		logger.Error("服务器启动失败", zap.Error(err))
		return err
	}

	logger.Info("服务正在关闭...")

	if taskScheduler != nil {
		taskScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
	return nil
}

// getConfigPath 获取配置文件路径及来源
// 优先级: 命令行参数 > 环境变量 > 默认路径
func getConfigPath(flagValue string) (string, string) {
	if flagValue != "" {
		return flagValue, "命令行参数"
	}
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		return envConfig, "环境变量"
	}
	return "configs/config.yaml", "默认路径"
}
