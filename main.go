package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fintrack/config"
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/observability"
	"fintrack/service"
	"fintrack/store"
	"fintrack/supabase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title FinTrack API
// @version 1.0
// @description 个人记账：类别、交易、仪表盘、区间报表与批量导入
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile string
	version    = "1.0.0"
)

// app 一次运行共享的依赖
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	metrics  *observability.Metrics
	store    store.Store
	services *service.Services
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fintrack",
		Short:         "Personal finance ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")

	serve := serveCmd()
	root.AddCommand(serve)
	root.AddCommand(importCmd())
	root.AddCommand(versionCmd())

	// 不带子命令时启动服务
	root.Flags().AddFlagSet(serve.Flags())
	root.RunE = serve.RunE
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fintrack v%s\n", version)
		},
	}
}

// setup 加载配置并按后端组装存储与服务
func setup() (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	log, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	st, err := openStore(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	metrics := observability.NewMetrics()
	middleware.InitJWT(cfg)
	return &app{
		cfg:      cfg,
		log:      log,
		metrics:  metrics,
		store:    st,
		services: service.NewServices(st, cfg, metrics, log),
	}, nil
}

func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Backend {
	case config.BackendSupabase:
		return supabase.New(&cfg.Supabase, log), nil
	case config.BackendMemory:
		log.Warn("使用内存存储，进程退出后数据丢失")
		return store.NewMemoryStore(), nil
	default:
		if err := database.Init(cfg, log); err != nil {
			return nil, fmt.Errorf("数据库初始化失败: %w", err)
		}
		return store.NewGormStore(database.DB), nil
	}
}
