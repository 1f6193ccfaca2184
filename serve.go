package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"fintrack/config"
	"fintrack/router"
	"fintrack/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = a.log.Sync() }()

			// 命令行参数覆盖端口配置
			if port != "" {
				if !strings.HasPrefix(port, ":") {
					port = ":" + port
				}
				a.cfg.Server.Port = port
			}
			config.PrintConfig()
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	sweeper, err := session.StartSweeper(a.services.Sessions, session.DefaultSweepSpec, a.log)
	if err != nil {
		return err
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:              a.cfg.Server.Port,
		Handler:           router.SetupRouter(a.cfg, a.services, a.metrics, a.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("服务已启动",
			zap.String("addr", a.cfg.Server.Port),
			zap.String("backend", a.cfg.Backend),
			zap.String("swagger", a.cfg.Server.BaseURL+"/swagger/index.html"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
