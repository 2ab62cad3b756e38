package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookshelf/docs" // swagger文档
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/tracing"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

func newServeCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cleanupLog, err := env()
			if err != nil {
				return err
			}
			defer cleanupLog()

			// 1. 指标、校验规则、链路追踪
			metrics.InitMetrics()
			validator.Setup()
			if cfg.Tracing.Enabled {
				shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
				if err != nil {
					return err
				}
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
					defer cancel()
					if err := shutdown(ctx); err != nil {
						log.Warn("关闭TracerProvider失败", zap.Error(err))
					}
				}()
			}

			// 2. 依赖注入(wire生成)
			engine, cleanup, err := InitializeApp(cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := &http.Server{
				Addr:         cfg.Server.Addr(),
				Handler:      engine,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			// 3. 启动服务，收到SIGINT/SIGTERM后优雅关闭
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("HTTP服务启动", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("正在优雅关闭服务...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Info("服务已关闭")
			return nil
		},
	}
}
