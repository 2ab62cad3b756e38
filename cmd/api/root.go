package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/logger"
)

// newRootCmd 命令行入口
// 不带子命令时等同于serve
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Bookshelf图书目录服务",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径(默认config/config.yaml)")

	// 每个子命令都需要配置和日志，用闭包延迟到执行时加载
	env := func() (*config.Config, *zap.Logger, func(), error) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		log, cleanup, err := logger.New(cfg.Log)
		if err != nil {
			return nil, nil, nil, err
		}
		return cfg, log, cleanup, nil
	}

	serve := newServeCmd(env)
	root.RunE = serve.RunE
	root.AddCommand(
		serve,
		newMigrateCmd(env),
		newCategoryCmd(env),
		newEventsCmd(env),
	)
	return root
}

type envFunc func() (*config.Config, *zap.Logger, func(), error)

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
