package main

import (
	"github.com/spf13/cobra"

	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
)

// newMigrateCmd 手动执行表结构迁移(生产环境关闭database.auto_migrate时使用)
func newMigrateCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "迁移数据库表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cleanupLog, err := env()
			if err != nil {
				return err
			}
			defer cleanupLog()

			db, err := gormdb.Open(cfg.Database, false, log)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			}()

			if err := gormdb.AutoMigrate(db); err != nil {
				return err
			}
			log.Info("数据库迁移完成")
			return nil
		},
	}
}
