// Package gormdb 基于GORM的仓储实现
// 支持mysql、postgres、sqlite三种驱动，SQL只使用三者共有的语法
package gormdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// sqliteDriverName 注册了Unicode LOWER()的sqlite3驱动
const sqliteDriverName = "sqlite3_bookshelf"

// SQLite内置的LOWER()只处理ASCII，搜索"é"匹配不到"É"。
// 每个连接建立时用strings.ToLower覆盖lower(X)，与查询词的小写规则一致；
// MySQL(utf8mb4)和PostgreSQL(UTF8)的LOWER()本身支持Unicode
func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// NewDB 创建数据库连接
// 设计说明：
// 1. 按database.driver选择驱动，DSN由配置生成
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. debug模式下SQL日志写入zap
// 4. database.auto_migrate为true时启动即迁移；生产环境使用`bookshelf migrate`
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := Open(cfg.Database, cfg.Server.Mode == "debug", log)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// Open 按驱动打开连接并检查连通性
func Open(cfg config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	// 1. 选择驱动
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: cfg.DSN()})
	case config.DriverMySQL, "":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info // 开发环境打印SQL
	}
	gormLogger := logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true, // 唯一索引冲突统一翻译为gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", dialector.Name()))
	return db, nil
}

// AutoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
// 2. 顺序有要求：被外键引用的表先创建
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CategoryModel{},
		&UserModel{},
		&ProfileModel{},
		&BookModel{},
		&BookLikeModel{},
	)
}
