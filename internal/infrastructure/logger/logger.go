package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
)

// New 根据日志配置创建zap Logger并替换全局Logger
// 设计说明：
// 1. format=json 适合生产环境接入ELK/Loki，console 适合本地开发
// 2. output 支持 stdout、stderr 或文件路径（追加写入）
// 3. 替换全局Logger后，pkg/response等不方便注入依赖的地方可以直接用zap.L()
// 返回的cleanup在进程退出前调用，刷新缓冲区
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("无效的日志级别: %s", cfg.Level)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	ws, closeFn, err := openOutput(cfg.Output)
	if err != nil {
		return nil, nil, err
	}

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}

	log := zap.New(zapcore.NewCore(encoder, ws, level), opts...)
	restore := zap.ReplaceGlobals(log)

	cleanup := func() {
		_ = log.Sync()
		restore()
		closeFn()
	}
	return log, cleanup, nil
}

func openOutput(output string) (zapcore.WriteSyncer, func(), error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), func() {}, nil
	case "stderr":
		return zapcore.Lock(os.Stderr), func() {}, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return zapcore.AddSync(f), func() { _ = f.Close() }, nil
	}
}
