package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/duccv/webconf-gate/config"
)

type ctxKey string

// correlationIDKey is the context key holding the correlation id of a request.
const correlationIDKey ctxKey = "correlationId"

// New builds the process logger: colored console output outside production, JSON in
// production, plus a rotating JSON file when a file path is configured.
func New(cfg config.LoggerConfig) *zap.Logger {
	level := getLogLevel(cfg.Level, cfg.Environment)

	prodEncoderCfg := zap.NewProductionEncoderConfig()
	prodEncoderCfg.TimeKey = "timestamp"
	prodEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	prodEncoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	devEncoderCfg := zap.NewDevelopmentEncoderConfig()
	devEncoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	devEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	var cores []zapcore.Core

	if cfg.FilePath != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodEncoderCfg), fileWriter, level))
	}

	stdout := zapcore.AddSync(os.Stdout)
	if cfg.Environment == "production" {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(prodEncoderCfg), stdout, level))
	} else {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(devEncoderCfg), stdout, level))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// getLogLevel parses the configured level. Production never logs below INFO.
func getLogLevel(levelStr string, env string) zap.AtomicLevel {
	level, err := zap.ParseAtomicLevel(levelStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Logger] ⚠️  Invalid log level '%s', fallback to INFO\n", levelStr)
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if env == "production" && level.Level() < zapcore.InfoLevel {
		fmt.Fprintf(
			os.Stderr,
			"[Logger] ⚠️  Log level '%s' not allowed in production. Fallback to INFO\n",
			levelStr,
		)
		return zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return level
}

// WithCorrelationID returns a context carrying the correlation id.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationID returns the id stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// FromContext returns the global logger annotated with the request's correlation id.
func FromContext(ctx context.Context) *zap.Logger {
	if id := CorrelationID(ctx); id != "" {
		return zap.L().With(zap.String("correlation_id", id))
	}
	return zap.L()
}

// WithComponent adds component information to the logger
func WithComponent(logger *zap.Logger, component string) *zap.Logger {
	return logger.With(zap.String("component", component))
}
