package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/duccv/webconf-gate/config"
	"github.com/duccv/webconf-gate/pkg/logger"
	"github.com/duccv/webconf-gate/pkg/server"
)

func main() {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.New(env.LoggerConfig)
	zap.ReplaceGlobals(zapLogger)
	defer zapLogger.Sync()

	config.PrintStartupConfig(env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, env)
	if err != nil {
		zap.L().Fatal("Failed to build application", zap.Error(err))
	}

	if err := app.Run(ctx); err != nil {
		zap.L().Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	zap.L().Info("Server stopped")
}
