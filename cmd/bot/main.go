package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/milena-kos/good-morning/internal/app"
	"github.com/milena-kos/good-morning/internal/config"
	"github.com/milena-kos/good-morning/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config failures happen before the logger exists.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Sync on stderr fails on some platforms; there is nothing to do about it.
	defer func() { _ = log.Sync() }()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
