package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/app"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/config"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/logger"
	"github.com/postech-5soat-grupo-25/tech-challenge-usuario-cliente/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server stopped with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: cfg.App.Name})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("starting",
		zap.String("env", cfg.App.Env),
		zap.String("usuario_backend", cfg.Backends.Usuario),
		zap.String("cliente_backend", cfg.Backends.Cliente),
	)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Options{
		ListenAddr: cfg.Server.ListenAddr,
		AdminAddr:  cfg.Server.AdminAddr,
		Logger:     log,
		Gatherer:   a.Registry,
		Checks:     a.Checks,
	})

	if err := srv.Run(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
