package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"studysphere-alert/internal/config"
	logpkg "studysphere-alert/internal/logger"
	"studysphere-alert/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// ログ初期化
	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, "studysphere-alert")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting studysphere-alert service")

	// サービス生成
	svc, err := service.NewAlertService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create alert service", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// システムシグナルを監視
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := svc.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		log.Error("Service error", zap.Error(err))
		cancel()
	}

	if err := svc.Stop(ctx); err != nil {
		log.Error("Error stopping service", zap.Error(err))
	}

	log.Info("Service stopped")
}
