package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Krimson/reelspin/internal/logging"
	"github.com/Krimson/reelspin/simulator/internal/config"
	"github.com/Krimson/reelspin/simulator/internal/emulator"
	"github.com/Krimson/reelspin/simulator/internal/senders"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	zapLogger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] Failed to create logger: %v\n", err)
		os.Exit(2)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	sender, err := senders.NewFileSender(cfg.Output.FilePath)
	if err != nil {
		logger.Fatalf("[FATAL] Failed to initialize sender: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emu, err := emulator.NewEmulator(cfg.Emulator, cfg.Profile, sender, logger)
	if err != nil {
		sender.Close()
		logger.Fatalf("[FATAL] Failed to create emulator: %v", err)
	}

	result, runErr := emu.Run(ctx)
	if err := sender.Close(); err != nil {
		logger.Errorf("[ERROR] Failed to close output: %v", err)
	}

	stats := sender.GetStats()
	logger.Infof("[INFO] Output %s: %d lines, %d bytes", sender.FilePath(), stats.TotalLines, stats.TotalBytes)

	if runErr != nil {
		logger.Errorf("[ERROR] Simulation failed after %d frames: %v", result.Frames, runErr)
		zapLogger.Sync()
		os.Exit(1)
	}
}
