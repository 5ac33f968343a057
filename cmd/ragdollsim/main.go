// Package main runs the headless ragdoll simulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/ragdoll/internal/config"
	"github.com/Faultbox/ragdoll/internal/logger"
	"github.com/Faultbox/ragdoll/internal/sim"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote config to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	code := run(cfg)
	logger.Sync()
	os.Exit(code)
}

func run(cfg *config.Config) int {
	logger.Info("=== Ragdoll Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := sim.New(cfg, logger.Named("sim"))
	if err != nil {
		logger.Error("failed to build simulation", zap.Error(err))
		return 1
	}

	var updates <-chan *config.Config
	if config.WatchEnabled() {
		w, err := config.Watch(ctx, config.Path(), logger.Named("config"))
		if err != nil {
			logger.Error("failed to watch config", zap.Error(err))
			return 1
		}
		logger.Info("watching config", zap.String("path", w.Path()))
		updates = w.Updates()
	}

	report, err := s.Run(ctx, updates)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", zap.Uint64("frames", report.Frames))
		return 0
	}
	if err != nil {
		logger.Error("simulation error", zap.Error(err))
		return 1
	}

	for _, t := range report.Transitions {
		logger.Sugar.Infof("%8.3fs  %s -> %s", t.At, t.From, t.To)
	}
	logger.Info("simulation closed normally", zap.Stringer("state", report.Final))
	return 0
}
