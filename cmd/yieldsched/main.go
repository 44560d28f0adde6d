package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"coopq/internal/job"
	"coopq/internal/sched"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML configuration")
	flag.Parse()

	// Read the configuration
	cfg, err := sched.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	demo, err := job.LoadDemo(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s := sched.New(sched.WithLogger(logger))
	if cfg.EventLog != "" {
		if err := s.EnableCSVLogging(cfg.EventLog); err != nil {
			logger.Fatal("cannot open event log", zap.String("path", cfg.EventLog), zap.Error(err))
		}
	}

	tid := s.NewTask(job.Parent(os.Stdout, demo.Iterations, demo.KillAt))
	logger.Info("scheduler starting", zap.Uint64("task_id", uint64(tid)))

	// kill_at 0 keeps the child alive forever; interrupt stops the loop.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.RunContext(ctx); err != nil {
		logger.Warn("scheduler interrupted", zap.Error(err))
	}

	logger.Info("scheduler stopped",
		zap.Int64("turns", s.Turn()),
		zap.Int("residual_tasks", len(s.Tasks())))
	if err := s.Close(); err != nil {
		logger.Error("close failed", zap.Error(err))
	}
}

func newLogger(cfg sched.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.LogFormat == "json" {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
