package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/slidecraft/deck-decomposer/config"
	svc "github.com/slidecraft/deck-decomposer/internal/service/decompose"
	"github.com/slidecraft/deck-decomposer/pkg/logger"
	"github.com/slidecraft/deck-decomposer/pkg/worker"
)

func main() {
	appCfg := config.GetAppConfig()

	log, err := logger.NewLogger(
		logger.WithLevel(appCfg.LogLevel),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	decomposeService, err := svc.GetService(log)
	if err != nil {
		log.Error("Failed to create decompose service", logger.Error(err))
		os.Exit(1)
	}

	workerCfg := &worker.Config{
		RedisAddr:   appCfg.RedisAddr,
		RedisDB:     appCfg.RedisDB,
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	decomposeWorker, err := worker.NewDecomposeWorker(workerCfg, decomposeService, log)
	if err != nil {
		log.Error("Failed to create decompose worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := decomposeWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	decomposeWorker.Stop()
	log.Info("Worker stopped")
}
